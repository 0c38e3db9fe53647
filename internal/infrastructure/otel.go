package infrastructure

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Telemetry bundles the OpenTelemetry meter provider and the metric
// instruments the pipeline and HTTP layer record into. Metrics are exported
// through a Prometheus registry scraped at /metrics.
type Telemetry struct {
	Registry      *prometheus.Registry
	meterProvider *sdkmetric.MeterProvider

	PipelineRuns     metric.Int64Counter
	PipelineDuration metric.Float64Histogram
	RowsDropped      metric.Int64Counter
	HTTPRequests     metric.Int64Counter
}

// NewTelemetry builds the meter provider with a Prometheus exporter and
// registers the application instruments.
func NewTelemetry(serviceName string) (*Telemetry, error) {
	registry := prometheus.NewRegistry()

	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)

	meter := provider.Meter(serviceName)

	t := &Telemetry{Registry: registry, meterProvider: provider}

	t.PipelineRuns, err = meter.Int64Counter("pipeline_runs_total",
		metric.WithDescription("Completed pipeline runs, by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_runs_total: %w", err)
	}

	t.PipelineDuration, err = meter.Float64Histogram("pipeline_run_duration_seconds",
		metric.WithDescription("Wall-clock duration of pipeline runs"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline_run_duration_seconds: %w", err)
	}

	t.RowsDropped, err = meter.Int64Counter("cleaning_rows_dropped_total",
		metric.WithDescription("Rows removed during cleaning, by table and reason"))
	if err != nil {
		return nil, fmt.Errorf("failed to create cleaning_rows_dropped_total: %w", err)
	}

	t.HTTPRequests, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("HTTP requests served, by path and status"))
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total: %w", err)
	}

	return t, nil
}

// RecordRun records one pipeline run outcome with its duration.
func (t *Telemetry) RecordRun(ctx context.Context, outcome string, seconds float64) {
	if t == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	t.PipelineRuns.Add(ctx, 1, attrs)
	t.PipelineDuration.Record(ctx, seconds, attrs)
}

// RecordRequest records one served HTTP request.
func (t *Telemetry) RecordRequest(ctx context.Context, method, path string, status int) {
	if t == nil {
		return
	}
	t.HTTPRequests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.Int("status", status),
	))
}

// RecordDropped records rows removed by a cleaner.
func (t *Telemetry) RecordDropped(ctx context.Context, table, reason string, count int) {
	if t == nil || count == 0 {
		return
	}
	t.RowsDropped.Add(ctx, int64(count), metric.WithAttributes(
		attribute.String("table", table),
		attribute.String("reason", reason),
	))
}

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.meterProvider == nil {
		return nil
	}
	return t.meterProvider.Shutdown(ctx)
}
