// Package pipeline orchestrates one end-to-end batch run: load the raw
// tables, clean them, assemble the master dataset, derive features, compute
// the dashboard metrics, and export the artifacts. The run is synchronous and
// single-threaded; each stage fully materializes its input before producing
// output, and the whole pipeline is re-run from scratch on every invocation.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"bearcart/internal/cleaning"
	"bearcart/internal/config"
	"bearcart/internal/dataset"
	"bearcart/internal/exporter"
	"bearcart/internal/features"
	"bearcart/internal/funnel"
	"bearcart/internal/infrastructure"
	"bearcart/internal/master"
	"bearcart/internal/metrics"
	"bearcart/pkg/contracts/domain"
)

// StepStatus represents the outcome of one pipeline step.
type StepStatus string

const (
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepResult records the outcome of one pipeline step for the run summary.
type StepResult struct {
	ID       string        `json:"id"`
	Status   StepStatus    `json:"status"`
	Duration time.Duration `json:"duration"`
	Error    string        `json:"error,omitempty"`
}

// Result is the complete output of one pipeline run.
type Result struct {
	RunID     string           `json:"run_id"`
	StartedAt time.Time        `json:"started_at"`
	Duration  time.Duration    `json:"duration"`
	Steps     []StepResult     `json:"steps"`
	Report    *cleaning.Report `json:"report"`
	Dashboard domain.Dashboard `json:"-"`

	Sessions []domain.Session      `json:"-"`
	Orders   []domain.Order        `json:"-"`
	Items    []domain.OrderItem    `json:"-"`
	Refunds  []domain.Refund       `json:"-"`
	Products []domain.Product      `json:"-"`
	Master   []domain.MasterRecord `json:"-"`

	funnels []domain.SessionFunnel
}

// Runner wires the pipeline stages together.
type Runner struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *infrastructure.Telemetry

	loader   *dataset.Loader
	cleaner  *cleaning.Cleaner
	builder  *master.Builder
	engineer *features.Engineer
	engine   *metrics.Engine
	csv      *exporter.CSVWriter
	json     *exporter.JSONWriter
}

// NewRunner creates a runner for the configured data directories. Telemetry
// may be nil when no metrics endpoint is served.
func NewRunner(cfg *config.Config, logger *slog.Logger, telemetry *infrastructure.Telemetry) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		cfg:       cfg,
		logger:    logger,
		telemetry: telemetry,
		loader:    dataset.NewLoader(cfg.Paths.RawDir, logger),
		cleaner:   cleaning.NewCleaner(logger),
		builder:   master.NewBuilder(logger),
		engineer:  features.NewEngineer(logger),
		engine:    metrics.NewEngine(logger),
		csv:       exporter.NewCSVWriter(cfg.Paths.ProcessedDir, logger),
		json:      exporter.NewJSONWriter(cfg.Paths.ProcessedDir, logger),
	}
}

// Run executes the full pipeline once. Only a missing required input file
// halts the run; every row-level problem degrades the data and is recorded in
// the cleaning report.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Report:    cleaning.NewReport(),
	}
	result.Report.RunID = result.RunID

	ctx = infrastructure.WithTraceID(ctx, result.RunID)
	r.logger.InfoContext(ctx, "pipeline run starting",
		slog.String("run_id", result.RunID),
		slog.String("raw_dir", r.cfg.Paths.RawDir))

	err := r.execute(ctx, result)
	result.Duration = time.Since(result.StartedAt)

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	r.telemetry.RecordRun(ctx, outcome, result.Duration.Seconds())

	if err != nil {
		r.logger.ErrorContext(ctx, "pipeline run failed",
			slog.String("run_id", result.RunID),
			slog.String("error", err.Error()))
		return result, err
	}

	r.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", result.RunID),
		slog.Duration("duration", result.Duration),
		slog.Int("master_records", len(result.Master)),
		slog.Int("rows_dropped", result.Report.TotalRemoved()))

	return result, nil
}

func (r *Runner) execute(ctx context.Context, result *Result) error {
	if err := r.step(ctx, result, "clean", func() error { return r.clean(ctx, result) }); err != nil {
		return err
	}
	if err := r.step(ctx, result, "master", func() error { return r.buildMaster(ctx, result) }); err != nil {
		return err
	}
	if err := r.step(ctx, result, "metrics", func() error { return r.computeMetrics(ctx, result) }); err != nil {
		return err
	}
	return r.step(ctx, result, "export", func() error { return r.export(ctx, result) })
}

// step runs one stage and records its outcome.
func (r *Runner) step(ctx context.Context, result *Result, id string, fn func() error) error {
	start := time.Now()
	err := fn()

	sr := StepResult{ID: id, Status: StepStatusCompleted, Duration: time.Since(start)}
	if err != nil {
		sr.Status = StepStatusFailed
		sr.Error = err.Error()
	}
	result.Steps = append(result.Steps, sr)

	if err != nil {
		return fmt.Errorf("step %s: %w", id, err)
	}
	r.logger.InfoContext(ctx, "pipeline step completed",
		slog.String("step", id),
		slog.Duration("duration", sr.Duration))
	return nil
}

// clean loads and cleans all six raw tables. Cross-table validation runs in
// dependency order: orders need sessions, items and refunds need orders.
func (r *Runner) clean(ctx context.Context, result *Result) error {
	sessionsTable, err := r.loader.Load(dataset.TableSessions)
	if err != nil {
		return err
	}
	ordersTable, err := r.loader.Load(dataset.TableOrders)
	if err != nil {
		return err
	}
	productsTable, err := r.loader.Load(dataset.TableProducts)
	if err != nil {
		return err
	}
	itemsTable, err := r.loader.Load(dataset.TableItems)
	if err != nil {
		return err
	}
	refundsTable, err := r.loader.Load(dataset.TableRefunds)
	if err != nil {
		return err
	}
	pageviewsTable, err := r.loader.Load(dataset.TablePageviews)
	if err != nil {
		return err
	}

	var fragment cleaning.Fragment

	result.Sessions, fragment = r.cleaner.CleanSessions(ctx, sessionsTable)
	r.mergeFragment(ctx, result, fragment)

	result.Orders, fragment = r.cleaner.CleanOrders(ctx, ordersTable, result.Sessions)
	r.mergeFragment(ctx, result, fragment)

	result.Products, fragment = r.cleaner.CleanProducts(ctx, productsTable)
	r.mergeFragment(ctx, result, fragment)

	result.Items, fragment = r.cleaner.CleanOrderItems(ctx, itemsTable, result.Orders, result.Products)
	r.mergeFragment(ctx, result, fragment)

	result.Refunds, fragment = r.cleaner.CleanRefunds(ctx, refundsTable, result.Orders)
	r.mergeFragment(ctx, result, fragment)

	pageviews, fragment := r.cleaner.CleanPageviews(ctx, pageviewsTable)
	r.mergeFragment(ctx, result, fragment)

	result.funnels = funnel.Aggregate(pageviews)

	return nil
}

func (r *Runner) mergeFragment(ctx context.Context, result *Result, fragment cleaning.Fragment) {
	result.Report.Merge(fragment)
	for reason, count := range fragment.Removed {
		r.telemetry.RecordDropped(ctx, fragment.Table, reason, count)
	}
}

func (r *Runner) buildMaster(ctx context.Context, result *Result) error {
	records := r.builder.Build(ctx, result.Sessions, result.Orders, result.Refunds, result.funnels)
	result.Master = r.engineer.Enrich(ctx, records, result.Orders, result.Items, result.Refunds)
	return nil
}

func (r *Runner) computeMetrics(ctx context.Context, result *Result) error {
	result.Dashboard = r.engine.Dashboard(ctx, result.Master, result.Items)
	return nil
}

func (r *Runner) export(_ context.Context, result *Result) error {
	if err := r.csv.WriteSessions(result.Sessions); err != nil {
		return err
	}
	if err := r.csv.WriteOrders(result.Orders); err != nil {
		return err
	}
	if err := r.csv.WriteItems(result.Items); err != nil {
		return err
	}
	if err := r.csv.WriteRefunds(result.Refunds); err != nil {
		return err
	}
	if err := r.csv.WriteProducts(result.Products); err != nil {
		return err
	}
	if err := r.csv.WriteMaster(result.Master); err != nil {
		return err
	}
	if err := r.json.WriteDashboard(result.Dashboard); err != nil {
		return err
	}
	return r.json.WriteReport(result.Report)
}
