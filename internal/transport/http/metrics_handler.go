// Package http contains the chi handlers exposing the precomputed pipeline
// outputs. The handlers serve cached data; all computation happens in the
// pipeline run.
package http

import (
	"net/http"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "bearcart/internal/errors"
	"bearcart/internal/services"
)

// MetricsHandler serves the dashboard KPI document and the cleaning report.
type MetricsHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewMetricsHandler creates a metrics handler.
func NewMetricsHandler(service *services.DataService, logger *slog.Logger) *MetricsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &MetricsHandler{service: service, logger: logger}
}

// Routes returns the router for the metrics endpoints.
func (h *MetricsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GetDashboard)
	r.Get("/{group}", h.GetGroup)
	return r
}

// GetDashboard returns all five KPI groups.
func (h *MetricsHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, ok := h.service.Dashboard()
	if !ok {
		render.Render(w, r, apierrors.ErrReportNotReady)
		return
	}
	render.JSON(w, r, dashboard)
}

// GetGroup returns one named KPI group: traffic, conversion, revenue,
// quality, or products.
func (h *MetricsHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "group")

	group, ok := h.service.MetricGroup(name)
	if !ok {
		if !h.service.Ready() {
			render.Render(w, r, apierrors.ErrReportNotReady)
			return
		}
		h.logger.WarnContext(r.Context(), "unknown metric group requested",
			slog.String("group", name))
		render.Render(w, r, apierrors.ErrGroupNotFound)
		return
	}
	render.JSON(w, r, group)
}

// ReportHandler serves the cleaning report and the run summary, and triggers
// pipeline refreshes.
type ReportHandler struct {
	service *services.DataService
	logger  *slog.Logger
}

// NewReportHandler creates a report handler.
func NewReportHandler(service *services.DataService, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{service: service, logger: logger}
}

// GetReport returns the cleaning report of the last pipeline run.
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	report, ok := h.service.Report()
	if !ok {
		render.Render(w, r, apierrors.ErrReportNotReady)
		return
	}
	render.JSON(w, r, report)
}

// GetLastRun returns a summary of the most recent pipeline run.
func (h *ReportHandler) GetLastRun(w http.ResponseWriter, r *http.Request) {
	summary, ok := h.service.LastRun()
	if !ok {
		render.Render(w, r, apierrors.ErrReportNotReady)
		return
	}
	render.JSON(w, r, summary)
}

// Refresh re-runs the whole pipeline. The run is synchronous; identical
// inputs yield identical outputs.
func (h *ReportHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "pipeline refresh failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.PipelineFailedError(err))
		return
	}

	summary, _ := h.service.LastRun()
	render.JSON(w, r, summary)
}
