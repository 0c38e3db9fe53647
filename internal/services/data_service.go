// Package services exposes the pipeline outputs to the transport layer.
package services

import (
	"context"
	"strings"
	"sync"
	"time"

	"log/slog"

	"bearcart/internal/cleaning"
	"bearcart/internal/pipeline"
	"bearcart/pkg/contracts/domain"
)

// DataService runs the analytics pipeline and caches the outputs of the most
// recent successful run for the HTTP handlers. Runs are serialized; the
// pipeline is batch and rebuilt in full each time.
type DataService struct {
	runner *pipeline.Runner
	logger *slog.Logger

	mu   sync.RWMutex
	last *pipeline.Result
}

// NewDataService creates a data service around the given runner.
func NewDataService(runner *pipeline.Runner, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{runner: runner, logger: logger}
}

// Refresh re-runs the whole pipeline and replaces the cached outputs on
// success. Identical inputs produce identical outputs.
func (s *DataService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.runner.Run(ctx)
	if err != nil {
		return err
	}
	s.last = result
	return nil
}

// Ready reports whether at least one pipeline run has completed.
func (s *DataService) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last != nil
}

// Dashboard returns the cached dashboard document. The ok result is false
// when no run has completed yet.
func (s *DataService) Dashboard() (domain.Dashboard, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return domain.Dashboard{}, false
	}
	return s.last.Dashboard, true
}

// MetricGroup returns one named KPI group from the cached dashboard.
func (s *DataService) MetricGroup(name string) (interface{}, bool) {
	dashboard, ok := s.Dashboard()
	if !ok {
		return nil, false
	}

	switch strings.ToLower(name) {
	case "traffic":
		return dashboard.Traffic, true
	case "conversion":
		return dashboard.Conversion, true
	case "revenue":
		return dashboard.Revenue, true
	case "quality":
		return dashboard.Quality, true
	case "products":
		return dashboard.Products, true
	default:
		return nil, false
	}
}

// Report returns the cleaning report of the last run.
func (s *DataService) Report() (*cleaning.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, false
	}
	return s.last.Report, true
}

// RunSummary describes the most recent pipeline run.
type RunSummary struct {
	RunID     string                `json:"run_id"`
	StartedAt time.Time             `json:"started_at"`
	Duration  string                `json:"duration"`
	Records   int                   `json:"master_records"`
	Steps     []pipeline.StepResult `json:"steps"`
}

// LastRun returns a summary of the most recent pipeline run.
func (s *DataService) LastRun() (RunSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return RunSummary{}, false
	}
	return RunSummary{
		RunID:     s.last.RunID,
		StartedAt: s.last.StartedAt,
		Duration:  s.last.Duration.String(),
		Records:   len(s.last.Master),
		Steps:     s.last.Steps,
	}, true
}
