// Package cleaning validates and normalizes the raw event tables. Each
// cleaner takes one untyped row set, returns typed rows with no duplicate
// primary key, and reports per-reason removal counts in a Fragment. Cleaning
// never halts the pipeline; bad rows are dropped and counted.
package cleaning

import (
	"log/slog"
)

// Cleaner holds the cross-cutting dependencies shared by the per-table
// cleaning methods.
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner. A nil logger falls back to slog.Default.
func NewCleaner(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger}
}
