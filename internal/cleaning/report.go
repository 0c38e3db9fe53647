package cleaning

import (
	"time"
)

// Removal reasons recorded in cleaning report fragments.
const (
	ReasonDuplicate          = "duplicate_key"
	ReasonInvalidID          = "invalid_id"
	ReasonInvalidDate        = "invalid_date"
	ReasonMissingValue       = "missing_value"
	ReasonNegativeValue      = "negative_value"
	ReasonOrphan             = "orphan"
	ReasonRefundExceedsOrder = "refund_exceeds_order"
)

// Fragment records what one cleaner removed from one table and why. It is the
// cleaner's only observable side effect besides the cleaned rows themselves.
type Fragment struct {
	Table   string         `json:"table"`
	RowsIn  int            `json:"rows_in"`
	RowsOut int            `json:"rows_out"`
	Removed map[string]int `json:"removed,omitempty"`
}

// NewFragment creates an empty fragment for the named table.
func NewFragment(table string) Fragment {
	return Fragment{Table: table, Removed: make(map[string]int)}
}

// Count increments the counter for the given removal reason.
func (f *Fragment) Count(reason string) {
	f.Removed[reason]++
}

// RemovedTotal returns the total number of rows removed across all reasons.
func (f Fragment) RemovedTotal() int {
	total := 0
	for _, n := range f.Removed {
		total += n
	}
	return total
}

// Report is the merged cleaning report for one pipeline run. Callers merge
// fragments explicitly; there is no shared mutable report state across
// cleaner calls.
type Report struct {
	RunID     string              `json:"run_id,omitempty"`
	StartedAt time.Time           `json:"started_at"`
	Tables    map[string]Fragment `json:"tables"`
}

// NewReport creates an empty report stamped with the current time.
func NewReport() *Report {
	return &Report{
		StartedAt: time.Now().UTC(),
		Tables:    make(map[string]Fragment),
	}
}

// Merge records a cleaner's fragment under its table name.
func (r *Report) Merge(f Fragment) {
	r.Tables[f.Table] = f
}

// TotalRemoved returns the number of rows dropped across all tables.
func (r *Report) TotalRemoved() int {
	total := 0
	for _, f := range r.Tables {
		total += f.RemovedTotal()
	}
	return total
}
