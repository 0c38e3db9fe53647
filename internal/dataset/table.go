package dataset

import (
	"strconv"
	"strings"
	"time"
)

// Table is an untyped row set parsed from one tabular input file. Rows hold
// raw cell text; typed access goes through Row accessors so that every cell
// coercion shares one parsing policy.
type Table struct {
	Name    string
	Headers []string
	Rows    [][]string

	index map[string]int
}

// NewTable builds a table and indexes its header row. Header matching is
// case-insensitive and ignores surrounding whitespace.
func NewTable(name string, headers []string, rows [][]string) *Table {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[normalizeHeader(h)] = i
	}
	return &Table{
		Name:    name,
		Headers: headers,
		Rows:    rows,
		index:   index,
	}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(h))
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, bool) {
	idx, ok := t.index[normalizeHeader(name)]
	return idx, ok
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Row wraps one raw row with typed, forgiving accessors.
type Row struct {
	table *Table
	cells []string
}

// Row returns a typed accessor for row i.
func (t *Table) Row(i int) Row {
	return Row{table: t, cells: t.Rows[i]}
}

// String returns the trimmed cell text for the named column, or "" when the
// column is missing from the header or the row is short.
func (r Row) String(column string) string {
	idx, ok := r.table.Column(column)
	if !ok || idx >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[idx])
}

// Int64 parses the named cell as an integer. The ok result is false for
// missing or non-numeric cells. Thousands separators are tolerated.
func (r Row) Int64(column string) (int64, bool) {
	raw := r.String(column)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(strings.ReplaceAll(raw, ",", ""), 10, 64)
	if err != nil {
		// Some exports write integer IDs as "1.0"
		f, ferr := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if ferr != nil || f != float64(int64(f)) {
			return 0, false
		}
		return int64(f), true
	}
	return v, true
}

// Float64 parses the named cell as a float. The ok result is false for
// missing or non-numeric cells.
func (r Row) Float64(column string) (float64, bool) {
	raw := r.String(column)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// timeLayouts are the timestamp encodings accepted across all input tables.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

// Time parses the named cell as a timestamp. The ok result is false for
// missing or unparseable cells.
func (r Row) Time(column string) (time.Time, bool) {
	raw := r.String(column)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
