package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"log/slog"

	"bearcart/internal/errors"
)

// Raw table names as shipped in the source exports.
const (
	TableSessions  = "website_sessions"
	TablePageviews = "website_pageviews"
	TableOrders    = "orders"
	TableItems     = "order_items"
	TableRefunds   = "order_item_refunds"
	TableProducts  = "products"
)

// Loader resolves raw tables inside a single input directory. Each table may
// be encoded as delimited text or as an Excel workbook; the schema contract is
// by column name, not by file format.
type Loader struct {
	dir    string
	logger *slog.Logger
}

// NewLoader creates a loader rooted at the given raw-data directory.
func NewLoader(dir string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{dir: dir, logger: logger}
}

// Load reads the named table, preferring CSV and falling back to .xlsx. A
// table with neither encoding present is a NOT_FOUND error; the pipeline
// cannot proceed without its inputs.
func (l *Loader) Load(name string) (*Table, error) {
	csvPath := filepath.Join(l.dir, name+".csv")
	if _, err := os.Stat(csvPath); err == nil {
		table, err := ReadCSV(csvPath)
		if err != nil {
			return nil, err
		}
		l.logger.Info("loaded raw table",
			slog.String("table", name),
			slog.String("path", csvPath),
			slog.Int("rows", table.Len()))
		return table, nil
	}

	xlsxPath := filepath.Join(l.dir, name+".xlsx")
	if _, err := os.Stat(xlsxPath); err == nil {
		table, err := ReadWorkbook(xlsxPath)
		if err != nil {
			return nil, err
		}
		l.logger.Info("loaded raw table",
			slog.String("table", name),
			slog.String("path", xlsxPath),
			slog.Int("rows", table.Len()))
		return table, nil
	}

	return nil, errors.NewNotFoundError(fmt.Sprintf("raw table %s in %s", name, l.dir))
}
