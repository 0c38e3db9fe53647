package dataset

import (
	"fmt"
	"os"

	"log/slog"

	"github.com/xuri/excelize/v2"

	"bearcart/internal/errors"
)

// ReadWorkbook reads the first non-empty sheet of an Excel workbook into a
// Table. Analysts occasionally hand the raw exports back as .xlsx copies, so
// the loader accepts workbooks wherever it accepts CSV.
func ReadWorkbook(path string) (*Table, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("input file %s", path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to open workbook %s", path), err)
	}
	defer f.Close()

	name := tableName(path)

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		if len(rows) == 0 {
			continue
		}

		slog.Debug("found data sheet in workbook",
			slog.String("path", path),
			slog.String("sheet", sheet),
			slog.Int("total_rows", len(rows)))

		if len(rows) == 1 {
			return NewTable(name, rows[0], nil), nil
		}
		return NewTable(name, rows[0], rows[1:]), nil
	}

	slog.Warn("workbook has no data sheets", slog.String("path", path))
	return NewTable(name, nil, nil), nil
}
