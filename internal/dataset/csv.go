package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"log/slog"

	"bearcart/internal/errors"
)

// ReadCSV reads an entire delimited text file into a Table. A missing file is
// a NOT_FOUND error; a present but empty file yields a zero-row table so the
// caller can proceed with degraded data.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(fmt.Sprintf("input file %s", path))
		}
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	name := tableName(path)

	header, err := reader.Read()
	if err == io.EOF {
		slog.Warn("input file is empty", slog.String("path", path))
		return NewTable(name, nil, nil), nil
	}
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read header of %s", path), err)
	}

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
		}
		rows = append(rows, record)
	}

	return NewTable(name, header, rows), nil
}

// tableName derives the logical table name from the file path, e.g.
// "data/raw/orders.csv" -> "orders".
func tableName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
