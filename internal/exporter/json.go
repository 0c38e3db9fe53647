package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"log/slog"

	"bearcart/internal/cleaning"
	"bearcart/internal/errors"
	"bearcart/pkg/contracts/domain"
)

// JSONWriter writes JSON artifacts to the processed-data directory.
type JSONWriter struct {
	dir    string
	logger *slog.Logger
}

// NewJSONWriter creates a writer rooted at the processed-data directory.
func NewJSONWriter(dir string, logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{dir: dir, logger: logger}
}

func (w *JSONWriter) write(name string, payload interface{}) error {
	path := filepath.Join(w.dir, name)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to create %s", path), err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(payload); err != nil {
		return errors.NewStorageError(fmt.Sprintf("failed to encode %s", name), err)
	}

	w.logger.Info("wrote JSON file", slog.String("path", path))
	return nil
}

// WriteDashboard writes the dashboard KPI document with generation metadata.
func (w *JSONWriter) WriteDashboard(dashboard domain.Dashboard) error {
	return w.write("dashboard_metrics.json", map[string]interface{}{
		"metrics":      dashboard,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	})
}

// WriteReport writes the merged cleaning report for audit.
func (w *JSONWriter) WriteReport(report *cleaning.Report) error {
	return w.write("cleaning_report.json", report)
}
