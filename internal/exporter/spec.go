package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"migviz/internal/files"
)

// SpecWriter writes chart specifications as indented JSON.
type SpecWriter struct {
	files  *files.Manager
	logger *slog.Logger
}

// NewSpecWriter creates a spec writer.
func NewSpecWriter(fm *files.Manager, logger *slog.Logger) *SpecWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SpecWriter{files: fm, logger: logger}
}

// WriteSpec marshals spec and writes it to filePath.
func (w *SpecWriter) WriteSpec(filePath string, spec interface{}) error {
	data, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal spec %s: %w", filePath, err)
	}
	data = append(data, '\n')

	if err := w.files.WriteFile(filePath, data); err != nil {
		return err
	}
	w.logger.Debug("Wrote chart spec", slog.String("file_path", filePath))
	return nil
}
