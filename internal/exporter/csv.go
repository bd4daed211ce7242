package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"migviz/internal/files"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	files  *files.Manager
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance
func NewCSVWriter(fm *files.Manager, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{files: fm, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options, replacing any
// existing file.
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	var buf bytes.Buffer
	if options.BOMPrefix {
		buf.Write(utf8BOM)
	}

	writer := csv.NewWriter(&buf)
	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	if err := w.files.WriteFile(filePath, buf.Bytes()); err != nil {
		return err
	}

	w.logger.Info("Wrote CSV file",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(options.Records)))
	return nil
}

// WriteFrame writes df with its column names as the header row. Missing
// values become empty cells.
func (w *CSVWriter) WriteFrame(filePath string, df dataframe.DataFrame, bom bool) error {
	if df.Err != nil {
		return fmt.Errorf("write %s: %w", filePath, df.Err)
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   df.Names(),
		Records:   frameRecords(df),
		BOMPrefix: bom,
	})
}

func frameRecords(df dataframe.DataFrame) [][]string {
	nrow, ncol := df.Dims()
	records := make([][]string, nrow)
	for i := range records {
		records[i] = make([]string, ncol)
	}
	for j := 0; j < ncol; j++ {
		col := df.Col(df.Names()[j])
		for i := 0; i < nrow; i++ {
			records[i][j] = formatElement(col.Elem(i))
		}
	}
	return records
}
