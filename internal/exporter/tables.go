package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"migviz/internal/config"
	"migviz/internal/dataprocessing"
	"migviz/internal/infrastructure"
)

// TableExporter writes every cleaned table of a dataset to the clean data
// directory.
type TableExporter struct {
	csv    *CSVWriter
	paths  *config.Paths
	bom    bool
	otel   *infrastructure.OTelProviders
	logger *slog.Logger
}

// NewTableExporter creates a table exporter. otel may be nil.
func NewTableExporter(csv *CSVWriter, paths *config.Paths, bom bool, otel *infrastructure.OTelProviders, logger *slog.Logger) *TableExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TableExporter{csv: csv, paths: paths, bom: bom, otel: otel, logger: logger}
}

// Export writes total_stock, sex_stock, region_stock, estimates and
// rate_summary. It returns the written paths in that order.
func (e *TableExporter) Export(ctx context.Context, ds *dataprocessing.Dataset) (written []string, err error) {
	ctx, end := e.otel.StartStage(ctx, "export_tables")
	defer func() { end(err) }()

	tables := []struct {
		path string
		df   dataframe.DataFrame
	}{
		{e.paths.TotalStockCSV, ds.TotalStock},
		{e.paths.SexStockCSV, ds.SexStock},
		{e.paths.RegionStockCSV, ds.RegionStock},
		{e.paths.EstimatesCSV, ds.Estimates},
		{e.paths.RateSummaryCSV, dataprocessing.RateSummaryFrame(ds.RateSummary)},
	}

	for _, t := range tables {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := e.csv.WriteFrame(t.path, t.df, e.bom); err != nil {
			return written, fmt.Errorf("export tables: %w", err)
		}
		e.otel.Pipeline().RecordFile(ctx, "csv")
		written = append(written, t.path)
	}

	e.logger.InfoContext(ctx, "Cleaned tables exported",
		slog.String("directory", e.paths.CleanDir),
		slog.Int("files", len(written)))
	return written, nil
}
