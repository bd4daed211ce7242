package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/go-gota/gota/dataframe"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"migviz/internal/config"
	"migviz/internal/infrastructure"
)

// Dataset bundles every cleaned table of one run.
type Dataset struct {
	TotalStock  dataframe.DataFrame
	SexStock    dataframe.DataFrame
	RegionStock dataframe.DataFrame
	Estimates   dataframe.DataFrame
	Countries   dataframe.DataFrame
	RateSummary []RateSummary
}

// Processor reads the source files and runs every cleaner.
type Processor struct {
	inputs config.InputsConfig
	paths  *config.Paths
	logger *slog.Logger
	otel   *infrastructure.OTelProviders
}

// NewProcessor creates a processor. otel may be nil.
func NewProcessor(inputs config.InputsConfig, paths *config.Paths, logger *slog.Logger, otel *infrastructure.OTelProviders) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		inputs: inputs,
		paths:  paths,
		logger: logger.With(slog.String("component", "processor")),
		otel:   otel,
	}
}

// Run loads the inputs concurrently, then cleans them concurrently. The first
// failure cancels the rest and is returned; no partial dataset is produced.
func (p *Processor) Run(ctx context.Context) (ds *Dataset, err error) {
	ctx, end := p.otel.StartStage(ctx, "process")
	defer func() { end(err) }()

	var stock, estimates, countries dataframe.DataFrame

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stock, err = p.readSheet(gctx, "read_stock", p.paths.StockWorkbook, SheetOptions{
			Sheet:    p.inputs.StockSheet,
			SkipRows: p.inputs.StockSkipRows,
			Types:    StockColumnTypes,
		})
		return err
	})
	g.Go(func() error {
		var err error
		estimates, err = p.readSheet(gctx, "read_estimates", p.paths.EstimatesWorkbook, SheetOptions{
			Sheet:    p.inputs.EstimatesSheet,
			SkipRows: p.inputs.EstimatesSkipRows,
			Types:    EstimatesColumnTypes,
		})
		return err
	})
	g.Go(func() (err error) {
		sctx, end := p.otel.StartStage(gctx, "read_countries")
		defer func() { end(err) }()

		countries, err = LoadCountries(p.paths.CountriesCSV)
		if err != nil {
			return fmt.Errorf("load countries: %w", err)
		}
		p.logger.InfoContext(sctx, "countries loaded", slog.Int("rows", countries.Nrow()))
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds = &Dataset{Countries: countries}
	codes := CountryCodes(countries)

	g, gctx = errgroup.WithContext(ctx)
	p.clean(g, gctx, "total_stock", &ds.TotalStock, func() (dataframe.DataFrame, error) {
		return CleanTotalStock(stock, codes)
	})
	p.clean(g, gctx, "sex_stock", &ds.SexStock, func() (dataframe.DataFrame, error) {
		return CleanSexStock(stock, codes)
	})
	p.clean(g, gctx, "region_stock", &ds.RegionStock, func() (dataframe.DataFrame, error) {
		return CleanRegionStock(stock)
	})
	p.clean(g, gctx, "estimates", &ds.Estimates, func() (dataframe.DataFrame, error) {
		return CleanEstimates(estimates)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ds.RateSummary, err = SummarizeRates(ds.Estimates)
	if err != nil {
		return nil, fmt.Errorf("summarize rates: %w", err)
	}

	p.logger.InfoContext(ctx, "dataset ready",
		slog.Int("total_stock_rows", ds.TotalStock.Nrow()),
		slog.Int("sex_stock_rows", ds.SexStock.Nrow()),
		slog.Int("region_stock_rows", ds.RegionStock.Nrow()),
		slog.Int("estimates_rows", ds.Estimates.Nrow()),
		slog.Int("subregions", len(ds.RateSummary)))
	return ds, nil
}

func (p *Processor) readSheet(ctx context.Context, stage, path string, opts SheetOptions) (df dataframe.DataFrame, err error) {
	ctx, end := p.otel.StartStage(ctx, stage,
		attribute.String("workbook", path),
		attribute.String("sheet", opts.Sheet))
	defer func() { end(err) }()

	if err := ctx.Err(); err != nil {
		return dataframe.DataFrame{}, err
	}

	p.logger.InfoContext(ctx, "reading sheet", slog.String("workbook", path), slog.String("sheet", opts.Sheet))

	f, err := OpenWorkbook(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	df, err = ReadSheet(f, opts)
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("%s: %w", stage, err)
	}
	p.otel.Pipeline().RecordRowsRead(ctx, opts.Sheet, df.Nrow())

	p.logger.InfoContext(ctx, "sheet loaded",
		slog.String("sheet", opts.Sheet),
		slog.Int("rows", df.Nrow()),
		slog.Int("columns", df.Ncol()))
	return df, nil
}

// clean schedules one cleaner on g and stores its result in dst.
func (p *Processor) clean(g *errgroup.Group, ctx context.Context, table string, dst *dataframe.DataFrame, fn func() (dataframe.DataFrame, error)) {
	g.Go(func() (err error) {
		sctx, end := p.otel.StartStage(ctx, "clean_"+table, attribute.String("table", table))
		defer func() { end(err) }()

		if err := sctx.Err(); err != nil {
			return err
		}

		df, err := fn()
		if err != nil {
			return err
		}
		*dst = df

		if p.otel != nil {
			p.otel.Pipeline().RecordRows(sctx, table, df.Nrow())
		}
		p.logger.InfoContext(sctx, "table cleaned", slog.String("table", table), slog.Int("rows", df.Nrow()))
		return nil
	})
}
