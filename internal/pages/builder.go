package pages

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"migviz/internal/charts"
	"migviz/internal/config"
	"migviz/internal/dataprocessing"
	"migviz/internal/exporter"
	"migviz/internal/files"
	"migviz/internal/infrastructure"
	"migviz/internal/staticplot"
	"migviz/pkg/contracts/domain"
)

// Options control a dashboard build.
type Options struct {
	DefaultYear int
	StaticSVG   bool
}

// Result lists what a build wrote.
type Result struct {
	Pages []string
	Specs []string
	SVG   string
}

// Builder turns a cleaned dataset into the dashboard under the www
// directory.
type Builder struct {
	renderer *Renderer
	files    *files.Manager
	specs    *exporter.SpecWriter
	paths    *config.Paths
	otel     *infrastructure.OTelProviders
	logger   *slog.Logger
}

// NewBuilder creates a builder. otel may be nil.
func NewBuilder(paths *config.Paths, otel *infrastructure.OTelProviders, logger *slog.Logger) (*Builder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}
	fm := files.NewManager(paths, logger)
	return &Builder{
		renderer: renderer,
		files:    fm,
		specs:    exporter.NewSpecWriter(fm, logger),
		paths:    paths,
		otel:     otel,
		logger:   logger.With(slog.String("component", "pages")),
	}, nil
}

// Build writes one flow and one rate spec per stock year, the three pages
// embedding every spec, and optionally the static SVG.
func (b *Builder) Build(ctx context.Context, ds *dataprocessing.Dataset, opts Options) (res *Result, err error) {
	ctx, end := b.otel.StartStage(ctx, "build_pages")
	defer func() { end(err) }()

	if !domain.IsStockYear(opts.DefaultYear) {
		opts.DefaultYear = domain.StockYears[0]
	}

	flows, rates, err := b.buildSpecs(ctx, ds)
	if err != nil {
		return nil, err
	}

	res = &Result{}
	for _, year := range domain.StockYears {
		for _, c := range []struct {
			name string
			spec *charts.Spec
		}{{"flow", flows[year]}, {"rate", rates[year]}} {
			path := b.paths.GetSpecPath(c.name, year)
			if err := b.specs.WriteSpec(path, c.spec); err != nil {
				return nil, fmt.Errorf("build pages: %w", err)
			}
			b.otel.Pipeline().RecordFile(ctx, "spec")
			res.Specs = append(res.Specs, path)
		}
	}

	if opts.StaticSVG {
		svg, err := staticplot.RenderRates(ds.Estimates, staticplot.DefaultWidth, staticplot.DefaultHeight)
		if err != nil {
			return nil, fmt.Errorf("build pages: %w", err)
		}
		res.SVG = b.paths.GetStaticPath(config.RateSVGFile)
		if err := b.files.WriteFile(res.SVG, svg); err != nil {
			return nil, fmt.Errorf("build pages: %w", err)
		}
		b.otel.Pipeline().RecordFile(ctx, "svg")
	}

	pages, err := b.pageData(ds, opts, flows, rates, res.SVG)
	if err != nil {
		return nil, err
	}
	for _, page := range []string{config.IndexPage, config.CountryPage, config.RegionPage} {
		html, err := b.renderer.Render(page, pages[page])
		if err != nil {
			return nil, fmt.Errorf("build pages: %w", err)
		}
		path := b.paths.GetWWWPath(page)
		if err := b.files.WriteFile(path, html); err != nil {
			return nil, fmt.Errorf("build pages: %w", err)
		}
		b.otel.Pipeline().RecordFile(ctx, "page")
		res.Pages = append(res.Pages, path)
	}

	b.logger.InfoContext(ctx, "Dashboard built",
		slog.String("directory", b.paths.WWWDir),
		slog.Int("pages", len(res.Pages)),
		slog.Int("specs", len(res.Specs)))
	return res, nil
}

// buildSpecs builds both charts of every year concurrently.
func (b *Builder) buildSpecs(ctx context.Context, ds *dataprocessing.Dataset) (flows, rates map[int]*charts.Spec, err error) {
	flows = make(map[int]*charts.Spec, len(domain.StockYears))
	rates = make(map[int]*charts.Spec, len(domain.StockYears))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for _, year := range domain.StockYears {
		year := year
		g.Go(func() (err error) {
			_, end := b.otel.StartStage(gctx, "build_charts", attribute.Int("year", year))
			defer func() { end(err) }()

			if err := gctx.Err(); err != nil {
				return err
			}
			flow, err := charts.MigrationFlow(ds, year)
			if err != nil {
				return err
			}
			rate, err := charts.MigrationRate(ds, year)
			if err != nil {
				return err
			}

			mu.Lock()
			flows[year], rates[year] = flow, rate
			mu.Unlock()
			b.otel.Pipeline().RecordChart(gctx, "flow")
			b.otel.Pipeline().RecordChart(gctx, "rate")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("build charts: %w", err)
	}
	return flows, rates, nil
}

func (b *Builder) pageData(ds *dataprocessing.Dataset, opts Options, flows, rates map[int]*charts.Spec, svgPath string) (map[string]interface{}, error) {
	svgLink := ""
	if svgPath != "" {
		rel, err := b.files.GetRelativePath(svgPath)
		if err != nil {
			return nil, fmt.Errorf("build pages: %w", err)
		}
		svgLink = rel
	}

	dict := dataprocessing.CountriesDict(ds.Countries)
	years := domain.StockYears

	return map[string]interface{}{
		config.IndexPage: IndexData{
			Common:    b.renderer.Common("International Migration"),
			FirstYear: years[0],
			LastYear:  years[len(years)-1],
			StaticSVG: svgLink,
		},
		config.CountryPage: CountryData{
			Common:       b.renderer.Common("Migrant Flows by Country"),
			Years:        years,
			DefaultYear:  opts.DefaultYear,
			Specs:        yearKeys(flows),
			Countries:    CountryOptions(dict),
			CountryCodes: SearchKeys(dict),
			SearchParam:  charts.ParamCountrySearch,
		},
		config.RegionPage: RegionData{
			Common:      b.renderer.Common("Net Migration by Region"),
			Years:       years,
			DefaultYear: opts.DefaultYear,
			Specs:       yearKeys(rates),
			Summary:     ds.RateSummary,
		},
	}, nil
}
