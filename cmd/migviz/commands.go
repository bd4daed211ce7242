package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"migviz/internal/app"
	"migviz/internal/dataprocessing"
	"migviz/internal/exporter"
	"migviz/internal/files"
	"migviz/internal/pages"
	"migviz/internal/snapshot"
	"migviz/internal/validation"
	"migviz/pkg/contracts"
	"migviz/pkg/contracts/domain"
)

func newCleanCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean the source datasets into CSV tables",
		Long: `Read the migrant stock workbook, the population estimates workbook and
the country coordinates file, clean them, and write total_stock.csv,
sex_stock.csv, region_stock.csv, estimates.csv and rate_summary.csv to the
clean data directory. The written paths are printed one per line.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, written, err := env.clean(cmd.Context())
			if err != nil {
				return err
			}
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
}

func newBuildCmd(env *runtimeEnv) *cobra.Command {
	var year int
	var noSVG bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Clean the datasets and build the dashboard pages",
		Long: `Run the clean step, then write one flow and one rate chart spec per stock
year, the static net migration rate SVG, and the index, country and region
pages to the www directory.

Example: migviz build --year 2020`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("year") && !domain.IsStockYear(year) {
				return fmt.Errorf("--year must be one of %v", domain.StockYears)
			}
			if !cmd.Flags().Changed("year") {
				year = env.cfg.Output.DefaultYear
			}

			ds, _, err := env.clean(cmd.Context())
			if err != nil {
				return err
			}

			builder, err := pages.NewBuilder(env.paths, env.otel, env.logger)
			if err != nil {
				return err
			}
			res, err := builder.Build(cmd.Context(), ds, pages.Options{
				DefaultYear: year,
				StaticSVG:   env.cfg.Output.StaticSVG && !noSVG,
			})
			if err != nil {
				return err
			}
			for _, path := range res.Pages {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&year, "year", 0, "year the pages show first (default from config)")
	cmd.Flags().BoolVar(&noSVG, "no-svg", false, "skip the static net migration rate SVG")
	return cmd
}

func newServeCmd(env *runtimeEnv) *cobra.Command {
	var port int
	var open bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the built dashboard locally",
		Long: `Serve the www directory with health, spec listing and Prometheus metrics
endpoints until interrupted. Run migviz build first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("port") {
				env.cfg.Server.Port = port
			}
			server := app.NewApplication(env.cfg, env.paths, env.otel, env.logger)
			server.OpenBrowser = open
			return server.Run(cmd.Context())
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (default from config)")
	cmd.Flags().BoolVar(&open, "open", false, "open the dashboard in the default browser")
	return cmd
}

func newSnapshotCmd(env *runtimeEnv) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot [page...]",
		Short: "Capture PNG screenshots of the built pages with headless Chrome",
		Long: `Open each page in headless Chrome, wait for the charts to render and save a
full-page PNG under www/snapshots. Without arguments every page in the www
directory is captured.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			pageNames := args
			if len(pageNames) == 0 {
				found, err := files.NewDiscovery(env.paths.WWWDir).FindPages(env.paths.WWWDir)
				if err != nil {
					return fmt.Errorf("no pages to capture; run migviz build first: %w", err)
				}
				for _, f := range found {
					pageNames = append(pageNames, f.Name)
				}
			}
			if len(pageNames) == 0 {
				return fmt.Errorf("no pages found in %s; run migviz build first", env.paths.WWWDir)
			}

			written, err := snapshot.NewCapturer(env.cfg.Snapshot, env.paths, env.otel, env.logger).
				Capture(cmd.Context(), pageNames)
			for _, path := range written {
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return err
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
		},
	}
}

// clean validates the inputs, runs the processor and exports the tables
func (e *runtimeEnv) clean(ctx context.Context) (*dataprocessing.Dataset, []string, error) {
	validator := validation.NewFileValidator(e.logger)
	if err := validator.ValidateInputs(e.paths); err != nil {
		return nil, nil, err
	}
	for _, dir := range []string{e.paths.CleanDir, e.paths.WWWDir} {
		if err := validator.ValidateOutputDirectory(dir); err != nil {
			return nil, nil, err
		}
	}
	if err := e.paths.EnsureDirectories(); err != nil {
		return nil, nil, err
	}

	ds, err := dataprocessing.NewProcessor(e.cfg.Inputs, e.paths, e.logger, e.otel).Run(ctx)
	if err != nil {
		return nil, nil, err
	}

	fm := files.NewManager(e.paths, e.logger)
	tables := exporter.NewTableExporter(exporter.NewCSVWriter(fm, e.logger), e.paths, e.cfg.Output.BOMPrefix, e.otel, e.logger)
	written, err := tables.Export(ctx, ds)
	if err != nil {
		return nil, nil, err
	}

	e.logger.InfoContext(ctx, "Clean step finished",
		slog.String("directory", e.paths.CleanDir),
		slog.Int("tables", len(written)))
	return ds, written, nil
}
