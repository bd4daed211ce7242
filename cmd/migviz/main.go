// Command migviz cleans the UN international migrant stock and population
// estimates datasets and builds an interactive Vega-Lite dashboard from them.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"migviz/internal/config"
	"migviz/internal/infrastructure"
	"migviz/pkg/contracts"
)

// runtimeEnv is what every subcommand needs once configuration is loaded
type runtimeEnv struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	otel   *infrastructure.OTelProviders
}

type rootOptions struct {
	configFile string
	baseDir    string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	env := &runtimeEnv{}

	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Clean UN migration datasets and build a flow-map dashboard",
		Version:       contracts.GetFullVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
				return nil
			}
			return env.setup(cmd, opts)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return env.close(cmd.Context())
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (default: migviz.yaml or config.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.baseDir, "base-dir", "", "directory every relative input and output path resolves against")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")

	cmd.AddCommand(
		newCleanCmd(env),
		newBuildCmd(env),
		newServeCmd(env),
		newSnapshotCmd(env),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration, then initializes paths, logging and telemetry
func (e *runtimeEnv) setup(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return err
	}
	if opts.baseDir != "" {
		cfg.Inputs.BaseDir = opts.baseDir
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	paths, err := config.NewPaths(cfg)
	if err != nil {
		return err
	}
	if cfg.Logging.FilePath != "" && !filepath.IsAbs(cfg.Logging.FilePath) {
		cfg.Logging.FilePath = filepath.Join(paths.LogsDir, filepath.Base(cfg.Logging.FilePath))
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	paths.LogPathResolution(logger)

	otel, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	e.cfg, e.paths, e.logger, e.otel = cfg, paths, logger, otel
	cmd.SetContext(infrastructure.EnsureRunID(cmd.Context()))

	logger.InfoContext(cmd.Context(), "Starting "+config.AppName,
		slog.String("command", cmd.Name()),
		slog.String("version", contracts.Version),
		slog.String("base_dir", paths.BaseDir))
	return nil
}

// close flushes telemetry and the log file
func (e *runtimeEnv) close(ctx context.Context) error {
	if err := e.otel.Shutdown(context.WithoutCancel(ctx)); err != nil {
		e.logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
	}
	return infrastructure.CloseLogFile()
}
