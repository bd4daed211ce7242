package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
)

// Paths contains all the application paths.
// This is the single source of truth for every file path the pipeline touches.
type Paths struct {
	BaseDir      string
	CleanDir     string
	WWWDir       string
	SpecsDir     string
	StaticDir    string
	SnapshotsDir string
	LogsDir      string

	// Inputs
	StockWorkbook     string
	EstimatesWorkbook string
	CountriesCSV      string

	// Cleaned tables
	TotalStockCSV  string
	SexStockCSV    string
	RegionStockCSV string
	EstimatesCSV   string
	RateSummaryCSV string
}

// NewPaths resolves every path in cfg against the inputs base directory.
// Absolute paths in cfg are kept as they are.
func NewPaths(cfg *Config) (*Paths, error) {
	base, err := filepath.Abs(cfg.Inputs.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base directory %q: %w", cfg.Inputs.BaseDir, err)
	}

	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(base, p)
	}

	cleanDir := resolve(cfg.Output.CleanDir)
	wwwDir := resolve(cfg.Output.WWWDir)

	logsDir := filepath.Join(base, DefaultLogsDir)
	if cfg.Logging.FilePath != "" {
		logsDir = filepath.Dir(resolve(cfg.Logging.FilePath))
	}

	return &Paths{
		BaseDir:      base,
		CleanDir:     cleanDir,
		WWWDir:       wwwDir,
		SpecsDir:     filepath.Join(wwwDir, SpecsSubdir),
		StaticDir:    filepath.Join(wwwDir, StaticSubdir),
		SnapshotsDir: filepath.Join(wwwDir, SnapshotsSubdir),
		LogsDir:      logsDir,

		StockWorkbook:     resolve(cfg.Inputs.StockWorkbook),
		EstimatesWorkbook: resolve(cfg.Inputs.EstimatesWorkbook),
		CountriesCSV:      resolve(cfg.Inputs.CountriesCSV),

		TotalStockCSV:  filepath.Join(cleanDir, TotalStockFile),
		SexStockCSV:    filepath.Join(cleanDir, SexStockFile),
		RegionStockCSV: filepath.Join(cleanDir, RegionStockFile),
		EstimatesCSV:   filepath.Join(cleanDir, EstimatesFile),
		RateSummaryCSV: filepath.Join(cleanDir, RateSummaryFile),
	}, nil
}

// EnsureDirectories creates all output directories if they don't exist
func (p *Paths) EnsureDirectories() error {
	directories := []string{
		p.CleanDir,
		p.WWWDir,
		p.SpecsDir,
		p.StaticDir,
	}

	for _, dir := range directories {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// GetWWWPath returns the path of a file in the www directory
func (p *Paths) GetWWWPath(filename string) string {
	return filepath.Join(p.WWWDir, filename)
}

// GetStaticPath returns the path of a static asset
func (p *Paths) GetStaticPath(filename string) string {
	return filepath.Join(p.StaticDir, filename)
}

// GetSpecPath returns the path of a chart spec, e.g. specs/flow_1990.json
func (p *Paths) GetSpecPath(chart string, year int) string {
	return filepath.Join(p.SpecsDir, chart+"_"+strconv.Itoa(year)+".json")
}

// GetSnapshotPath returns the path of a page screenshot
func (p *Paths) GetSnapshotPath(page string) string {
	return filepath.Join(p.SnapshotsDir, page+".png")
}

// Inputs returns the input files keyed by a human readable name
func (p *Paths) Inputs() map[string]string {
	return map[string]string{
		"stock_workbook":     p.StockWorkbook,
		"estimates_workbook": p.EstimatesWorkbook,
		"countries_csv":      p.CountriesCSV,
	}
}

// LogPathResolution logs path resolution information for debugging
func (p *Paths) LogPathResolution(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Path resolution summary",
		slog.Group("inputs",
			slog.String("stock_workbook", p.StockWorkbook),
			slog.String("estimates_workbook", p.EstimatesWorkbook),
			slog.String("countries_csv", p.CountriesCSV),
		),
		slog.Group("directories",
			slog.String("base", p.BaseDir),
			slog.String("clean", p.CleanDir),
			slog.String("www", p.WWWDir),
			slog.String("logs", p.LogsDir),
		))
}

// FileExists checks if a file exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
