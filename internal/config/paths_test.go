package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPaths(t *testing.T) {
	base := t.TempDir()
	cfg := Default()
	cfg.Inputs.BaseDir = base

	paths, err := NewPaths(cfg)
	require.NoError(t, err)

	assert.Equal(t, base, paths.BaseDir)
	assert.Equal(t, filepath.Join(base, "data", "clean"), paths.CleanDir)
	assert.Equal(t, filepath.Join(base, "www"), paths.WWWDir)
	assert.Equal(t, filepath.Join(base, "www", "specs"), paths.SpecsDir)
	assert.Equal(t, filepath.Join(base, "www", "static"), paths.StaticDir)
	assert.Equal(t, filepath.Join(base, "logs"), paths.LogsDir)

	assert.Equal(t, filepath.Join(base, DefaultStockWorkbook), paths.StockWorkbook)
	assert.Equal(t, filepath.Join(base, DefaultEstimatesWorkbook), paths.EstimatesWorkbook)
	assert.Equal(t, filepath.Join(base, DefaultCountriesCSV), paths.CountriesCSV)

	assert.Equal(t, filepath.Join(paths.CleanDir, TotalStockFile), paths.TotalStockCSV)
	assert.Equal(t, filepath.Join(paths.CleanDir, SexStockFile), paths.SexStockCSV)
	assert.Equal(t, filepath.Join(paths.CleanDir, RegionStockFile), paths.RegionStockCSV)
	assert.Equal(t, filepath.Join(paths.CleanDir, EstimatesFile), paths.EstimatesCSV)
	assert.Equal(t, filepath.Join(paths.CleanDir, RateSummaryFile), paths.RateSummaryCSV)
}

func TestNewPathsKeepsAbsolutePaths(t *testing.T) {
	base := t.TempDir()
	other := t.TempDir()

	cfg := Default()
	cfg.Inputs.BaseDir = base
	cfg.Inputs.CountriesCSV = filepath.Join(other, "countries.csv")
	cfg.Output.WWWDir = filepath.Join(other, "public")

	paths, err := NewPaths(cfg)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(other, "countries.csv"), paths.CountriesCSV)
	assert.Equal(t, filepath.Join(other, "public"), paths.WWWDir)
	assert.Equal(t, filepath.Join(other, "public", "specs"), paths.SpecsDir)
}

func TestEnsureDirectories(t *testing.T) {
	cfg := Default()
	cfg.Inputs.BaseDir = t.TempDir()

	paths, err := NewPaths(cfg)
	require.NoError(t, err)
	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.CleanDir, paths.WWWDir, paths.SpecsDir, paths.StaticDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
	}

	// idempotent
	assert.NoError(t, paths.EnsureDirectories())
}

func TestPathHelperMethods(t *testing.T) {
	paths := &Paths{
		WWWDir:       "/srv/www",
		SpecsDir:     "/srv/www/specs",
		StaticDir:    "/srv/www/static",
		SnapshotsDir: "/srv/www/snapshots",
	}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"www page", paths.GetWWWPath(CountryPage), filepath.Join("/srv/www", "plots_country.html")},
		{"static asset", paths.GetStaticPath(RateSVGFile), filepath.Join("/srv/www/static", "net_migration_rate.svg")},
		{"flow spec", paths.GetSpecPath("flow", 1990), filepath.Join("/srv/www/specs", "flow_1990.json")},
		{"rate spec", paths.GetSpecPath("rate", 2020), filepath.Join("/srv/www/specs", "rate_2020.json")},
		{"snapshot", paths.GetSnapshotPath("plots_region"), filepath.Join("/srv/www/snapshots", "plots_region.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestInputs(t *testing.T) {
	paths := &Paths{StockWorkbook: "a.xlsx", EstimatesWorkbook: "b.xlsx", CountriesCSV: "c.csv"}
	inputs := paths.Inputs()
	assert.Len(t, inputs, 3)
	assert.Equal(t, "a.xlsx", inputs["stock_workbook"])
	assert.Equal(t, "b.xlsx", inputs["estimates_workbook"])
	assert.Equal(t, "c.csv", inputs["countries_csv"])
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	assert.True(t, FileExists(file))
	assert.True(t, FileExists(dir))
	assert.False(t, FileExists(filepath.Join(dir, "missing.txt")))
}
