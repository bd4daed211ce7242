package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"migviz/internal/config"
	"migviz/internal/infrastructure"
	"migviz/internal/shared/testutil"
	"migviz/pkg/contracts"
)

// writeConfig writes a YAML config for the sample inputs under dir
func writeConfig(t *testing.T, dir string) string {
	t.Helper()
	cfg := fmt.Sprintf(`inputs:
  base_dir: %q
  stock_workbook: data/stock.xlsx
  estimates_workbook: data/estimates.xlsx
  countries_csv: data/country-coord.csv
logging:
  level: error
  output: console
telemetry:
  trace_exporter: none
  metric_exporter: none
`, dir)
	path := filepath.Join(dir, "migviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	infrastructure.ResetLoggerForTesting()
	t.Cleanup(infrastructure.ResetLoggerForTesting)

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func lines(s string) []string {
	return strings.Split(strings.TrimSpace(s), "\n")
}

func TestCleanCommand(t *testing.T) {
	in := testutil.WriteSampleInputs(t, t.TempDir())
	cfgPath := writeConfig(t, in.Dir)

	out, err := execute(t, "--config", cfgPath, "clean")
	require.NoError(t, err)

	written := lines(out)
	require.Len(t, written, 5)
	for i, name := range []string{
		config.TotalStockFile,
		config.SexStockFile,
		config.RegionStockFile,
		config.EstimatesFile,
		config.RateSummaryFile,
	} {
		assert.Equal(t, filepath.Join(in.Dir, config.DefaultCleanDir, name), written[i])
		assert.FileExists(t, written[i])
	}
}

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantSVG bool
	}{
		{name: "default", args: []string{"build"}, wantSVG: true},
		{name: "year without svg", args: []string{"build", "--year", "2020", "--no-svg"}, wantSVG: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := testutil.WriteSampleInputs(t, t.TempDir())
			cfgPath := writeConfig(t, in.Dir)

			out, err := execute(t, append([]string{"--config", cfgPath}, tt.args...)...)
			require.NoError(t, err)

			www := filepath.Join(in.Dir, config.DefaultWWWDir)
			assert.Equal(t, []string{
				filepath.Join(www, config.IndexPage),
				filepath.Join(www, config.CountryPage),
				filepath.Join(www, config.RegionPage),
			}, lines(out))
			assert.FileExists(t, filepath.Join(www, config.SpecsSubdir, "flow_2020.json"))

			svg := filepath.Join(www, config.StaticSubdir, config.RateSVGFile)
			if tt.wantSVG {
				assert.FileExists(t, svg)
			} else {
				assert.NoFileExists(t, svg)
			}
		})
	}
}

func TestBuildRejectsUnknownYear(t *testing.T) {
	in := testutil.WriteSampleInputs(t, t.TempDir())
	cfgPath := writeConfig(t, in.Dir)

	_, err := execute(t, "--config", cfgPath, "build", "--year", "2001")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--year")
	assert.NoDirExists(t, filepath.Join(in.Dir, config.DefaultWWWDir, config.SpecsSubdir))
}

func TestCleanCommandMissingInputs(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "clean")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input files are missing")
	assert.NoDirExists(t, filepath.Join(dir, config.DefaultCleanDir))
}

func TestBaseDirFlagOverridesConfig(t *testing.T) {
	in := testutil.WriteSampleInputs(t, t.TempDir())
	cfgPath := writeConfig(t, t.TempDir())

	out, err := execute(t, "--config", cfgPath, "--base-dir", in.Dir, "clean")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lines(out)[0], in.Dir))
}

func TestSnapshotWithoutPages(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir)

	_, err := execute(t, "--config", cfgPath, "snapshot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run migviz build first")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, contracts.Version)
	assert.Contains(t, out, "go")
}
