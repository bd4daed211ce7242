package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad tests the Load function with various scenarios
func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		fileContent string
		wantErr     bool
		validateCfg func(*testing.T, *Config)
	}{
		{
			name: "default configuration with no env vars",
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, ".", cfg.Inputs.BaseDir)
				assert.Equal(t, "Table 1", cfg.Inputs.StockSheet)
				assert.Equal(t, 10, cfg.Inputs.StockSkipRows)
				assert.Equal(t, "Estimates", cfg.Inputs.EstimatesSheet)
				assert.Equal(t, 16, cfg.Inputs.EstimatesSkipRows)
				assert.Equal(t, DefaultCountriesCSV, cfg.Inputs.CountriesCSV)

				assert.Equal(t, 1990, cfg.Output.DefaultYear)
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
				assert.False(t, cfg.Server.RateLimit.Enabled)

				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "console", cfg.Logging.Output)
				assert.Equal(t, "none", cfg.Telemetry.TraceExporter)
				assert.Equal(t, "prometheus", cfg.Telemetry.MetricExporter)
			},
		},
		{
			name: "environment overrides defaults",
			env: map[string]string{
				"MIGVIZ_SERVER_PORT":           "9191",
				"MIGVIZ_SERVER_READ_TIMEOUT":   "30s",
				"MIGVIZ_INPUTS_STOCK_SHEET":    "Table 2",
				"MIGVIZ_OUTPUT_DEFAULT_YEAR":   "2020",
				"MIGVIZ_LOGGING_LEVEL":         "debug",
				"MIGVIZ_SERVER_RATE_LIMIT_RPS": "5",
			},
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9191, cfg.Server.Port)
				assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
				assert.Equal(t, "Table 2", cfg.Inputs.StockSheet)
				assert.Equal(t, 2020, cfg.Output.DefaultYear)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, 5.0, cfg.Server.RateLimit.RPS)
				// untouched fields keep their defaults
				assert.Equal(t, "Estimates", cfg.Inputs.EstimatesSheet)
			},
		},
		{
			name: "file values are applied and env wins over file",
			env: map[string]string{
				"MIGVIZ_SERVER_PORT": "7000",
			},
			fileContent: `
server:
  port: 6000
inputs:
  estimates_skip_rows: 20
output:
  www_dir: public
`,
			validateCfg: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 7000, cfg.Server.Port)
				assert.Equal(t, 20, cfg.Inputs.EstimatesSkipRows)
				assert.Equal(t, "public", cfg.Output.WWWDir)
				assert.Equal(t, 10, cfg.Inputs.StockSkipRows)
			},
		},
		{
			name:    "invalid port in environment",
			env:     map[string]string{"MIGVIZ_SERVER_PORT": "70000"},
			wantErr: true,
		},
		{
			name:    "unparseable duration",
			env:     map[string]string{"MIGVIZ_SERVER_READ_TIMEOUT": "soon"},
			wantErr: true,
		},
		{
			name:    "year outside the dataset",
			env:     map[string]string{"MIGVIZ_OUTPUT_DEFAULT_YEAR": "1985"},
			wantErr: true,
		},
		{
			name:        "malformed yaml",
			fileContent: "server: [port",
			wantErr:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			configFile := ""
			if tt.fileContent != "" {
				configFile = filepath.Join(t.TempDir(), "migviz.yaml")
				require.NoError(t, os.WriteFile(configFile, []byte(tt.fileContent), 0644))
			}

			cfg, err := Load(configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, cfg)
			if tt.validateCfg != nil {
				tt.validateCfg(t, cfg)
			}
		})
	}
}

func TestLoadConfigFileFromEnvironment(t *testing.T) {
	configFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(configFile, []byte("logging:\n  level: warn\n"), 0644))
	t.Setenv("MIGVIZ_CONFIG", configFile)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "empty stock sheet",
			mutate:  func(c *Config) { c.Inputs.StockSheet = "" },
			wantErr: "StockSheet",
		},
		{
			name:    "negative skip rows",
			mutate:  func(c *Config) { c.Inputs.EstimatesSkipRows = -1 },
			wantErr: "EstimatesSkipRows",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "Level",
		},
		{
			name:    "unknown trace exporter",
			mutate:  func(c *Config) { c.Telemetry.TraceExporter = "otlp" },
			wantErr: "TraceExporter",
		},
		{
			name:    "zero read timeout",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 0 },
			wantErr: "ReadTimeout",
		},
		{
			name:    "sample ratio above one",
			mutate:  func(c *Config) { c.Telemetry.SampleRatio = 1.5 },
			wantErr: "SampleRatio",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateFillsLogFile(t *testing.T) {
	cfg := Default()
	cfg.Logging.Output = "both"
	cfg.Logging.FilePath = ""

	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultLogFile, cfg.Logging.FilePath)
}

func TestAddr(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())

	cfg.Server.Host = ""
	cfg.Server.Port = 9000
	assert.Equal(t, ":9000", cfg.Addr())
}
