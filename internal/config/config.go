package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix is the namespace for every environment variable read by Load.
const EnvPrefix = "MIGVIZ"

// Config represents the complete application configuration
type Config struct {
	Inputs    InputsConfig    `yaml:"inputs" envconfig:"INPUTS"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Snapshot  SnapshotConfig  `yaml:"snapshot" envconfig:"SNAPSHOT"`
}

// InputsConfig locates the source datasets and the sheets inside them
type InputsConfig struct {
	BaseDir           string `yaml:"base_dir" envconfig:"BASE_DIR" validate:"required"`
	StockWorkbook     string `yaml:"stock_workbook" envconfig:"STOCK_WORKBOOK" validate:"required"`
	StockSheet        string `yaml:"stock_sheet" envconfig:"STOCK_SHEET" validate:"required"`
	StockSkipRows     int    `yaml:"stock_skip_rows" envconfig:"STOCK_SKIP_ROWS" validate:"gte=0"`
	EstimatesWorkbook string `yaml:"estimates_workbook" envconfig:"ESTIMATES_WORKBOOK" validate:"required"`
	EstimatesSheet    string `yaml:"estimates_sheet" envconfig:"ESTIMATES_SHEET" validate:"required"`
	EstimatesSkipRows int    `yaml:"estimates_skip_rows" envconfig:"ESTIMATES_SKIP_ROWS" validate:"gte=0"`
	CountriesCSV      string `yaml:"countries_csv" envconfig:"COUNTRIES_CSV" validate:"required"`
}

// OutputConfig controls where cleaned tables and pages are written
type OutputConfig struct {
	CleanDir    string `yaml:"clean_dir" envconfig:"CLEAN_DIR" validate:"required"`
	WWWDir      string `yaml:"www_dir" envconfig:"WWW_DIR" validate:"required"`
	BOMPrefix   bool   `yaml:"bom_prefix" envconfig:"BOM_PREFIX"`
	DefaultYear int    `yaml:"default_year" envconfig:"DEFAULT_YEAR" validate:"gte=1990,lte=2020"`
	StaticSVG   bool   `yaml:"static_svg" envconfig:"STATIC_SVG"`
}

// ServerConfig contains the local preview server configuration
type ServerConfig struct {
	Host            string          `yaml:"host" envconfig:"HOST"`
	Port            int             `yaml:"port" envconfig:"PORT" validate:"gt=0,lte=65535"`
	ReadTimeout     time.Duration   `yaml:"read_timeout" envconfig:"READ_TIMEOUT" validate:"gt=0"`
	WriteTimeout    time.Duration   `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" validate:"gt=0"`
	IdleTimeout     time.Duration   `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" validate:"gt=0"`
	MaxHeaderBytes  int             `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" validate:"gt=0"`
	ShutdownTimeout time.Duration   `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" validate:"gt=0"`
	RateLimit       RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" validate:"gte=0"`
	Burst   int     `yaml:"burst" envconfig:"BURST" validate:"gte=0"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" validate:"oneof=stdout none"`
	TraceFile      string  `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" validate:"oneof=prometheus none"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" validate:"gte=0,lte=1"`
}

// SnapshotConfig configures headless browser captures of the pages
type SnapshotConfig struct {
	Width   int           `yaml:"width" envconfig:"WIDTH" validate:"gt=0"`
	Height  int           `yaml:"height" envconfig:"HEIGHT" validate:"gt=0"`
	Timeout time.Duration `yaml:"timeout" envconfig:"TIMEOUT" validate:"gt=0"`

	// BrowserPath overrides Chrome discovery on PATH
	BrowserPath string `yaml:"browser_path" envconfig:"BROWSER_PATH"`
}

// Load builds the configuration from defaults, an optional YAML file and the
// environment, in increasing order of precedence. A .env file in the working
// directory is loaded into the environment first when present.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()

	if configFile == "" {
		configFile = getConfigFilePath()
	}
	if configFile != "" {
		if err := loadFromFile(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks the configuration against its struct constraints
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid %s: failed %q constraint (value %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return err
	}

	if c.Logging.Output != "console" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}
	return nil
}

// Addr returns the listen address of the preview server
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if p := os.Getenv(EnvPrefix + "_CONFIG"); p != "" {
		return p
	}

	locations := []string{
		"migviz.yaml",
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Inputs: InputsConfig{
			BaseDir:           ".",
			StockWorkbook:     DefaultStockWorkbook,
			StockSheet:        "Table 1",
			StockSkipRows:     10,
			EstimatesWorkbook: DefaultEstimatesWorkbook,
			EstimatesSheet:    "Estimates",
			EstimatesSkipRows: 16,
			CountriesCSV:      DefaultCountriesCSV,
		},
		Output: OutputConfig{
			CleanDir:    DefaultCleanDir,
			WWWDir:      DefaultWWWDir,
			DefaultYear: 1990,
			StaticSVG:   true,
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			MaxHeaderBytes:  1 << 20,
			ShutdownTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled: false,
				RPS:     100,
				Burst:   50,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1.0,
		},
		Snapshot: SnapshotConfig{
			Width:   1400,
			Height:  900,
			Timeout: 60 * time.Second,
		},
	}
}
