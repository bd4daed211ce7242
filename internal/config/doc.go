// Package config provides centralized configuration management for migviz.
// It handles loading configuration from multiple sources, validation, and
// resolves every file path the pipeline reads or writes.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority), after loading .env if present
//	2. A YAML configuration file (MIGVIZ_CONFIG, migviz.yaml or config.yaml)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern MIGVIZ_<SECTION>_<FIELD>:
//
//	MIGVIZ_INPUTS_BASE_DIR=/srv/migration
//	MIGVIZ_OUTPUT_WWW_DIR=www
//	MIGVIZ_SERVER_PORT=8080
//	MIGVIZ_LOGGING_LEVEL=debug
//	MIGVIZ_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths resolves inputs and outputs relative to Inputs.BaseDir:
//
//	paths, err := config.NewPaths(cfg)
//	specPath := paths.GetSpecPath("flow", 1990)
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
