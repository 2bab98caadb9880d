// Package config provides centralized configuration management for histogen.
// It handles loading configuration from multiple sources, validation, and
// path resolution for output and log files.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern HISTOGEN_<SECTION>_<FIELD>:
//
//	HISTOGEN_SERVER_PORT=8080
//	HISTOGEN_OUTPUT_FORMAT=xlsx
//	HISTOGEN_OUTPUT_WORKERS=8
//	HISTOGEN_LOGGING_LEVEL=debug
//	HISTOGEN_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Path Management
//
// Paths resolves the output directory against the working directory and the
// log file against the executable directory, and names converted files:
//
//	paths, _ := cfg.Paths()
//	out := paths.GetOutputPath("run1/histos.saf.gz", "csv") // <outdir>/histos.csv
package config
