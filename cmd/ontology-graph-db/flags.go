package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath  string
	InputPath   string
	LogLevel    string
	LogFormat   string
	MetricsAddr string
	Workers     int
	ShowVersion bool
	ShowHelp    bool
	Validate    bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("ONTOLOGY_CONFIG", "configs/concordia.json"),
		"Path to mapping configuration file (env: ONTOLOGY_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("ONTOLOGY_CONFIG", "configs/concordia.json"),
		"Path to mapping configuration file (env: ONTOLOGY_CONFIG)")

	flag.StringVar(&cfg.InputPath, "input",
		getEnv("ONTOLOGY_INPUT", ""),
		"Path to input records JSON, overrides the configured path (env: ONTOLOGY_INPUT)")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("ONTOLOGY_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: ONTOLOGY_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("ONTOLOGY_LOG_FORMAT", "json"),
		"Log format: json, text (env: ONTOLOGY_LOG_FORMAT)")

	flag.StringVar(&cfg.MetricsAddr, "metrics-addr",
		getEnv("ONTOLOGY_METRICS_ADDR", ""),
		"Address for the Prometheus endpoint, empty to disable (env: ONTOLOGY_METRICS_ADDR)")

	flag.IntVar(&cfg.Workers, "workers",
		getEnvInt("ONTOLOGY_WORKERS", 0),
		"Parallel extraction workers, overrides the configured value when > 0 (env: ONTOLOGY_WORKERS)")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.Validate, "validate", false, "Validate configuration and exit")

	flag.Usage = printDetailedHelp

	flag.Parse()

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	if _, err := os.Stat(cfg.ConfigPath); err != nil {
		return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	if cfg.Workers < 0 {
		return fmt.Errorf("invalid worker count: %d", cfg.Workers)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Building Sensor Ontology Mapping

Usage: %s [options]

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Run with custom config
  %s --config=/path/to/concordia.json

  # Run with debug logging and explicit input
  %s --log-level=debug --log-format=text --input=records.json

  # Run with environment variables
  export ONTOLOGY_CONFIG=/etc/ontology/concordia.json
  export ONTOLOGY_LOG_LEVEL=debug
  %s

  # Validate configuration only
  %s --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
