package config

import (
	"os"
	"strconv"
	"strings"

	"statkit/internal/errors"
)

// Supported database drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	LogLevel string
}

// DatabaseConfig holds database connection settings. An empty URL selects
// the in-memory result store.
type DatabaseConfig struct {
	Driver string
	URL    string
}

// InMemory reports whether no database is configured
func (d DatabaseConfig) InMemory() bool {
	return d.URL == ""
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
	UIPort  string
}

// AnalysisConfig holds defaults for the analysis modules
type AnalysisConfig struct {
	// Workers bounds parallel fan-out; <= 0 means one per CPU
	Workers   int
	BatchSize int
	Alpha     float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: loadDatabaseConfig(),
		Server:   loadServerConfig(),
		Analysis: loadAnalysisConfig(),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadDatabaseConfig() DatabaseConfig {
	return DatabaseConfig{
		Driver: strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", DriverPostgres)),
		URL:    os.Getenv("DATABASE_URL"),
	}
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "debug"),
		UIPort:  getEnvOrDefault("UI_PORT", "8081"),
	}
}

func loadAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		Workers:   getEnvIntOrDefault("WORKERS", -1),
		BatchSize: getEnvIntOrDefault("BATCH_SIZE", 1000),
		Alpha:     getEnvFloatOrDefault("ALPHA", 0.05),
	}
}

func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite3, got " + config.Database.Driver)
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT is required")
	}
	if config.Analysis.BatchSize < 1 {
		return errors.ConfigInvalid("BATCH_SIZE must be positive")
	}
	if config.Analysis.Alpha <= 0 || config.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ALPHA must be in (0, 1)")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
