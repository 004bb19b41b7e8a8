package config

import (
	"os"
	"strconv"

	"structset/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database   DatabaseConfig
	Tracker    TrackerConfig
	Data       DataConfig
	Generation GenerationConfig
}

// DatabaseConfig holds collection-store connection settings
type DatabaseConfig struct {
	URL string
}

// TrackerConfig holds the dataset audit record settings
type TrackerConfig struct {
	Path string // SQLite file; ":memory:" for ephemeral runs
}

// DataConfig holds dataset file locations
type DataConfig struct {
	CSVDir  string
	JSONDir string
}

// GenerationConfig holds record generation settings
type GenerationConfig struct {
	Workers          int
	ProgressInterval int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Tracker: TrackerConfig{
			Path: getEnvOrDefault("TRACKER_DB", "dataset_generation_record.db"),
		},
		Data: DataConfig{
			CSVDir:  getEnvOrDefault("CSV_DIR", "datasets/collections_csv"),
			JSONDir: getEnvOrDefault("JSON_DIR", "datasets/collections_json"),
		},
		Generation: GenerationConfig{
			Workers:          getEnvIntOrDefault("GEN_WORKERS", 1),
			ProgressInterval: getEnvIntOrDefault("GEN_PROGRESS_INTERVAL", 1000),
		},
	}

	if cfg.Generation.Workers < 1 {
		return nil, errors.ConfigInvalid("GEN_WORKERS must be at least 1")
	}
	return cfg, nil
}

// RequireDatabase validates that a collection-store DSN was configured; only
// the populate path needs one.
func (c *Config) RequireDatabase() error {
	if c.Database.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
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
