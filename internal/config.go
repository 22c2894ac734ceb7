package internal

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds process configuration. Values come from the environment
// (optionally via a .env file) with defaults suitable for development.
type Config struct {
	Env      string
	LogLevel string

	Storage StorageConfig
	Latency LatencyConfig

	// MetricsAddr is the listen address for the Prometheus endpoint.
	// Empty disables it.
	MetricsAddr string
}

// StorageConfig selects and configures the persistence backend.
type StorageConfig struct {
	// Provider is "file", "sqlite" or "memory".
	Provider string

	// Path is the data directory for the file backend, or the database
	// file for the sqlite backend (":memory:" works).
	Path string
}

// LatencyConfig bounds the simulated latency window applied to every query
// read. Min and Max may be zero (useful in tests).
type LatencyConfig struct {
	Min time.Duration
	Max time.Duration
}

// NewConfig loads configuration from the environment, trying a .env file in
// the working directory and up to two parent directories first.
func NewConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		dir, _ := os.Getwd()
		found := false
		for i := 0; i < 2; i++ {
			dir = filepath.Join(dir, "..")
			if err := godotenv.Load(filepath.Join(dir, ".env")); err == nil {
				found = true
				break
			}
		}
		if !found {
			slog.Default().Warn("Warning: .env file not found, using environment variables and defaults")
		}
	}

	v := viper.New()
	v.SetDefault("env", "dev")
	v.SetDefault("log_level", "info")
	v.SetDefault("storage_provider", "file")
	v.SetDefault("storage_path", "./data")
	v.SetDefault("latency_min", "100ms")
	v.SetDefault("latency_max", "500ms")
	v.SetDefault("metrics_addr", ":9464")
	v.AutomaticEnv()

	cfg := &Config{
		Env:      v.GetString("env"),
		LogLevel: v.GetString("log_level"),
		Storage: StorageConfig{
			Provider: v.GetString("storage_provider"),
			Path:     v.GetString("storage_path"),
		},
		Latency: LatencyConfig{
			Min: v.GetDuration("latency_min"),
			Max: v.GetDuration("latency_max"),
		},
		MetricsAddr: v.GetString("metrics_addr"),
	}

	if cfg.Env != "dev" && cfg.Env != "prod" {
		slog.Default().Warn("Invalid environment. Using default: prod", slog.String("env", cfg.Env))
		cfg.Env = "prod"
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		slog.Default().Warn("Invalid log level. Using default: info", slog.String("value", cfg.LogLevel))
		cfg.LogLevel = "info"
	}

	switch cfg.Storage.Provider {
	case "file", "sqlite", "memory":
	default:
		return nil, fmt.Errorf("unknown storage provider: %s", cfg.Storage.Provider)
	}

	if cfg.Latency.Min < 0 || cfg.Latency.Max < cfg.Latency.Min {
		return nil, fmt.Errorf("invalid latency window: min=%s max=%s", cfg.Latency.Min, cfg.Latency.Max)
	}

	return cfg, nil
}
