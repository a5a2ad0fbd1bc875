package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"goviz/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Chart    ChartConfig
	Sample   SampleConfig
	LogLevel string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port         string
	GinMode      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds database connection settings. An empty URL keeps the
// dataset registry in memory.
type DatabaseConfig struct {
	URL string
}

// Enabled reports whether a PostgreSQL registry is configured.
func (c DatabaseConfig) Enabled() bool { return c.URL != "" }

// StorageConfig holds upload storage settings
type StorageConfig struct {
	UploadDir         string
	MaxUploadMB       int
	AllowedExtensions []string
	TableCacheSize    int
}

// MaxUploadBytes returns the upload limit in bytes.
func (c StorageConfig) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}

// ChartConfig holds chart building settings
type ChartConfig struct {
	MaxParallel int
}

// SampleConfig drives the demo data generator
type SampleConfig struct {
	Seed     int64
	Students int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   loadServerConfig(),
		Database: DatabaseConfig{URL: getEnvOrDefault("DATABASE_URL", "")},
		Storage:  loadStorageConfig(),
		Chart: ChartConfig{
			MaxParallel: getEnvIntOrDefault("CHART_MAX_PARALLEL", 4),
		},
		Sample: SampleConfig{
			Seed:     int64(getEnvIntOrDefault("SAMPLE_SEED", 42)),
			Students: getEnvIntOrDefault("SAMPLE_STUDENTS", 50),
		},
		LogLevel: getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() ServerConfig {
	return ServerConfig{
		Port:         getEnvOrDefault("PORT", "5000"),
		GinMode:      getEnvOrDefault("GIN_MODE", "release"),
		ReadTimeout:  getEnvDurationOrDefault("READ_TIMEOUT", 30*time.Second),
		WriteTimeout: getEnvDurationOrDefault("WRITE_TIMEOUT", 60*time.Second),
	}
}

func loadStorageConfig() StorageConfig {
	return StorageConfig{
		UploadDir:         getEnvOrDefault("UPLOAD_DIR", "uploads"),
		MaxUploadMB:       getEnvIntOrDefault("MAX_UPLOAD_MB", 16),
		AllowedExtensions: getEnvListOrDefault("ALLOWED_EXTENSIONS", []string{"csv", "json", "xlsx"}),
		TableCacheSize:    getEnvIntOrDefault("TABLE_CACHE_SIZE", 16),
	}
}

func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return errors.ConfigInvalid("PORT must not be empty")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric")
	}
	if config.Storage.UploadDir == "" {
		return errors.ConfigInvalid("UPLOAD_DIR must not be empty")
	}
	if config.Storage.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	if len(config.Storage.AllowedExtensions) == 0 {
		return errors.ConfigInvalid("ALLOWED_EXTENSIONS must list at least one extension")
	}
	if config.Chart.MaxParallel <= 0 {
		return errors.ConfigInvalid("CHART_MAX_PARALLEL must be positive")
	}
	if config.Storage.TableCacheSize <= 0 {
		return errors.ConfigInvalid("TABLE_CACHE_SIZE must be positive")
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

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		item = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(item), "."))
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
