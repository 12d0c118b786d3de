// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	minConf := cfg.Detection.MinConfidence
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Detection     DetectionConfig     `yaml:"detection"`
	API           APIConfig           `yaml:"api"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// DetectionConfig holds the recurring-series detection thresholds
type DetectionConfig struct {
	MinOccurrences int     `yaml:"min_occurrences"`
	MinConfidence  float64 `yaml:"min_confidence"`
	LookbackMonths int     `yaml:"lookback_months"`
}

// APIConfig holds HTTP API server settings
type APIConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${SMARTBUDGET_DB_PATH})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Storage: StorageConfig{
			DatabasePath: getEnv("SMARTBUDGET_DB_PATH", "smartbudget.db"),
		},
		Detection: DetectionConfig{
			MinOccurrences: getEnvInt("SMARTBUDGET_MIN_OCCURRENCES", 4),
			MinConfidence:  getEnvFloat("SMARTBUDGET_MIN_CONFIDENCE", 0.75),
			LookbackMonths: getEnvInt("SMARTBUDGET_LOOKBACK_MONTHS", 18),
		},
		API: APIConfig{
			Port: getEnvInt("SMARTBUDGET_API_PORT", 8080),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("SMARTBUDGET_LOG_LEVEL", "info"),
				Format: getEnv("SMARTBUDGET_LOG_FORMAT", "console"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries the config file first, then falls back to environment
// variables.
func LoadOrEnv() *Config {
	if cfg, err := Load("config.yaml"); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Storage.DatabasePath == "" {
		return fmt.Errorf("storage.database_path is required")
	}
	if c.Detection.MinConfidence < 0 || c.Detection.MinConfidence > 1 {
		return fmt.Errorf("detection.min_confidence must be in [0,1], got %v", c.Detection.MinConfidence)
	}
	if c.Detection.MinOccurrences < 1 {
		return fmt.Errorf("detection.min_occurrences must be at least 1, got %d", c.Detection.MinOccurrences)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "smartbudget.db"
	}
	if c.Detection.MinOccurrences == 0 {
		c.Detection.MinOccurrences = 4
	}
	if c.Detection.MinConfidence == 0 {
		c.Detection.MinConfidence = 0.75
	}
	if c.Detection.LookbackMonths == 0 {
		c.Detection.LookbackMonths = 18
	}
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if len(c.API.AllowedOrigins) == 0 {
		c.API.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
