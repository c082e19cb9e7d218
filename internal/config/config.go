// Package config provides configuration management for the CORD-19 explorer.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the analysis run and the dashboard.
type Config struct {
	// Server contains dashboard HTTP server settings.
	Server ServerConfig `mapstructure:"server"`
	// Logging contains structured logging settings.
	Logging LoggingConfig `mapstructure:"logging"`
	// Metrics contains Prometheus metrics exposure settings.
	Metrics MetricsConfig `mapstructure:"metrics"`
	// Dataset contains input/output file paths.
	Dataset DatasetConfig `mapstructure:"dataset"`
	// Sample contains synthetic sample generation settings.
	Sample SampleConfig `mapstructure:"sample"`
	// Analysis contains aggregation settings.
	Analysis AnalysisConfig `mapstructure:"analysis"`
	// RateLimit contains dashboard request throttling settings.
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig holds dashboard server configuration.
type ServerConfig struct {
	// Host is the address to bind the server to (default: 0.0.0.0).
	Host string `mapstructure:"host"`
	// HTTPPort is the HTTP server port (default: 8080).
	HTTPPort int `mapstructure:"http_port"`
	// ReadTimeout is the maximum duration for reading request body.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the maximum duration for writing response.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	// IdleTimeout is the maximum duration to keep idle connections open.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (trace, debug, info, warn, error, fatal, panic).
	Level string `mapstructure:"level"`
	// Format is the log format (json, console).
	Format string `mapstructure:"format"`
	// Output is the log output destination (stdout, stderr).
	Output string `mapstructure:"output"`
	// AddSource adds source file and line to log output.
	AddSource bool `mapstructure:"add_source"`
	// TimeFormat is the timestamp format.
	TimeFormat string `mapstructure:"time_format"`
}

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	// Enabled enables metrics collection and exposure.
	Enabled bool `mapstructure:"enabled"`
	// Path is the HTTP path for the metrics endpoint.
	Path string `mapstructure:"path"`
}

// DatasetConfig holds file path configuration.
type DatasetConfig struct {
	// SourcePath is the raw metadata file. When the path does not exist
	// the analysis run generates a synthetic sample instead.
	SourcePath string `mapstructure:"source_path"`
	// CleanedPath is where the cleaned export is written, and where the
	// dashboard reads it from.
	CleanedPath string `mapstructure:"cleaned_path"`
	// ChartsDir is where chart dataset JSON files are written.
	ChartsDir string `mapstructure:"charts_dir"`
}

// SampleConfig holds synthetic sample generation settings.
type SampleConfig struct {
	// Size is the number of records to generate (default: 5000).
	Size int `mapstructure:"size"`
	// Seed seeds the generator so repeated runs produce identical sets.
	Seed int64 `mapstructure:"seed"`
}

// AnalysisConfig holds aggregation settings.
type AnalysisConfig struct {
	// TopJournals is how many journals the top-journals aggregate keeps.
	TopJournals int `mapstructure:"top_journals"`
	// TopWords is how many words the title word frequency aggregate keeps.
	TopWords int `mapstructure:"top_words"`
}

// RateLimitConfig holds dashboard throttling settings.
type RateLimitConfig struct {
	// Enabled turns request throttling on.
	Enabled bool `mapstructure:"enabled"`
	// RPS is the sustained requests per second allowed.
	RPS float64 `mapstructure:"rps"`
	// Burst is the maximum burst size.
	Burst int `mapstructure:"burst"`
}

// HTTPAddress returns the dashboard server address.
func (c *ServerConfig) HTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Host, c.HTTPPort)
}

// Load loads configuration from environment variables and config files.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("CORD19")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/cord19-explorer")

	if err := v.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use env vars and defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.http_port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")

	// Dataset defaults
	v.SetDefault("dataset.source_path", "metadata.csv")
	v.SetDefault("dataset.cleaned_path", "cord19_cleaned_data.csv")
	v.SetDefault("dataset.charts_dir", "charts")

	// Sample defaults
	v.SetDefault("sample.size", 5000)
	v.SetDefault("sample.seed", 42)

	// Analysis defaults
	v.SetDefault("analysis.top_journals", 10)
	v.SetDefault("analysis.top_words", 20)

	// Rate limit defaults
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.rps", 50.0)
	v.SetDefault("rate_limit.burst", 100)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}

	validLogLevels := map[string]bool{
		"trace": true, "debug": true, "info": true,
		"warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Dataset.CleanedPath == "" {
		return fmt.Errorf("dataset cleaned_path is required")
	}

	if c.Sample.Size <= 0 {
		return fmt.Errorf("sample size must be positive")
	}

	if c.Analysis.TopJournals <= 0 {
		return fmt.Errorf("analysis top_journals must be positive")
	}
	if c.Analysis.TopWords <= 0 {
		return fmt.Errorf("analysis top_words must be positive")
	}

	if c.RateLimit.Enabled {
		if c.RateLimit.RPS <= 0 {
			return fmt.Errorf("rate limit rps must be positive")
		}
		if c.RateLimit.Burst <= 0 {
			return fmt.Errorf("rate limit burst must be positive")
		}
	}

	return nil
}
