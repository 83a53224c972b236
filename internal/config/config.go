// Package config holds the runtime configuration, loaded with viper from a
// config file, flags and environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/jmwanja/resume-matcher/internal/retry"
)

// Config holds application configuration.
type Config struct {
	// Endpoint is the base URL of the remote analysis service.
	Endpoint string `mapstructure:"endpoint"`
	// ResumesDir is the directory resumes are loaded from.
	ResumesDir string `mapstructure:"resumes-dir"`
	// Output is the path of the exported xlsx report.
	Output string `mapstructure:"output"`
	// Listen is the address of the HTTP API server.
	Listen string `mapstructure:"listen"`

	BatchSize int         `mapstructure:"batch-size"`
	Retry     RetryConfig `mapstructure:"retry"`

	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

// RetryConfig tunes the retry executor used for every remote call.
type RetryConfig struct {
	MaxAttempts int           `mapstructure:"max-attempts"`
	BaseDelay   time.Duration `mapstructure:"base-delay"`
}

// Default returns a config with default values.
func Default() *Config {
	return &Config{
		ResumesDir: "resumes",
		Output:     "match_report.xlsx",
		Listen:     ":8080",
		BatchSize:  5,
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseDelay:   time.Second,
		},
	}
}

// Load unmarshals the viper state over the defaults and validates the result.
func Load(v *viper.Viper) (*Config, error) {
	cfg := Default()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the fields every command depends on.
func (c *Config) Validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", c.BatchSize)
	}
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry.max-attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	if c.Retry.BaseDelay <= 0 {
		return fmt.Errorf("retry.base-delay must be positive, got %s", c.Retry.BaseDelay)
	}
	return nil
}

// RetryPolicy converts the configured values into the retry executor config.
func (c *Config) RetryPolicy() retry.Config {
	return retry.Config{
		MaxAttempts: c.Retry.MaxAttempts,
		BaseDelay:   c.Retry.BaseDelay,
	}
}
