package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

// TestLoad_Defaults tests that unset keys keep their default values
func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("endpoint", "http://localhost:9000")

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BatchSize != 5 {
		t.Errorf("BatchSize = %d, want 5", cfg.BatchSize)
	}
	if cfg.Retry.MaxAttempts != 3 || cfg.Retry.BaseDelay != time.Second {
		t.Errorf("Retry = %+v, want 3 attempts and 1s base delay", cfg.Retry)
	}
	if cfg.ResumesDir != "resumes" || cfg.Output != "match_report.xlsx" || cfg.Listen != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

// TestLoad_Overrides tests that set keys replace the defaults
func TestLoad_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("endpoint", "http://scoring.internal")
	v.Set("batch-size", 10)
	v.Set("retry.max-attempts", 5)
	v.Set("retry.base-delay", "250ms")
	v.Set("debug", true)

	cfg, err := Load(v)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BatchSize != 10 || cfg.Retry.MaxAttempts != 5 || cfg.Retry.BaseDelay != 250*time.Millisecond {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if !cfg.Debug {
		t.Error("Debug not applied")
	}

	policy := cfg.RetryPolicy()
	if policy.MaxAttempts != 5 || policy.BaseDelay != 250*time.Millisecond {
		t.Errorf("RetryPolicy = %+v", policy)
	}
}

// TestValidate tests each rejection rule
func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Endpoint = "http://localhost:9000"
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "Valid config", mutate: func(*Config) {}},
		{name: "Missing endpoint", mutate: func(c *Config) { c.Endpoint = "" }, wantErr: "endpoint"},
		{name: "Zero batch size", mutate: func(c *Config) { c.BatchSize = 0 }, wantErr: "batch-size"},
		{name: "Negative attempts", mutate: func(c *Config) { c.Retry.MaxAttempts = -1 }, wantErr: "max-attempts"},
		{name: "Zero base delay", mutate: func(c *Config) { c.Retry.BaseDelay = 0 }, wantErr: "base-delay"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}
