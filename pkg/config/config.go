// Package config loads runtime configuration from a YAML file with
// environment-variable overrides, validated before use.
package config

import (
	"time"
)

// Config is the complete runtime configuration.
type Config struct {
	// Completion service configuration
	Service ServiceConfig `yaml:"service" validate:"required"`

	// Store configuration
	Store StoreConfig `yaml:"store,omitempty" validate:"omitempty"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`
}

// ServiceConfig configures the text-completion provider.
type ServiceConfig struct {
	// Provider name (anthropic)
	Provider string `yaml:"provider" validate:"required,oneof=anthropic"`

	// Model ID (e.g., claude-sonnet-4-20250514)
	Model string `yaml:"model" validate:"required"`

	// API key; falls back to the provider's conventional env var
	APIKey string `yaml:"api_key,omitempty"`

	// Base URL override, empty for the provider default
	BaseURL string `yaml:"base_url,omitempty" validate:"omitempty,url"`

	// Request timeout
	Timeout time.Duration `yaml:"timeout,omitempty" validate:"omitempty,min=0"`
}

// StoreConfig configures preference persistence.
type StoreConfig struct {
	// Backend: sqlite or memory
	Backend string `yaml:"backend,omitempty" validate:"omitempty,oneof=sqlite memory"`

	// Path to the SQLite database file
	Path string `yaml:"path,omitempty"`
}

// LoggingConfig configures log output.
type LoggingConfig struct {
	// Severity: debug, info, warn, error, fatal
	Level string `yaml:"level,omitempty" validate:"omitempty,oneof=debug info warn error fatal"`

	// Optional JSONL log file, in addition to the console
	File string `yaml:"file,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Service: ServiceConfig{
			Provider: "anthropic",
			Model:    "claude-sonnet-4-20250514",
			Timeout:  90 * time.Second,
		},
		Store: StoreConfig{
			Backend: "sqlite",
			Path:    "tailor.db",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
