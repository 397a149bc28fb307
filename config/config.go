// Package config provides configuration loading and management for Lumora.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete Lumora configuration
type Config struct {
	Server Server      `yaml:"server"`
	Model  ModelConfig `yaml:"model"`
	Retry  RetryConfig `yaml:"retry"`
	NATS   NATSConfig  `yaml:"nats"`
	Edit   EditConfig  `yaml:"edit"`
}

// Server configures the HTTP API
type Server struct {
	// Addr is the listen address for the HTTP API (default: :8080)
	Addr string `yaml:"addr"`
	// ReadTimeout limits how long reading a request may take
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout is generous because agent pipelines stream for minutes
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// ModelConfig configures LLM model selection
type ModelConfig struct {
	// RegistryPath points at a JSON model registry file (empty = built-in defaults)
	RegistryPath string `yaml:"registry_path"`
	// Timeout is the maximum time to wait for model responses
	Timeout time.Duration `yaml:"timeout"`
}

// RetryConfig configures agent retry behavior
type RetryConfig struct {
	// MaxAttempts is the number of parse-and-validate attempts per agent call
	MaxAttempts int `yaml:"max_attempts"`
	// BackoffBase is the wait before the second attempt; it doubles per attempt
	BackoffBase time.Duration `yaml:"backoff_base"`
}

// NATSConfig configures the optional chart-plan event sink
type NATSConfig struct {
	// URL is the NATS server URL (empty = sink disabled, events go to the log)
	URL string `yaml:"url"`
	// Subject is the subject chart plans are published on
	Subject string `yaml:"subject"`
}

// EditConfig configures the chart edit orchestrator
type EditConfig struct {
	// HistoryLimit is how many trailing chat messages are forwarded to the model
	HistoryLimit int `yaml:"history_limit"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 10 * time.Minute,
		},
		Model: ModelConfig{
			RegistryPath: "",
			Timeout:      3 * time.Minute,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BackoffBase: 2 * time.Second,
		},
		NATS: NATSConfig{
			URL:     "",
			Subject: "lumora.chartplan",
		},
		Edit: EditConfig{
			HistoryLimit: 5,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be at least 1")
	}
	if c.Retry.BackoffBase < 0 {
		return fmt.Errorf("retry.backoff_base must not be negative")
	}
	if c.Edit.HistoryLimit < 0 {
		return fmt.Errorf("edit.history_limit must not be negative")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Server
	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}

	// Model
	if other.Model.RegistryPath != "" {
		c.Model.RegistryPath = other.Model.RegistryPath
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	// Retry
	if other.Retry.MaxAttempts != 0 {
		c.Retry.MaxAttempts = other.Retry.MaxAttempts
	}
	if other.Retry.BackoffBase != 0 {
		c.Retry.BackoffBase = other.Retry.BackoffBase
	}

	// NATS
	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}

	// Edit
	if other.Edit.HistoryLimit != 0 {
		c.Edit.HistoryLimit = other.Edit.HistoryLimit
	}
}
