// Package config loads postforge configuration from .postforge/config.yaml
// with environment variable overrides for secrets and deploy-time knobs.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all postforge configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Generative providers
	Providers ProvidersConfig `yaml:"providers"`

	// Pipeline execution settings
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// ProvidersConfig configures the outbound generative services.
type ProvidersConfig struct {
	Text   TextProviderConfig   `yaml:"text"`
	Design DesignProviderConfig `yaml:"design"`
}

// TextProviderConfig configures the text generation provider.
type TextProviderConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	Timeout     string  `yaml:"timeout"`
}

// DesignProviderConfig configures the template/design service.
type DesignProviderConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Timeout string `yaml:"timeout"`
}

// PipelineConfig configures pipeline execution.
type PipelineConfig struct {
	// Concurrency bounds the worker pool for the development and assembly
	// stages. 1 means fully sequential.
	Concurrency int `yaml:"concurrency"`

	// ProviderTimeout bounds each outbound provider call unless a
	// per-provider timeout overrides it.
	ProviderTimeout string `yaml:"provider_timeout"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the baseline configuration.
func Default() *Config {
	return &Config{
		Name:    "postforge",
		Version: "0.3.0",
		Providers: ProvidersConfig{
			Text: TextProviderConfig{
				Model:       "gemini-2.5-flash",
				Temperature: 0.8,
			},
			Design: DesignProviderConfig{},
		},
		Pipeline: PipelineConfig{
			Concurrency:     3,
			ProviderTimeout: "120s",
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// DefaultPath returns the default config location under the workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, ".postforge", "config.yaml")
}

// Load reads the config file at path, layered over defaults, then applies
// environment overrides. A missing file is not an error: defaults plus env
// are used.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides lets deploys set secrets and knobs without a config file.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Providers.Text.APIKey = v
	}
	if v := os.Getenv("POSTFORGE_TEXT_MODEL"); v != "" {
		c.Providers.Text.Model = v
	}
	if v := os.Getenv("POSTFORGE_DESIGN_URL"); v != "" {
		c.Providers.Design.BaseURL = v
	}
	if v := os.Getenv("POSTFORGE_DESIGN_API_KEY"); v != "" {
		c.Providers.Design.APIKey = v
	}
	if v := os.Getenv("POSTFORGE_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Pipeline.Concurrency = n
		}
	}
	if v := os.Getenv("POSTFORGE_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
	}
}

// TextTimeout resolves the text provider timeout. An explicit
// providers.text.timeout wins, then pipeline.provider_timeout.
func (c *Config) TextTimeout() time.Duration {
	return parseDuration(c.Providers.Text.Timeout, c.ProviderTimeout())
}

// DesignTimeout resolves the design provider timeout. An explicit
// providers.design.timeout wins, then pipeline.provider_timeout.
func (c *Config) DesignTimeout() time.Duration {
	return parseDuration(c.Providers.Design.Timeout, c.ProviderTimeout())
}

// ProviderTimeout parses the shared per-call timeout with a safe fallback.
func (c *Config) ProviderTimeout() time.Duration {
	return parseDuration(c.Pipeline.ProviderTimeout, 120*time.Second)
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
