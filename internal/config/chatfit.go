// Package config loads ChatFit client configuration from an optional yaml
// file with environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all client settings.
type Config struct {
	// BaseURL is the storefront backend root, e.g. http://127.0.0.1:8000.
	BaseURL string `yaml:"base_url"`
	// Token is the bearer token attached to every request when set.
	Token string `yaml:"token"`
	// DebounceMS is the refresh coalescing window in milliseconds.
	DebounceMS int `yaml:"debounce_ms"`
	// RequestTimeout bounds each HTTP call, e.g. "10s".
	RequestTimeout string `yaml:"request_timeout"`
	// Debug switches logging to development output.
	Debug bool `yaml:"debug"`
}

// Default returns the local development settings.
func Default() Config {
	return Config{
		BaseURL:        "http://127.0.0.1:8000",
		DebounceMS:     1000,
		RequestTimeout: "10s",
	}
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".chatfit", "config.yaml")
}

// Load builds the effective config: defaults, then the yaml file if present,
// then environment overrides. A missing file is not an error; a malformed
// one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("config: reading %s: %w", path, err)
		}
	}
	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHATFIT_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("CHATFIT_TOKEN"); v != "" {
		c.Token = v
	}
	if v := os.Getenv("CHATFIT_DEBOUNCE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil {
			c.DebounceMS = ms
		}
	}
	if v := os.Getenv("CHATFIT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Debug = b
		}
	}
}

// Validate rejects settings that cannot produce a working client.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("config: base_url is required")
	}
	if c.DebounceMS <= 0 {
		return fmt.Errorf("config: debounce_ms must be positive, got %d", c.DebounceMS)
	}
	if _, err := time.ParseDuration(c.RequestTimeout); c.RequestTimeout != "" && err != nil {
		return fmt.Errorf("config: request_timeout: %w", err)
	}
	return nil
}

// DebounceWindow returns the refresh coalescing window.
func (c Config) DebounceWindow() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Timeout returns the per-request timeout, defaulting to 10s.
func (c Config) Timeout() time.Duration {
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}
