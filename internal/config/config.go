// Package config loads the optional user configuration. The core contract
// carries no flags or environment variables; everything here belongs to the
// outer command layer and only widens what the user may tune (extra
// allow-list entries, window geometry, data directory).
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/grokdesk/grokdesk/internal/policy"
)

// envPrefix namespaces environment overrides (GROKDESK_DATA_DIR, ...).
const envPrefix = "grokdesk"

// WindowConfig is the initial window geometry.
type WindowConfig struct {
	Width  int `yaml:"width" envconfig:"WINDOW_WIDTH"`
	Height int `yaml:"height" envconfig:"WINDOW_HEIGHT"`
}

// Config is the merged configuration: defaults, then the YAML file, then
// environment overrides.
type Config struct {
	DefaultURL          string       `yaml:"default_url" envconfig:"DEFAULT_URL"`
	ExtraAllowedDomains []string     `yaml:"extra_allowed_domains" envconfig:"EXTRA_ALLOWED_DOMAINS"`
	DataDir             string       `yaml:"data_dir" envconfig:"DATA_DIR"`
	Window              WindowConfig `yaml:"window"`
}

// Default returns the stock configuration.
func Default() *Config {
	return &Config{
		DefaultURL: policy.DefaultURL,
		Window:     WindowConfig{Width: 1200, Height: 820},
	}
}

// Load reads the configuration file at path, if it exists, and applies
// environment overrides. A missing file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := envconfig.Process(envPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}
	return cfg, nil
}

// AllowList builds the effective allow-list: the built-in entries plus any
// user additions. The built-ins can be extended, never removed.
func (c *Config) AllowList() *policy.AllowList {
	return policy.DefaultAllowList().Extend(c.ExtraAllowedDomains...)
}
