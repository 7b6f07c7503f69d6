// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/naka-gawa/issue-tenure/internal/domain"
	"gopkg.in/yaml.v3"
)

// TokenEnv is the environment variable that overrides the configured token.
const TokenEnv = "GITHUB_TOKEN"

// Config represents the application configuration. Zero values mean "use
// the default".
type Config struct {
	// Token is never logged.
	Token             string  `yaml:"token,omitempty"`
	API               string  `yaml:"api,omitempty"`
	BaseURL           string  `yaml:"base_url,omitempty"`
	Workers           int     `yaml:"workers,omitempty"`
	RequestsPerSecond float64 `yaml:"requests_per_second,omitempty"`
	Format            string  `yaml:"format,omitempty"`
}

// DefaultPath returns $XDG_CONFIG_HOME/issue-tenure/config.yaml (or the
// platform equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "issue-tenure", "config.yaml"), nil
}

// Load reads the config file at path. An empty path means DefaultPath, and a
// missing default file is not an error; a missing explicit file is. The
// GITHUB_TOKEN environment variable overrides the file's token.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = DefaultPath(); err != nil {
			path = ""
		}
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, domain.NewConfigurationError("failed to parse config file %s: %v", path, err)
			}
		case errors.Is(err, fs.ErrNotExist) && !explicit:
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Token = token
	}
	return cfg, nil
}

// Validate checks values the file or flags may have set.
func (c *Config) Validate() error {
	switch c.API {
	case "", "rest", "graphql":
	default:
		return domain.NewConfigurationError("unknown api %q, expected rest or graphql", c.API)
	}
	switch c.Format {
	case "", "csv", "xlsx":
	default:
		return domain.NewConfigurationError("unknown output format %q, expected csv or xlsx", c.Format)
	}
	if c.Workers < 0 {
		return domain.NewConfigurationError("workers must not be negative, got %d", c.Workers)
	}
	if c.RequestsPerSecond < 0 {
		return domain.NewConfigurationError("requests per second must not be negative, got %g", c.RequestsPerSecond)
	}
	return nil
}
