// Package config loads the tracker's configuration.
//
// Config file locations (priority order):
//  1. --config flag
//  2. $ECOTRACK_CONFIG
//  3. ./ecotrack.yaml
//  4. ~/.config/ecotrack/config.yaml
//
// $ECOTRACK_DB overrides the database path regardless of config source.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the tracker's full configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// Load resolves and loads the config file, returning the config and the
// path it was loaded from ("" when defaults were used). explicit, when
// non-empty, bypasses the search path and must exist.
func Load(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = FindConfigPath()
	}
	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv()
		return cfg, "", nil
	}

	cfg, err := loadFromPath(path)
	if err != nil {
		return nil, path, err
	}
	cfg.applyEnv()
	return cfg, path, nil
}

func loadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// FindConfigPath returns the first existing config file on the search
// path, or "" when none exists.
func FindConfigPath() string {
	if p := os.Getenv("ECOTRACK_CONFIG"); p != "" {
		return p
	}
	candidates := []string{"./ecotrack.yaml"}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", "ecotrack", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultConfig returns the defaults for a fresh checkout.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "./ecotrack.db"},
	}
}

func (c *Config) applyDefaults() {
	if c.Database.Path == "" {
		c.Database.Path = DefaultConfig().Database.Path
	}
}

func (c *Config) applyEnv() {
	if p := os.Getenv("ECOTRACK_DB"); p != "" {
		c.Database.Path = p
	}
}
