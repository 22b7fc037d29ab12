// Package config provides configuration management for grapholite.
//
// Config file locations (priority order):
//  1. $GRAPHOLITE_CONFIG
//  2. ./grapholite.yaml
//  3. $XDG_CONFIG_HOME/grapholite/config.yaml
//  4. ~/.config/grapholite/config.yaml
//  5. /etc/grapholite/config.yaml
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the application configuration
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Diagrams DiagramsConfig `yaml:"diagrams"`
}

// ServerConfig configures the HTTP server
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig configures the SQLite store
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// DiagramsConfig configures the diagram directory watcher
type DiagramsConfig struct {
	// Dir is scanned for *.graphol files; empty disables watching.
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		// No config found - return defaults
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := EnsureConfigDir(path); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	return &Config{
		Version:  1,
		Server:   ServerConfig{Addr: ":3000"},
		Database: DatabaseConfig{Path: "./grapholite.db"},
		Diagrams: DiagramsConfig{},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":3000"
	}
	if c.Database.Path == "" {
		c.Database.Path = "./grapholite.db"
	}
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Server: %s, Database: %s", c.Server.Addr, c.Database.Path)
	if c.Diagrams.Dir != "" {
		summary += fmt.Sprintf(", Diagrams: %s (watch=%v)", c.Diagrams.Dir, c.Diagrams.Watch)
	}
	return summary
}
