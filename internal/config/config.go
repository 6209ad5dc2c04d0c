// Package config loads prompt's optional project configuration.
//
// Configuration lives at .prompt/config.yaml, found by searching upward from
// the primary path. Flags always override file values; the file only sets
// defaults for a project.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// configRelPath is where a project's config sits relative to a directory on
// the upward search path.
var configRelPath = filepath.Join(".prompt", "config.yaml")

// Config represents prompt configuration options
type Config struct {
	// Exclude is a list of glob patterns always excluded for this project,
	// merged with any --exclude flags
	Exclude []string `yaml:"exclude"`

	// LogLevel sets the logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// CountTokens toggles per-file token counting
	CountTokens bool `yaml:"count_tokens"`

	// Format selects the default output format (plain, json, yaml)
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		Exclude:     nil,
		LogLevel:    "warn",
		CountTokens: true,
		Format:      "plain",
	}
}

// FindConfigPath searches upward from start for .prompt/config.yaml,
// returning the first hit.
func FindConfigPath(start string) (string, bool) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", false
	}
	if info, err := os.Stat(dir); err == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, configRelPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Distinguish "absent" from "explicitly false" for the boolean field.
	type yamlConfig struct {
		Exclude     []string `yaml:"exclude"`
		LogLevel    string   `yaml:"log_level"`
		CountTokens *bool    `yaml:"count_tokens"`
		Format      string   `yaml:"format"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if len(yamlCfg.Exclude) > 0 {
		cfg.Exclude = yamlCfg.Exclude
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.CountTokens != nil {
		cfg.CountTokens = *yamlCfg.CountTokens
	}
	if yamlCfg.Format != "" {
		cfg.Format = yamlCfg.Format
	}
	return cfg, nil
}

// Load finds and loads the project config governing start, falling back to
// defaults when no config file exists anywhere above it.
func Load(start string) (*Config, error) {
	path, ok := FindConfigPath(start)
	if !ok {
		return DefaultConfig(), nil
	}
	return LoadConfig(path)
}
