// Package config loads the optional rivet.yaml CLI configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional rivet.yaml configuration.
type Config struct {
	// Prefix overrides the directive attribute prefix (default "@").
	Prefix string `yaml:"prefix,omitempty"`
	// Sanitize enables bluemonday sanitation of markup injected through
	// @html directives.
	Sanitize bool `yaml:"sanitize,omitempty"`
}

// LoadOptional reads rivet.yaml from dir if present. A missing file yields
// the zero config, not an error.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "rivet.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read rivet.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse rivet.yaml: %w", err)
	}
	return &cfg, nil
}
