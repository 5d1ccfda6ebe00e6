// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultConfigYAML []byte

// Colour modes accepted by Output.Color
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the application configuration
type Config struct {
	Raster struct {
		DPI float64 `yaml:"dpi"`
	} `yaml:"raster"`

	Output struct {
		Color string `yaml:"color"`
	} `yaml:"output"`

	Observability struct {
		Level string `yaml:"level"`
	} `yaml:"observability"`
}

// LoadConfig returns the built-in defaults, overlaid with configPath when it is not empty
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	if err := yaml.Unmarshal(defaultConfigYAML, config); err != nil {
		return nil, fmt.Errorf("error parsing built-in defaults: %w", err)
	}

	if configPath != "" {
		data, err := os.ReadFile(filepath.Clean(configPath))
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := decodeOverlay(data, config); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// decodeOverlay merges a YAML mapping into config. An empty document changes nothing.
func decodeOverlay(data []byte, config *Config) error {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return err
	}
	if len(root.Content) == 0 {
		return nil
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: top level must be a mapping", root.Content[0].Line)
	}
	return root.Decode(config)
}

// LoadConfigOrDefault never fails; a bad file falls back to the built-in defaults
func LoadConfigOrDefault(configPath string) *Config {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		cfg, _ = LoadConfig("")
	}
	return cfg
}

// ValidateConfig checks value ranges
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	if config.Raster.DPI <= 0 {
		return fmt.Errorf("raster dpi must be positive, got %v", config.Raster.DPI)
	}

	switch config.Output.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q", config.Output.Color)
	}

	switch config.Observability.Level {
	case "off", "metrics", "debug":
	default:
		return fmt.Errorf("unknown observability level %q", config.Observability.Level)
	}

	return nil
}

// UseColor resolves the colour mode against whether stdout is a terminal
func (c *Config) UseColor(isTerminal bool) bool {
	switch c.Output.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	return isTerminal
}
