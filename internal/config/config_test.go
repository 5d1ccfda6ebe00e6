// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0600))
	return configPath
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.Raster.DPI)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
	assert.Equal(t, "metrics", cfg.Observability.Level)
}

func TestLoadConfig_Overlay(t *testing.T) {
	configPath := writeConfig(t, `
raster:
  dpi: 300
output:
  color: never
`)
	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 300.0, cfg.Raster.DPI)
	assert.Equal(t, ColorNever, cfg.Output.Color)
	// Keys absent from the file keep their built-in values
	assert.Equal(t, "metrics", cfg.Observability.Level)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero dpi", "raster:\n  dpi: 0\n"},
		{"negative dpi", "raster:\n  dpi: -72\n"},
		{"unknown color", "output:\n  color: rainbow\n"},
		{"unknown level", "observability:\n  level: chatty\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"unclosed flow sequence", "raster: [unclosed"},
		{"scalar document", ":::invalid yaml:::"},
		{"sequence document", "- dpi\n- 300\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfig_EmptyOverlayKeepsDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.Raster.DPI)
	assert.Equal(t, ColorAuto, cfg.Output.Color)
}

func TestLoadConfigOrDefault_NonexistentFile(t *testing.T) {
	cfg := LoadConfigOrDefault("/nonexistent/path/config.yaml")
	require.NotNil(t, cfg)
	assert.Equal(t, 200.0, cfg.Raster.DPI)
}

func TestUseColor(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.True(t, cfg.UseColor(true))
	assert.False(t, cfg.UseColor(false))

	cfg.Output.Color = ColorAlways
	assert.True(t, cfg.UseColor(false))

	cfg.Output.Color = ColorNever
	assert.False(t, cfg.UseColor(true))
}

func TestValidateConfig_Nil(t *testing.T) {
	assert.Error(t, ValidateConfig(nil))
}
