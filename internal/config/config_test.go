// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugboard/plugboard/internal/config"
)

// newFlags mirrors the flag set the CLI declares, with defaults taken
// from the built-in configuration.
func newFlags() *pflag.FlagSet {
	def := config.Default()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("plugin_dir", def.PluginDir, "")
	fs.String("log_format", def.LogFormat, "")
	fs.String("metrics_addr", def.MetricsAddr, "")
	fs.String("database_url", def.DatabaseURL, "")
	fs.StringSlice("ignore", def.Ignore, "")
	fs.Int("cache_size", def.CacheSize, "")
	return fs
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plugboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 1024, cfg.CacheSize)
	assert.NotEmpty(t, cfg.PluginDir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
plugin_dir: /srv/plugins
log_format: text
ignore:
  - "_*"
  - "*.bak"
`)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "/srv/plugins", cfg.PluginDir)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"_*", "*.bak"}, cfg.Ignore)
	assert.Equal(t, 1024, cfg.CacheSize, "unset keys keep their defaults")
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeConfig(t, "plugin_dir: /srv/plugins\n")

	fs := newFlags()
	require.NoError(t, fs.Parse([]string{"--plugin_dir=/opt/plugins", "--cache_size=16"}))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "/opt/plugins", cfg.PluginDir)
	assert.Equal(t, 16, cfg.CacheSize)
}

func TestLoad_UnchangedFlagKeepsFileValue(t *testing.T) {
	path := writeConfig(t, "plugin_dir: /srv/plugins\n")

	fs := newFlags()
	require.NoError(t, fs.Parse(nil))

	cfg, err := config.Load(path, fs)
	require.NoError(t, err)
	assert.Equal(t, "/srv/plugins", cfg.PluginDir,
		"a flag left at its default does not shadow the file")
}

func TestLoad_MissingFileIsIgnored(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeConfig(t, "plugin_dir: [unclosed\n")
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	path := writeConfig(t, "log_format: xml\n")
	_, err := config.Load(path, nil)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	bad := cfg
	bad.PluginDir = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.CacheSize = 0
	assert.Error(t, bad.Validate())
}
