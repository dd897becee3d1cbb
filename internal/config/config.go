// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package config loads registry configuration from defaults, an optional
// YAML file and command-line flags, in that order of precedence.
package config

import (
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/plugboard/plugboard/internal/xdg"
)

// Config is the runtime configuration of the plugin registry.
type Config struct {
	// PluginDir is the directory scanned for plugin units.
	PluginDir string `koanf:"plugin_dir" json:"plugin_dir" jsonschema:"description=Directory scanned for plugin units"`

	// LogFormat selects json or text log output.
	LogFormat string `koanf:"log_format" json:"log_format" jsonschema:"enum=json,enum=text,description=Log output format"`

	// MetricsAddr is the metrics/health listen address, empty disables it.
	MetricsAddr string `koanf:"metrics_addr" json:"metrics_addr,omitempty" jsonschema:"description=Metrics and health HTTP listen address (empty = disabled)"`

	// DatabaseURL enables the Postgres load audit trail when set.
	DatabaseURL string `koanf:"database_url" json:"database_url,omitempty" jsonschema:"description=PostgreSQL URL for the load audit trail (empty = disabled)"`

	// Ignore lists glob patterns of unit directories to skip.
	Ignore []string `koanf:"ignore" json:"ignore,omitempty" jsonschema:"description=Glob patterns of unit directory names to skip"`

	// CacheSize is the entry capacity of the registry cache.
	CacheSize int `koanf:"cache_size" json:"cache_size,omitempty" jsonschema:"minimum=1,description=Entry capacity of the registry cache"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		PluginDir:   filepath.Join(xdg.DataDir(), "plugins"),
		LogFormat:   "json",
		MetricsAddr: "",
		CacheSize:   1024,
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *Config) Validate() error {
	if c.PluginDir == "" {
		return oops.Errorf("plugin_dir is required")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.With("log_format", c.LogFormat).
			Errorf("log_format must be 'json' or 'text'")
	}
	if c.CacheSize < 1 {
		return oops.With("cache_size", c.CacheSize).
			Errorf("cache_size must be at least 1")
	}
	return nil
}

// Load builds a Config from defaults, then the YAML file at path (skipped
// when path is empty or missing), then any explicitly set flags.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return cfg, oops.With("path", path).Wrap(err)
			}
		} else if !os.IsNotExist(err) {
			return cfg, oops.With("path", path).Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return cfg, oops.Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, oops.Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
