// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/plugboard/plugboard/internal/config"
	"github.com/plugboard/plugboard/internal/logging"
)

// NewRootCmd creates the root command for the plugboard CLI.
func NewRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "plugboard",
		Short: "Plugboard - a filesystem plugin registry",
		Long: `Plugboard discovers plugin units on disk, instantiates their entry
points and indexes them by the presentation surfaces they extend.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	registerConfigFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewLoadCmd(&configFile))
	cmd.AddCommand(NewListCmd(&configFile))
	cmd.AddCommand(NewValidateCmd(&configFile))
	cmd.AddCommand(NewServeCmd(&configFile))
	cmd.AddCommand(NewMigrateCmd(&configFile))

	return cmd
}

// registerConfigFlags declares one flag per configuration key, named after
// the key so file and flag values merge cleanly.
func registerConfigFlags(fs *pflag.FlagSet) {
	def := config.Default()
	fs.String("plugin_dir", def.PluginDir, "directory scanned for plugin units")
	fs.String("log_format", def.LogFormat, "log output format (json or text)")
	fs.String("metrics_addr", def.MetricsAddr, "metrics/health HTTP address (empty = disabled)")
	fs.String("database_url", def.DatabaseURL, "PostgreSQL URL for the load audit trail (empty = disabled)")
	fs.StringSlice("ignore", def.Ignore, "glob patterns of unit directory names to skip")
	fs.Int("cache_size", def.CacheSize, "entry capacity of the registry cache")
}

// loadConfig resolves the effective configuration for a subcommand and
// installs the default logger.
func loadConfig(cmd *cobra.Command, configFile string) (config.Config, error) {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return cfg, err
	}
	logging.SetDefault("plugboard", version, cfg.LogFormat)
	return cfg, nil
}
