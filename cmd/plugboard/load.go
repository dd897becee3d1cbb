// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package main

import (
	"github.com/spf13/cobra"
)

// NewLoadCmd creates the load subcommand.
func NewLoadCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "load",
		Short: "Run one plugin load pass",
		Long: `Scan the plugin directory, load every unit in it and print a
summary. With a database URL configured, the pass is recorded in the
load audit trail.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			mgr, cleanup, err := buildManager(ctx, cfg, nil)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := mgr.Load(ctx); err != nil {
				return err
			}

			plugins, err := mgr.Plugins(ctx)
			if err != nil {
				return err
			}
			cmd.Printf("loaded %d plugin registrations from %s\n", len(plugins), cfg.PluginDir)
			return nil
		},
	}
}
