// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/plugboard/plugboard/internal/descriptor"
)

// NewValidateCmd creates the validate subcommand.
func NewValidateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate plugin descriptors without loading",
		Long: `Parse every unit descriptor in the plugin directory and report
problems. No entry points are instantiated and nothing is registered.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}

			entries, err := os.ReadDir(cfg.PluginDir)
			if err != nil {
				return oops.With("dir", cfg.PluginDir).Wrap(err)
			}

			var failed int
			for _, entry := range entries {
				name := entry.Name()
				if !entry.IsDir() || strings.HasPrefix(name, ".") {
					continue
				}

				d, err := descriptor.Parse(filepath.Join(cfg.PluginDir, name))
				if err != nil {
					failed++
					cmd.Printf("FAIL  %s: %v\n", name, err)
					continue
				}
				if len(d.RendererIDs) == 0 {
					failed++
					cmd.Printf("FAIL  %s: descriptor declares no renderer id\n", name)
					continue
				}
				cmd.Printf("OK    %s (%s_%s)\n", name, d.Name, d.Version)
			}

			if failed > 0 {
				return oops.With("failed", failed).Errorf("%d unit(s) failed validation", failed)
			}
			return nil
		},
	}
}
