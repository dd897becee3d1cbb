// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package main

import (
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/plugboard/plugboard/internal/plugin"
)

// NewListCmd creates the list subcommand.
func NewListCmd(configFile *string) *cobra.Command {
	var view string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered plugins",
		Long: `List every registered plugin, or only those extending one
renderer id when --view is given. A cold cache triggers a load pass.`,
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

			var plugins []*plugin.Plugin
			if cmd.Flags().Changed("view") {
				plugins, err = mgr.PluginsForView(ctx, view)
			} else {
				plugins, err = mgr.Plugins(ctx)
			}
			if err != nil {
				return err
			}

			if len(plugins) == 0 {
				cmd.Println("no plugins registered")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			defer w.Flush()

			if _, err := w.Write([]byte("ID\tAUTHOR\tSTATUS\tTYPES\tVIEWS\n")); err != nil {
				return err
			}
			for _, p := range plugins {
				types := make([]string, len(p.Types))
				for i, t := range p.Types {
					types[i] = string(t)
				}
				row := strings.Join([]string{
					p.ID(),
					p.Author,
					string(p.Status),
					strings.Join(types, ","),
					strings.Join(p.RendererIDs, ";"),
				}, "\t")
				if _, err := w.Write([]byte(row + "\n")); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&view, "view", "", "only plugins registered under this renderer id")
	return cmd
}
