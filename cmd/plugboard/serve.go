// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/plugboard/plugboard/internal/config"
	"github.com/plugboard/plugboard/internal/observability"
	"github.com/plugboard/plugboard/internal/registry"
	"github.com/plugboard/plugboard/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the registry as a long-lived process",
		Long: `Load the plugin directory and keep serving queries. SIGHUP
triggers a reload pass; SIGINT and SIGTERM shut down gracefully. With a
metrics address configured, Prometheus metrics and health probes are
served over HTTP.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, *configFile)
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		mgr     *registry.Manager
		obs     *observability.Server
		metrics *observability.Metrics
		obsErr  <-chan error
	)
	if cfg.MetricsAddr != "" {
		obs = observability.NewServer(cfg.MetricsAddr, func() bool {
			return mgr != nil && mgr.Ready()
		})
		metrics = obs.Metrics()
	}

	mgr, cleanup, err := buildManager(ctx, cfg, metrics)
	if err != nil {
		return err
	}
	defer cleanup()

	if obs != nil {
		obsErr, err = obs.Start()
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := obs.Stop(shutdownCtx); err != nil {
				errutil.LogError(slog.Default(), "observability shutdown failed", err)
			}
		}()
	}

	if err := mgr.Load(ctx); err != nil {
		return err
	}

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	slog.Info("plugboard serving",
		"plugin_dir", cfg.PluginDir,
		"metrics_addr", cfg.MetricsAddr)

	for {
		select {
		case <-ctx.Done():
			slog.Info("shutting down")
			return nil
		case <-hup:
			slog.Info("reload requested")
			if err := mgr.Load(ctx); err != nil {
				errutil.LogError(slog.Default(), "reload failed", err)
			}
		case err := <-obsErr:
			if err != nil {
				return err
			}
		}
	}
}
