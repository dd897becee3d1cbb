// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package main

import (
	"context"

	"github.com/plugboard/plugboard/internal/cache"
	"github.com/plugboard/plugboard/internal/config"
	"github.com/plugboard/plugboard/internal/event"
	"github.com/plugboard/plugboard/internal/observability"
	"github.com/plugboard/plugboard/internal/registry"
	"github.com/plugboard/plugboard/internal/store"
)

// buildManager assembles a registry manager from the configuration. When
// a database URL is configured, a load-audit recorder is attached to the
// manager's bus. The returned cleanup releases the database pool.
func buildManager(ctx context.Context, cfg config.Config, metrics *observability.Metrics) (*registry.Manager, func(), error) {
	mem, err := cache.NewMemory(cfg.CacheSize)
	if err != nil {
		return nil, nil, err
	}

	opts := []registry.Option{
		registry.WithCache(mem),
		registry.WithIgnorePatterns(cfg.Ignore...),
	}
	if metrics != nil {
		opts = append(opts, registry.WithMetrics(metrics))
	}

	cleanup := func() {}
	if cfg.DatabaseURL != "" {
		pool, err := store.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		bus := event.NewBus()
		bus.Register(store.NewRecorder(store.NewPluginEventLog(pool)))
		opts = append(opts, registry.WithBus(bus))
		cleanup = pool.Close
	}

	mgr, err := registry.NewManager(cfg.PluginDir, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return mgr, cleanup, nil
}
