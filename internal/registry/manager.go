// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package registry

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/plugboard/plugboard/internal/cache"
	"github.com/plugboard/plugboard/internal/descriptor"
	"github.com/plugboard/plugboard/internal/event"
	"github.com/plugboard/plugboard/internal/observability"
	"github.com/plugboard/plugboard/internal/plugin"
	pluginlua "github.com/plugboard/plugboard/internal/plugin/lua"
	"github.com/plugboard/plugboard/pkg/errutil"
)

// CacheKey is the single cache entry the registry stores its holder under.
const CacheKey = "pluginCache"

// libSubdir is the default compiled-code directory inside a unit.
const libSubdir = "lib"

// Manager orchestrates plugin loading and answers registry queries. All
// operations serialize on one mutex; queries read through the cache and
// trigger exactly one full load pass on a miss.
type Manager struct {
	mu       sync.Mutex
	dir      string
	cache    cache.Cache
	bus      *event.Bus
	resolver plugin.Resolver
	ignore   []glob.Glob
	metrics  *observability.Metrics
	logger   *slog.Logger

	// codeLocs is rebuilt on every load pass from the units that loaded.
	codeLocs []string
}

// Option configures a Manager.
type Option func(*Manager) error

// WithCache replaces the default in-memory cache.
func WithCache(c cache.Cache) Option {
	return func(m *Manager) error {
		m.cache = c
		return nil
	}
}

// WithBus replaces the default event bus.
func WithBus(b *event.Bus) Option {
	return func(m *Manager) error {
		m.bus = b
		return nil
	}
}

// WithResolver replaces the default resolver chain.
func WithResolver(r plugin.Resolver) Option {
	return func(m *Manager) error {
		m.resolver = r
		return nil
	}
}

// WithIgnorePatterns skips unit directories whose base name matches any
// of the given glob patterns.
func WithIgnorePatterns(patterns ...string) Option {
	return func(m *Manager) error {
		for _, pat := range patterns {
			g, err := glob.Compile(pat)
			if err != nil {
				return oops.With("pattern", pat).Wrap(err)
			}
			m.ignore = append(m.ignore, g)
		}
		return nil
	}
}

// WithMetrics records load activity into the given metrics.
func WithMetrics(metrics *observability.Metrics) Option {
	return func(m *Manager) error {
		m.metrics = metrics
		return nil
	}
}

// WithLogger replaces the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) error {
		m.logger = logger
		return nil
	}
}

// NewManager creates a registry manager rooted at the given plugin
// directory. By default it uses an in-memory cache, a fresh event bus and
// a builtin-then-Lua resolver chain.
func NewManager(dir string, opts ...Option) (*Manager, error) {
	mem, err := cache.NewMemory(cache.DefaultSize)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		dir:      dir,
		cache:    mem,
		bus:      event.NewBus(),
		resolver: plugin.Resolvers{plugin.NewBuiltin(), pluginlua.NewResolver()},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Bus returns the event bus plugins' listeners are registered on.
func (m *Manager) Bus() *event.Bus {
	return m.bus
}

// Ready reports whether the registry has a warm cache.
func (m *Manager) Ready() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.cache.Get(CacheKey)
	return ok
}

// Load scans the plugin directory and loads every unit in it, merging the
// results onto the cached holder. A unit that fails to load is logged and
// skipped; the pass continues with the remaining units. After the pass a
// plugins-loaded event carrying this pass's plugins is published
// synchronously, and a listener error fails the load.
func (m *Manager) Load(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loadLocked(ctx)
}

func (m *Manager) loadLocked(ctx context.Context) error {
	start := time.Now()

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return oops.With("dir", m.dir).Wrap(err)
	}

	holder := m.holderLocked()
	m.codeLocs = m.codeLocs[:0]

	var loaded []*plugin.Plugin
	for _, entry := range entries {
		name := entry.Name()
		if !entry.IsDir() {
			m.logger.Warn("skipping non-directory in plugin root", "name", name)
			continue
		}
		if strings.HasPrefix(name, ".") || m.ignored(name) {
			m.logger.Debug("skipping ignored plugin directory", "name", name)
			continue
		}

		p, err := m.loadUnit(ctx, filepath.Join(m.dir, name))
		if err != nil {
			errutil.LogWarn(m.logger, "skipping plugin unit", err)
			m.countFailure(err)
			continue
		}

		holder.Register(p)
		loaded = append(loaded, p)
		m.codeLocs = append(m.codeLocs, p.CodeLocations...)
		if m.metrics != nil {
			m.metrics.PluginsLoaded.Inc()
		}
		m.logger.Info("loaded plugin", "plugin", p.ID(), "status", string(p.Status))
	}

	m.cache.Put(CacheKey, holder)

	if m.metrics != nil {
		m.metrics.PluginsRegistered.Set(float64(len(holder.Plugins())))
		m.metrics.LoadDuration.Observe(time.Since(start).Seconds())
	}

	m.logger.Info("plugin load pass complete",
		"loaded", len(loaded),
		"views", len(holder.Views()),
		"duration", time.Since(start))

	return m.bus.PublishSync(ctx, event.New(event.TypePluginsLoaded, loaded))
}

// loadUnit loads one unit directory into a registered, enabled plugin.
func (m *Manager) loadUnit(ctx context.Context, dir string) (*plugin.Plugin, error) {
	desc, err := descriptor.Parse(dir)
	if err != nil {
		return nil, err
	}

	if len(desc.RendererIDs) == 0 {
		return nil, oops.Code("NO_RENDERER_ID").
			With("dir", filepath.Base(dir)).
			With("plugin", desc.Name).
			Errorf("descriptor declares no renderer id")
	}

	locations := m.unitLocations(dir, desc)

	entryType := desc.EntryType
	if entryType == "" {
		entryType = plugin.DefaultEntryType
	}
	entry, err := m.resolver.Resolve(ctx, locations, entryType)
	if err != nil {
		return nil, oops.Code("ENTRY_RESOLVE_FAILED").
			With("dir", filepath.Base(dir)).
			With("entry", entryType).
			Wrap(err)
	}

	for _, token := range desc.ListenerTypes {
		if strings.TrimSpace(token) == "" {
			continue
		}
		l, err := m.resolver.ResolveListener(ctx, locations, token)
		if err != nil {
			return nil, oops.Code("LISTENER_RESOLVE_FAILED").
				With("dir", filepath.Base(dir)).
				With("listener", token).
				Wrap(err)
		}
		m.bus.Register(l)
	}

	p := &plugin.Plugin{
		Name:          desc.Name,
		Author:        desc.Author,
		Version:       desc.Version,
		Dir:           dir,
		RendererIDs:   desc.RendererIDs,
		Types:         desc.Types,
		Settings:      desc.Settings,
		Langs:         descriptor.ReadLangs(dir),
		CodeLocations: locations,
		Entry:         entry,
	}
	p.ChangeStatus()
	return p, nil
}

// unitLocations returns the code directories of one unit: its lib
// subdirectory, plus the descriptor's libDir resolved against the plugin
// root's parent.
func (m *Manager) unitLocations(dir string, desc *descriptor.Descriptor) []string {
	locations := []string{filepath.Join(dir, libSubdir)}
	if desc.LibDir != "" {
		locations = append(locations, filepath.Join(filepath.Dir(m.dir), desc.LibDir))
	}
	return locations
}

// Update replaces the registered plugin matching p's identity in each of
// p's views and toggles its status. The holder is read through the cache,
// loading from disk on a miss.
func (m *Manager) Update(ctx context.Context, p *plugin.Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	holder, err := m.readThroughLocked(ctx)
	if err != nil {
		return err
	}

	for _, view := range p.RendererIDs {
		set, ok := holder.View(view)
		if !ok {
			return oops.Code("REGISTRY_STATE").
				With("view", view).
				With("plugin", p.ID()).
				Errorf("no plugin set registered for renderer id")
		}
		set.RemoveID(p.ID())
		set.Add(p)
	}

	p.ChangeStatus()
	m.cache.Put(CacheKey, holder)

	m.logger.Info("updated plugin", "plugin", p.ID(), "status", string(p.Status))
	return nil
}

// Plugins returns every registered plugin, once per view it appears in.
func (m *Manager) Plugins(ctx context.Context) ([]*plugin.Plugin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	holder, err := m.readThroughLocked(ctx)
	if err != nil {
		return nil, err
	}
	return holder.Plugins(), nil
}

// PluginsForView returns the plugins registered under the given renderer
// id, empty when the view is unknown.
func (m *Manager) PluginsForView(ctx context.Context, view string) ([]*plugin.Plugin, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	holder, err := m.readThroughLocked(ctx)
	if err != nil {
		return nil, err
	}

	set, ok := holder.View(view)
	if !ok {
		return nil, nil
	}
	return set.Plugins(), nil
}

// CodeLocations returns the code directories collected by the most recent
// load pass.
func (m *Manager) CodeLocations() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.codeLocs))
	copy(out, m.codeLocs)
	return out
}

// readThroughLocked returns the cached holder, running one full load pass
// on a miss. A holder still missing after that reload is a registry state
// error.
func (m *Manager) readThroughLocked(ctx context.Context) (*Holder, error) {
	if holder, ok := m.cachedHolderLocked(); ok {
		return holder, nil
	}

	m.logger.Info("plugin cache miss, reloading from disk")
	if err := m.loadLocked(ctx); err != nil {
		return nil, err
	}

	holder, ok := m.cachedHolderLocked()
	if !ok {
		return nil, oops.Code("REGISTRY_STATE").
			Errorf("plugin holder missing after reload")
	}
	return holder, nil
}

// holderLocked returns the cached holder or a fresh empty one.
func (m *Manager) holderLocked() *Holder {
	if holder, ok := m.cachedHolderLocked(); ok {
		return holder
	}
	return NewHolder()
}

func (m *Manager) cachedHolderLocked() (*Holder, bool) {
	v, ok := m.cache.Get(CacheKey)
	if !ok {
		return nil, false
	}
	holder, ok := v.(*Holder)
	return holder, ok
}

// ignored reports whether a unit directory name matches an ignore pattern.
func (m *Manager) ignored(name string) bool {
	for _, g := range m.ignore {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// countFailure records a per-unit load failure by its error code.
func (m *Manager) countFailure(err error) {
	if m.metrics == nil {
		return
	}
	reason := "unknown"
	if oopsErr, ok := oops.AsOops(err); ok {
		if code, ok := oopsErr.Code().(string); ok && code != "" {
			reason = strings.ToLower(code)
		}
	}
	m.metrics.LoadFailures.WithLabelValues(reason).Inc()
}
