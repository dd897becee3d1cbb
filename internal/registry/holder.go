// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package registry loads plugin units from disk, indexes them by renderer
// identifier and answers queries through a cache-backed read path.
package registry

import (
	"sort"

	"github.com/plugboard/plugboard/internal/plugin"
)

// Set is a collection of plugins keyed by identity (name + "_" + version).
// Adding a plugin with an identity already present replaces it.
type Set struct {
	byID map[string]*plugin.Plugin
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{byID: make(map[string]*plugin.Plugin)}
}

// Add inserts p, replacing any plugin with the same identity.
func (s *Set) Add(p *plugin.Plugin) {
	s.byID[p.ID()] = p
}

// RemoveID drops the plugin with the given identity, if present.
func (s *Set) RemoveID(id string) {
	delete(s.byID, id)
}

// Contains reports whether a plugin with the given identity is present.
func (s *Set) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

// Len returns the number of plugins in the set.
func (s *Set) Len() int {
	return len(s.byID)
}

// Plugins returns the members ordered by identity.
func (s *Set) Plugins() []*plugin.Plugin {
	out := make([]*plugin.Plugin, 0, len(s.byID))
	for _, p := range s.byID {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Holder maps renderer identifiers to the set of plugins extending that
// surface. One plugin declaring several renderer ids appears in several
// sets; views are created on first registration and never pruned.
type Holder struct {
	views map[string]*Set
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{views: make(map[string]*Set)}
}

// Register adds p under each of its declared renderer ids.
func (h *Holder) Register(p *plugin.Plugin) {
	for _, view := range p.RendererIDs {
		set, ok := h.views[view]
		if !ok {
			set = NewSet()
			h.views[view] = set
		}
		set.Add(p)
	}
}

// View returns the plugin set for a renderer id.
func (h *Holder) View(id string) (*Set, bool) {
	set, ok := h.views[id]
	return set, ok
}

// Views returns the known renderer ids in sorted order.
func (h *Holder) Views() []string {
	out := make([]string, 0, len(h.views))
	for view := range h.views {
		out = append(out, view)
	}
	sort.Strings(out)
	return out
}

// Plugins flattens every view's set into one slice. A plugin registered
// under several renderer ids appears once per view; callers that need
// distinct plugins must dedupe by identity themselves.
func (h *Holder) Plugins() []*plugin.Plugin {
	var out []*plugin.Plugin
	for _, view := range h.Views() {
		out = append(out, h.views[view].Plugins()...)
	}
	return out
}
