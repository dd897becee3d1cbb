// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package plugin defines the runtime plugin entity and the dynamic
// loading contract consumed by the registry.
package plugin

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Status is the on/off lifecycle state of a loaded plugin.
type Status string

// Plugin status values. A freshly constructed plugin carries the zero
// status until the loader toggles it once on registration.
const (
	StatusEnabled  Status = "enabled"
	StatusDisabled Status = "disabled"
)

// Plugin is a loaded extension unit. It is created by the loader during a
// load pass and shared read-mostly by queries afterwards. Identity is
// name + "_" + version; set membership in the registry keys on ID.
type Plugin struct {
	Name    string
	Author  string
	Version string

	// Dir is the unit directory the plugin was loaded from.
	Dir string

	// RendererIDs are the presentation surfaces this plugin extends.
	// Split verbatim from the descriptor; empty tokens are preserved.
	RendererIDs []string

	// Types are the declared capability types.
	Types []Type

	// Settings is the opaque config.json document, nil when absent or
	// malformed.
	Settings json.RawMessage

	// Langs holds language resource bundles keyed by BCP-47-ish tag.
	Langs map[string]map[string]string

	// CodeLocations are the directories this unit's code was resolved
	// from. Diagnostics only.
	CodeLocations []string

	// Entry is the instantiated entry-point object.
	Entry EntryPoint

	// Status toggles between enabled and disabled; see ChangeStatus.
	Status Status
}

// ID returns the registry identity key.
func (p *Plugin) ID() string {
	return p.Name + "_" + p.Version
}

// ChangeStatus toggles the plugin between enabled and disabled. The first
// toggle after construction lands on enabled.
func (p *Plugin) ChangeStatus() {
	if p.Status == StatusEnabled {
		p.Status = StatusDisabled
		return
	}
	p.Status = StatusEnabled
}

// HasType reports whether the plugin declares the given capability type.
func (p *Plugin) HasType(t Type) bool {
	for _, pt := range p.Types {
		if pt == t {
			return true
		}
	}
	return false
}

// Setting looks up a path in the settings document using gjson path
// syntax. The zero Result is returned when no settings are present.
func (p *Plugin) Setting(path string) gjson.Result {
	if len(p.Settings) == 0 {
		return gjson.Result{}
	}
	return gjson.GetBytes(p.Settings, path)
}

// Lang returns the language-bundle value for the given tag and key.
func (p *Plugin) Lang(tag, key string) (string, bool) {
	bundle, ok := p.Langs[tag]
	if !ok {
		return "", false
	}
	v, ok := bundle[key]
	return v, ok
}
