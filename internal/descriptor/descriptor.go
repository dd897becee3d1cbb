// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

// Package descriptor reads and validates plugin unit metadata.
//
// A unit directory contains a plugin.properties descriptor with the keys
// name, author, version, types (comma-separated capability types),
// rendererId (semicolon-separated renderer identifiers), entry (entry-point
// type name), listeners (comma-separated listener type names) and libDir
// (relative compiled-code path). An optional config.json settings document
// and lang_<tag>.properties bundles sit alongside it.
package descriptor

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/magiconair/properties"
	"github.com/samber/oops"

	"github.com/plugboard/plugboard/internal/plugin"
)

// Well-known file names inside a unit directory.
const (
	DescriptorFile     = "plugin.properties"
	SettingsFile       = "config.json"
	SettingsSchemaFile = "settings.schema.json"
)

// Descriptor is the validated metadata of one plugin unit.
type Descriptor struct {
	Name    string
	Author  string
	Version string

	// EntryType is the declared entry-point type name, empty when the
	// descriptor leaves it out.
	EntryType string

	// RendererIDs is the rendererId value split on ";". Tokens are not
	// trimmed or filtered; a blank rendererId value yields a nil slice.
	RendererIDs []string

	// Types are the declared capability types.
	Types []plugin.Type

	// ListenerTypes is the listeners value split on ",". Empty when the
	// key is absent or blank.
	ListenerTypes []string

	// LibDir is the descriptor-declared relative compiled-code path.
	LibDir string

	// Settings is the config.json document, nil when absent or malformed.
	Settings json.RawMessage
}

// Parse reads the descriptor and settings of the unit directory dir.
//
// A missing or unreadable plugin.properties fails with MISSING_DESCRIPTOR.
// An unknown capability type fails with UNKNOWN_PLUGIN_TYPE. A malformed
// settings document is logged and dropped; the descriptor is still
// returned without settings.
func Parse(dir string) (*Descriptor, error) {
	path := filepath.Join(dir, DescriptorFile)
	props, err := properties.LoadFile(path, properties.UTF8)
	if err != nil {
		return nil, oops.Code("MISSING_DESCRIPTOR").
			With("dir", filepath.Base(dir)).
			With("path", path).
			Wrap(err)
	}

	d := &Descriptor{
		Name:      props.GetString("name", ""),
		Author:    props.GetString("author", ""),
		Version:   props.GetString("version", ""),
		EntryType: props.GetString("entry", ""),
		LibDir:    props.GetString("libDir", ""),
	}

	if raw := props.GetString("rendererId", ""); strings.TrimSpace(raw) != "" {
		d.RendererIDs = strings.Split(raw, ";")
	}

	if raw := props.GetString("types", ""); strings.TrimSpace(raw) != "" {
		for _, tok := range strings.Split(raw, ",") {
			t, err := plugin.ParseType(tok)
			if err != nil {
				return nil, err
			}
			d.Types = append(d.Types, t)
		}
	}

	if raw := props.GetString("listeners", ""); strings.TrimSpace(raw) != "" {
		d.ListenerTypes = strings.Split(raw, ",")
	}

	if d.Version != "" {
		if _, err := semver.NewVersion(d.Version); err != nil {
			slog.Warn("plugin version is not valid semver",
				"dir", filepath.Base(dir),
				"version", d.Version)
		}
	}

	d.Settings = loadSettings(dir, d.Name)

	return d, nil
}

// exists reports whether path names an existing file.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
