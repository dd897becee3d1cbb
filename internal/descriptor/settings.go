// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package descriptor

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	jschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/tidwall/gjson"
)

// loadSettings reads the unit's optional config.json. Malformed settings
// are non-fatal: they are logged and the plugin proceeds with none. When
// the unit also ships a settings.schema.json, the document is validated
// against it under the same non-fatal policy.
func loadSettings(dir, name string) json.RawMessage {
	path := filepath.Join(dir, SettingsFile)
	if !exists(path) {
		return nil
	}

	raw, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		slog.Error("reading plugin settings failed",
			"plugin", name,
			"code", "MALFORMED_SETTINGS",
			"path", path,
			"error", err)
		return nil
	}

	if !gjson.ValidBytes(raw) {
		slog.Error("plugin settings are not valid JSON",
			"plugin", name,
			"code", "MALFORMED_SETTINGS",
			"path", path)
		return nil
	}

	if schemaPath := filepath.Join(dir, SettingsSchemaFile); exists(schemaPath) {
		if err := validateSettings(schemaPath, raw); err != nil {
			slog.Error("plugin settings failed schema validation",
				"plugin", name,
				"code", "MALFORMED_SETTINGS",
				"schema", schemaPath,
				"error", err)
			return nil
		}
	}

	return raw
}

// validateSettings checks the settings document against the unit's own
// JSON schema.
func validateSettings(schemaPath string, settings []byte) error {
	schemaRaw, err := os.ReadFile(filepath.Clean(schemaPath))
	if err != nil {
		return err
	}

	schemaDoc, err := jschema.UnmarshalJSON(bytes.NewReader(schemaRaw))
	if err != nil {
		return err
	}

	c := jschema.NewCompiler()
	if err := c.AddResource("settings.schema.json", schemaDoc); err != nil {
		return err
	}
	sch, err := c.Compile("settings.schema.json")
	if err != nil {
		return err
	}

	inst, err := jschema.UnmarshalJSON(bytes.NewReader(settings))
	if err != nil {
		return err
	}
	return sch.Validate(inst)
}
