// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/samber/oops"
)

// SchemaID identifies the generated configuration schema.
const SchemaID = "https://plugboard.dev/schemas/config.schema.json"

// GenerateSchema generates a JSON Schema for the configuration file.
func GenerateSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		DoNotReference: true,
	}
	schema := r.Reflect(&Config{})

	schema.ID = jsonschema.ID(SchemaID)
	schema.Title = "Plugboard Configuration"
	schema.Description = "Schema for plugboard.yaml configuration files"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, oops.With("operation", "marshal schema").Wrap(err)
	}
	return data, nil
}
