// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Plugboard Contributors

package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plugboard/plugboard/internal/logging"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("plugboard", "1.2.3", "json", &buf)

	logger.Info("plugins loaded", "count", 4)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "plugins loaded", entry["msg"])
	assert.Equal(t, "plugboard", entry["service"])
	assert.Equal(t, "1.2.3", entry["version"])
	assert.Equal(t, float64(4), entry["count"])
}

func TestSetup_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("plugboard", "dev", "text", &buf)

	logger.Warn("skipping directory")

	out := buf.String()
	assert.True(t, strings.Contains(out, "skipping directory"))
	assert.True(t, strings.Contains(out, "service=plugboard"))
}

func TestSetup_DefaultsToJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("plugboard", "dev", "", &buf)

	logger.Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
}

func TestSetup_DebugEnabled(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.Setup("plugboard", "dev", "json", &buf)

	logger.Debug("registered plugin")

	assert.NotEmpty(t, buf.Bytes(), "debug records should be emitted")
}
