package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, false, "json")
	log.Debug().Msg("hidden")
	log.Info().Str("question", "Q1").Msg("tabulated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Q1", entry["question"])
	assert.Equal(t, "tabulated", entry["message"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestNewConsoleDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, true, "")
	log.Debug().Msg("visible")
	assert.Contains(t, buf.String(), "visible")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())), "console output is not JSON")
}
