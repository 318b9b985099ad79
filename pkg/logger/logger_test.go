package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WritesJSONWithService(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Service: "inventory-analytics", Level: "warn", Output: &buf})
	t.Cleanup(func() { Logger = zerolog.Nop() })

	Info(context.Background()).Msg("dropped")
	Warn(context.Background()).Str("sku", "PJ-1").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "inventory-analytics", entry["service"])
	assert.Equal(t, "PJ-1", entry["sku"])
	assert.Equal(t, "kept", entry["message"])
	assert.NotContains(t, entry, "trace_id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zerolog.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("verbose"))
}
