package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("whatever"))
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "info", "json")
	logger.With("component", "test").Info("hello", "n", 3)
	logger.Debug("hidden")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.EqualValues(t, 3, entry["n"])
}

func TestTextLogger(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	logger := NewWithWriter(&buf, "warn", "text")

	logger.Info("skipped")
	logger.With("component", "site").WithGroup("req").Warn("slow", "ms", 120)

	out := buf.String()
	assert.NotContains(t, out, "skipped")
	assert.Contains(t, out, "WRN slow")
	assert.Contains(t, out, "component=site")
	assert.Contains(t, out, "req.ms=120")
}
