package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLevel(tt.in), tt.in)
	}
}

func TestNew_JSONFormat(t *testing.T) {
	// Given: a json logger at warn level
	var buf bytes.Buffer
	logger := New(Config{Level: "warn", Format: "json"}, &buf)

	// When: logging below and at the threshold
	logger.Info("search_started")
	logger.Warn("variant_failed", "variant", "محمد")

	// Then: only the warning is written, as one JSON object
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "variant_failed", entry["msg"])
	assert.Equal(t, "محمد", entry["variant"])
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	New(Config{Format: "text"}, &buf).Info("server_started", "port", "8081")

	assert.Contains(t, buf.String(), "msg=server_started")
	assert.Contains(t, buf.String(), "port=8081")
}
