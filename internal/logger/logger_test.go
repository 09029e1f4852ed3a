package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewSlog_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "info", Format: "json", Output: &buf})

	log.Debug("hidden")
	log.Info("request served", "status", 200)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "request served", entry["msg"])
	assert.Equal(t, "connectapp", entry["service"])
	assert.EqualValues(t, 200, entry["status"])
	assert.NotEmpty(t, entry["time"])
}

func TestNewSlog_Text(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "debug", Format: "text", Output: &buf})

	log.Debug("visible", "k", "v")

	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "k=v")
}
