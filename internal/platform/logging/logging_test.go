package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestInitWriterJSON(t *testing.T) {
	var buf bytes.Buffer
	l := InitWriter(&buf, Options{Level: "info", Format: "json"})
	t.Cleanup(func() { _ = Close() })

	l.Debug("hidden")
	WithComponent("analyzer").Info("analyzed", "steps", 4)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "analyzed", rec["msg"])
	assert.Equal(t, "analyzer", rec["component"])
	assert.Equal(t, "chebyshev-board", rec["app"])
	assert.EqualValues(t, 4, rec["steps"])
}

func TestInitWriterWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	var buf bytes.Buffer
	l := InitWriter(&buf, Options{Level: "debug", File: path})
	l.Warn("disk and console")
	require.NoError(t, Close())

	assert.Contains(t, buf.String(), "disk and console")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"disk and console"`)
}
