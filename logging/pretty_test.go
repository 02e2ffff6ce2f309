package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	color.NoColor = true
}

func TestPrettyHandlerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo)
	logger.Warn("Query is not at the end of the program", "index", 3, "error", errors.New("boom"))

	line := strings.TrimSuffix(buf.String(), "\n")
	assert.Regexp(t, `^\[\d\d:\d\d:\d\d\.\d{3}\] WARN: Query is not at the end of the program \{.*\}$`, line)
	assert.Contains(t, line, `"error":"boom"`)
	assert.Contains(t, line, `"index":3`)
}

func TestPrettyHandlerLevels(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, nil)
	logger.Debug("hidden")
	logger.Info("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "INFO: shown")

	buf.Reset()
	logger = New(&buf, slog.LevelError)
	logger.Warn("hidden")
	assert.Empty(t, buf.String())
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelDebug).With("pkg", "walk").WithGroup("cache")
	logger.Debug("Evicted free variables", "count", 2, slog.Group("entry", "expr", "x + 1"))

	out := buf.String()
	require.Contains(t, out, "DEBUG: Evicted free variables")
	assert.Contains(t, out, `"pkg":"walk"`)
	assert.Contains(t, out, `"cache.count":2`)
	assert.Contains(t, out, `"cache.entry.expr":"x + 1"`)
}

func TestPrettyHandlerNoAttrs(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, nil).Info("plain")
	assert.True(t, strings.HasSuffix(buf.String(), "INFO: plain\n"))
}
