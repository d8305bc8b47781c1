package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/fractary/forge/internal/adapters/logger"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
)

// newTestLogger creates a logger writing to a buffer with NO_COLOR set for
// deterministic output.
func newTestLogger(t *testing.T) (*logger.Logger, *bytes.Buffer) {
	t.Helper()
	t.Setenv("NO_COLOR", "1")

	buf := &bytes.Buffer{}
	lg := logger.New().(*logger.Logger)
	lg.SetOutput(buf)
	return lg, buf
}

func TestLogger_InfoWarn(t *testing.T) {
	lg, buf := newTestLogger(t)

	lg.Debug("hidden at info level")
	lg.Info("resolving my-agent")
	lg.Warn("remote hub unavailable")

	g := goldie.New(t)
	g.Assert(t, "info_warn", buf.Bytes())
}

func TestLogger_SetLevel(t *testing.T) {
	lg, buf := newTestLogger(t)
	require.NoError(t, lg.SetLevel("debug"))

	lg.Debug("tier local: not_found")
	lg.Info("resolved my-agent")

	g := goldie.New(t)
	g.Assert(t, "debug_enabled", buf.Bytes())

	buf.Reset()
	require.NoError(t, lg.SetLevel("error"))
	lg.Warn("dropped")
	assert.Empty(t, buf.String())

	err := lg.SetLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func TestLogger_Error(t *testing.T) {
	lg, buf := newTestLogger(t)

	inner := zerr.With(zerr.New("connection refused"), "source", "hub")
	outer := zerr.With(zerr.Wrap(inner, "artifact not found"), "identifier", "my-agent@^1.0.0")
	lg.Error(outer)

	g := goldie.New(t)
	g.Assert(t, "error_chain", buf.Bytes())
}

func TestLogger_ErrorNil(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.Error(nil)
	assert.Empty(t, buf.String())
}

func TestLogger_JSON(t *testing.T) {
	lg, buf := newTestLogger(t)
	lg.SetJSON(true)

	lg.Info("resolved")
	lg.Error(errors.New("boom"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info, failure map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	require.NoError(t, json.Unmarshal(lines[1], &failure))

	assert.Equal(t, "INFO", info["level"])
	assert.Equal(t, "resolved", info["msg"])
	assert.Equal(t, "ERROR", failure["level"])
	assert.Equal(t, "boom", failure["error"])
}

func TestLogger_SetOutputKeepsFormat(t *testing.T) {
	lg, _ := newTestLogger(t)
	lg.SetJSON(true)

	var buf bytes.Buffer
	lg.SetOutput(&buf)
	lg.Info("hello")

	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestFromEnv(t *testing.T) {
	t.Setenv("FORGE_LOG_FORMAT", "json")
	t.Setenv("FORGE_LOG_LEVEL", "debug")

	lg := logger.FromEnvExported()
	var buf bytes.Buffer
	lg.SetOutput(&buf)
	lg.Debug("tier global: hit")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "DEBUG", entry["level"])
}

func TestFromEnv_InvalidLevelIgnored(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FORGE_LOG_LEVEL", "chatty")

	lg := logger.FromEnvExported()
	var buf bytes.Buffer
	lg.SetOutput(&buf)
	lg.Debug("hidden")
	lg.Info("shown")

	assert.Equal(t, "shown\n", buf.String())
}
