package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ltlcert/logging"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]logging.Level{
		"debug": logging.LevelDebug, "INFO": logging.LevelInfo, "": logging.LevelInfo,
		"warning": logging.LevelWarn, "error": logging.LevelError,
	} {
		got, err := logging.ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := logging.ParseLevel("loud")
	assert.ErrorIs(t, err, logging.ErrUnknownLevel)
	assert.Equal(t, "WARN", logging.LevelWarn.String())
}

func TestNew_JSONConsoleAndLevel(t *testing.T) {
	var buf bytes.Buffer
	l := logging.New(logging.Config{Level: logging.LevelWarn, JSON: true, Service: "ltlcert", Output: &buf})
	l.Slog().Info("hidden")
	l.Slog().Warn("shown", "state", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "ltlcert", rec["service"])
	assert.EqualValues(t, 3, rec["state"])
	require.NoError(t, l.Close())
}

func TestNew_FileSink(t *testing.T) {
	dir := t.TempDir()
	l := logging.New(logging.Config{Level: logging.LevelDebug, LogDir: dir, Quiet: true, Service: "unit"})
	l.With("run", "r1").Slog().Debug("to file")
	require.NoError(t, l.Close())
	require.NoError(t, l.Close())

	matches, err := filepath.Glob(filepath.Join(dir, "unit_*.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to file"`)
	assert.Contains(t, string(data), `"run":"r1"`)
}

func TestNopAndOrNop(t *testing.T) {
	assert.NotNil(t, logging.Nop())
	assert.NotNil(t, logging.OrNop(nil))
	l := logging.Nop()
	assert.Same(t, l, logging.OrNop(l))
}
