package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/aichat/internal/config"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewLogger_WritesToFileAndStdout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aichat.log")
	var stdout bytes.Buffer

	log, closer := newLogger(config.LoggerConfig{
		Level:     "info",
		JSON:      true,
		File:      path,
		MaxSizeMB: 1,
	}, &stdout)
	defer slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	log.Info("hello file", "channel_id", 42)
	log.Debug("filtered out")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
	assert.Contains(t, string(data), `"channel_id":42`)
	assert.NotContains(t, string(data), "filtered out")
	assert.Equal(t, string(data), stdout.String())
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "short", truncateString("short", 10))
	assert.Equal(t, "abcdefg...", truncateString(strings.Repeat("abcdefghij", 3), 10))
	assert.Equal(t, "...", truncateString("abcdef", 2))
	assert.Equal(t, "ñññ...", truncateString("ññññññññ", 6))
}
