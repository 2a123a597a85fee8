package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_ConfigFlag(t *testing.T) {
	cmd := newRootCmd()
	flag := cmd.Flags().Lookup("config")
	require.NotNil(t, flag)
	assert.Equal(t, "./config.yaml", flag.DefValue)
}

func TestRun_FailsWithoutCredentials(t *testing.T) {
	t.Setenv("AICHAT_TELEGRAM_TOKEN", "")
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("AICHAT_AI_API_KEY", "")
	t.Setenv("TOGETHER_API_KEY", "")

	assert.Equal(t, 1, run(context.Background(), filepath.Join(t.TempDir(), "missing.yaml")))
}
