package prompt_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/aichat/internal/prompt"
)

func TestLoader_Load(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  You are Evelyn.\nBe brief.  \n\n"), 0o600))

	res := prompt.NewLoader(path, nil).Load()
	require.NoError(t, res.Err)
	assert.False(t, res.Degraded())
	assert.Equal(t, "You are Evelyn.\nBe brief.", res.Text)
}

func TestLoader_ReadsFreshEveryCall(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "prompt.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))
	loader := prompt.NewLoader(path, nil)
	assert.Equal(t, "first", loader.Load().Text)

	require.NoError(t, os.WriteFile(path, []byte("second"), 0o600))
	assert.Equal(t, "second", loader.Load().Text)
}

func TestLoader_Degraded(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	badEncoding := filepath.Join(dir, "latin1.txt")
	require.NoError(t, os.WriteFile(badEncoding, []byte{0x66, 0x6f, 0xff, 0xfe}, 0o600))

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "missing file", path: filepath.Join(dir, "absent.txt"), wantErr: prompt.ErrUnavailable},
		{name: "directory instead of file", path: dir, wantErr: prompt.ErrUnavailable},
		{name: "invalid utf-8", path: badEncoding, wantErr: prompt.ErrEncoding},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var res prompt.Result
			require.NotPanics(t, func() { res = prompt.NewLoader(tt.path, nil).Load() })
			assert.True(t, res.Degraded())
			assert.Empty(t, res.Text)
			assert.ErrorIs(t, res.Err, tt.wantErr)
		})
	}
}

func TestLoader_MissingFileKeepsCause(t *testing.T) {
	t.Parallel()

	res := prompt.NewLoader(filepath.Join(t.TempDir(), "nope.txt"), nil).Load()
	assert.ErrorIs(t, res.Err, fs.ErrNotExist)
}
