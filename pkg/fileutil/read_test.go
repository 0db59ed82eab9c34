package fileutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadFileWithLimit(t *testing.T) {
	t.Run("reads small file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"borg_binary":"borg"}`), 0o600))

		data, err := ReadFileWithLimit(path)
		require.NoError(t, err)
		assert.Equal(t, `{"borg_binary":"borg"}`, string(data))
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "big.json")
		require.NoError(t, os.WriteFile(path, bytes.Repeat([]byte("x"), MaxFileSize+1), 0o600))

		_, err := ReadFileWithLimit(path)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFileTooLarge))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFileWithLimit(filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
