package imagestore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFSResolverResolve(t *testing.T) {
	root := t.TempDir()
	base := t.TempDir()
	r := NewFSResolver(root, base)

	t.Run("system path maps into the system root", func(t *testing.T) {
		got, err := r.Resolve("/files/system/2024/2408/240824_A/240824_A_1.jpg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "2024", "2408", "240824_A", "240824_A_1.jpg"), got)
	})

	t.Run("query suffix is stripped", func(t *testing.T) {
		got, err := r.Resolve("/files/system/a/b.jpg?v=123")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "a", "b.jpg"), got)
	})

	t.Run("traversal segments are dropped", func(t *testing.T) {
		got, err := r.Resolve("/files/system/../../etc/passwd")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "etc", "passwd"), got)
	})

	t.Run("absolute urls are rejected as remote", func(t *testing.T) {
		_, err := r.Resolve("https://example.com/x.jpg")
		assert.ErrorIs(t, err, ErrRemotePath)
	})

	t.Run("data uris are rejected as remote", func(t *testing.T) {
		_, err := r.Resolve("data:image/png;base64,AAAA")
		assert.ErrorIs(t, err, ErrRemotePath)
	})

	t.Run("legacy static path maps under base dir", func(t *testing.T) {
		got, err := r.Resolve("/static/uploads/items/x/1.jpg")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(base, "static", "uploads", "items", "x", "1.jpg"), got)
	})

	t.Run("backslashes are normalized", func(t *testing.T) {
		got, err := r.Resolve(`/files/system/a\b.jpg`)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(root, "a", "b.jpg"), got)
	})
}

func TestFSResolverExists(t *testing.T) {
	root := t.TempDir()
	r := NewFSResolver(root, t.TempDir())

	require.NoError(t, os.MkdirAll(filepath.Join(root, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "pic.jpg"), []byte("x"), 0o644))

	assert.True(t, r.Exists("/files/system/a/pic.jpg"))
	assert.False(t, r.Exists("/files/system/a/missing.jpg"))
	assert.False(t, r.Exists(""))
	assert.False(t, r.Exists("/files/system/a"))
}
