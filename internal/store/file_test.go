package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gridlight/gridlight-cli/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFileStore(&config.StorageConfig{Dir: dir})
	require.NoError(t, err)
	return fs, dir
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fs, _ := newTestFileStore(t)

	_, err := fs.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, fs.Set(ctx, "access_token", "abc123"))
	value, err := fs.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, "abc123", value)

	require.NoError(t, fs.Set(ctx, "access_token", "def456"))
	value, err = fs.Get(ctx, "access_token")
	require.NoError(t, err)
	assert.Equal(t, "def456", value)

	require.NoError(t, fs.Delete(ctx, "access_token"))
	_, err = fs.Get(ctx, "access_token")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	// Deleting an absent key is not an error
	require.NoError(t, fs.Delete(ctx, "access_token"))
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	fs, dir := newTestFileStore(t)
	require.NoError(t, fs.Set(ctx, "user", `{"id":"u1"}`))

	reopened, err := NewFileStore(&config.StorageConfig{Dir: dir})
	require.NoError(t, err)
	value, err := reopened.Get(ctx, "user")
	require.NoError(t, err)
	assert.Equal(t, `{"id":"u1"}`, value)
}

func TestFileStore_FilePermissions(t *testing.T) {
	ctx := context.Background()
	fs, dir := newTestFileStore(t)
	require.NoError(t, fs.Set(ctx, "refresh_token", "secret"))

	info, err := os.Stat(filepath.Join(dir, credentialsFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
