package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cmsapi/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	return string(b)
}

func TestFilesystem_PutCreatesParents(t *testing.T) {
	root := filepath.Join(t.TempDir(), "data")
	s := NewFilesystem(root)
	ctx := context.Background()

	info, err := s.Put(ctx, "pages/about.json", strings.NewReader(`{"title":"About"}`), PutObjectOptions{Size: -1, ContentType: "application/json"})

	require.NoError(t, err)
	assert.Equal(t, "pages/about.json", info.Key)
	assert.Equal(t, int64(17), info.Size)

	raw, err := os.ReadFile(filepath.Join(root, "pages", "about.json"))
	require.NoError(t, err)
	assert.Equal(t, `{"title":"About"}`, string(raw))
}

func TestFilesystem_PutOverwrites(t *testing.T) {
	s := NewFilesystem(t.TempDir())
	ctx := context.Background()

	_, err := s.Put(ctx, "settings.json", strings.NewReader(`{"a":1,"b":2}`), PutObjectOptions{})
	require.NoError(t, err)
	_, err = s.Put(ctx, "settings.json", strings.NewReader(`{"c":3}`), PutObjectOptions{})
	require.NoError(t, err)

	rc, _, err := s.Get(ctx, "settings.json")
	require.NoError(t, err)
	assert.Equal(t, `{"c":3}`, readAll(t, rc))
}

func TestFilesystem_GetMissing(t *testing.T) {
	s := NewFilesystem(t.TempDir())

	rc, _, err := s.Get(context.Background(), "pages/nope.json")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Nil(t, rc)
}

func TestFilesystem_GetDirectoryIsNotNotFound(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pages", "dir.json"), 0o755))
	s := NewFilesystem(root)

	_, _, err := s.Get(context.Background(), "pages/dir.json")

	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFilesystem_Delete(t *testing.T) {
	s := NewFilesystem(t.TempDir())
	ctx := context.Background()

	_, err := s.Put(ctx, "pages/home.json", strings.NewReader(`{}`), PutObjectOptions{})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "pages/home.json"))
	assert.ErrorIs(t, s.Delete(ctx, "pages/home.json"), ErrNotFound)

	_, _, err = s.Get(ctx, "pages/home.json")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFilesystem_CanceledContext(t *testing.T) {
	s := NewFilesystem(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, "x.json", strings.NewReader(`{}`), PutObjectOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew(t *testing.T) {
	t.Run("filesystem by default", func(t *testing.T) {
		s, err := New(config.StorageConfig{DataDir: t.TempDir()}, config.MinIOConfig{})
		require.NoError(t, err)
		assert.IsType(t, &filesystemStorage{}, s)
	})

	t.Run("filesystem without dir", func(t *testing.T) {
		_, err := New(config.StorageConfig{Driver: "filesystem"}, config.MinIOConfig{})
		assert.ErrorContains(t, err, "DATA_DIR is required")
	})

	t.Run("minio config is validated", func(t *testing.T) {
		_, err := New(config.StorageConfig{Driver: "minio"}, config.MinIOConfig{})
		assert.EqualError(t, err, "minio endpoint is required")
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := New(config.StorageConfig{Driver: "ftp"}, config.MinIOConfig{})
		assert.EqualError(t, err, `storage: unknown driver "ftp"`)
	})
}
