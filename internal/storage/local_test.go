package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_Save(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("saves payload under key", func(t *testing.T) {
		err := s.Save(ctx, "image-1-a.png", strings.NewReader("png bytes"))
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(dir, "image-1-a.png"))
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(content))
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		for _, e := range entries {
			assert.False(t, strings.HasPrefix(e.Name(), ".upload-"), e.Name())
		}
	})

	t.Run("rejects path traversal", func(t *testing.T) {
		err := s.Save(ctx, "../escape.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidKey)
		assert.NoFileExists(t, filepath.Join(filepath.Dir(dir), "escape.png"))
	})

	t.Run("failed reader leaves nothing", func(t *testing.T) {
		err := s.Save(ctx, "image-2-b.png", io.MultiReader(strings.NewReader("partial"), errReader{}))
		require.Error(t, err)
		assert.NoFileExists(t, filepath.Join(dir, "image-2-b.png"))
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := s.Save(cctx, "image-3-c.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.NoFileExists(t, filepath.Join(dir, "image-3-c.png"))
	})
}

func TestLocalStorage_Delete(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStorage(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "image-1-a.png", strings.NewReader("x")))

	require.NoError(t, s.Delete(ctx, "image-1-a.png"))
	assert.NoFileExists(t, filepath.Join(dir, "image-1-a.png"))

	// Missing key is not an error
	assert.NoError(t, s.Delete(ctx, "image-1-a.png"))

	assert.ErrorIs(t, s.Delete(ctx, "../../etc/passwd"), ErrInvalidKey)
}

func TestLocalStorage_Open(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "image-1-a.png", strings.NewReader("payload")))

	rc, err := s.Open(ctx, "image-1-a.png")
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(content))

	_, err = s.Open(ctx, "image-missing.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
}

func TestNewKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	key := NewKey("Cat.PNG", now)
	assert.True(t, strings.HasPrefix(key, "image-1700000000123-"), key)
	assert.True(t, strings.HasSuffix(key, ".png"), key)
	assert.True(t, ValidKey(key))

	assert.NotEqual(t, key, NewKey("Cat.PNG", now))

	noExt := NewKey("README", now)
	assert.False(t, strings.Contains(strings.TrimPrefix(noExt, "image-1700000000123-"), "."))

	weird := NewKey("evil.p/ng", now)
	assert.True(t, ValidKey(weird), weird)
}

func TestValidKey(t *testing.T) {
	assert.True(t, ValidKey("image-1-abc.jpeg"))
	assert.False(t, ValidKey(""))
	assert.False(t, ValidKey(".hidden"))
	assert.False(t, ValidKey("a/b.png"))
	assert.False(t, ValidKey("a..b"))
	assert.False(t, ValidKey(`a\b`))
}

func TestURL(t *testing.T) {
	assert.Equal(t, "/uploads/images/image-1-a.png", URL("image-1-a.png"))
}

type errReader struct{}

func (errReader) Read(p []byte) (int, error) {
	return 0, errors.New("connection reset")
}
