package storage

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeekableBody(t *testing.T) {
	t.Run("seekable reader is used in place", func(t *testing.T) {
		r := bytes.NewReader([]byte("0123456789"))
		_, err := r.Seek(4, io.SeekStart)
		require.NoError(t, err)

		body, size, cleanup, err := seekableBody(r)
		require.NoError(t, err)
		defer cleanup()

		assert.Same(t, r, body)
		assert.Equal(t, int64(6), size)
		content, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "456789", string(content))
	})

	t.Run("stream is spooled with its length", func(t *testing.T) {
		stream := io.MultiReader(strings.NewReader("png "), strings.NewReader("bytes"))

		body, size, cleanup, err := seekableBody(stream)
		require.NoError(t, err)

		assert.Equal(t, int64(9), size)
		content, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Equal(t, "png bytes", string(content))

		spool := body.(*os.File).Name()
		cleanup()
		assert.NoFileExists(t, spool)
	})

	t.Run("read error is returned and nothing is left", func(t *testing.T) {
		before, _ := filepath.Glob(filepath.Join(os.TempDir(), "s3-upload-*"))

		_, _, _, err := seekableBody(io.MultiReader(strings.NewReader("partial"), errReader{}))
		assert.ErrorContains(t, err, "connection reset")

		after, _ := filepath.Glob(filepath.Join(os.TempDir(), "s3-upload-*"))
		assert.Len(t, after, len(before))
	})
}
