package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()
	testKey := "blog-images/ab/cdef_cover.png"
	testData := "not really a png"

	t.Run("Upload", func(t *testing.T) {
		err := backend.Upload(ctx, testKey, strings.NewReader(testData), "image/png")
		require.NoError(t, err)
		assert.Equal(t, 1, backend.Len())
	})

	t.Run("Get", func(t *testing.T) {
		obj, err := backend.Get(testKey)
		require.NoError(t, err)
		assert.Equal(t, testData, string(obj.Data))
		assert.Equal(t, "image/png", obj.ContentType)
	})

	t.Run("DefaultContentType", func(t *testing.T) {
		err := backend.Upload(ctx, "raw/key", strings.NewReader("x"), "")
		require.NoError(t, err)
		obj, err := backend.Get("raw/key")
		require.NoError(t, err)
		assert.Equal(t, "application/octet-stream", obj.ContentType)
	})

	t.Run("URL", func(t *testing.T) {
		assert.Equal(t, "memory://"+testKey, backend.URL(testKey))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, backend.Delete(ctx, testKey))
		_, err := backend.Get(testKey)
		assert.True(t, errors.Is(err, memorystorage.ErrObjectNotFound))
		assert.ErrorIs(t, backend.Delete(ctx, testKey), memorystorage.ErrObjectNotFound)
	})

	t.Run("CanceledContext", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		err := backend.Upload(cctx, "never", strings.NewReader("x"), "text/plain")
		assert.ErrorIs(t, err, context.Canceled)
		_, err = backend.Get("never")
		assert.Error(t, err)
	})
}

func TestMemoryBackend_ConcurrentUploads(t *testing.T) {
	backend := memorystorage.New()
	ctx := context.Background()

	done := make(chan error, 20)
	for i := 0; i < 20; i++ {
		key := "k/" + strings.Repeat("x", i+1)
		go func() {
			done <- backend.Upload(ctx, key, strings.NewReader(key), "text/plain")
		}()
	}
	for i := 0; i < 20; i++ {
		require.NoError(t, <-done)
	}
	assert.Equal(t, 20, backend.Len())
}
