package memory

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/tendant/simple-cms/pkg/simplecms"
)

// ErrObjectNotFound is returned by Get and Delete for unknown keys
var ErrObjectNotFound = errors.New("object not found")

// Object is a stored blob
type Object struct {
	Data        []byte
	ContentType string
}

// Backend is an in-memory implementation of the simplecms.BlobStore interface
type Backend struct {
	mu      sync.RWMutex
	objects map[string]Object
}

// New creates a new in-memory storage backend
func New() *Backend {
	return &Backend{
		objects: make(map[string]Object),
	}
}

var _ simplecms.BlobStore = (*Backend)(nil)

// Upload reads the stream to EOF and stores it under objectKey
func (b *Backend) Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[objectKey] = Object{Data: data, ContentType: contentType}
	return nil
}

// URL returns a memory:// URL for objectKey
func (b *Backend) URL(objectKey string) string {
	return "memory://" + objectKey
}

// Get returns a stored object
func (b *Backend) Get(objectKey string) (Object, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	obj, exists := b.objects[objectKey]
	if !exists {
		return Object{}, ErrObjectNotFound
	}
	return obj, nil
}

// Len returns the number of stored objects
func (b *Backend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.objects)
}

// Delete deletes an object
func (b *Backend) Delete(ctx context.Context, objectKey string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[objectKey]; !exists {
		return ErrObjectNotFound
	}

	delete(b.objects, objectKey)
	return nil
}
