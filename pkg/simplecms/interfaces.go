package simplecms

import (
	"context"
	"io"

	"github.com/google/uuid"
)

// BlobStore defines the interface for remote object storage backends
type BlobStore interface {
	// Upload streams reader to objectKey. It returns once the backend has
	// durably accepted the object or failed.
	Upload(ctx context.Context, objectKey string, reader io.Reader, contentType string) error

	// URL returns the durable public URL for objectKey
	URL(objectKey string) string

	// Delete removes an object
	Delete(ctx context.Context, objectKey string) error
}

// BlogRepository persists blog posts
type BlogRepository interface {
	CreateBlog(ctx context.Context, blog *BlogPost) error
	GetBlog(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	ListBlogs(ctx context.Context, filter BlogFilter) ([]*BlogPost, error)
	UpdateBlog(ctx context.Context, id uuid.UUID, patch BlogPatch) (*BlogPost, error)
	DeleteBlog(ctx context.Context, id uuid.UUID) error
}

// ProjectRepository persists portfolio projects
type ProjectRepository interface {
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, id uuid.UUID, patch ProjectPatch) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// Repository is a store for both entity types
type Repository interface {
	BlogRepository
	ProjectRepository
}

// EventSink receives lifecycle events after a write has been committed.
// Returned errors are logged and never fail the request.
type EventSink interface {
	BlogCreated(ctx context.Context, blog *BlogPost) error
	BlogUpdated(ctx context.Context, blog *BlogPost) error
	BlogDeleted(ctx context.Context, id uuid.UUID) error
	ProjectCreated(ctx context.Context, project *Project) error
	ProjectUpdated(ctx context.Context, project *Project) error
	ProjectDeleted(ctx context.Context, id uuid.UUID) error
}
