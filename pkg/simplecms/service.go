package simplecms

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the publishing operations for blog posts and projects.
//
// Every write runs validate, upload (if an attachment is present), derive,
// persist, in that order. A failure at any step aborts the request before
// the next one starts.
type Service interface {
	// Blog operations
	CreateBlog(ctx context.Context, req CreateBlogRequest) (*BlogPost, error)
	GetBlog(ctx context.Context, id uuid.UUID) (*BlogPost, error)
	ListBlogs(ctx context.Context, filter BlogFilter) ([]*BlogPost, error)
	UpdateBlog(ctx context.Context, req UpdateBlogRequest) (*BlogPost, error)
	DeleteBlog(ctx context.Context, id uuid.UUID) error

	// Project operations
	CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context) ([]*Project, error)
	UpdateProject(ctx context.Context, req UpdateProjectRequest) (*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
}
