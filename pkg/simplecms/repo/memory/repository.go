package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Repository implements simplecms.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	blogs    map[uuid.UUID]*simplecms.BlogPost
	projects map[uuid.UUID]*simplecms.Project
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		blogs:    make(map[uuid.UUID]*simplecms.BlogPost),
		projects: make(map[uuid.UUID]*simplecms.Project),
	}
}

var _ simplecms.Repository = (*Repository)(nil)

func copyBlog(b *simplecms.BlogPost) *simplecms.BlogPost {
	c := *b
	if b.Tags != nil {
		c.Tags = append([]string{}, b.Tags...)
	}
	return &c
}

func copyProject(p *simplecms.Project) *simplecms.Project {
	c := *p
	if p.TechStack != nil {
		c.TechStack = append([]string{}, p.TechStack...)
	}
	return &c
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Blog operations

func (r *Repository) CreateBlog(ctx context.Context, blog *simplecms.BlogPost) error {
	if blank(blog.Title) || blank(blog.Content) || blank(blog.Excerpt) {
		return &simplecms.ValidationError{Message: "Blog title, content and excerpt are required"}
	}

	blog.FillDefaults(time.Now().UTC())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.blogs[blog.ID]; exists {
		return &simplecms.StoreError{Op: "create_blog", Err: fmt.Errorf("blog %s already exists", blog.ID)}
	}
	r.blogs[blog.ID] = copyBlog(blog)
	return nil
}

func (r *Repository) GetBlog(ctx context.Context, id uuid.UUID) (*simplecms.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blog, exists := r.blogs[id]
	if !exists {
		return nil, simplecms.ErrBlogNotFound
	}
	return copyBlog(blog), nil
}

func (r *Repository) ListBlogs(ctx context.Context, filter simplecms.BlogFilter) ([]*simplecms.BlogPost, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simplecms.BlogPost, 0, len(r.blogs))
	for _, blog := range r.blogs {
		if filter.Published != nil && blog.Published != *filter.Published {
			continue
		}
		result = append(result, copyBlog(blog))
	}

	// Sort by created_at descending, id ascending on ties
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return result, nil
}

func (r *Repository) UpdateBlog(ctx context.Context, id uuid.UUID, patch simplecms.BlogPatch) (*simplecms.BlogPost, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blog, exists := r.blogs[id]
	if !exists {
		return nil, simplecms.ErrBlogNotFound
	}

	updated := copyBlog(blog)
	patch.Apply(updated)
	r.blogs[id] = updated
	return copyBlog(updated), nil
}

func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.blogs[id]; !exists {
		return simplecms.ErrBlogNotFound
	}
	delete(r.blogs, id)
	return nil
}

// Project operations

func (r *Repository) CreateProject(ctx context.Context, project *simplecms.Project) error {
	if blank(project.Title) {
		return &simplecms.ValidationError{Message: "Project title is required"}
	}

	project.FillDefaults(time.Now().UTC())

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[project.ID]; exists {
		return &simplecms.StoreError{Op: "create_project", Err: fmt.Errorf("project %s already exists", project.ID)}
	}
	r.projects[project.ID] = copyProject(project)
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*simplecms.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, exists := r.projects[id]
	if !exists {
		return nil, simplecms.ErrProjectNotFound
	}
	return copyProject(project), nil
}

func (r *Repository) ListProjects(ctx context.Context) ([]*simplecms.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*simplecms.Project, 0, len(r.projects))
	for _, project := range r.projects {
		result = append(result, copyProject(project))
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID.String() < result[j].ID.String()
	})

	return result, nil
}

func (r *Repository) UpdateProject(ctx context.Context, id uuid.UUID, patch simplecms.ProjectPatch) (*simplecms.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	project, exists := r.projects[id]
	if !exists {
		return nil, simplecms.ErrProjectNotFound
	}

	updated := copyProject(project)
	patch.Apply(updated)
	r.projects[id] = updated
	return copyProject(updated), nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[id]; !exists {
		return simplecms.ErrProjectNotFound
	}
	delete(r.projects, id)
	return nil
}
