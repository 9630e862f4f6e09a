package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements simplecms.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

var _ simplecms.Repository = (*Repository)(nil)

// handlePostgresError classifies driver errors. Constraint violations become
// validation errors; everything else is a StoreError.
func handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23514": // check_violation
			return &simplecms.ValidationError{Message: fmt.Sprintf("invalid value violates %s", pgErr.ConstraintName)}
		case "23502": // not_null_violation
			return &simplecms.ValidationError{Message: fmt.Sprintf("required field %s is missing", pgErr.ColumnName)}
		case "23505": // unique_violation
			return &simplecms.StoreError{Op: operation, Err: fmt.Errorf("duplicate entry: %s", pgErr.ConstraintName)}
		case "42P01": // undefined_table
			return &simplecms.StoreError{Op: operation, Err: errors.New("table does not exist - database migration required")}
		default:
			return &simplecms.StoreError{Op: operation, Err: fmt.Errorf("%s (code: %s)", pgErr.Message, pgErr.Code)}
		}
	}
	return &simplecms.StoreError{Op: operation, Err: err}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// Blog operations

const blogColumns = `id, title, content, image, tags, category, published,
	published_at, read_time, author, excerpt, created_at, updated_at`

func scanBlog(row pgx.Row) (*simplecms.BlogPost, error) {
	var b simplecms.BlogPost
	err := row.Scan(&b.ID, &b.Title, &b.Content, &b.Image, &b.Tags, &b.Category,
		&b.Published, &b.PublishedAt, &b.ReadTime, &b.Author, &b.Excerpt,
		&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repository) CreateBlog(ctx context.Context, blog *simplecms.BlogPost) error {
	blog.FillDefaults(time.Now().UTC())

	query := `
		INSERT INTO blogs (` + blogColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := r.db.Exec(ctx, query,
		blog.ID, blog.Title, blog.Content, blog.Image, nonNil(blog.Tags), blog.Category,
		blog.Published, blog.PublishedAt, blog.ReadTime, blog.Author, blog.Excerpt,
		blog.CreatedAt, blog.UpdatedAt)
	if err != nil {
		return handlePostgresError("create blog", err)
	}
	return nil
}

func (r *Repository) GetBlog(ctx context.Context, id uuid.UUID) (*simplecms.BlogPost, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	blog, err := scanBlog(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplecms.ErrBlogNotFound
		}
		return nil, handlePostgresError("get blog", err)
	}
	return blog, nil
}

func (r *Repository) ListBlogs(ctx context.Context, filter simplecms.BlogFilter) ([]*simplecms.BlogPost, error) {
	query := `
		SELECT ` + blogColumns + ` FROM blogs
		WHERE ($1::boolean IS NULL OR published = $1)
		ORDER BY created_at DESC, id ASC`

	rows, err := r.db.Query(ctx, query, filter.Published)
	if err != nil {
		return nil, handlePostgresError("list blogs", err)
	}
	defer rows.Close()

	blogs := []*simplecms.BlogPost{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, handlePostgresError("list blogs", err)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list blogs", err)
	}
	return blogs, nil
}

// UpdateBlog applies the patch in a single statement so concurrent writers
// never interleave within one document.
func (r *Repository) UpdateBlog(ctx context.Context, id uuid.UUID, patch simplecms.BlogPatch) (*simplecms.BlogPost, error) {
	query := `
		UPDATE blogs SET
			title      = COALESCE($2, title),
			content    = COALESCE($3, content),
			tags       = COALESCE($4::text[], tags),
			category   = COALESCE($5, category),
			published  = COALESCE($6, published),
			image      = COALESCE($7, image),
			updated_at = COALESCE($8, updated_at)
		WHERE id = $1
		RETURNING ` + blogColumns

	blog, err := scanBlog(r.db.QueryRow(ctx, query, id,
		patch.Title, patch.Content, patch.Tags, patch.Category, patch.Published,
		patch.Image, nullableTime(patch.UpdatedAt)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplecms.ErrBlogNotFound
		}
		return nil, handlePostgresError("update blog", err)
	}
	return blog, nil
}

func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete blog", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrBlogNotFound
	}
	return nil
}

// Project operations

const projectColumns = `id, title, description, tech_stack, github_link,
	live_demo, image_url, created_at, updated_at`

func scanProject(row pgx.Row) (*simplecms.Project, error) {
	var p simplecms.Project
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.TechStack, &p.GithubLink,
		&p.LiveDemo, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *Repository) CreateProject(ctx context.Context, project *simplecms.Project) error {
	project.FillDefaults(time.Now().UTC())

	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.Exec(ctx, query,
		project.ID, project.Title, project.Description, nonNil(project.TechStack),
		project.GithubLink, project.LiveDemo, project.ImageURL,
		project.CreatedAt, project.UpdatedAt)
	if err != nil {
		return handlePostgresError("create project", err)
	}
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*simplecms.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`

	project, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplecms.ErrProjectNotFound
		}
		return nil, handlePostgresError("get project", err)
	}
	return project, nil
}

func (r *Repository) ListProjects(ctx context.Context) ([]*simplecms.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects ORDER BY created_at DESC, id ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, handlePostgresError("list projects", err)
	}
	defer rows.Close()

	projects := []*simplecms.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, handlePostgresError("list projects", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, handlePostgresError("list projects", err)
	}
	return projects, nil
}

func (r *Repository) UpdateProject(ctx context.Context, id uuid.UUID, patch simplecms.ProjectPatch) (*simplecms.Project, error) {
	query := `
		UPDATE projects SET
			title       = COALESCE($2, title),
			description = COALESCE($3, description),
			tech_stack  = COALESCE($4::text[], tech_stack),
			github_link = COALESCE($5, github_link),
			live_demo   = COALESCE($6, live_demo),
			image_url   = COALESCE($7, image_url),
			updated_at  = COALESCE($8, updated_at)
		WHERE id = $1
		RETURNING ` + projectColumns

	project, err := scanProject(r.db.QueryRow(ctx, query, id,
		patch.Title, patch.Description, patch.TechStack, patch.GithubLink,
		patch.LiveDemo, patch.ImageURL, nullableTime(patch.UpdatedAt)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, simplecms.ErrProjectNotFound
		}
		return nil, handlePostgresError("update project", err)
	}
	return project, nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return handlePostgresError("delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return simplecms.ErrProjectNotFound
	}
	return nil
}
