package simplecms

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms/objectkey"
)

const (
	// DefaultBlogImageFolder is the blob store folder for blog images
	DefaultBlogImageFolder = "blog-images"

	// DefaultProjectImageFolder is the blob store folder for project images
	DefaultProjectImageFolder = "portfolio-projects"
)

// service implements the Service interface
type service struct {
	blogs     BlogRepository
	projects  ProjectRepository
	blobStore BlobStore
	keys      objectkey.Generator
	uploader  *Uploader
	eventSink EventSink
	logger    *slog.Logger
	now       func() time.Time

	defaultAuthor      string
	defaultPublished   bool
	blogImageFolder    string
	projectImageFolder string
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets one repository for both blogs and projects
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.blogs = repo
		s.projects = repo
	}
}

// WithBlogRepository sets the blog repository
func WithBlogRepository(repo BlogRepository) Option {
	return func(s *service) {
		s.blogs = repo
	}
}

// WithProjectRepository sets the project repository
func WithProjectRepository(repo ProjectRepository) Option {
	return func(s *service) {
		s.projects = repo
	}
}

// WithBlobStore sets the storage backend that receives uploaded images
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithKeyGenerator sets the object key strategy for uploaded images
func WithKeyGenerator(gen objectkey.Generator) Option {
	return func(s *service) {
		s.keys = gen
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the structured logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithDefaultAuthor sets the author recorded when the caller has no display name
func WithDefaultAuthor(name string) Option {
	return func(s *service) {
		s.defaultAuthor = name
	}
}

// WithDefaultPublished sets the published flag for posts created without one
func WithDefaultPublished(published bool) Option {
	return func(s *service) {
		s.defaultPublished = published
	}
}

// WithImageFolders sets the blob store folders for blog and project images.
// Empty values keep the defaults.
func WithImageFolders(blogFolder, projectFolder string) Option {
	return func(s *service) {
		if blogFolder != "" {
			s.blogImageFolder = blogFolder
		}
		if projectFolder != "" {
			s.projectImageFolder = projectFolder
		}
	}
}

// WithClock overrides time.Now, mostly for tests
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		defaultAuthor:      DefaultAuthor,
		blogImageFolder:    DefaultBlogImageFolder,
		projectImageFolder: DefaultProjectImageFolder,
		now:                func() time.Time { return time.Now().UTC() },
	}

	for _, option := range options {
		option(s)
	}

	if s.blogs == nil {
		return nil, fmt.Errorf("blog repository is required")
	}
	if s.projects == nil {
		return nil, fmt.Errorf("project repository is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	s.uploader = NewUploader(s.blobStore, s.keys, s.logger)

	return s, nil
}

// Blog operations

func (s *service) CreateBlog(ctx context.Context, req CreateBlogRequest) (*BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var image string
	if req.Image != nil {
		url, err := s.uploader.Upload(ctx, *req.Image, s.blogImageFolder)
		if err != nil {
			return nil, err
		}
		image = url
	}

	published := s.defaultPublished
	if req.Published.Set {
		published = req.Published.Value
	}

	now := s.now()
	blog := &BlogPost{
		ID:          uuid.New(),
		Title:       req.Title,
		Content:     req.Content,
		Image:       image,
		Tags:        append([]string{}, req.Tags...),
		Category:    req.Category,
		Published:   published,
		PublishedAt: now,
		ReadTime:    ReadTime(req.Content),
		Author:      ResolveAuthor(req.Identity, s.defaultAuthor),
		Excerpt:     Excerpt(req.Content),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.blogs.CreateBlog(ctx, blog); err != nil {
		return nil, wrapStore("create_blog", err)
	}

	s.logger.InfoContext(ctx, "Blog created", "blog_id", blog.ID.String())
	s.emit(ctx, "blog_created", s.eventSink.BlogCreated(ctx, blog))
	return blog, nil
}

func (s *service) GetBlog(ctx context.Context, id uuid.UUID) (*BlogPost, error) {
	blog, err := s.blogs.GetBlog(ctx, id)
	if err != nil {
		return nil, wrapStore("get_blog", err)
	}
	return blog, nil
}

func (s *service) ListBlogs(ctx context.Context, filter BlogFilter) ([]*BlogPost, error) {
	blogs, err := s.blogs.ListBlogs(ctx, filter)
	if err != nil {
		return nil, wrapStore("list_blogs", err)
	}
	return blogs, nil
}

func (s *service) UpdateBlog(ctx context.Context, req UpdateBlogRequest) (*BlogPost, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Checked before uploading so a missing post never leaves an orphan image.
	existing, err := s.blogs.GetBlog(ctx, req.ID)
	if err != nil {
		return nil, wrapStore("get_blog", err)
	}

	var imageURL string
	if req.Image != nil {
		if imageURL, err = s.uploader.Upload(ctx, *req.Image, s.blogImageFolder); err != nil {
			return nil, err
		}
	}

	patch := req.Patch(imageURL)
	if patch.IsEmpty() {
		return existing, nil
	}
	patch.UpdatedAt = s.now()

	blog, err := s.blogs.UpdateBlog(ctx, req.ID, patch)
	if err != nil {
		return nil, wrapStore("update_blog", err)
	}

	s.logger.InfoContext(ctx, "Blog updated", "blog_id", blog.ID.String())
	s.emit(ctx, "blog_updated", s.eventSink.BlogUpdated(ctx, blog))
	return blog, nil
}

func (s *service) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	if err := s.blogs.DeleteBlog(ctx, id); err != nil {
		return wrapStore("delete_blog", err)
	}

	s.logger.InfoContext(ctx, "Blog deleted", "blog_id", id.String())
	s.emit(ctx, "blog_deleted", s.eventSink.BlogDeleted(ctx, id))
	return nil
}

// Project operations

func (s *service) CreateProject(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var imageURL string
	if req.Image != nil {
		url, err := s.uploader.Upload(ctx, *req.Image, s.projectImageFolder)
		if err != nil {
			return nil, err
		}
		imageURL = url
	}

	now := s.now()
	project := &Project{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		TechStack:   SplitTechStack(req.TechStack),
		GithubLink:  req.GithubLink,
		LiveDemo:    req.LiveDemo,
		ImageURL:    imageURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, wrapStore("create_project", err)
	}

	s.logger.InfoContext(ctx, "Project created", "project_id", project.ID.String())
	s.emit(ctx, "project_created", s.eventSink.ProjectCreated(ctx, project))
	return project, nil
}

func (s *service) GetProject(ctx context.Context, id uuid.UUID) (*Project, error) {
	project, err := s.projects.GetProject(ctx, id)
	if err != nil {
		return nil, wrapStore("get_project", err)
	}
	return project, nil
}

func (s *service) ListProjects(ctx context.Context) ([]*Project, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, wrapStore("list_projects", err)
	}
	return projects, nil
}

func (s *service) UpdateProject(ctx context.Context, req UpdateProjectRequest) (*Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.projects.GetProject(ctx, req.ID)
	if err != nil {
		return nil, wrapStore("get_project", err)
	}

	var imageURL string
	if req.Image != nil {
		if imageURL, err = s.uploader.Upload(ctx, *req.Image, s.projectImageFolder); err != nil {
			return nil, err
		}
	}

	patch := req.Patch(imageURL)
	if patch.IsEmpty() {
		return existing, nil
	}
	patch.UpdatedAt = s.now()

	project, err := s.projects.UpdateProject(ctx, req.ID, patch)
	if err != nil {
		return nil, wrapStore("update_project", err)
	}

	s.logger.InfoContext(ctx, "Project updated", "project_id", project.ID.String())
	s.emit(ctx, "project_updated", s.eventSink.ProjectUpdated(ctx, project))
	return project, nil
}

func (s *service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := s.projects.DeleteProject(ctx, id); err != nil {
		return wrapStore("delete_project", err)
	}

	s.logger.InfoContext(ctx, "Project deleted", "project_id", id.String())
	s.emit(ctx, "project_deleted", s.eventSink.ProjectDeleted(ctx, id))
	return nil
}

// emit logs an event sink failure without failing the request
func (s *service) emit(ctx context.Context, event string, err error) {
	if err != nil {
		s.logger.WarnContext(ctx, "Event sink failed", "event", event, "error", err)
	}
}
