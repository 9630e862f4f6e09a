package simplecms_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
	memorystorage "github.com/tendant/simple-cms/pkg/simplecms/storage/memory"
)

type brokenStore struct{}

func (brokenStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) error {
	return errors.New("connection reset")
}
func (brokenStore) URL(key string) string                        { return "" }
func (brokenStore) Delete(ctx context.Context, key string) error { return nil }

type brokenSink struct {
	simplecms.NoopEventSink
	calls int
}

func (b *brokenSink) BlogCreated(ctx context.Context, blog *simplecms.BlogPost) error {
	b.calls++
	return errors.New("sink offline")
}

// tickingClock advances one second per call so updates are observable.
func tickingClock() func() time.Time {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(time.Second)
		return now
	}
}

func setupTestService(t *testing.T, opts ...simplecms.Option) (simplecms.Service, *memory.Repository, *memorystorage.Backend) {
	t.Helper()
	repo := memory.New()
	store := memorystorage.New()
	base := []simplecms.Option{
		simplecms.WithRepository(repo),
		simplecms.WithBlobStore(store),
		simplecms.WithClock(tickingClock()),
	}
	svc, err := simplecms.New(append(base, opts...)...)
	require.NoError(t, err)
	return svc, repo, store
}

func TestNew_RequiresRepository(t *testing.T) {
	_, err := simplecms.New()
	assert.Error(t, err)
}

func TestCreateBlog_Defaults(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	blog, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{
		Title:   "Hello",
		Content: "one two three",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, blog.ID)
	assert.Equal(t, "Admin", blog.Author)
	assert.False(t, blog.Published)
	assert.Equal(t, 1, blog.ReadTime)
	assert.Equal(t, "one two three...", blog.Excerpt)
	assert.Equal(t, blog.CreatedAt, blog.PublishedAt)
	assert.Equal(t, blog.CreatedAt, blog.UpdatedAt)
}

func TestCreateBlog_ConfiguredDefaults(t *testing.T) {
	svc, _, _ := setupTestService(t,
		simplecms.WithDefaultAuthor("Editorial"),
		simplecms.WithDefaultPublished(true),
	)

	blog, err := svc.CreateBlog(context.Background(), simplecms.CreateBlogRequest{
		Title:    "Hello",
		Content:  "body",
		Identity: &simplecms.Identity{Subject: "svc-account", Admin: true},
	})
	require.NoError(t, err)
	assert.Equal(t, "Editorial", blog.Author)
	assert.True(t, blog.Published)

	draft, err := svc.CreateBlog(context.Background(), simplecms.CreateBlogRequest{
		Title:     "Draft",
		Content:   "body",
		Published: simplecms.Some(false),
	})
	require.NoError(t, err)
	assert.False(t, draft.Published)
}

func TestCreateBlog_EmptyContentPersistsNothing(t *testing.T) {
	svc, repo, store := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{
		Title:   "Hello",
		Content: "   ",
		Image:   &simplecms.Attachment{FileName: "a.png", Data: []byte("png")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, simplecms.ErrValidation)

	var ve *simplecms.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Blog title and content are required", ve.Message)

	blogs, err := repo.ListBlogs(ctx, simplecms.BlogFilter{})
	require.NoError(t, err)
	assert.Empty(t, blogs)
	assert.Equal(t, 0, store.Len())
}

func TestCreateBlog_UploadsImageIntoFolder(t *testing.T) {
	svc, _, store := setupTestService(t)

	blog, err := svc.CreateBlog(context.Background(), simplecms.CreateBlogRequest{
		Title:   "With image",
		Content: "body",
		Image:   &simplecms.Attachment{FileName: "cover.png", ContentType: "image/png", Data: []byte("fake png")},
	})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(blog.Image, "memory://blog-images/"), blog.Image)
	obj, err := store.Get(strings.TrimPrefix(blog.Image, "memory://"))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png"), obj.Data)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestCreateBlog_UploadFailurePersistsNothing(t *testing.T) {
	repo := memory.New()
	svc, err := simplecms.New(simplecms.WithRepository(repo), simplecms.WithBlobStore(brokenStore{}))
	require.NoError(t, err)

	_, err = svc.CreateBlog(context.Background(), simplecms.CreateBlogRequest{
		Title:   "Hello",
		Content: "body",
		Image:   &simplecms.Attachment{FileName: "a.png", Data: []byte("png")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, simplecms.ErrUploadFailed)

	blogs, err := repo.ListBlogs(context.Background(), simplecms.BlogFilter{})
	require.NoError(t, err)
	assert.Empty(t, blogs)
}

func TestUpdateBlog_PublishedFalseOnly(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{
		Title:     "Hello",
		Content:   "body text",
		Tags:      []string{"go"},
		Category:  "dev",
		Published: simplecms.Some(true),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateBlog(ctx, simplecms.UpdateBlogRequest{
		ID:        created.ID,
		Published: simplecms.Some(false),
	})
	require.NoError(t, err)

	assert.False(t, updated.Published)
	assert.Equal(t, created.Title, updated.Title)
	assert.Equal(t, created.Content, updated.Content)
	assert.Equal(t, created.Tags, updated.Tags)
	assert.Equal(t, created.Category, updated.Category)
	assert.Equal(t, created.PublishedAt, updated.PublishedAt)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestUpdateBlog_EmptyValuesIgnored(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{Title: "Keep", Content: "short body"})
	require.NoError(t, err)

	updated, err := svc.UpdateBlog(ctx, simplecms.UpdateBlogRequest{
		ID:       created.ID,
		Title:    simplecms.Some(""),
		Tags:     simplecms.Some([]string{}),
		Content:  simplecms.Some(strings.Repeat("word ", 500)),
		Category: simplecms.Some(""),
	})
	require.NoError(t, err)

	assert.Equal(t, "Keep", updated.Title)
	assert.Equal(t, strings.Repeat("word ", 500), updated.Content)
	// Derived fields stay as computed at creation.
	assert.Equal(t, created.ReadTime, updated.ReadTime)
	assert.Equal(t, created.Excerpt, updated.Excerpt)
	assert.Equal(t, created.Author, updated.Author)
}

func TestUpdateBlog_EmptyPatchIsNoop(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{Title: "Hello", Content: "body"})
	require.NoError(t, err)

	updated, err := svc.UpdateBlog(ctx, simplecms.UpdateBlogRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created.UpdatedAt, updated.UpdatedAt)
}

func TestUpdateBlog_UploadFailureLeavesDocument(t *testing.T) {
	repo := memory.New()
	svc, err := simplecms.New(simplecms.WithRepository(repo), simplecms.WithBlobStore(brokenStore{}))
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{Title: "Hello", Content: "body"})
	require.NoError(t, err)

	_, err = svc.UpdateBlog(ctx, simplecms.UpdateBlogRequest{
		ID:    created.ID,
		Title: simplecms.Some("Changed"),
		Image: &simplecms.Attachment{FileName: "a.png", Data: []byte("png")},
	})
	require.ErrorIs(t, err, simplecms.ErrUploadFailed)

	stored, err := svc.GetBlog(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello", stored.Title)
	assert.Equal(t, created.UpdatedAt, stored.UpdatedAt)
}

func TestUpdateBlog_UnknownIDSkipsUpload(t *testing.T) {
	svc, _, store := setupTestService(t)

	_, err := svc.UpdateBlog(context.Background(), simplecms.UpdateBlogRequest{
		ID:    uuid.New(),
		Image: &simplecms.Attachment{FileName: "a.png", Data: []byte("png")},
	})
	assert.ErrorIs(t, err, simplecms.ErrBlogNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestDeleteBlog(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	err := svc.DeleteBlog(ctx, uuid.New())
	assert.ErrorIs(t, err, simplecms.ErrNotFound)

	created, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{Title: "Hello", Content: "body"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBlog(ctx, created.ID))

	_, err = svc.GetBlog(ctx, created.ID)
	assert.ErrorIs(t, err, simplecms.ErrBlogNotFound)
}

func TestListBlogs_Filter(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{Title: "Draft", Content: "body"})
	require.NoError(t, err)
	live, err := svc.CreateBlog(ctx, simplecms.CreateBlogRequest{Title: "Live", Content: "body", Published: simplecms.Some(true)})
	require.NoError(t, err)

	published := true
	blogs, err := svc.ListBlogs(ctx, simplecms.BlogFilter{Published: &published})
	require.NoError(t, err)
	require.Len(t, blogs, 1)
	assert.Equal(t, live.ID, blogs[0].ID)

	all, err := svc.ListBlogs(ctx, simplecms.BlogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Live", all[0].Title, "newest first")
}

func TestEventSinkFailureDoesNotFailRequest(t *testing.T) {
	sink := &brokenSink{}
	svc, _, _ := setupTestService(t, simplecms.WithEventSink(sink))

	blog, err := svc.CreateBlog(context.Background(), simplecms.CreateBlogRequest{Title: "Hello", Content: "body"})
	require.NoError(t, err)
	assert.NotNil(t, blog)
	assert.Equal(t, 1, sink.calls)
}

func TestCreateProject(t *testing.T) {
	svc, _, store := setupTestService(t)

	project, err := svc.CreateProject(context.Background(), simplecms.CreateProjectRequest{
		Title:       "CMS",
		Description: "Content backend",
		TechStack:   " go, postgres,,s3 ",
		GithubLink:  "https://github.com/example/cms",
		Image:       &simplecms.Attachment{FileName: "shot.png", Data: []byte("\x89PNG\r\n\x1a\nrest")},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"go", "postgres", "s3"}, project.TechStack)
	require.True(t, strings.HasPrefix(project.ImageURL, "memory://portfolio-projects/"), project.ImageURL)
	obj, err := store.Get(strings.TrimPrefix(project.ImageURL, "memory://"))
	require.NoError(t, err)
	assert.Equal(t, "image/png", obj.ContentType)
}

func TestCreateProject_Validation(t *testing.T) {
	svc, _, _ := setupTestService(t)

	_, err := svc.CreateProject(context.Background(), simplecms.CreateProjectRequest{Description: "no title"})
	var ve *simplecms.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Project title is required", ve.Message)

	_, err = svc.CreateProject(context.Background(), simplecms.CreateProjectRequest{Title: "x", GithubLink: "not a url"})
	assert.ErrorIs(t, err, simplecms.ErrValidation)
}

func TestUpdateProject_Partial(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	created, err := svc.CreateProject(ctx, simplecms.CreateProjectRequest{
		Title:       "CMS",
		Description: "Content backend",
		TechStack:   "go",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProject(ctx, simplecms.UpdateProjectRequest{
		ID:          created.ID,
		Description: simplecms.Some(""),
		TechStack:   simplecms.Some("go, chi"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Content backend", updated.Description)
	assert.Equal(t, []string{"go", "chi"}, updated.TechStack)

	_, err = svc.UpdateProject(ctx, simplecms.UpdateProjectRequest{ID: uuid.New(), Title: simplecms.Some("x")})
	assert.ErrorIs(t, err, simplecms.ErrProjectNotFound)
}

func TestDeleteProject(t *testing.T) {
	svc, _, _ := setupTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeleteProject(ctx, uuid.New()), simplecms.ErrNotFound)

	created, err := svc.CreateProject(ctx, simplecms.CreateProjectRequest{Title: "CMS"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProject(ctx, created.ID))

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)
}
