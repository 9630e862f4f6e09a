package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-cms/pkg/simplecms"
	"github.com/tendant/simple-cms/pkg/simplecms/repo/memory"
)

func newBlog(title string, published bool, createdAt time.Time) *simplecms.BlogPost {
	return &simplecms.BlogPost{
		ID:          uuid.New(),
		Title:       title,
		Content:     "some content",
		Excerpt:     "some content...",
		Tags:        []string{"go"},
		Published:   published,
		PublishedAt: createdAt,
		ReadTime:    1,
		Author:      "Admin",
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func TestMemoryRepository_BlogOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("CreateAndGet", func(t *testing.T) {
		blog := newBlog("Hello", true, now)
		require.NoError(t, repo.CreateBlog(ctx, blog))

		got, err := repo.GetBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, blog.Title, got.Title)
		assert.Equal(t, blog.Tags, got.Tags)

		// returned copies are detached from the store
		got.Tags[0] = "mutated"
		again, err := repo.GetBlog(ctx, blog.ID)
		require.NoError(t, err)
		assert.Equal(t, "go", again.Tags[0])
	})

	t.Run("CreateRequiresFields", func(t *testing.T) {
		blog := newBlog("", true, now)
		err := repo.CreateBlog(ctx, blog)
		assert.ErrorIs(t, err, simplecms.ErrValidation)

		blog = newBlog("t", true, now)
		blog.Excerpt = ""
		assert.ErrorIs(t, repo.CreateBlog(ctx, blog), simplecms.ErrValidation)
	})

	t.Run("GetUnknown", func(t *testing.T) {
		_, err := repo.GetBlog(ctx, uuid.New())
		assert.ErrorIs(t, err, simplecms.ErrBlogNotFound)
		assert.ErrorIs(t, err, simplecms.ErrNotFound)
	})

	t.Run("UpdatePartial", func(t *testing.T) {
		blog := newBlog("Before", true, now)
		require.NoError(t, repo.CreateBlog(ctx, blog))

		published := false
		later := now.Add(time.Minute)
		updated, err := repo.UpdateBlog(ctx, blog.ID, simplecms.BlogPatch{Published: &published, UpdatedAt: later})
		require.NoError(t, err)
		assert.False(t, updated.Published)
		assert.Equal(t, "Before", updated.Title)
		assert.Equal(t, blog.Content, updated.Content)
		assert.Equal(t, blog.Excerpt, updated.Excerpt)
		assert.True(t, later.Equal(updated.UpdatedAt))
	})

	t.Run("UpdateUnknown", func(t *testing.T) {
		title := "x"
		_, err := repo.UpdateBlog(ctx, uuid.New(), simplecms.BlogPatch{Title: &title})
		assert.ErrorIs(t, err, simplecms.ErrBlogNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		blog := newBlog("Doomed", true, now)
		require.NoError(t, repo.CreateBlog(ctx, blog))
		require.NoError(t, repo.DeleteBlog(ctx, blog.ID))

		_, err := repo.GetBlog(ctx, blog.ID)
		assert.ErrorIs(t, err, simplecms.ErrBlogNotFound)
		assert.ErrorIs(t, repo.DeleteBlog(ctx, blog.ID), simplecms.ErrBlogNotFound)
	})
}

func TestMemoryRepository_ListBlogs(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	oldest := newBlog("oldest", true, base)
	middle := newBlog("draft", false, base.Add(time.Hour))
	newest := newBlog("newest", true, base.Add(2*time.Hour))
	for _, b := range []*simplecms.BlogPost{middle, oldest, newest} {
		require.NoError(t, repo.CreateBlog(ctx, b))
	}

	all, err := repo.ListBlogs(ctx, simplecms.BlogFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"newest", "draft", "oldest"}, []string{all[0].Title, all[1].Title, all[2].Title})

	published := true
	live, err := repo.ListBlogs(ctx, simplecms.BlogFilter{Published: &published})
	require.NoError(t, err)
	require.Len(t, live, 2)
	assert.Equal(t, "newest", live[0].Title)
	assert.Equal(t, "oldest", live[1].Title)
}

func TestMemoryRepository_ListBlogs_Empty(t *testing.T) {
	blogs, err := memory.New().ListBlogs(context.Background(), simplecms.BlogFilter{})
	require.NoError(t, err)
	assert.NotNil(t, blogs)
	assert.Empty(t, blogs)
}

func TestMemoryRepository_ProjectOperations(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	project := &simplecms.Project{
		ID:        uuid.New(),
		Title:     "simple-cms",
		TechStack: []string{"Go", "Postgres"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	require.NoError(t, repo.CreateProject(ctx, project))
	assert.ErrorIs(t, repo.CreateProject(ctx, &simplecms.Project{ID: uuid.New(), Title: "  "}), simplecms.ErrValidation)

	got, err := repo.GetProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Equal(t, project.TechStack, got.TechStack)

	link := "https://github.com/example/simple-cms"
	updated, err := repo.UpdateProject(ctx, project.ID, simplecms.ProjectPatch{GithubLink: &link})
	require.NoError(t, err)
	assert.Equal(t, link, updated.GithubLink)
	assert.Equal(t, "simple-cms", updated.Title)

	require.NoError(t, repo.DeleteProject(ctx, project.ID))
	_, err = repo.GetProject(ctx, project.ID)
	assert.ErrorIs(t, err, simplecms.ErrProjectNotFound)
	assert.ErrorIs(t, repo.DeleteProject(ctx, project.ID), simplecms.ErrProjectNotFound)
}

func TestMemoryRepository_ListProjects_TieBreak(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	a := &simplecms.Project{ID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Title: "a", CreatedAt: at}
	b := &simplecms.Project{ID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Title: "b", CreatedAt: at}
	require.NoError(t, repo.CreateProject(ctx, b))
	require.NoError(t, repo.CreateProject(ctx, a))

	for i := 0; i < 5; i++ {
		projects, err := repo.ListProjects(ctx)
		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, a.ID, projects[0].ID)
		assert.Equal(t, b.ID, projects[1].ID)
	}
}

func TestMemoryRepository_ConcurrentUpdates(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	blog := newBlog("race", false, time.Now())
	require.NoError(t, repo.CreateBlog(ctx, blog))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			published := i%2 == 0
			_, err := repo.UpdateBlog(ctx, blog.ID, simplecms.BlogPatch{Published: &published})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := repo.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "race", got.Title)
}

func TestMemoryRepository_CreateFillsIdentity(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	first := &simplecms.BlogPost{Title: "A", Content: "body", Excerpt: "body..."}
	second := &simplecms.BlogPost{Title: "B", Content: "body", Excerpt: "body..."}
	require.NoError(t, repo.CreateBlog(ctx, first))
	require.NoError(t, repo.CreateBlog(ctx, second))

	assert.NotEqual(t, uuid.Nil, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, first.CreatedAt, first.UpdatedAt)
	assert.Equal(t, first.CreatedAt, first.PublishedAt)

	blogs, err := repo.ListBlogs(ctx, simplecms.BlogFilter{})
	require.NoError(t, err)
	assert.Len(t, blogs, 2)

	project := &simplecms.Project{Title: "CMS"}
	require.NoError(t, repo.CreateProject(ctx, project))
	assert.NotEqual(t, uuid.Nil, project.ID)
	assert.False(t, project.CreatedAt.IsZero())
}

func TestMemoryRepository_CreateKeepsSuppliedFields(t *testing.T) {
	repo := memory.New()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	blog := newBlog("Hello", false, at)
	id := blog.ID

	require.NoError(t, repo.CreateBlog(context.Background(), blog))
	assert.Equal(t, id, blog.ID)
	assert.Equal(t, at, blog.CreatedAt)
}

func TestMemoryRepository_CreateDuplicateID(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	blog := newBlog("Original", true, now)
	require.NoError(t, repo.CreateBlog(ctx, blog))

	dup := newBlog("Intruder", true, now)
	dup.ID = blog.ID
	err := repo.CreateBlog(ctx, dup)
	var storeErr *simplecms.StoreError
	require.ErrorAs(t, err, &storeErr)

	got, err := repo.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", got.Title)

	project := &simplecms.Project{ID: uuid.New(), Title: "CMS"}
	require.NoError(t, repo.CreateProject(ctx, project))
	err = repo.CreateProject(ctx, &simplecms.Project{ID: project.ID, Title: "Other"})
	assert.ErrorAs(t, err, &storeErr)
}
