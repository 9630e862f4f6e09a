package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth"
	"github.com/google/uuid"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

const (
	msgBlogCreated  = "Blog created"
	msgBlogsListed  = "All blogs"
	msgBlogFetched  = "Blog fetched"
	msgBlogUpdated  = "Blog updated"
	msgBlogDeleted  = "Blog deleted"
	msgBlogNotFound = "Blog not found"
)

// BlogHandler handles HTTP requests for blog posts
type BlogHandler struct {
	service   simplecms.Service
	auth      *jwtauth.JWTAuth
	maxMemory int64
}

// NewBlogHandler creates a new blog handler. Write routes require an admin
// token verified by auth.
func NewBlogHandler(service simplecms.Service, auth *jwtauth.JWTAuth, maxMemory int64) *BlogHandler {
	return &BlogHandler{service: service, auth: auth, maxMemory: maxMemory}
}

// Routes returns the routes for blogs
func (h *BlogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListBlogs)
	r.Get("/{id}", h.GetBlog)

	r.Group(func(r chi.Router) {
		r.Use(AdminOnly(h.auth))
		r.Post("/", h.CreateBlog)
		r.Put("/{id}", h.UpdateBlog)
		r.Delete("/{id}", h.DeleteBlog)
	})

	return r
}

// CreateBlog creates a blog post from a JSON or multipart body
func (h *BlogHandler) CreateBlog(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateBlog(r, h.maxMemory)
	if err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}
	req.Identity = IdentityFromContext(r.Context())

	blog, err := h.service.CreateBlog(r.Context(), req)
	if err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}

	respond(w, r, http.StatusCreated, blog, msgBlogCreated)
}

// ListBlogs lists published blog posts, newest first
func (h *BlogHandler) ListBlogs(w http.ResponseWriter, r *http.Request) {
	published := true
	blogs, err := h.service.ListBlogs(r.Context(), simplecms.BlogFilter{Published: &published})
	if err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}

	respond(w, r, http.StatusOK, blogs, msgBlogsListed)
}

// GetBlog fetches one blog post. Ids that are not UUIDs are reported as not found.
func (h *BlogHandler) GetBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	blog, err := h.service.GetBlog(r.Context(), id)
	if err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}

	respond(w, r, http.StatusOK, blog, msgBlogFetched)
}

// UpdateBlog applies a partial update
func (h *BlogHandler) UpdateBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	req, err := decodeUpdateBlog(r, h.maxMemory)
	if err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}
	req.ID = id

	blog, err := h.service.UpdateBlog(r.Context(), req)
	if err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}

	respond(w, r, http.StatusOK, blog, msgBlogUpdated)
}

// DeleteBlog removes a blog post. Its image stays in the blob store.
func (h *BlogHandler) DeleteBlog(w http.ResponseWriter, r *http.Request) {
	id, ok := blogID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteBlog(r.Context(), id); err != nil {
		respondError(w, r, err, msgBlogNotFound)
		return
	}

	respond(w, r, http.StatusOK, nil, msgBlogDeleted)
}

func blogID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.DebugContext(r.Context(), "Invalid blog ID", "id", idStr, "error", err)
		respond(w, r, http.StatusNotFound, nil, msgBlogNotFound)
		return uuid.Nil, false
	}
	return id, true
}
