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
	msgProjectCreated  = "Project created"
	msgProjectsListed  = "All projects"
	msgProjectFetched  = "Project fetched"
	msgProjectUpdated  = "Project updated"
	msgProjectDeleted  = "Project deleted"
	msgProjectNotFound = "Project not found"
)

// ProjectHandler handles HTTP requests for portfolio projects
type ProjectHandler struct {
	service   simplecms.Service
	auth      *jwtauth.JWTAuth
	maxMemory int64
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service simplecms.Service, auth *jwtauth.JWTAuth, maxMemory int64) *ProjectHandler {
	return &ProjectHandler{service: service, auth: auth, maxMemory: maxMemory}
}

// Routes returns the routes for projects
func (h *ProjectHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListProjects)
	r.Get("/{id}", h.GetProject)

	r.Group(func(r chi.Router) {
		r.Use(AdminOnly(h.auth))
		r.Post("/", h.CreateProject)
		r.Put("/{id}", h.UpdateProject)
		r.Delete("/{id}", h.DeleteProject)
	})

	return r
}

// CreateProject creates a project from a JSON or multipart body
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCreateProject(r, h.maxMemory)
	if err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}

	project, err := h.service.CreateProject(r.Context(), req)
	if err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}

	respond(w, r, http.StatusCreated, project, msgProjectCreated)
}

// ListProjects lists all projects, newest first
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context())
	if err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}

	respond(w, r, http.StatusOK, projects, msgProjectsListed)
}

// GetProject fetches one project
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	project, err := h.service.GetProject(r.Context(), id)
	if err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}

	respond(w, r, http.StatusOK, project, msgProjectFetched)
}

// UpdateProject applies a partial update
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	req, err := decodeUpdateProject(r, h.maxMemory)
	if err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}
	req.ID = id

	project, err := h.service.UpdateProject(r.Context(), req)
	if err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}

	respond(w, r, http.StatusOK, project, msgProjectUpdated)
}

// DeleteProject removes a project
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := projectID(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		respondError(w, r, err, msgProjectNotFound)
		return
	}

	respond(w, r, http.StatusOK, nil, msgProjectDeleted)
}

func projectID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.DebugContext(r.Context(), "Invalid project ID", "id", idStr, "error", err)
		respond(w, r, http.StatusNotFound, nil, msgProjectNotFound)
		return uuid.Nil, false
	}
	return id, true
}
