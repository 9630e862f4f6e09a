package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tendant/simple-cms/pkg/simplecms"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Status  int    `json:"status"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func respond(w http.ResponseWriter, r *http.Request, status int, data any, message string) {
	render.Status(r, status)
	render.JSON(w, r, Response{Status: status, Data: data, Message: message})
}

// respondError maps service errors onto envelope statuses. notFound is the
// entity specific message for ErrNotFound.
func respondError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var (
		validationErr *simplecms.ValidationError
		uploadErr     *simplecms.UploadError
		tooLarge      *http.MaxBytesError
	)

	switch {
	case errors.As(err, &tooLarge):
		respond(w, r, http.StatusRequestEntityTooLarge, nil, "Request body too large")
	case errors.Is(err, simplecms.ErrNotFound):
		respond(w, r, http.StatusNotFound, nil, notFound)
	case errors.As(err, &validationErr):
		var fields validation.Errors
		if errors.As(validationErr.Err, &fields) {
			respond(w, r, http.StatusBadRequest, fields, validationErr.Message)
			return
		}
		respond(w, r, http.StatusBadRequest, nil, validationErr.Message)
	case errors.As(err, &uploadErr):
		slog.ErrorContext(r.Context(), "Image upload failed", "folder", uploadErr.Folder, "error", uploadErr.Err)
		respond(w, r, http.StatusBadGateway, nil, "Image upload failed")
	default:
		slog.ErrorContext(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		respond(w, r, http.StatusInternalServerError, nil, "Internal server error")
	}
}
