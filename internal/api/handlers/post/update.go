package post

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"Souq/internal/api/handlers/common"
	"Souq/internal/core/posts"
)

// UpdateHandler handles post update requests
type UpdateHandler struct {
	service posts.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service posts.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PUT /api/posts/{id}
// The body is multipart form data carrying the full set of listing fields
// (a PUT replaces them all); an "image" file part, when present, replaces
// the post's primary image.
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxUpdateRequestBytes)
	if err := r.ParseMultipartForm(common.MaxMultipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body exceeds the allowed size")
			return
		}
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Expected multipart form data")
		return
	}

	image, cleanup, err := common.OpenImage(r, "image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Could not read uploaded image")
		return
	}
	defer cleanup()

	req := posts.UpdatePostRequest{
		ID:     postID,
		Fields: fieldsFromForm(r),
		Image:  image,
	}

	resp, err := h.service.UpdatePost(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
