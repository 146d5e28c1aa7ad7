package post

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"Souq/internal/core/posts"
)

// GetHandler handles direct post lookups
type GetHandler struct {
	service posts.Service
}

// NewGetHandler creates a new get handler
func NewGetHandler(service posts.Service) *GetHandler {
	return &GetHandler{service: service}
}

// HandleGet handles GET /api/posts/{id}
// Direct lookup bypasses the active-only filter so owners can open the
// edit view for a delisted ad.
func (h *GetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	post, err := h.service.GetPostByID(r.Context(), id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, post)
}
