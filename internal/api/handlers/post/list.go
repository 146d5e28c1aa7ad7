package post

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"Souq/internal/api/middleware"
	"Souq/internal/core/posts"
)

// ListHandler handles the listing read endpoints
type ListHandler struct {
	service posts.Service
}

// NewListHandler creates a new list handler
func NewListHandler(service posts.Service) *ListHandler {
	return &ListHandler{service: service}
}

// HandleList handles GET /api/posts?limit=
func (h *ListHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "InvalidRequest", "limit must be an integer")
			return
		}
		limit = parsed
	}

	result, err := h.service.GetPosts(r.Context(), limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(result))
}

// HandleByCategory handles GET /api/posts/category/{category}
func (h *ListHandler) HandleByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	result, err := h.service.GetPostsByCategory(r.Context(), category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(result))
}

// HandleByUser handles GET /api/posts/user/{userID}
// Backs the public-profile view: every status is included so a seller's
// page matches what the seller sees.
func (h *ListHandler) HandleByUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	result, err := h.service.GetPostsByUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(result))
}

// HandleMine handles GET /api/posts/mine for the authenticated caller.
func (h *ListHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r)
	if identity == nil {
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
		return
	}

	result, err := h.service.GetPostsByUser(r.Context(), identity.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(result))
}

// HandleSearch handles GET /api/posts/search?q=&category=
func (h *ListHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	category := r.URL.Query().Get("category")

	result, err := h.service.SearchPosts(r.Context(), q, category)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, emptyIfNil(result))
}

// emptyIfNil keeps list responses as [] instead of null.
func emptyIfNil(in []*posts.Post) []*posts.Post {
	if in == nil {
		return []*posts.Post{}
	}
	return in
}
