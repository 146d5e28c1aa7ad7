package profile

import (
	"encoding/json"
	"net/http"

	"Souq/internal/core/profiles"
)

// UpdateHandler handles profile update requests
type UpdateHandler struct {
	service profiles.Service
}

// NewUpdateHandler creates a new update handler
func NewUpdateHandler(service profiles.Service) *UpdateHandler {
	return &UpdateHandler{service: service}
}

// HandleUpdate handles PUT /api/profile
func (h *UpdateHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req profiles.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Invalid JSON body")
		return
	}

	updated, err := h.service.UpdateProfile(r.Context(), req)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}
