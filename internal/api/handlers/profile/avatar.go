package profile

import (
	"net/http"

	"Souq/internal/api/handlers/common"
	"Souq/internal/core/profiles"
)

// 5 MiB image plus form overhead.
const maxAvatarRequestBytes = 6 * 1024 * 1024

// AvatarHandler handles profile picture uploads
type AvatarHandler struct {
	service profiles.Service
}

// NewAvatarHandler creates a new avatar handler
func NewAvatarHandler(service profiles.Service) *AvatarHandler {
	return &AvatarHandler{service: service}
}

// HandleUpload handles POST /api/profile/avatar
// Multipart form with a single "avatar" file part.
func (h *AvatarHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequestBytes)
	if err := r.ParseMultipartForm(common.MaxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Expected multipart form data")
		return
	}

	image, cleanup, err := common.OpenImage(r, "avatar")
	if err != nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "Could not read uploaded image")
		return
	}
	defer cleanup()

	if image == nil {
		writeError(w, http.StatusBadRequest, "InvalidRequest", "An avatar file is required")
		return
	}

	resp, err := h.service.UploadProfilePicture(r.Context(), profiles.UploadAvatarRequest{Image: *image})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
