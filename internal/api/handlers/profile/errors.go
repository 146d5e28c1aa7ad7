package profile

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Souq/internal/core/profiles"
)

// errorResponse is the standard error response format
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, errType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: errType, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// handleServiceError maps profile service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profiles.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "AuthRequired", "Authentication required")
	case profiles.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())
	case profiles.IsUploadError(err):
		log.Printf("avatar upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "UploadFailed", "Failed to upload avatar")
	default:
		log.Printf("unhandled profile service error: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError", "An unexpected error occurred")
	}
}
