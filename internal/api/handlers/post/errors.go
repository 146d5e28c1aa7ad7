package post

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"Souq/internal/core/posts"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// writeError writes a JSON error response
func writeError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(errorResponse{
		Error:   errorType,
		Message: message,
	}); err != nil {
		log.Printf("Failed to encode error response: %v", err)
	}
}

// writeJSON writes a success response
func writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// handleServiceError maps the post error taxonomy to HTTP responses
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, posts.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "AuthRequired",
			"Authentication required")

	case errors.Is(err, posts.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "NotAuthorized",
			"You can only modify your own posts")

	case posts.IsNotFound(err):
		writeError(w, http.StatusNotFound, "NotFound", "Post not found")

	case posts.IsValidationError(err):
		writeError(w, http.StatusBadRequest, "InvalidRequest", err.Error())

	case posts.IsUploadError(err):
		// The storage failure itself stays in the server log.
		log.Printf("Image upload failed: %v", err)
		writeError(w, http.StatusInternalServerError, "UploadFailed",
			"Failed to store image")

	default:
		// Don't leak internal error details to clients
		log.Printf("Unexpected error in post handler: %v", err)
		writeError(w, http.StatusInternalServerError, "InternalServerError",
			"An internal error occurred")
	}
}
