package profiles

import (
	"errors"
	"fmt"
)

// Sentinel errors for profile operations
var (
	// ErrNotAuthenticated is returned when no session is present
	ErrNotAuthenticated = errors.New("not authenticated")
)

// ValidationError represents a client-side validation failure raised before
// any network call is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// UploadError wraps a storage failure during avatar upload
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload avatar: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// IsUploadError checks if error is an upload error
func IsUploadError(err error) bool {
	var upErr *UploadError
	return errors.As(err, &upErr)
}
