package posts

import (
	"errors"
	"fmt"
)

// Sentinel errors for common post operations
var (
	// ErrNotAuthenticated is returned when an operation requires a session
	// and the caller has none
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound is returned when a post lookup finds no matching row
	ErrNotFound = errors.New("post not found")

	// ErrUnauthorized is returned when the caller is authenticated but does
	// not own the post being mutated
	ErrUnauthorized = errors.New("not the owner of this post")
)

// ValidationError represents a client-side validation failure, raised before
// any network or storage call is made
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// UploadError wraps a storage failure during image upload. The index points
// at the image whose upload failed; earlier uploads may already exist.
type UploadError struct {
	Index int
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload image %d: %v", e.Index, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// NewUploadError creates a new upload error
func NewUploadError(index int, err error) error {
	return &UploadError{Index: index, Err: err}
}

// IsUploadError checks if error is an upload error
func IsUploadError(err error) bool {
	var upErr *UploadError
	return errors.As(err, &upErr)
}

// IsNotFound checks if error is a not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
