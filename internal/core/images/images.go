package images

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// MaxUploadBytes is the largest accepted image file (5 MiB).
// The UI enforces the same limit before calling the API; we re-check here
// so the repositories can assume validated input.
const MaxUploadBytes = 5 * 1024 * 1024

var (
	// ErrNotImage is returned when the declared content type is not image/*
	ErrNotImage = errors.New("file is not an image")

	// ErrTooLarge is returned when the file exceeds MaxUploadBytes
	ErrTooLarge = errors.New("image exceeds maximum size of 5 MiB")

	// ErrEmpty is returned when no file content was provided
	ErrEmpty = errors.New("image file is empty")
)

// Upload is a single image file received from a client, not yet written to
// object storage. Reader is consumed exactly once by the storage adapter.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// Validate checks the declared content type and size BEFORE any network
// call is made. Validation failures must never leave partial uploads behind.
func (u Upload) Validate() error {
	if !strings.HasPrefix(u.ContentType, "image/") {
		return fmt.Errorf("%w: got content type %q", ErrNotImage, u.ContentType)
	}
	if u.Size <= 0 {
		return ErrEmpty
	}
	if u.Size > MaxUploadBytes {
		return fmt.Errorf("%w: got %d bytes", ErrTooLarge, u.Size)
	}
	return nil
}

// Ext returns the lowercase filename extension without the dot, or "" when
// the filename has none. Used to build storage object names.
func (u Upload) Ext() string {
	idx := strings.LastIndex(u.Filename, ".")
	if idx < 0 || idx == len(u.Filename)-1 {
		return ""
	}
	return strings.ToLower(u.Filename[idx+1:])
}
