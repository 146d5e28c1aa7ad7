package profiles

import (
	"context"
	"io"

	"Souq/internal/auth"
)

// Service defines the business logic interface for the authenticated user's
// profile. All operations require a session.
type Service interface {
	// UploadProfilePicture stores the image at the caller's deterministic
	// avatar path (overwriting any previous avatar) and patches the
	// account metadata's avatar_url.
	UploadProfilePicture(ctx context.Context, req UploadAvatarRequest) (*UploadAvatarResponse, error)

	// UpdateProfile patches display name and phone number in account
	// metadata. Provider-owned fields are never touched; the stored
	// avatar_url is preserved when not part of the request.
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error)
}

// Accounts is the slice of the hosted auth provider this service needs:
// metadata patches against the caller's account record.
type Accounts interface {
	UpdateUserMetadata(ctx context.Context, userID string, patch map[string]interface{}) (*auth.Identity, error)
}

// AvatarStorage uploads avatar objects and returns their public URL.
type AvatarStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, overwrite bool) (string, error)
}
