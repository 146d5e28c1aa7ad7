package profiles

import (
	"context"
	"fmt"
	"strings"

	"Souq/internal/api/middleware"
	"Souq/internal/auth"
)

type profileService struct {
	accounts Accounts
	storage  AvatarStorage
}

// NewProfileService creates a new profile service
func NewProfileService(accounts Accounts, storage AvatarStorage) Service {
	return &profileService{
		accounts: accounts,
		storage:  storage,
	}
}

// UploadProfilePicture replaces the caller's avatar.
// The object path is derived from the user ID alone, with overwrite enabled,
// so repeated uploads replace the previous avatar instead of accumulating
// orphaned objects in storage.
func (s *profileService) UploadProfilePicture(ctx context.Context, req UploadAvatarRequest) (*UploadAvatarResponse, error) {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	// Defensive re-validation: the UI checks MIME type and size before
	// calling, but the repository must not rely on that.
	if err := req.Image.Validate(); err != nil {
		return nil, NewValidationError("avatar", err.Error())
	}

	avatarURL, err := s.storage.Upload(ctx, "avatars/"+identity.ID, req.Image.Reader, true)
	if err != nil {
		return nil, &UploadError{Err: err}
	}

	// Patch only the avatar key. The provider merges into the existing
	// user_metadata, and the token's other claims are a snapshot from
	// issuance time; writing them back would revert edits made since.
	patch := map[string]interface{}{
		auth.MetaAvatarURL: avatarURL,
	}

	refreshed, err := s.accounts.UpdateUserMetadata(ctx, identity.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar metadata: %w", err)
	}

	return &UploadAvatarResponse{
		AvatarURL: avatarURL,
		Profile:   FromIdentity(refreshed),
	}, nil
}

// UpdateProfile patches the caller's display name and, when supplied, phone
// number. The avatar key stays out of the patch entirely; the provider's
// merge keeps whatever avatar_url is currently stored, including one set
// after this caller's token was issued.
func (s *profileService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*Profile, error) {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, NewValidationError("fullName", "display name is required")
	}

	patch := map[string]interface{}{
		auth.MetaFullName: fullName,
	}
	if phone := strings.TrimSpace(req.PhoneNumber); phone != "" {
		patch[auth.MetaPhoneNumber] = phone
	}

	refreshed, err := s.accounts.UpdateUserMetadata(ctx, identity.ID, patch)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile metadata: %w", err)
	}

	return FromIdentity(refreshed), nil
}
