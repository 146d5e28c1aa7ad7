package profiles

import (
	"Souq/internal/auth"
	"Souq/internal/core/images"
)

// Profile is the view-model for the authenticated user's account metadata.
// Email is provider-owned and immutable through this layer; the other
// fields live in the auth provider's user_metadata.
type Profile struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// FromIdentity maps a verified identity onto the Profile view-model.
func FromIdentity(i *auth.Identity) *Profile {
	return &Profile{
		ID:          i.ID,
		Email:       i.Email,
		DisplayName: i.DisplayName,
		PhoneNumber: i.PhoneNumber,
		AvatarURL:   i.AvatarURL,
	}
}

// UpdateProfileRequest is the input for Service.UpdateProfile.
// PhoneNumber is optional; an empty value leaves the stored number alone.
type UpdateProfileRequest struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// UploadAvatarRequest is the input for Service.UploadProfilePicture.
type UploadAvatarRequest struct {
	Image images.Upload
}

// UploadAvatarResponse carries the new avatar URL plus the refreshed profile.
type UploadAvatarResponse struct {
	AvatarURL string   `json:"avatarUrl"`
	Profile   *Profile `json:"user"`
}
