package auth

import "strings"

// Identity is the verified view of the hosted auth provider's user record.
// It carries the provider-owned fields (ID, Email) plus the mutable account
// metadata this application stores alongside them. Everything here comes
// either from a verified access token or from the provider's admin API.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

// Metadata keys used by the auth provider's user_metadata object.
// These names are part of the provider contract and must not change.
const (
	MetaFullName    = "full_name"
	MetaPhoneNumber = "phone_number"
	MetaAvatarURL   = "avatar_url"
)

// FallbackDisplayName derives a display name from the email local part,
// matching what the listing owner snapshot shows when a user never set one.
func (i *Identity) FallbackDisplayName() string {
	if i.DisplayName != "" {
		return i.DisplayName
	}
	if at := strings.Index(i.Email, "@"); at > 0 {
		return i.Email[:at]
	}
	return i.Email
}

// identityFromMetadata builds an Identity from provider fields plus the raw
// user_metadata map. Unknown metadata keys are ignored.
func identityFromMetadata(id, email string, meta map[string]interface{}) *Identity {
	ident := &Identity{ID: id, Email: email}
	if meta == nil {
		return ident
	}
	if v, ok := meta[MetaFullName].(string); ok {
		ident.DisplayName = v
	}
	if v, ok := meta[MetaPhoneNumber].(string); ok {
		ident.PhoneNumber = v
	}
	if v, ok := meta[MetaAvatarURL].(string); ok {
		ident.AvatarURL = v
	}
	return ident
}
