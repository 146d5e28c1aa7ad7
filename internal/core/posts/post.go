package posts

import (
	"time"

	"Souq/internal/core/images"
)

// Status values for a post's lifecycle. Only active posts appear in public
// listing, category and search queries.
const (
	StatusActive = "active"
)

// MaxImagesPerPost caps how many images a single listing may carry.
// Enforced before any upload starts so a rejected create has zero side effects.
const MaxImagesPerPost = 5

// Categories is the fixed set of listing category keys. The enum is enforced
// at write time (create/update); read paths do exact equality only, so legacy
// rows with arbitrary category values still round-trip unmodified.
var Categories = []string{
	"realEstate",
	"vehicles",
	"petServices",
	"furniture",
	"electronics",
	"clothing",
	"furnishings",
	"appliances",
	"services",
}

// IsValidCategory reports whether key is one of the fixed category keys.
func IsValidCategory(key string) bool {
	for _, c := range Categories {
		if c == key {
			return true
		}
	}
	return false
}

// Post is the view-model for a single classified-ad listing: camelCase JSON,
// ImageURLs always a non-nil slice with ImageURL equal to its first element
// (or empty when there are no images). The owner fields are a denormalized
// snapshot of the creating user's identity at post time; they are
// intentionally NOT live-synced to later profile edits.
type Post struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	TitleAr          string    `json:"titleAr,omitempty"`
	DescriptionAr    string    `json:"descriptionAr,omitempty"`
	Category         string    `json:"category"`
	ImageURL         string    `json:"imageUrl,omitempty"`
	ImageURLs        []string  `json:"imageUrls"`
	WhatsApp         string    `json:"whatsapp"`
	Phone            string    `json:"phone"`
	OwnerID          string    `json:"ownerId"`
	OwnerEmail       string    `json:"ownerEmail"`
	OwnerDisplayName string    `json:"ownerDisplayName"`
	OwnerAvatarURL   string    `json:"ownerAvatarUrl,omitempty"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DisplayTitle returns the secondary-locale title when requested and
// present, falling back to the primary title.
func (p *Post) DisplayTitle(preferArabic bool) string {
	if preferArabic && p.TitleAr != "" {
		return p.TitleAr
	}
	return p.Title
}

// PostFields are the user-editable listing fields shared by create and
// update. The secondary-locale fields are optional; they are present only
// when the secondary locale was active in the client at write time.
type PostFields struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	TitleAr       string `json:"titleAr,omitempty"`
	DescriptionAr string `json:"descriptionAr,omitempty"`
	Category      string `json:"category"`
	WhatsApp      string `json:"whatsapp"`
	Phone         string `json:"phone"`
}

// CreatePostRequest is the input for Service.CreatePost.
type CreatePostRequest struct {
	Fields PostFields
	Images []images.Upload
}

// CreatePostResponse returns the identifier assigned by the data layer.
type CreatePostResponse struct {
	ID string `json:"id"`
}

// UpdatePostRequest is the input for Service.UpdatePost. Image, when set,
// replaces image slot 0 only; multi-image edits are not supported.
type UpdatePostRequest struct {
	ID     string
	Fields PostFields
	Image  *images.Upload
}

// UpdatePostResponse echoes the updated post's identifier.
type UpdatePostResponse struct {
	ID string `json:"id"`
}

// UpdateInput is what the repository applies in an owner-scoped update.
// ImageURL == nil means "keep the current images".
type UpdateInput struct {
	Fields   PostFields
	ImageURL *string
}
