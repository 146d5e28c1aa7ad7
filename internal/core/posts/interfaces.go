package posts

import (
	"context"
	"io"
)

// Service defines the business logic interface for listings.
// Auth and ownership rules live here; repositories stay mechanical.
type Service interface {
	// CreatePost uploads 0-5 images in order, stamps the owner snapshot from
	// the authenticated caller and inserts the row with status=active.
	CreatePost(ctx context.Context, req CreatePostRequest) (*CreatePostResponse, error)

	// GetPosts returns up to limit active posts, newest first.
	// limit <= 0 falls back to the default page size.
	GetPosts(ctx context.Context, limit int) ([]*Post, error)

	// GetPostByID returns a post regardless of status; direct lookup backs
	// the product-detail and edit views.
	GetPostByID(ctx context.Context, id string) (*Post, error)

	// GetPostsByCategory returns active posts with exactly this category
	// key, newest first.
	GetPostsByCategory(ctx context.Context, category string) ([]*Post, error)

	// GetPostsByUser returns ALL posts owned by userID regardless of
	// status, newest first. Backs the "my ads" and public-profile views.
	GetPostsByUser(ctx context.Context, userID string) ([]*Post, error)

	// SearchPosts matches term case-insensitively as a substring of any of
	// title, description, titleAr, descriptionAr or category, over active
	// posts (optionally pre-scoped to a category). An empty or
	// whitespace-only term short-circuits to an empty result with no
	// repository call.
	SearchPosts(ctx context.Context, term, category string) ([]*Post, error)

	// UpdatePost applies an owner-scoped update; non-owners get
	// ErrUnauthorized with zero effect. Optionally replaces image slot 0.
	UpdatePost(ctx context.Context, req UpdatePostRequest) (*UpdatePostResponse, error)

	// DeletePost removes the caller's post and best-effort removes its
	// primary stored image (storage failures are logged, not surfaced).
	DeletePost(ctx context.Context, id string) error
}

// Repository is the translation boundary between the posts table's row
// shape and the Post view-model. Implementations perform no auth checks.
type Repository interface {
	Create(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id string) (*Post, error)

	// ListActive returns active posts newest first; limit <= 0 means no limit.
	ListActive(ctx context.Context, limit int) ([]*Post, error)

	// ListActiveByCategory returns active posts with exactly this category,
	// newest first.
	ListActiveByCategory(ctx context.Context, category string) ([]*Post, error)

	// ListByUser returns all posts owned by userID regardless of status,
	// newest first.
	ListByUser(ctx context.Context, userID string) ([]*Post, error)

	// Update applies input to the row only when both id and ownerID match,
	// refreshing updated_at. Returns ErrNotFound when no row matched.
	Update(ctx context.Context, id, ownerID string, input UpdateInput) (*Post, error)

	// Delete removes the row only when both id and ownerID match.
	// Returns ErrNotFound when no row matched.
	Delete(ctx context.Context, id, ownerID string) error
}

// ObjectStorage is the hosted object-storage boundary used for listing
// images. Upload writes the object at path and returns its public URL;
// Remove deletes the object a previously returned URL points at.
type ObjectStorage interface {
	Upload(ctx context.Context, path string, r io.Reader, overwrite bool) (string, error)
	Remove(ctx context.Context, url string) error
}
