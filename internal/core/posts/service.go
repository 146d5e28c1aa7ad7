package posts

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"Souq/internal/api/middleware"
	"Souq/internal/core/images"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type postService struct {
	repo    Repository
	storage ObjectStorage
}

// NewPostService creates a new post service
func NewPostService(repo Repository, storage ObjectStorage) Service {
	return &postService{
		repo:    repo,
		storage: storage,
	}
}

// CreatePost creates a new listing.
// Flow:
// 1. Require an authenticated caller
// 2. Validate fields and ALL images before any upload (a rejected request
//    must leave zero objects and zero rows behind)
// 3. Upload images sequentially, collecting public URLs in upload order
// 4. Insert the row with the owner snapshot and status=active
func (s *postService) CreatePost(ctx context.Context, req CreatePostRequest) (*CreatePostResponse, error) {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	if len(req.Images) > MaxImagesPerPost {
		return nil, NewValidationError("images",
			fmt.Sprintf("at most %d images per post, got %d", MaxImagesPerPost, len(req.Images)))
	}
	for i, img := range req.Images {
		if err := img.Validate(); err != nil {
			return nil, NewValidationError("images", fmt.Sprintf("image %d: %v", i, err))
		}
	}

	// Sequential uploads keep ImageURLs in the order the user chose.
	// Creates are not idempotent: a failure here may leave earlier objects
	// in storage, and the caller must re-invoke explicitly (no auto retry).
	imageURLs := make([]string, 0, len(req.Images))
	for i, img := range req.Images {
		url, err := s.storage.Upload(ctx, objectName(img), img.Reader, false)
		if err != nil {
			return nil, NewUploadError(i, err)
		}
		imageURLs = append(imageURLs, url)
	}

	post := &Post{
		Title:            strings.TrimSpace(req.Fields.Title),
		Description:      strings.TrimSpace(req.Fields.Description),
		TitleAr:          strings.TrimSpace(req.Fields.TitleAr),
		DescriptionAr:    strings.TrimSpace(req.Fields.DescriptionAr),
		Category:         req.Fields.Category,
		ImageURLs:        imageURLs,
		WhatsApp:         strings.TrimSpace(req.Fields.WhatsApp),
		Phone:            strings.TrimSpace(req.Fields.Phone),
		OwnerID:          identity.ID,
		OwnerEmail:       identity.Email,
		OwnerDisplayName: identity.FallbackDisplayName(),
		OwnerAvatarURL:   identity.AvatarURL,
		Status:           StatusActive,
	}
	if len(imageURLs) > 0 {
		post.ImageURL = imageURLs[0]
	}

	if err := s.repo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	return &CreatePostResponse{ID: post.ID}, nil
}

// GetPosts returns the newest active posts.
func (s *postService) GetPosts(ctx context.Context, limit int) ([]*Post, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return s.repo.ListActive(ctx, limit)
}

// GetPostByID returns a post by id regardless of status.
func (s *postService) GetPostByID(ctx context.Context, id string) (*Post, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// GetPostsByCategory returns active posts with exactly this category key.
// No fuzzy reconciliation of naming variants: the enum is enforced at write
// time, so exact equality is sufficient here.
func (s *postService) GetPostsByCategory(ctx context.Context, category string) ([]*Post, error) {
	return s.repo.ListActiveByCategory(ctx, category)
}

// GetPostsByUser returns all posts owned by userID regardless of status.
func (s *postService) GetPostsByUser(ctx context.Context, userID string) ([]*Post, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	return s.repo.ListByUser(ctx, userID)
}

// SearchPosts fetches active posts (optionally category-scoped) and filters
// them in memory with a case-insensitive multilingual substring match.
func (s *postService) SearchPosts(ctx context.Context, term, category string) ([]*Post, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		// Short-circuit: never hit the repository for an empty query.
		return []*Post{}, nil
	}

	var (
		candidates []*Post
		err        error
	)
	if category != "" {
		candidates, err = s.repo.ListActiveByCategory(ctx, category)
	} else {
		candidates, err = s.repo.ListActive(ctx, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch posts for search: %w", err)
	}

	needle := strings.ToLower(term)
	matched := make([]*Post, 0, len(candidates))
	for _, p := range candidates {
		if MatchesTerm(p, needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// MatchesTerm reports whether the lowercased term is a substring of any of
// the post's searchable fields (title, description, their secondary-locale
// variants, or the category key). OR across fields.
func MatchesTerm(p *Post, lowerTerm string) bool {
	return strings.Contains(strings.ToLower(p.Title), lowerTerm) ||
		strings.Contains(strings.ToLower(p.Description), lowerTerm) ||
		strings.Contains(strings.ToLower(p.TitleAr), lowerTerm) ||
		strings.Contains(strings.ToLower(p.DescriptionAr), lowerTerm) ||
		strings.Contains(strings.ToLower(p.Category), lowerTerm)
}

// UpdatePost applies an owner-scoped edit, optionally replacing image slot 0.
func (s *postService) UpdatePost(ctx context.Context, req UpdatePostRequest) (*UpdatePostResponse, error) {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return nil, ErrNotAuthenticated
	}

	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrNotFound
	}
	if err := validateFields(req.Fields); err != nil {
		return nil, err
	}

	// Ownership is checked before the image upload so a rejected edit
	// leaves no orphaned object in storage.
	current, err := s.repo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if current.OwnerID != identity.ID {
		return nil, ErrUnauthorized
	}

	input := UpdateInput{Fields: req.Fields}

	if req.Image != nil {
		if err := req.Image.Validate(); err != nil {
			return nil, NewValidationError("image", err.Error())
		}
		url, err := s.storage.Upload(ctx, objectName(*req.Image), req.Image.Reader, false)
		if err != nil {
			return nil, NewUploadError(0, err)
		}
		input.ImageURL = &url
	}

	// The update stays owner-scoped; a row deleted between the read and
	// the write surfaces as ErrNotFound.
	updated, err := s.repo.Update(ctx, req.ID, identity.ID, input)
	if err == ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}

	return &UpdatePostResponse{ID: updated.ID}, nil
}

// DeletePost removes the caller's post.
// Flow: read the row first for the ownership check and the image URL, delete
// the row owner-scoped, then best-effort remove the primary stored image.
func (s *postService) DeletePost(ctx context.Context, id string) error {
	identity := middleware.IdentityFromContext(ctx)
	if identity == nil {
		return ErrNotAuthenticated
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.OwnerID != identity.ID {
		return ErrUnauthorized
	}

	if err := s.repo.Delete(ctx, id, identity.ID); err != nil {
		return err
	}

	// Storage cleanup is deliberately best-effort: a dangling object is
	// preferable to a delete the user sees as failed.
	if post.ImageURL != "" {
		if err := s.storage.Remove(ctx, post.ImageURL); err != nil {
			log.Printf("Could not delete image from storage for post %s: %v", id, err)
		}
	}

	return nil
}

func validateFields(f PostFields) error {
	if strings.TrimSpace(f.Title) == "" {
		return NewValidationError("title", "title is required")
	}
	if strings.TrimSpace(f.Description) == "" {
		return NewValidationError("description", "description is required")
	}
	if !IsValidCategory(f.Category) {
		return NewValidationError("category",
			fmt.Sprintf("unknown category key %q", f.Category))
	}
	if strings.TrimSpace(f.WhatsApp) == "" {
		return NewValidationError("whatsapp", "whatsapp contact is required")
	}
	if strings.TrimSpace(f.Phone) == "" {
		return NewValidationError("phone", "phone contact is required")
	}
	return nil
}

// objectName builds a unique storage object name for a listing image.
func objectName(img images.Upload) string {
	name := "posts/" + uuid.NewString()
	if ext := img.Ext(); ext != "" {
		name += "." + ext
	}
	return name
}
