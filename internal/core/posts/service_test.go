package posts

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"Souq/internal/api/middleware"
	"Souq/internal/auth"
	"Souq/internal/core/images"
)

// Mock repository and storage for testing
type mockPostRepository struct {
	mock.Mock
}

func (m *mockPostRepository) Create(ctx context.Context, post *Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepository) ListActive(ctx context.Context, limit int) ([]*Post, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

func (m *mockPostRepository) ListActiveByCategory(ctx context.Context, category string) ([]*Post, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

func (m *mockPostRepository) ListByUser(ctx context.Context, userID string) ([]*Post, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Post), args.Error(1)
}

func (m *mockPostRepository) Update(ctx context.Context, id, ownerID string, input UpdateInput) (*Post, error) {
	args := m.Called(ctx, id, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *mockPostRepository) Delete(ctx context.Context, id, ownerID string) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) Upload(ctx context.Context, path string, r io.Reader, overwrite bool) (string, error) {
	args := m.Called(ctx, path, r, overwrite)
	return args.String(0), args.Error(1)
}

func (m *mockStorage) Remove(ctx context.Context, url string) error {
	args := m.Called(ctx, url)
	return args.Error(0)
}

func authedContext(userID string) context.Context {
	return middleware.WithIdentity(context.Background(), &auth.Identity{
		ID:          userID,
		Email:       "seller@example.com",
		DisplayName: "Seller",
	})
}

func validFields() PostFields {
	return PostFields{
		Title:       "Two bedroom apartment",
		Description: "Spacious, near the corniche",
		Category:    "realEstate",
		WhatsApp:    "+97455512345",
		Phone:       "+97455512345",
	}
}

func imageUpload(name string) images.Upload {
	return images.Upload{
		Filename:    name,
		ContentType: "image/jpeg",
		Size:        1024,
		Reader:      strings.NewReader("fake image bytes"),
	}
}

func TestCreatePost_Success(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	uploads := []images.Upload{imageUpload("a.jpg"), imageUpload("b.png"), imageUpload("c.webp")}
	for i := range uploads {
		url := fmt.Sprintf("https://cdn.example.com/img-%d", i)
		storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, false).Return(url, nil).Once()
	}
	repo.On("Create", mock.Anything, mock.AnythingOfType("*posts.Post")).Run(func(args mock.Arguments) {
		post := args.Get(1).(*Post)
		post.ID = "generated-id"
	}).Return(nil)

	resp, err := service.CreatePost(authedContext("user-1"), CreatePostRequest{
		Fields: validFields(),
		Images: uploads,
	})

	require.NoError(t, err)
	assert.Equal(t, "generated-id", resp.ID)
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)

	created := repo.Calls[0].Arguments.Get(1).(*Post)
	assert.Equal(t, "user-1", created.OwnerID)
	assert.Equal(t, StatusActive, created.Status)
	assert.Len(t, created.ImageURLs, 3)
	assert.Equal(t, "https://cdn.example.com/img-0", created.ImageURL, "primary image is the first upload")
	assert.Equal(t, "Seller", created.OwnerDisplayName)
}

func TestCreatePost_NoImages(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	repo.On("Create", mock.Anything, mock.AnythingOfType("*posts.Post")).Return(nil)

	_, err := service.CreatePost(authedContext("user-1"), CreatePostRequest{Fields: validFields()})

	require.NoError(t, err)
	created := repo.Calls[0].Arguments.Get(1).(*Post)
	assert.NotNil(t, created.ImageURLs)
	assert.Empty(t, created.ImageURLs)
	assert.Empty(t, created.ImageURL)
	storage.AssertNotCalled(t, "Upload")
}

func TestCreatePost_TooManyImages(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	uploads := make([]images.Upload, MaxImagesPerPost+1)
	for i := range uploads {
		uploads[i] = imageUpload(fmt.Sprintf("img-%d.jpg", i))
	}

	_, err := service.CreatePost(authedContext("user-1"), CreatePostRequest{
		Fields: validFields(),
		Images: uploads,
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	storage.AssertNotCalled(t, "Upload")
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePost_InvalidImageRejectedBeforeAnyUpload(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	uploads := []images.Upload{
		imageUpload("a.jpg"),
		{Filename: "doc.pdf", ContentType: "application/pdf", Size: 512, Reader: strings.NewReader("x")},
	}

	_, err := service.CreatePost(authedContext("user-1"), CreatePostRequest{
		Fields: validFields(),
		Images: uploads,
	})

	require.Error(t, err)
	assert.True(t, IsValidationError(err))
	// The valid first image must not have been uploaded either.
	storage.AssertNotCalled(t, "Upload")
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePost_UploadFailure(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, false).
		Return("", errors.New("storage down")).Once()

	_, err := service.CreatePost(authedContext("user-1"), CreatePostRequest{
		Fields: validFields(),
		Images: []images.Upload{imageUpload("a.jpg")},
	})

	require.Error(t, err)
	assert.True(t, IsUploadError(err))
	repo.AssertNotCalled(t, "Create")
}

func TestCreatePost_NotAuthenticated(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	_, err := service.CreatePost(context.Background(), CreatePostRequest{Fields: validFields()})

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	repo.AssertNotCalled(t, "Create")
	storage.AssertNotCalled(t, "Upload")
}

func TestCreatePost_MissingFields(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	tests := []struct {
		name   string
		mutate func(*PostFields)
	}{
		{"missing title", func(f *PostFields) { f.Title = "  " }},
		{"missing description", func(f *PostFields) { f.Description = "" }},
		{"unknown category", func(f *PostFields) { f.Category = "boats" }},
		{"missing whatsapp", func(f *PostFields) { f.WhatsApp = "" }},
		{"missing phone", func(f *PostFields) { f.Phone = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := validFields()
			tt.mutate(&fields)

			_, err := service.CreatePost(authedContext("user-1"), CreatePostRequest{Fields: fields})

			require.Error(t, err)
			assert.True(t, IsValidationError(err))
		})
	}
	repo.AssertNotCalled(t, "Create")
}

func TestGetPosts_LimitClamping(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewPostService(repo, new(mockStorage))

	repo.On("ListActive", mock.Anything, defaultListLimit).Return([]*Post{}, nil).Once()
	repo.On("ListActive", mock.Anything, maxListLimit).Return([]*Post{}, nil).Once()
	repo.On("ListActive", mock.Anything, 30).Return([]*Post{}, nil).Once()

	_, err := service.GetPosts(context.Background(), 0)
	require.NoError(t, err)
	_, err = service.GetPosts(context.Background(), 5000)
	require.NoError(t, err)
	_, err = service.GetPosts(context.Background(), 30)
	require.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestSearchPosts_EmptyTermSkipsRepository(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewPostService(repo, new(mockStorage))

	for _, term := range []string{"", "   ", "\t\n"} {
		result, err := service.SearchPosts(context.Background(), term, "")
		require.NoError(t, err)
		assert.NotNil(t, result)
		assert.Empty(t, result)
	}

	repo.AssertNotCalled(t, "ListActive")
	repo.AssertNotCalled(t, "ListActiveByCategory")
}

func TestSearchPosts_SubstringMatching(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewPostService(repo, new(mockStorage))

	candidates := []*Post{
		{ID: "1", Title: "Toyota Land Cruiser", Description: "2019 model", Category: "vehicles"},
		{ID: "2", Title: "Sofa set", Description: "Barely used", Category: "furniture"},
		{ID: "3", Title: "Apartment", TitleAr: "شقة للايجار", Category: "realEstate"},
	}
	repo.On("ListActive", mock.Anything, 0).Return(candidates, nil)

	// Case-insensitive title match
	result, err := service.SearchPosts(context.Background(), "toyota", "")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "1", result[0].ID)

	// Description match
	result, err = service.SearchPosts(context.Background(), "barely", "")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "2", result[0].ID)

	// Arabic title match
	result, err = service.SearchPosts(context.Background(), "شقة", "")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "3", result[0].ID)

	// Category key match
	result, err = service.SearchPosts(context.Background(), "vehic", "")
	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "1", result[0].ID)

	// No match
	result, err = service.SearchPosts(context.Background(), "motorcycle", "")
	require.NoError(t, err)
	assert.Empty(t, result)
}

func TestSearchPosts_CategoryScoped(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewPostService(repo, new(mockStorage))

	repo.On("ListActiveByCategory", mock.Anything, "vehicles").Return([]*Post{
		{ID: "1", Title: "Toyota", Category: "vehicles"},
	}, nil)

	result, err := service.SearchPosts(context.Background(), "toyota", "vehicles")
	require.NoError(t, err)
	require.Len(t, result, 1)
	repo.AssertNotCalled(t, "ListActive")
}

func TestUpdatePost_OwnerSuccess(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewPostService(repo, new(mockStorage))

	var input UpdateInput
	repo.On("GetByID", mock.Anything, "post-1").Return(&Post{ID: "post-1", OwnerID: "user-1"}, nil)
	repo.On("Update", mock.Anything, "post-1", "user-1", mock.AnythingOfType("posts.UpdateInput")).
		Run(func(args mock.Arguments) {
			input = args.Get(3).(UpdateInput)
		}).
		Return(&Post{ID: "post-1"}, nil)

	resp, err := service.UpdatePost(authedContext("user-1"), UpdatePostRequest{
		ID:     "post-1",
		Fields: validFields(),
	})

	require.NoError(t, err)
	assert.Equal(t, "post-1", resp.ID)
	assert.Nil(t, input.ImageURL, "no image replacement when none uploaded")
}

func TestUpdatePost_WithImageReplacement(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	var input UpdateInput
	repo.On("GetByID", mock.Anything, "post-1").Return(&Post{ID: "post-1", OwnerID: "user-1"}, nil)
	storage.On("Upload", mock.Anything, mock.Anything, mock.Anything, false).
		Return("https://cdn.example.com/new", nil).Once()
	repo.On("Update", mock.Anything, "post-1", "user-1", mock.AnythingOfType("posts.UpdateInput")).
		Run(func(args mock.Arguments) {
			input = args.Get(3).(UpdateInput)
		}).
		Return(&Post{ID: "post-1"}, nil)

	img := imageUpload("new.jpg")
	_, err := service.UpdatePost(authedContext("user-1"), UpdatePostRequest{
		ID:     "post-1",
		Fields: validFields(),
		Image:  &img,
	})

	require.NoError(t, err)
	require.NotNil(t, input.ImageURL)
	assert.Equal(t, "https://cdn.example.com/new", *input.ImageURL)
}

func TestUpdatePost_NonOwnerGetsUnauthorized(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	repo.On("GetByID", mock.Anything, "post-1").Return(&Post{ID: "post-1", OwnerID: "user-1"}, nil)

	img := imageUpload("new.jpg")
	_, err := service.UpdatePost(authedContext("intruder"), UpdatePostRequest{
		ID:     "post-1",
		Fields: validFields(),
		Image:  &img,
	})

	assert.ErrorIs(t, err, ErrUnauthorized)
	repo.AssertNotCalled(t, "Update")
	// The rejection happens before the upload, so no orphaned object.
	storage.AssertNotCalled(t, "Upload")
}

func TestUpdatePost_MissingPost(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	repo.On("GetByID", mock.Anything, "ghost").Return(nil, ErrNotFound)

	img := imageUpload("new.jpg")
	_, err := service.UpdatePost(authedContext("user-1"), UpdatePostRequest{
		ID:     "ghost",
		Fields: validFields(),
		Image:  &img,
	})

	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertNotCalled(t, "Update")
	storage.AssertNotCalled(t, "Upload")
}

func TestDeletePost_OwnerSuccess(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	repo.On("GetByID", mock.Anything, "post-1").
		Return(&Post{ID: "post-1", OwnerID: "user-1", ImageURL: "https://cdn.example.com/img"}, nil)
	repo.On("Delete", mock.Anything, "post-1", "user-1").Return(nil)
	storage.On("Remove", mock.Anything, "https://cdn.example.com/img").Return(nil)

	err := service.DeletePost(authedContext("user-1"), "post-1")

	require.NoError(t, err)
	repo.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestDeletePost_StorageFailureIsSwallowed(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	repo.On("GetByID", mock.Anything, "post-1").
		Return(&Post{ID: "post-1", OwnerID: "user-1", ImageURL: "https://cdn.example.com/img"}, nil)
	repo.On("Delete", mock.Anything, "post-1", "user-1").Return(nil)
	storage.On("Remove", mock.Anything, mock.Anything).Return(errors.New("cdn unreachable"))

	err := service.DeletePost(authedContext("user-1"), "post-1")

	assert.NoError(t, err, "storage cleanup is best-effort")
}

func TestDeletePost_NonOwner(t *testing.T) {
	repo := new(mockPostRepository)
	storage := new(mockStorage)
	service := NewPostService(repo, storage)

	repo.On("GetByID", mock.Anything, "post-1").
		Return(&Post{ID: "post-1", OwnerID: "user-1"}, nil)

	err := service.DeletePost(authedContext("intruder"), "post-1")

	assert.ErrorIs(t, err, ErrUnauthorized)
	repo.AssertNotCalled(t, "Delete")
	storage.AssertNotCalled(t, "Remove")
}

func TestDeletePost_NotAuthenticated(t *testing.T) {
	repo := new(mockPostRepository)
	service := NewPostService(repo, new(mockStorage))

	err := service.DeletePost(context.Background(), "post-1")

	assert.ErrorIs(t, err, ErrNotAuthenticated)
	repo.AssertNotCalled(t, "GetByID")
}
