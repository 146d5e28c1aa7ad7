package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"Souq/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	return &postgresPostRepo{db: db}
}

// postColumns is the canonical column list every read path scans.
const postColumns = `id, title, description, title_ar, description_ar, category,
	image_url, image_urls, whatsapp, phone,
	user_id, user_email, user_name, user_avatar, status,
	created_at, updated_at`

// Create inserts a new post row. The identifier is assigned here and written
// back onto the post, together with the database-stamped timestamps.
func (r *postgresPostRepo) Create(ctx context.Context, post *posts.Post) error {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}

	query := `
		INSERT INTO posts (
			id, title, description, title_ar, description_ar, category,
			image_url, image_urls, whatsapp, phone,
			user_id, user_email, user_name, user_avatar, status,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14, $15,
			NOW(), NOW()
		)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowContext(
		ctx, query,
		post.ID, post.Title, post.Description,
		nullIfEmpty(post.TitleAr), nullIfEmpty(post.DescriptionAr), post.Category,
		nullIfEmpty(post.ImageURL), pq.Array(post.ImageURLs), post.WhatsApp, post.Phone,
		post.OwnerID, post.OwnerEmail, post.OwnerDisplayName, nullIfEmpty(post.OwnerAvatarURL),
		post.Status,
	).Scan(&post.CreatedAt, &post.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return fmt.Errorf("post %s already exists", post.ID)
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	return nil
}

// GetByID retrieves a post by its identifier regardless of status; the
// direct lookup backs the product-detail and edit views.
func (r *postgresPostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by id: %w", err)
	}
	return post, nil
}

// ListActive returns active posts newest first. limit <= 0 means no limit.
func (r *postgresPostRepo) ListActive(ctx context.Context, limit int) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1
		ORDER BY created_at DESC`

	args := []interface{}{posts.StatusActive}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	return r.queryPosts(ctx, query, args...)
}

// ListActiveByCategory returns active posts with exactly this category key,
// newest first. No fuzzy category matching happens at this layer.
func (r *postgresPostRepo) ListActiveByCategory(ctx context.Context, category string) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1 AND category = $2
		ORDER BY created_at DESC`

	return r.queryPosts(ctx, query, posts.StatusActive, category)
}

// ListByUser returns all posts owned by userID regardless of status,
// newest first.
func (r *postgresPostRepo) ListByUser(ctx context.Context, userID string) ([]*posts.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts
		WHERE user_id = $1
		ORDER BY created_at DESC`

	return r.queryPosts(ctx, query, userID)
}

// Update applies an owner-scoped update and refreshes updated_at. Both id
// and ownerID must match for the statement to touch anything; a miss
// returns posts.ErrNotFound and the caller decides between absent and
// not-owned.
func (r *postgresPostRepo) Update(ctx context.Context, id, ownerID string, input posts.UpdateInput) (*posts.Post, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	argNum := 1

	set := func(clause string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf(clause, argNum))
		args = append(args, value)
		argNum++
	}

	f := input.Fields
	set("title = $%d", f.Title)
	set("description = $%d", f.Description)
	set("title_ar = $%d", nullIfEmpty(f.TitleAr))
	set("description_ar = $%d", nullIfEmpty(f.DescriptionAr))
	set("category = $%d", f.Category)
	set("whatsapp = $%d", f.WhatsApp)
	set("phone = $%d", f.Phone)

	if input.ImageURL != nil {
		set("image_url = $%d", *input.ImageURL)
		// Replace image slot 0 in place so image_url and image_urls[0]
		// stay consistent; the remaining slots are untouched.
		setClauses = append(setClauses, fmt.Sprintf(
			`image_urls = CASE
				WHEN cardinality(image_urls) > 0 THEN array_cat(ARRAY[$%d::text], image_urls[2:])
				ELSE ARRAY[$%d::text]
			END`, argNum, argNum+1))
		args = append(args, *input.ImageURL, *input.ImageURL)
		argNum += 2
	}

	args = append(args, id, ownerID)

	query := fmt.Sprintf(`
		UPDATE posts
		SET %s
		WHERE id = $%d AND user_id = $%d
		RETURNING `+postColumns,
		strings.Join(setClauses, ", "), argNum, argNum+1)

	post, err := scanPost(r.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

// Delete removes the row only when both id and ownerID match.
func (r *postgresPostRepo) Delete(ctx context.Context, id, ownerID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM posts WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return posts.ErrNotFound
	}
	return nil
}

func (r *postgresPostRepo) queryPosts(ctx context.Context, query string, args ...interface{}) ([]*posts.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query posts: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			slog.Warn("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	var result []*posts.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating post rows: %w", err)
	}
	return result, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanPost maps one row onto the Post view-model. Rows written before the
// native array column carried only image_url; those surface imageUrls as a
// single-element slice so the view-model invariant (imageUrl ==
// imageUrls[0], imageUrls never nil) holds for every row.
func scanPost(row rowScanner) (*posts.Post, error) {
	var (
		post       posts.Post
		titleAr    sql.NullString
		descAr     sql.NullString
		imageURL   sql.NullString
		userAvatar sql.NullString
		imageURLs  pq.StringArray
	)

	err := row.Scan(
		&post.ID, &post.Title, &post.Description, &titleAr, &descAr, &post.Category,
		&imageURL, &imageURLs, &post.WhatsApp, &post.Phone,
		&post.OwnerID, &post.OwnerEmail, &post.OwnerDisplayName, &userAvatar, &post.Status,
		&post.CreatedAt, &post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	post.TitleAr = titleAr.String
	post.DescriptionAr = descAr.String
	post.OwnerAvatarURL = userAvatar.String

	urls := []string(imageURLs)
	if len(urls) == 0 && imageURL.Valid && imageURL.String != "" {
		urls = []string{imageURL.String}
	}
	if urls == nil {
		urls = []string{}
	}
	post.ImageURLs = urls
	if len(urls) > 0 {
		post.ImageURL = urls[0]
	}

	return &post, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
