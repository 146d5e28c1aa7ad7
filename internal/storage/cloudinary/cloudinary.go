// Package cloudinary adapts the hosted object-storage service to the
// narrow Upload/Remove surface the repositories use. Objects are uploaded
// under a single root folder and addressed by their delivery URL.
package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Client wraps the Cloudinary SDK. Safe for concurrent use.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// New creates a storage client from a CLOUDINARY_URL-style connection
// string. folder prefixes every object path (e.g. "souq").
func New(cloudinaryURL, folder string) (*Client, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure cloudinary: %w", err)
	}
	return &Client{
		cld:    cld,
		folder: strings.Trim(folder, "/"),
	}, nil
}

// Upload stores the object at path and returns its public delivery URL.
// With overwrite false a colliding path is an error rather than a silent
// replace; avatar uploads pass true so a user's re-upload replaces the
// previous object at the same deterministic path.
func (c *Client) Upload(ctx context.Context, path string, r io.Reader, overwrite bool) (string, error) {
	publicID := c.publicID(path)

	params := uploader.UploadParams{
		PublicID:       publicID,
		Overwrite:      api.Bool(overwrite),
		UniqueFilename: api.Bool(false),
	}

	result, err := c.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload failed: %s", result.Error.Message)
	}

	return result.SecureURL, nil
}

// Remove deletes the object a previously returned URL points at.
func (c *Client) Remove(ctx context.Context, url string) error {
	publicID, err := publicIDFromURL(url)
	if err != nil {
		return err
	}

	result, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary destroy failed: %w", err)
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy returned %q for %s", result.Result, publicID)
	}
	return nil
}

// publicID turns an object path into a Cloudinary public ID: prefixed with
// the root folder and stripped of the filename extension (Cloudinary keys
// images by extensionless ID and appends the format on delivery).
func (c *Client) publicID(path string) string {
	path = strings.Trim(path, "/")
	if idx := strings.LastIndex(path, "."); idx > strings.LastIndex(path, "/") {
		path = path[:idx]
	}
	if c.folder != "" {
		return c.folder + "/" + path
	}
	return path
}

// publicIDFromURL extracts the public ID from a delivery URL of the form
// https://res.cloudinary.com/<cloud>/image/upload/v<version>/<public_id>.<ext>
func publicIDFromURL(url string) (string, error) {
	_, after, found := strings.Cut(url, "/upload/")
	if !found {
		return "", fmt.Errorf("not a cloudinary delivery URL: %s", url)
	}

	parts := strings.Split(after, "/")
	// Drop the version segment if present (v followed by digits).
	if len(parts) > 1 && strings.HasPrefix(parts[0], "v") && isDigits(parts[0][1:]) {
		parts = parts[1:]
	}

	id := strings.Join(parts, "/")
	if idx := strings.LastIndex(id, "."); idx > strings.LastIndex(id, "/") {
		id = id[:idx]
	}
	if id == "" {
		return "", fmt.Errorf("could not derive public ID from URL: %s", url)
	}
	return id, nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
