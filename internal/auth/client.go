package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the hosted auth provider's admin REST API. The only
// operation this application needs is patching a user's account metadata
// (display name, phone number, avatar URL); session issuance, password
// handling and token refresh all stay with the provider.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
}

// NewClient creates an admin API client. baseURL is the provider's auth
// endpoint root; serviceKey authorizes admin-scoped requests.
func NewClient(baseURL, serviceKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// adminUserResponse is the provider's user record shape.
type adminUserResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// UpdateUserMetadata patches the given metadata keys on the user's account
// record and returns the refreshed identity. The provider merges the patch
// into the existing user_metadata object; keys absent from the patch keep
// their current values. Provider-owned fields (email, phone verification)
// are never touched through this path.
func (c *Client) UpdateUserMetadata(ctx context.Context, userID string, patch map[string]interface{}) (*Identity, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	body, err := json.Marshal(map[string]interface{}{
		"user_metadata": patch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode metadata patch: %w", err)
	}

	url := fmt.Sprintf("%s/admin/users/%s", c.baseURL, userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build admin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth provider unavailable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("auth provider has no user %s", userID)
	}
	if resp.StatusCode != http.StatusOK {
		// Read a little of the body for diagnostics, but keep provider
		// internals out of anything surfaced to API clients.
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("auth provider returned %d: %s", resp.StatusCode, string(snippet))
	}

	var user adminUserResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("failed to decode auth provider response: %w", err)
	}

	return identityFromMetadata(user.ID, user.Email, user.UserMetadata), nil
}
