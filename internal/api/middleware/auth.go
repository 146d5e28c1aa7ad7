package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"Souq/internal/auth"
)

// Context keys for storing the verified caller
type contextKey string

const identityKey contextKey = "auth_identity"

// TokenVerifier validates a bearer token and returns the caller's identity.
// Implemented by auth.Verifier; stubbed in tests.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, raw string) (*auth.Identity, error)
}

// AuthMiddleware enforces hosted-auth bearer tokens for protected routes.
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates the auth middleware around a token verifier.
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth ensures the request carries a valid access token.
// On success the verified Identity is injected into the request context;
// otherwise the request is rejected with 401.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, "Missing or malformed Authorization header")
			return
		}

		identity, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			log.Printf("[AUTH_FAILURE] ip=%s method=%s path=%s error=%v",
				r.RemoteAddr, r.Method, r.URL.Path, err)
			writeAuthError(w, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalAuth loads the caller's identity when a valid token is present but
// lets anonymous requests through. Used by public read endpoints.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		identity, err := m.verifier.VerifyToken(r.Context(), token)
		if err != nil {
			log.Printf("Optional auth failed: %v", err)
			next.ServeHTTP(w, r)
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

// GetIdentity extracts the verified identity from the request context.
// Returns nil if not authenticated.
func GetIdentity(r *http.Request) *auth.Identity {
	return IdentityFromContext(r.Context())
}

// IdentityFromContext extracts the verified identity from a context.
// Service layers use this for defense-in-depth auth checks.
// Returns nil if not authenticated.
func IdentityFromContext(ctx context.Context) *auth.Identity {
	identity, _ := ctx.Value(identityKey).(*auth.Identity)
	return identity
}

// WithIdentity injects an identity into the context.
// This should ONLY be used in tests to mock authenticated callers.
func WithIdentity(ctx context.Context, identity *auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

// writeAuthError writes a JSON error response for authentication failures
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	response := struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}{Error: "AuthRequired", Message: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Failed to encode auth error response: %v", err)
	}
}
