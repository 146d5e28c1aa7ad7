package routes

import (
	"net/http"

	"Souq/internal/api/handlers/profile"
	"Souq/internal/api/middleware"
	"Souq/internal/core/profiles"

	"github.com/go-chi/chi/v5"
)

// RegisterProfileRoutes registers the authenticated profile endpoints.
func RegisterProfileRoutes(r chi.Router, service profiles.Service, authMiddleware *middleware.AuthMiddleware) {
	avatarHandler := profile.NewAvatarHandler(service)
	updateHandler := profile.NewUpdateHandler(service)

	r.Route("/api/profile", func(r chi.Router) {
		r.Use(authMiddleware.RequireAuth)
		r.Put("/", updateHandler.HandleUpdate)
		r.Post("/avatar", avatarHandler.HandleUpload)
	})
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
}
