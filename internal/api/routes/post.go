package routes

import (
	"Souq/internal/api/handlers/post"
	"Souq/internal/api/middleware"
	"Souq/internal/core/posts"

	"github.com/go-chi/chi/v5"
)

// RegisterPostRoutes registers the listing endpoints on the router.
// Reads are public; writes and "mine" require a bearer token.
func RegisterPostRoutes(r chi.Router, service posts.Service, authMiddleware *middleware.AuthMiddleware) {
	// Initialize handlers
	createHandler := post.NewCreateHandler(service)
	getHandler := post.NewGetHandler(service)
	listHandler := post.NewListHandler(service)
	updateHandler := post.NewUpdateHandler(service)
	deleteHandler := post.NewDeleteHandler(service)

	r.Route("/api/posts", func(r chi.Router) {
		// Public read endpoints
		r.Get("/", listHandler.HandleList)
		r.Get("/search", listHandler.HandleSearch)
		r.Get("/category/{category}", listHandler.HandleByCategory)
		r.Get("/user/{userID}", listHandler.HandleByUser)

		// Authenticated endpoints
		r.With(authMiddleware.RequireAuth).Post("/", createHandler.HandleCreate)
		r.With(authMiddleware.RequireAuth).Get("/mine", listHandler.HandleMine)

		// {id} routes come last so fixed segments above win
		r.Get("/{id}", getHandler.HandleGet)
		r.With(authMiddleware.RequireAuth).Put("/{id}", updateHandler.HandleUpdate)
		r.With(authMiddleware.RequireAuth).Delete("/{id}", deleteHandler.HandleDelete)
	})
}
