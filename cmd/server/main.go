package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"Souq/internal/api/middleware"
	"Souq/internal/api/routes"
	"Souq/internal/auth"
	"Souq/internal/config"
	"Souq/internal/core/posts"
	"Souq/internal/core/profiles"
	postgresRepo "Souq/internal/db/postgres"
	"Souq/internal/storage/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	log.Println("Connected to database")

	// Run migrations
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect:", err)
	}

	if err := goose.Up(db, cfg.MigrationsDir); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	log.Println("Migrations completed successfully")

	storage, err := cloudinary.New(cfg.CloudinaryURL, cfg.CloudinaryFolder)
	if err != nil {
		log.Fatal("Failed to initialize object storage:", err)
	}

	verifier := auth.NewVerifier(cfg.AuthJWTSecret)
	accounts := auth.NewClient(cfg.AuthURL, cfg.AuthServiceKey)
	authMiddleware := middleware.NewAuthMiddleware(verifier)

	// Initialize repositories and services
	postRepo := postgresRepo.NewPostRepository(db)
	postService := posts.NewPostService(postRepo, storage)
	profileService := profiles.NewProfileService(accounts, storage)

	r := chi.NewRouter()

	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)

	routes.RegisterPostRoutes(r, postService, authMiddleware)
	routes.RegisterProfileRoutes(r, profileService, authMiddleware)
	routes.RegisterHealthRoutes(r)

	fmt.Printf("Souq API starting on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, r))
}
