package api

import (
	"net/http"
	"time"

	"github.com/avolkov/ipod-store/internal/api/handlers"
	"github.com/avolkov/ipod-store/internal/api/middleware"
	"github.com/avolkov/ipod-store/internal/api/respond"
	"github.com/avolkov/ipod-store/internal/config"
	"github.com/avolkov/ipod-store/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.Users)
	productHandler := handlers.NewProductHandler(services.Products)
	adminHandler := handlers.NewAdminHandler(services.Users, services.Products)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler(cfg))
		r.Get("/categories", productHandler.Categories)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", productHandler.List)
			r.Get("/search", productHandler.Search)
			r.Get("/stats/categories", productHandler.CategoryStats)
			r.Get("/category/{category}", productHandler.ByCategory)
			r.Get("/{id}", productHandler.Get)

			// Catalog mutations are an admin surface
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(services.Users))
				r.Use(middleware.RequireAdmin)
				r.Post("/", productHandler.Create)
				r.Put("/{id}", productHandler.Update)
				r.Delete("/{id}", productHandler.Delete)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			// Public auth routes
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)

			// Protected auth routes
			r.Group(func(r chi.Router) {
				r.Use(middleware.Authenticate(services.Users))
				r.Get("/profile", authHandler.Profile)
				r.Put("/profile", authHandler.UpdateProfile)
				r.Post("/change-password", authHandler.ChangePassword)
				r.Post("/verify", authHandler.Verify)
				r.Post("/logout", authHandler.Logout)
			})
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Authenticate(services.Users))
			r.Use(middleware.RequireAdmin)
			r.Get("/stats", adminHandler.Stats)
			r.Get("/users", adminHandler.Users)
			r.Put("/users/{id}/role", adminHandler.SetRole)
			r.Put("/users/{id}/active", adminHandler.SetActive)
			r.Post("/change-admin-password", adminHandler.ChangePassword)
		})
	})

	return r
}

func healthHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{
			"status":      "OK",
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
			"database":    "connected",
			"environment": cfg.Environment,
		})
	}
}
