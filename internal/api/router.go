package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/nvalmar/postdeck-be/internal/api/handlers"
	"github.com/nvalmar/postdeck-be/internal/auth"
	"github.com/nvalmar/postdeck-be/internal/config"
	"github.com/nvalmar/postdeck-be/internal/services"
	"github.com/nvalmar/postdeck-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	hub *websocket.Hub,
	tokens *auth.TokenService,
	userService services.UserServiceProvider,
	postService services.PostServiceProvider,
	activityService services.ActivityServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService, tokens, activityService, cfg.IsProduction())
	postHandler := handlers.NewPostHandler(postService)
	activityHandler := handlers.NewActivityHandler(activityService)
	statusHandler := handlers.NewStatusHandler()
	wsHandler := handlers.NewWebSocketHandler(hub)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	// API versioning
	r.Route("/api/v1", func(r chi.Router) {
		// Public authentication endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)

		// Everything below requires a valid bearer token
		r.Group(func(r chi.Router) {
			r.Use(tokens.Middleware())

			r.Get("/auth/me", authHandler.GetMe)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postHandler.GetAll)
				r.Post("/", postHandler.Create)
				r.Get("/mine", postHandler.GetMine)
				r.Get("/user/{userID}", postHandler.GetByUser)
				r.Get("/search/{term}", postHandler.Search)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", postHandler.Get)
					r.Put("/", postHandler.Edit)
					r.Delete("/", postHandler.SoftDelete)
					r.Post("/restore", postHandler.Restore)
				})
			})

			r.Get("/events", activityHandler.GetRecent)
			r.Get("/status", statusHandler.Get)
			r.Get("/ws", wsHandler.Serve)
		})
	})

	return r
}
