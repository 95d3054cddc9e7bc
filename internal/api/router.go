// internal/api/router.go
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"wealthpath-admin/internal/api/handler"
)

const authRealm = "WealthPath Admin"

// Options configures access to the console.
type Options struct {
	// Credentials maps basic-auth usernames to plaintext passwords.
	Credentials map[string]string
	// Username and PasswordHash select bcrypt-checked basic auth instead.
	Username     string
	PasswordHash []byte
	// AllowedOrigins may call the JSON API from a browser. Empty disables CORS.
	AllowedOrigins []string
}

// NewRouter sets up and returns a new HTTP router.
func NewRouter(adminHandler *handler.AdminHandler, opts Options, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middlewares
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handler.DefaultTimeout))

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	var auth func(http.Handler) http.Handler
	switch {
	case len(opts.PasswordHash) > 0:
		auth = basicAuthHash(authRealm, opts.Username, opts.PasswordHash)
	case len(opts.Credentials) > 0:
		auth = middleware.BasicAuth(authRealm, opts.Credentials)
	default:
		logger.Warn("Admin console is running without authentication")
	}

	// Pages
	r.Group(func(r chi.Router) {
		r.Use(sameOriginWrites(logger))
		if auth != nil {
			r.Use(auth)
		}
		r.Get("/", adminHandler.Dashboard)
		r.Get("/dashboard", adminHandler.Dashboard)
		r.Route("/users", func(r chi.Router) {
			r.Get("/", adminHandler.ListUsers)
			r.Get("/{userID}", adminHandler.UserDetail)
			r.Post("/{userID}/delete", adminHandler.DeleteUser)
		})
	})

	// JSON API. CORS runs before auth since preflight requests carry no credentials.
	r.Route("/api", func(r chi.Router) {
		if len(opts.AllowedOrigins) > 0 {
			r.Use(cors.Handler(cors.Options{
				AllowedOrigins:   opts.AllowedOrigins,
				AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
				AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
				AllowCredentials: true,
				MaxAge:           300,
			}))
		}
		if auth != nil {
			r.Use(auth)
		}
		r.Get("/stats", adminHandler.Stats)
		r.Get("/users", adminHandler.APIUsers)
		r.Get("/users/{userID}/transactions", adminHandler.APIUserTransactions)
	})

	return r
}
