package http

import (
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"pulseboard/internal/auth"
	"pulseboard/internal/config"
	"pulseboard/internal/dashboard"
	"pulseboard/internal/tasks"
)

// RouterDeps bundles the services the router wires into handlers. Google
// may be nil when OAuth is not configured.
type RouterDeps struct {
	Auth      *auth.Service
	Tasks     *tasks.Service
	Dashboard *dashboard.Service
	Google    *auth.GoogleAuthenticator
}

// NewRouter wires application routes and middleware using chi.
func NewRouter(cfg config.Config, deps RouterDeps, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(newSlogMiddleware(logger))
	r.Use(newSecurityHeadersMiddleware(cfg.Environment))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":      "ok",
			"environment": cfg.Environment,
		})
	})

	cookies := newSessionCookies(deps.Auth.TokenTTL(), cfg.Environment)
	authHandler := NewAuthHandler(deps.Auth, cookies, logger)
	taskHandler := NewTaskHandler(deps.Tasks, logger)
	dashboardHandler := NewDashboardHandler(deps.Dashboard, logger)

	requireAuth := newAuthMiddleware(deps.Auth, cookies, logger)
	requireAdmin := newRoleMiddleware(auth.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.Signup)
			r.Post("/login", authHandler.Login)
			r.Post("/logout", authHandler.Logout)
			r.Get("/session", authHandler.Session)
			r.Post("/clear-token", authHandler.ClearToken)

			if deps.Google != nil {
				oauthHandler := NewOAuthHandler(deps.Google, deps.Auth, cookies, cfg.FrontendURL, logger)
				r.Get("/google", oauthHandler.InitiateGoogle)
				r.Get("/google/callback", oauthHandler.CallbackGoogle)
			} else {
				logger.Warn("Google OAuth disabled; /api/auth/google endpoints are not registered")
			}
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.Route("/tasks", func(r chi.Router) {
				r.Get("/", taskHandler.List)
				r.Post("/", taskHandler.Create)
				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", taskHandler.Get)
					r.Patch("/", taskHandler.Update)
					r.Delete("/", taskHandler.Delete)
				})
			})

			r.Get("/dashboard", dashboardHandler.Snapshot)

			r.Group(func(r chi.Router) {
				r.Use(requireAdmin)
				r.Get("/admin/users", authHandler.ListUsers)
			})
		})
	})

	r.NotFound(http.NotFoundHandler().ServeHTTP)

	return r
}
