// Package router sets up all HTTP routes and middleware chains for the
// newsdesk API. Routes are split into the cached public API and the
// session-protected admin area.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"newsdesk/internal/handlers"
	"newsdesk/internal/middleware"
)

// Options configures the admin middleware stack.
type Options struct {
	// Sessions loads the session named by the request cookie.
	Sessions middleware.SessionLoader
	// LoginLimiter throttles login attempts per client IP. Nil disables it.
	LoginLimiter *middleware.RateLimiter
	// SecureCookies marks the CSRF cookie HTTPS-only.
	SecureCookies bool
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, admin *handlers.Admin, auth *handlers.Auth, public *handlers.Public) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	// Public API, read-only and served from the page cache.
	r.Route("/api", func(r chi.Router) {
		r.Get("/articles", public.Articles)
		r.Get("/articles/featured", public.Featured)
		r.Get("/articles/latest", public.Latest)
		r.Get("/articles/{slug}", public.Article)
		r.Get("/categories", public.Categories)
		r.Get("/tags", public.Tags)
		r.Get("/interviewees", public.Interviewees)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.Use(middleware.LoadSession(opts.Sessions))

		r.Get("/csrf", auth.CSRFToken)
		r.Group(func(r chi.Router) {
			if opts.LoginLimiter != nil {
				r.Use(opts.LoginLimiter.Middleware)
			}
			r.Post("/login", auth.Login)
		})
		r.Post("/logout", auth.Logout)

		// Any signed-in user can manage their own second factor.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/me", auth.Me)
			r.Get("/2fa/setup", auth.TwoFASetup)
			r.Post("/2fa/enable", auth.TwoFAEnable)
		})

		r.Route("/api", func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.RequireAdmin)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", admin.ListCategories)
				r.Post("/", admin.CreateCategory)
				r.Get("/tree", admin.CategoryTree)
				r.Get("/{id}/parents", admin.CategoryParents)
				r.Put("/{id}", admin.UpdateCategory)
				r.Delete("/{id}", admin.DeleteCategory)
			})

			r.Route("/tags", func(r chi.Router) {
				r.Get("/", admin.ListTags)
				r.Post("/", admin.CreateTag)
				r.Post("/batch", admin.CreateTagsBatch)
				r.Put("/{id}", admin.UpdateTag)
				r.Delete("/{id}", admin.DeleteTag)
			})

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", admin.ListArticles)
				r.Post("/", admin.CreateArticle)
				r.Get("/{id}", admin.GetArticle)
				r.Put("/{id}", admin.UpdateArticle)
				r.Delete("/{id}", admin.DeleteArticle)
				r.Put("/{id}/tags", admin.SyncArticleTags)
			})

			r.Post("/upload/image", admin.UploadImage)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
