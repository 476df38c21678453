// Package router sets up the HTTP routes and middleware chain for the
// VisionDeck server: the JSON API under /api/pptx, the reveal.js viewer
// under /view, and a health check.
package router

import (
	"github.com/go-chi/chi/v5"

	"visiondeck/internal/handlers"
	"visiondeck/internal/middleware"
)

// New creates and returns the configured Chi router with all middleware
// and routes wired up. limiter guards the expensive generation endpoints
// and may be nil to disable rate limiting.
func New(api *handlers.API, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", api.Health)

	r.Route("/api/pptx", func(r chi.Router) {
		// Creation fans out LLM and image-generation calls, so it gets
		// the tightest limit.
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/", api.CreatePresentation)
		})

		r.Get("/{id}", api.GetPresentation)
		r.Put("/{id}", api.UpdatePresentation)
		r.Put("/{id}/slide/{slideIndex}", api.UpdateSlide)
		r.Get("/{id}/generate", api.GeneratePPTX)
		r.Get("/{id}/pdf", api.GeneratePDF)
	})

	r.Get("/view/{id}", api.ViewPresentation)

	return r
}
