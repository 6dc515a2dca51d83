// Package router sets up all HTTP routes and middleware chains for the
// parts catalog. Pages and assets are public; the JSON API sits behind the
// write rate limiter.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"partsbin/internal/handlers"
	"partsbin/internal/middleware"
	"partsbin/web"
)

// New creates and returns the configured Chi router. limiter may be nil to
// disable write throttling.
func New(catalog *handlers.Catalog, assets *handlers.Assets, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. Logger runs first so a
	// recovered panic is logged with the request ID.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler)

	// Pages
	r.Get("/", catalog.Index)
	r.Get("/category/{name}", catalog.CategoryPage)

	// Assets
	r.Get("/style.css", assets.Style)
	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))
	r.Handle("/img/*", http.StripPrefix("/img/", assets.Images()))
	r.Get("/thumb/{file}", assets.Thumbnail)

	// JSON API
	r.Route("/api", func(r chi.Router) {
		if limiter != nil {
			r.Use(limiter.Middleware)
		}

		r.Get("/category/{name}", catalog.CategoryItems)
		r.Get("/category/{name}/rows", catalog.CategoryRows)

		r.Post("/part", catalog.CreatePart)
		r.Patch("/part", catalog.UpdatePart)
		r.Delete("/part", catalog.DeletePart)
		r.Post("/part/quantity", catalog.SetQuantity)

		r.Post("/generate-csv", catalog.GenerateCSV)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
