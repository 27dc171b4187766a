package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itchan-dev/uploads/internal/handler"
	mw "github.com/itchan-dev/uploads/internal/middleware"
	"github.com/itchan-dev/uploads/internal/middleware/metrics"
	"github.com/itchan-dev/uploads/internal/setup"
)

// Inline styles live in base.html; everything else is same-origin.
const csp = "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self'; " +
	"form-action 'self'; frame-ancestors 'none'; base-uri 'none'"

func New(deps *setup.Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(mw.RequestLogger)
	r.Use(metrics.Middleware)
	r.Use(mw.SecurityHeadersWithCSP(deps.Public.HTTPS, csp))
	if len(deps.Public.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: deps.Public.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type", mw.RequestIDHeader},
			ExposedHeaders: []string{mw.RequestIDHeader},
			MaxAge:         300,
		}))
	}

	h := deps.Handler

	r.Get("/", h.GalleryGet)
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())
	r.Handle(handler.UploadsPrefix+"*", handler.ServeUploads(deps.Storage.Root()))

	r.Group(func(r chi.Router) {
		// one bucket per client IP shared by all upload routes
		if deps.RateLimiter != nil {
			r.Use(mw.RateLimit(deps.RateLimiter, mw.GetIP))
		}
		r.Post("/upload-single", h.UploadSingle)
		r.Post("/upload-multiple", h.UploadMultiple)
		r.Post("/upload-different-files", h.UploadDifferentFiles)
		r.Post("/upload-with-limit", h.UploadWithLimit)
	})

	return r
}
