// internal/handler/router.go
package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	Logger     *slog.Logger
	CORSOrigin string
	Store      Pinger
	Metrics    *Metrics
	// API mounts the application routes under /api.
	API func(chi.Router)
}

// NewRouter assembles middleware, /health, /metrics and the /api routes.
func NewRouter(opts RouterOptions) http.Handler {
	if opts.Metrics == nil {
		opts.Metrics = NewMetrics()
	}
	if opts.CORSOrigin == "" {
		opts.CORSOrigin = "*"
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger(opts.Logger))
	r.Use(Recovery(opts.Logger))
	r.Use(opts.Metrics.Middleware)
	r.Use(CORS(opts.CORSOrigin))

	r.Get("/health", Health(opts.Store))
	r.Get("/metrics", opts.Metrics.Handler)
	if opts.API != nil {
		r.Route("/api", opts.API)
	}
	return r
}
