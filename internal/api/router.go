package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/maltedev/amazon-product-api/internal/metrics"
	"github.com/maltedev/amazon-product-api/internal/ratelimit"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires the public surface. Only the scrape endpoints sit behind
// the rate limiter; docs, health and metrics stay unmetered.
func NewRouter(h *Handlers, limiter ratelimit.Limiter, m *metrics.Metrics, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recover(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/", h.Home)
	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(RateLimit(limiter, m, logger))
		r.Get("/product/{asin}", h.GetProductByASIN)
		r.Post("/product", h.GetProductByJSON)
	})

	r.NotFound(h.NotFound)

	return r
}
