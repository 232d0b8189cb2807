// Package api provides the HTTP surface for the dashboard and operators.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/sgweather/sgweather/internal/api/handler"
	"github.com/sgweather/sgweather/internal/api/middleware"
	"github.com/sgweather/sgweather/internal/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version   string
	BuildTime string
	Logger    zerolog.Logger
	Store     handler.WeatherStore
	Registry  *resilience.Registry
}

// NewRouter creates a chi router with all routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Registry)
	weatherHandler := handler.NewWeatherHandler(cfg.Store)

	r.Get("/healthz", opsHandler.HealthCheck)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(middleware.StandardRateLimit))

		r.Route("/weather", func(r chi.Router) {
			r.Get("/latest", weatherHandler.Latest)
			r.Get("/summary", weatherHandler.Summary)
		})

		r.Route("/ops", func(r chi.Router) {
			r.Get("/providers", opsHandler.Providers)
		})
	})

	return r
}
