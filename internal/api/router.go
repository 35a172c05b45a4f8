// Package api provides the HTTP API for StatusDeck.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/statusdeck/statusdeck/internal/api/handler"
	"github.com/statusdeck/statusdeck/internal/api/middleware"
	"github.com/statusdeck/statusdeck/internal/monitor"
	"github.com/statusdeck/statusdeck/internal/provider/resilience"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics
	Monitor     *monitor.Service
	Upstreams   *resilience.Registry
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "statusdeck-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	statusHandler := handler.NewStatusHandler(cfg.Monitor, cfg.Logger)
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.Monitor, cfg.Upstreams)

	// Create rate limit middleware for the two endpoint categories
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit) // 100 req/min
	refreshRateLimit := middleware.RateLimitByIP(middleware.RefreshRateLimit)   // 6 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Dashboard endpoints (public)
		r.Route("/status", func(r chi.Router) {
			r.With(standardRateLimit).Get("/", statusHandler.GetSummary)
			r.With(standardRateLimit).Get("/services/{serviceName}", statusHandler.GetService)
			// Manual refresh fans out to every upstream - strict limit
			r.With(refreshRateLimit).Post("/refresh", statusHandler.TriggerRefresh)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.Get("/providers", opsHandler.UpstreamsReport)
		})
	})

	return r
}
