// Package api provides the HTTP API for DustWatch.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/api/handler"
	"github.com/dustwatch/dustwatch/internal/api/middleware"
	"github.com/dustwatch/dustwatch/internal/auth"
	"github.com/dustwatch/dustwatch/internal/dashboard"
	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/profile"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version           string
	BuildTime         string
	Logger            zerolog.Logger
	ServiceName       string
	Metrics           *middleware.Metrics
	AuthService       *auth.Service
	AirQualityService *airquality.Service
	ProfileService    *profile.Service
	MissionService    *mission.Service
	DashboardService  *dashboard.Service

	// DBPinger is checked by the readiness endpoint; nil when running
	// without persistence.
	DBPinger handler.Pinger
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "dustwatch-api"
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
	r.Use(middleware.RequireJSON)          // Reject non-JSON request bodies

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.AirQualityService, cfg.DBPinger)
	authHandler := handler.NewAuthHandler(cfg.AuthService)
	airHandler := handler.NewAirQualityHandler(cfg.AirQualityService)
	profileHandler := handler.NewProfileHandler(cfg.ProfileService)
	missionHandler := handler.NewMissionHandler(cfg.MissionService)
	dashboardHandler := handler.NewDashboardHandler(cfg.DashboardService)
	notificationHandler := handler.NewNotificationHandler(cfg.DashboardService.Scheduler())

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.AuthService)
	optionalAuth := middleware.OptionalAuth(cfg.AuthService)

	// Create rate limit middleware for different endpoint categories
	authRateLimit := middleware.RateLimitByIP(middleware.AuthRateLimit)           // 10 req/min
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Auth endpoints (public) - strict rate limiting
		r.Route("/auth", func(r chi.Router) {
			r.Use(authRateLimit) // 10 requests per minute per IP
			r.Post("/anonymous", authHandler.RegisterAnonymous)
		})

		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
		})

		// Air quality endpoints (public) - standard rate limiting
		r.Route("/airquality", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/stations", airHandler.ListStations)
			r.Get("/nearest", airHandler.Nearest)
		})

		// Dashboard endpoint - runs the geolocation chain when the client
		// sends no fix, so it gets the expensive tier
		r.With(optionalAuth, expensiveRateLimit).Get("/dashboard", dashboardHandler.Load)

		// Guides endpoint (public, personalized when authenticated)
		r.With(optionalAuth, standardRateLimit).Get("/guides", missionHandler.Guides)

		// Missions endpoint (authenticated) - device-based rate limiting
		r.Route("/missions", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByDevice(middleware.StandardRateLimit))
			r.Get("/today", missionHandler.Today)
		})

		// Me endpoints (authenticated) - device-based rate limiting
		r.Route("/me", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByDevice(middleware.StandardRateLimit))
			r.Get("/profile", profileHandler.GetProfile)
			r.Put("/profile", profileHandler.UpsertProfile)
		})

		// Notification scheduling (authenticated)
		r.Route("/notifications", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByDevice(middleware.StandardRateLimit))
			r.Post("/schedule", notificationHandler.Schedule)
			r.Post("/trigger", notificationHandler.Trigger)
		})
	})

	return r
}
