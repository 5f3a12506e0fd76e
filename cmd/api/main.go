// Package main provides the entrypoint for the DustWatch API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/airquality/filestore"
	"github.com/dustwatch/dustwatch/internal/airquality/staticfeed"
	"github.com/dustwatch/dustwatch/internal/api"
	"github.com/dustwatch/dustwatch/internal/api/handler"
	"github.com/dustwatch/dustwatch/internal/api/middleware"
	"github.com/dustwatch/dustwatch/internal/auth"
	"github.com/dustwatch/dustwatch/internal/dashboard"
	"github.com/dustwatch/dustwatch/internal/database"
	"github.com/dustwatch/dustwatch/internal/location"
	"github.com/dustwatch/dustwatch/internal/location/kakao"
	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/notify"
	"github.com/dustwatch/dustwatch/internal/profile"
	"github.com/dustwatch/dustwatch/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "dustwatch-api"

	// Local development reads .env; missing files are fine
	_ = godotenv.Load()

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting DustWatch API")

	// Get configuration from environment
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	otlpEndpoint := os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT")
	if otlpEndpoint == "" {
		otlpEndpoint = "localhost:4317"
	}

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}

	// Connect to database when configured; without one the profile and
	// mission stores run in memory, which is fine for single-instance
	// deployments and local development
	var pool *pgxpool.Pool
	if os.Getenv("DB_HOST") != "" {
		dbConfig := database.ConfigFromEnv()
		pool, err = database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	} else {
		log.Warn().Msg("DB_HOST not set, using in-memory stores")
	}

	// Initialize JWT service (get signing key from environment)
	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		jwtSigningKey = "local-dev-signing-key-change-in-production"
		log.Warn().Msg("using default JWT signing key - not secure for production")
	}

	authService := auth.NewService(auth.ServiceConfig{
		JWT: auth.NewJWTService(auth.JWTConfig{
			SigningKey: jwtSigningKey,
			Issuer:     "dustwatch",
			Audience:   "dustwatch-app",
		}),
		Logger: log,
	})
	log.Info().Msg("auth service initialized")

	// Snapshot provider: a mounted collector output directory when
	// DATA_DIR is set, otherwise the published static feed
	var provider airquality.Provider
	var store *filestore.Store
	dataDir := os.Getenv("DATA_DIR")
	if dataDir != "" {
		store = filestore.New(filestore.Config{Dir: dataDir, Logger: log})
		provider = store
		log.Info().Str("dir", dataDir).Msg("using file-backed snapshot provider")
	} else {
		feedURL := os.Getenv("STATIC_FEED_URL")
		if feedURL == "" {
			log.Fatal().Msg("either DATA_DIR or STATIC_FEED_URL must be set")
		}
		provider = staticfeed.NewClient(staticfeed.ClientConfig{BaseURL: feedURL})
		log.Info().Str("url", feedURL).Msg("using static feed snapshot provider")
	}

	airService := airquality.NewService(airquality.ServiceConfig{
		Provider: provider,
		Logger:   log,
	})

	// A collector rewrite invalidates the cache immediately
	if store != nil {
		go func() {
			if watchErr := store.Watch(ctx, airService.InvalidateCache); watchErr != nil && ctx.Err() == nil {
				log.Error().Err(watchErr).Msg("snapshot watch stopped")
			}
		}()
	}

	// Reverse geocoding (optional)
	var geocoder location.Geocoder
	if kakaoKey := os.Getenv("KAKAO_REST_API_KEY"); kakaoKey != "" {
		geocoder = kakao.NewClient(kakao.ClientConfig{APIKey: kakaoKey, Logger: log})
		log.Info().Msg("kakao geocoder initialized")
	} else {
		log.Warn().Msg("KAKAO_REST_API_KEY not set, resolutions carry no address")
	}

	// The API has no server-side position source; clients send their fix
	// and everything else falls back to the default region
	locationService := location.NewService(location.ServiceConfig{
		Provider:    &location.StaticProvider{},
		Geocoder:    geocoder,
		Logger:      log,
		MaxAttempts: 1,
	})

	// Profile and mission stores
	var profileRepo profile.Repository = profile.NewInMemoryRepository()
	var missionRepo mission.Repository = mission.NewInMemoryRepository()
	if pool != nil {
		profileRepo = profile.NewPostgresRepository(pool)
		missionRepo = mission.NewPostgresRepository(pool)
	}

	profileService := profile.NewService(profile.ServiceConfig{
		Repository: profileRepo,
		Logger:     log,
	})

	missionService := mission.NewService(mission.ServiceConfig{
		Repository: missionRepo,
		Profiles:   profileService,
		Logger:     log,
	})

	// Profile changes invalidate the daily selection
	go missionService.WatchProfileChanges(ctx)

	// Reminder publisher: Pub/Sub when configured, log-only otherwise
	var publisher notify.Publisher = notify.LogPublisher{Logger: log}
	if projectID := os.Getenv("PUBSUB_PROJECT_ID"); projectID != "" {
		topic := os.Getenv("PUBSUB_TOPIC")
		if topic == "" {
			topic = "dustwatch-reminders"
		}
		pubsubPublisher, pubErr := notify.NewPubSubPublisher(ctx, notify.PubSubPublisherConfig{
			ProjectID: projectID,
			TopicName: topic,
			Logger:    log,
		})
		if pubErr != nil {
			log.Fatal().Err(pubErr).Msg("failed to create pubsub publisher")
		}
		defer pubsubPublisher.Close()
		publisher = pubsubPublisher
		log.Info().Str("topic", topic).Msg("pubsub publisher initialized")
	}

	dashboardService := dashboard.NewService(dashboard.ServiceConfig{
		Location:   locationService,
		AirQuality: airService,
		Missions:   missionService,
		Scheduler:  notify.NewScheduler(publisher, log),
		Logger:     log,
	})

	var dbPinger handler.Pinger
	if pool != nil {
		dbPinger = pool
	}

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:           Version,
		BuildTime:         BuildTime,
		Logger:            log,
		ServiceName:       serviceName,
		Metrics:           metrics,
		AuthService:       authService,
		AirQualityService: airService,
		ProfileService:    profileService,
		MissionService:    missionService,
		DashboardService:  dashboardService,
		DBPinger:          dbPinger,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}
