// Package main provides the entrypoint for the DustWatch background worker.
//
// The worker consumes reminder delivery messages from Pub/Sub and, when a
// data directory and AirKorea credentials are configured, runs the station
// reading collection job on demand or on a fixed interval.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality/airkorea"
	"github.com/dustwatch/dustwatch/internal/worker"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "dustwatch-worker"

	_ = godotenv.Load()

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting DustWatch worker")

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8081"
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reminderJob := worker.NewReminderJob(worker.LogSink{Logger: log}, log)

	// Collection requires both the output directory and an AirKorea key
	var collectJob *worker.CollectJob
	dataDir := os.Getenv("DATA_DIR")
	serviceKey := os.Getenv("AIRKOREA_SERVICE_KEY")
	if dataDir != "" && serviceKey != "" {
		collectJob = worker.NewCollectJob(worker.CollectJobConfig{
			Config:  worker.DefaultCollectConfig(dataDir),
			Fetcher: airkorea.NewClient(airkorea.ClientConfig{ServiceKey: serviceKey}),
			Logger:  log,
		})
		log.Info().Str("dir", dataDir).Msg("collection job enabled")
	} else {
		log.Info().Msg("collection job disabled, DATA_DIR or AIRKOREA_SERVICE_KEY not set")
	}

	projectID := os.Getenv("PUBSUB_PROJECT_ID")
	subscription := os.Getenv("PUBSUB_SUBSCRIPTION")

	var pubsubHandler *worker.PubSubHandler
	switch {
	case projectID != "" && subscription != "":
		var err error
		pubsubHandler, err = worker.NewPubSubHandler(ctx, worker.PubSubConfig{
			ProjectID:        projectID,
			SubscriptionName: subscription,
			ReminderJob:      reminderJob,
			CollectJob:       collectJob,
			Logger:           log,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create pubsub handler")
		}
		defer pubsubHandler.Close()

		go func() {
			if err := pubsubHandler.Start(ctx); err != nil && ctx.Err() == nil {
				log.Fatal().Err(err).Msg("pubsub handler stopped")
			}
		}()
		log.Info().
			Str("subscription", subscription).
			Msg("pubsub handler started")

	case collectJob != nil:
		// No message bus: run the collection on a timer instead
		interval := 10 * time.Minute
		if raw := os.Getenv("COLLECT_INTERVAL"); raw != "" {
			parsed, err := time.ParseDuration(raw)
			if err != nil {
				log.Fatal().Err(err).Str("value", raw).Msg("invalid COLLECT_INTERVAL")
			}
			interval = parsed
		}

		go func() {
			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			for {
				if result, err := collectJob.Run(ctx); err != nil {
					log.Error().Err(err).Msg("collection run failed")
				} else {
					log.Info().
						Int("stations", result.TotalStations).
						Int("failed", result.Failed).
						Dur("duration", result.Duration).
						Msg("collection run complete")
				}

				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
				}
			}
		}()
		log.Info().Dur("interval", interval).Msg("interval collection started")

	default:
		log.Fatal().Msg("nothing to do: configure PUBSUB_PROJECT_ID/PUBSUB_SUBSCRIPTION or DATA_DIR/AIRKOREA_SERVICE_KEY")
	}

	// Minimal health endpoint for liveness probes
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("health server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("health server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down worker")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("health server forced to shutdown")
	}

	log.Info().Msg("worker stopped")
}
