// Package main provides a one-shot CLI that fetches current readings for
// every station in the station directory and writes the readings file the
// API serves from.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/dustwatch/dustwatch/internal/airquality/airkorea"
	"github.com/dustwatch/dustwatch/internal/worker"
)

// Version is set at compile time via ldflags.
var Version = "dev"

func main() {
	var (
		dataDir     string
		serviceKey  string
		concurrency int
		timeout     time.Duration
	)

	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", "dustwatch-collector").
		Str("version", Version).
		Logger()

	rootCmd := &cobra.Command{
		Use:          "collector",
		Short:        "Collect station readings into the data directory",
		Long:         "Reads the station directory from the data directory, fetches the current reading for every station from the AirKorea API, and writes the readings file next to it.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if serviceKey == "" {
				serviceKey = os.Getenv("AIRKOREA_SERVICE_KEY")
			}
			if serviceKey == "" {
				return cmd.Help()
			}

			cfg := worker.DefaultCollectConfig(dataDir)
			cfg.Concurrency = concurrency
			cfg.StationTimeout = timeout

			job := worker.NewCollectJob(worker.CollectJobConfig{
				Config:  cfg,
				Fetcher: airkorea.NewClient(airkorea.ClientConfig{ServiceKey: serviceKey}),
				Logger:  log,
			})

			result, err := job.Run(cmd.Context())
			if err != nil {
				return err
			}

			log.Info().
				Int("stations", result.TotalStations).
				Int("successful", result.Successful).
				Int("failed", result.Failed).
				Dur("duration", result.Duration).
				Msg("collection complete")
			return nil
		},
	}

	rootCmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory holding the station and readings files")
	rootCmd.Flags().StringVar(&serviceKey, "service-key", "", "AirKorea service key (defaults to AIRKOREA_SERVICE_KEY)")
	rootCmd.Flags().IntVar(&concurrency, "concurrency", 8, "number of stations fetched in parallel")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 15*time.Second, "per-station fetch timeout")

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("collection failed")
		os.Exit(1)
	}
}
