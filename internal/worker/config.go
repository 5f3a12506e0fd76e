// Package worker provides background job processing for DustWatch: the
// station reading collection job and the mission reminder delivery consumer.
package worker

import (
	"time"
)

// CollectConfig holds configuration for the reading collection job.
type CollectConfig struct {
	// DataDir is the directory holding the station directory file and
	// receiving the readings file (required).
	DataDir string

	// Concurrency is the number of concurrent station fetches.
	// Default: 8
	Concurrency int

	// StationTimeout is the timeout for each station fetch.
	// Default: 15 seconds
	StationTimeout time.Duration
}

// DefaultCollectConfig returns the default collection configuration.
func DefaultCollectConfig(dataDir string) CollectConfig {
	return CollectConfig{
		DataDir:        dataDir,
		Concurrency:    8,
		StationTimeout: 15 * time.Second,
	}
}

// withDefaults fills unset fields.
func (c CollectConfig) withDefaults() CollectConfig {
	if c.Concurrency == 0 {
		c.Concurrency = 8
	}
	if c.StationTimeout == 0 {
		c.StationTimeout = 15 * time.Second
	}
	return c
}
