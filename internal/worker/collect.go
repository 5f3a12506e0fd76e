package worker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/airquality/filestore"
)

// ReadingFetcher retrieves the latest reading for one station.
type ReadingFetcher interface {
	FetchReading(ctx context.Context, stationName string) (*airquality.Reading, error)
}

// CollectJob fetches the latest reading for every station in the directory
// and rewrites the readings file. A station that fails to fetch gets an
// error entry instead of failing the run: the dashboard's fallback walk
// handles per-station gaps.
type CollectJob struct {
	config  CollectConfig
	fetcher ReadingFetcher
	logger  zerolog.Logger
	metrics *CollectMetrics
}

// CollectMetrics tracks collection job statistics.
type CollectMetrics struct {
	mu sync.RWMutex

	TotalRuns          int64
	SuccessfulStations int64
	FailedStations     int64

	LastRunAt       time.Time
	LastRunDuration time.Duration
}

// CollectJobConfig holds configuration for creating a CollectJob.
type CollectJobConfig struct {
	Config  CollectConfig
	Fetcher ReadingFetcher
	Logger  zerolog.Logger
}

// NewCollectJob creates a new collection job processor.
func NewCollectJob(cfg CollectJobConfig) *CollectJob {
	return &CollectJob{
		config:  cfg.Config.withDefaults(),
		fetcher: cfg.Fetcher,
		logger:  cfg.Logger,
		metrics: &CollectMetrics{},
	}
}

// CollectResult contains the result of a collection run.
type CollectResult struct {
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	TotalStations int
	Successful    int
	Failed        int
}

// Run executes one collection pass: read the station directory, fetch every
// station concurrently, and write the readings file.
func (j *CollectJob) Run(ctx context.Context) (*CollectResult, error) {
	startTime := time.Now()

	stations, err := j.loadStationNames()
	if err != nil {
		return nil, err
	}

	result := &CollectResult{
		StartTime:     startTime,
		TotalStations: len(stations),
	}

	j.logger.Info().
		Int("stations", len(stations)).
		Int("concurrency", j.config.Concurrency).
		Msg("starting reading collection")

	namesChan := make(chan string, len(stations))
	resultsChan := make(chan stationResult, len(stations))

	var wg sync.WaitGroup
	for i := 0; i < j.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			j.collectWorker(ctx, namesChan, resultsChan)
		}()
	}

	for _, name := range stations {
		namesChan <- name
	}
	close(namesChan)

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	readings := make(map[string]airquality.ReadingInfo, len(stations))
	for sr := range resultsChan {
		readings[sr.name] = sr.info
		if sr.info.Error == "" {
			result.Successful++
		} else {
			result.Failed++
		}
	}

	if err := j.writeReadingsFile(readings); err != nil {
		return nil, err
	}

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(startTime)
	j.updateMetrics(result)

	j.logger.Info().
		Dur("duration", result.Duration).
		Int("successful", result.Successful).
		Int("failed", result.Failed).
		Msg("reading collection completed")

	return result, nil
}

type stationResult struct {
	name string
	info airquality.ReadingInfo
}

func (j *CollectJob) collectWorker(ctx context.Context, names <-chan string, results chan<- stationResult) {
	for name := range names {
		select {
		case <-ctx.Done():
			return
		default:
			results <- stationResult{name: name, info: j.collectStation(ctx, name)}
		}
	}
}

func (j *CollectJob) collectStation(ctx context.Context, name string) airquality.ReadingInfo {
	fetchCtx, cancel := context.WithTimeout(ctx, j.config.StationTimeout)
	defer cancel()

	reading, err := j.fetcher.FetchReading(fetchCtx, name)
	if err != nil {
		j.logger.Warn().Err(err).Str("station", name).Msg("station fetch failed")
		return airquality.ReadingInfo{Error: err.Error()}
	}

	info := airquality.ReadingInfo{
		PM10: reading.PM10,
		PM25: reading.PM25,
	}
	if reading.DataTime != "" {
		dt := reading.DataTime
		info.DataTime = &dt
	}
	return info
}

// loadStationNames reads the station directory file from the data dir.
func (j *CollectJob) loadStationNames() ([]string, error) {
	path := filepath.Join(j.config.DataDir, filestore.StationsFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read stations file: %w", err)
	}

	stations, err := airquality.DecodeStationsFile(raw)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(stations.Data))
	for name := range stations.Data {
		names = append(names, name)
	}
	return names, nil
}

// writeReadingsFile writes atomically: temp file then rename, so a reader
// never observes a half-written snapshot.
func (j *CollectJob) writeReadingsFile(readings map[string]airquality.ReadingInfo) error {
	out, err := airquality.EncodeReadingsFile(readings, time.Now())
	if err != nil {
		return err
	}

	path := filepath.Join(j.config.DataDir, filestore.ReadingsFileName)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return fmt.Errorf("write readings file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace readings file: %w", err)
	}
	return nil
}

func (j *CollectJob) updateMetrics(result *CollectResult) {
	j.metrics.mu.Lock()
	defer j.metrics.mu.Unlock()

	j.metrics.TotalRuns++
	j.metrics.SuccessfulStations += int64(result.Successful)
	j.metrics.FailedStations += int64(result.Failed)
	j.metrics.LastRunAt = result.EndTime
	j.metrics.LastRunDuration = result.Duration
}

// GetMetrics returns a copy of the current metrics.
func (j *CollectJob) GetMetrics() CollectMetrics {
	j.metrics.mu.RLock()
	defer j.metrics.mu.RUnlock()

	return CollectMetrics{
		TotalRuns:          j.metrics.TotalRuns,
		SuccessfulStations: j.metrics.SuccessfulStations,
		FailedStations:     j.metrics.FailedStations,
		LastRunAt:          j.metrics.LastRunAt,
		LastRunDuration:    j.metrics.LastRunDuration,
	}
}
