package airquality

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for snapshot sources.
type Provider interface {
	// FetchSnapshot loads a complete snapshot of stations and readings.
	FetchSnapshot(ctx context.Context) (*Snapshot, error)
}

// ServiceConfig holds configuration for the air quality service.
type ServiceConfig struct {
	// Provider is the snapshot source.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long to cache the snapshot (default: 5 minutes).
	CacheTTL time.Duration

	// StaleIfErrorTTL allows serving stale data on provider errors
	// (default: 30 minutes).
	StaleIfErrorTTL time.Duration
}

// Service provides snapshot access with caching and runs the
// nearest-station resolution pipeline.
type Service struct {
	provider        Provider
	logger          zerolog.Logger
	cacheTTL        time.Duration
	staleIfErrorTTL time.Duration

	mu          sync.RWMutex
	snapshot    *Snapshot
	cacheExpiry time.Time
}

// NewService creates a new air quality service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}

	staleIfErrorTTL := cfg.StaleIfErrorTTL
	if staleIfErrorTTL == 0 {
		staleIfErrorTTL = 30 * time.Minute
	}

	return &Service{
		provider:        cfg.Provider,
		logger:          cfg.Logger,
		cacheTTL:        cacheTTL,
		staleIfErrorTTL: staleIfErrorTTL,
	}
}

// NearestResult is the fully resolved air-quality view for a coordinate.
type NearestResult struct {
	StationReading

	// PM10Grade and PM25Grade are GradeUnknown when the corresponding
	// pollutant value is absent.
	PM10Grade Grade
	PM25Grade Grade

	// Mood is derived from the PM10 grade, the headline metric.
	Mood Mood

	// StationCount is the size of the ranked candidate list.
	StationCount int
}

// Nearest ranks every station against the coordinate, walks the ranking for
// the first usable reading, and grades the outcome.
func (s *Service) Nearest(ctx context.Context, lat, lon float64) (*NearestResult, error) {
	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	ranked, err := RankStations(lat, lon, snapshot.Stations)
	if err != nil {
		return nil, err
	}

	sr, err := ResolveUsableReading(ranked, snapshot)
	if err != nil {
		return nil, err
	}

	result := &NearestResult{
		StationReading: sr,
		PM10Grade:      GradeUnknown,
		PM25Grade:      GradeUnknown,
		StationCount:   len(ranked),
	}
	if sr.Reading != nil && sr.Reading.PM10 != nil {
		result.PM10Grade = GradeForPM10(*sr.Reading.PM10)
	}
	if sr.Reading != nil && sr.Reading.PM25 != nil {
		result.PM25Grade = GradeForPM25(*sr.Reading.PM25)
	}
	result.Mood = MoodFor(result.PM10Grade)

	if sr.FallbackDepth > 0 {
		s.logger.Debug().
			Str("station", sr.Station.Name).
			Int("fallback_depth", sr.FallbackDepth).
			Msg("nearest station had no usable reading, walked outward")
	}

	return result, nil
}

// GetSnapshot returns the current snapshot, using the cached copy while it
// is fresh.
func (s *Service) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	if s.snapshot != nil && time.Now().Before(s.cacheExpiry) {
		snapshot := s.snapshot
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	return s.refreshSnapshot(ctx)
}

// GetStations returns the station directory in normalized order.
func (s *Service) GetStations(ctx context.Context) ([]*Station, error) {
	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Stations, nil
}

// GetReading returns the latest reading for a named station.
func (s *Service) GetReading(ctx context.Context, stationName string) (*Reading, error) {
	snapshot, err := s.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.Station(stationName) == nil {
		return nil, ErrStationNotFound
	}
	return snapshot.Reading(stationName), nil
}

// RefreshSnapshot forces a cache refresh.
func (s *Service) RefreshSnapshot(ctx context.Context) error {
	_, err := s.refreshSnapshot(ctx)
	return err
}

// InvalidateCache clears the cached snapshot. The file-backed provider's
// watcher calls this when the snapshot files change on disk.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = nil
	s.cacheExpiry = time.Time{}
}

// CacheStatus represents the current state of the snapshot cache.
type CacheStatus struct {
	HasData      bool
	FetchedAt    time.Time
	ExpiresAt    time.Time
	IsExpired    bool
	IsStale      bool
	StationCount int
	Provider     string
}

// CacheStatus returns information about the current cache state.
func (s *Service) CacheStatus() CacheStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.snapshot == nil {
		return CacheStatus{HasData: false}
	}

	now := time.Now()
	return CacheStatus{
		HasData:      true,
		FetchedAt:    s.snapshot.FetchedAt,
		ExpiresAt:    s.cacheExpiry,
		IsExpired:    now.After(s.cacheExpiry),
		IsStale:      now.After(s.snapshot.FetchedAt.Add(s.staleIfErrorTTL)),
		StationCount: len(s.snapshot.Stations),
		Provider:     s.snapshot.Provider,
	}
}

// refreshSnapshot fetches fresh data from the provider.
func (s *Service) refreshSnapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Another goroutine may have refreshed while we waited on the lock.
	if s.snapshot != nil && time.Now().Before(s.cacheExpiry) {
		return s.snapshot, nil
	}

	s.logger.Debug().Msg("refreshing air quality snapshot")

	snapshot, err := s.provider.FetchSnapshot(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch air quality snapshot")

		if s.snapshot != nil && time.Now().Before(s.snapshot.FetchedAt.Add(s.staleIfErrorTTL)) {
			s.logger.Warn().
				Time("fetched_at", s.snapshot.FetchedAt).
				Msg("serving stale snapshot due to provider error")
			return s.snapshot, nil
		}

		return nil, ErrSnapshotUnavailable
	}

	s.snapshot = snapshot
	s.cacheExpiry = time.Now().Add(s.cacheTTL)

	s.logger.Info().
		Int("stations", len(snapshot.Stations)).
		Int("readings", len(snapshot.Readings)).
		Time("expires_at", s.cacheExpiry).
		Msg("air quality snapshot refreshed")

	return snapshot, nil
}
