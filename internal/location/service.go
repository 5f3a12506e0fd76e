package location

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// PositionProvider produces raw position fixes. One Locate call is one
// attempt; the service drives the retry loop.
type PositionProvider interface {
	Locate(ctx context.Context) (*Fix, error)
}

// Geocoder resolves a coordinate to a human-readable region name.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (string, error)
}

// ServiceConfig holds configuration for the location service.
type ServiceConfig struct {
	// Provider is the position source (required).
	Provider PositionProvider

	// Geocoder resolves addresses (optional). Without one, resolutions
	// carry an empty address.
	Geocoder Geocoder

	// Logger for service operations.
	Logger zerolog.Logger

	// MaxAttempts bounds the refinement loop (default: 5). Set to 1 for
	// single-shot providers that have no accuracy to refine.
	MaxAttempts int

	// TargetAccuracyM stops the loop early once a fix is at least this
	// accurate (default: 50).
	TargetAccuracyM float64

	// AttemptTimeout bounds each individual Locate call (default: 10s).
	AttemptTimeout time.Duration
}

// Service resolves user positions with accuracy refinement and a fixed
// fallback when every attempt fails.
type Service struct {
	provider        PositionProvider
	geocoder        Geocoder
	logger          zerolog.Logger
	maxAttempts     int
	targetAccuracyM float64
	attemptTimeout  time.Duration
}

// NewService creates a new location service.
func NewService(cfg ServiceConfig) *Service {
	maxAttempts := cfg.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 5
	}

	targetAccuracyM := cfg.TargetAccuracyM
	if targetAccuracyM == 0 {
		targetAccuracyM = 50
	}

	attemptTimeout := cfg.AttemptTimeout
	if attemptTimeout == 0 {
		attemptTimeout = 10 * time.Second
	}

	return &Service{
		provider:        cfg.Provider,
		geocoder:        cfg.Geocoder,
		logger:          cfg.Logger,
		maxAttempts:     maxAttempts,
		targetAccuracyM: targetAccuracyM,
		attemptTimeout:  attemptTimeout,
	}
}

// Resolve obtains the best position it can and decorates it with an address.
// It never returns an error for position failures: when every attempt fails
// the default resolution is returned instead, so callers always have a
// coordinate to work with. Only context cancellation aborts the loop.
func (s *Service) Resolve(ctx context.Context) (*Resolution, error) {
	best := s.refine(ctx)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if best == nil {
		s.logger.Warn().
			Int("attempts", s.maxAttempts).
			Msg("no position fix obtained, using default location")
		return DefaultResolution(), nil
	}

	res := &Resolution{
		Lat:       best.Lat,
		Lon:       best.Lon,
		AccuracyM: best.AccuracyM,
	}

	// Address decoration is best effort. A geocoder outage must not take
	// down position resolution.
	if s.geocoder != nil {
		addr, err := s.geocoder.ReverseGeocode(ctx, best.Lat, best.Lon)
		if err != nil {
			s.logger.Warn().Err(err).
				Float64("lat", best.Lat).
				Float64("lon", best.Lon).
				Msg("reverse geocoding failed")
		} else {
			res.Address = addr
		}
	}

	return res, nil
}

// Decorate turns a client-supplied fix into a resolution, attaching an
// address on a best-effort basis. Used when the device already measured a
// position and only the address lookup should run server-side.
func (s *Service) Decorate(ctx context.Context, fix *Fix) *Resolution {
	res := &Resolution{
		Lat:       fix.Lat,
		Lon:       fix.Lon,
		AccuracyM: fix.AccuracyM,
	}
	if s.geocoder != nil {
		addr, err := s.geocoder.ReverseGeocode(ctx, fix.Lat, fix.Lon)
		if err != nil {
			s.logger.Warn().Err(err).Msg("reverse geocoding failed")
		} else {
			res.Address = addr
		}
	}
	return res
}

// refine runs the bounded attempt loop and returns the most accurate fix
// seen, or nil when every attempt failed.
func (s *Service) refine(ctx context.Context) *Fix {
	var best *Fix

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if ctx.Err() != nil {
			return best
		}

		fix, err := s.locateOnce(ctx)
		if err != nil {
			s.logger.Debug().Err(err).
				Int("attempt", attempt).
				Msg("position attempt failed")
			continue
		}

		if best == nil || fix.AccuracyM < best.AccuracyM {
			best = fix
		}

		if best.AccuracyM <= s.targetAccuracyM {
			s.logger.Debug().
				Int("attempt", attempt).
				Float64("accuracy_m", best.AccuracyM).
				Msg("target accuracy reached")
			return best
		}
	}

	return best
}

func (s *Service) locateOnce(ctx context.Context) (*Fix, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, s.attemptTimeout)
	defer cancel()

	fix, err := s.provider.Locate(attemptCtx)
	if err != nil {
		return nil, err
	}
	if fix == nil {
		return nil, ErrLocationUnavailable
	}
	if fix.At.IsZero() {
		fix.At = time.Now()
	}
	return fix, nil
}
