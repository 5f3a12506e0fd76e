package mission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/profile"
)

// ServiceConfig holds configuration for the mission service.
type ServiceConfig struct {
	// Repository is the daily selection cache (required).
	Repository Repository

	// Profiles provides user profiles and change events (required).
	Profiles *profile.Service

	// Logger for service operations.
	Logger zerolog.Logger

	// Catalog overrides the built-in mission catalog (optional, for tests).
	Catalog []Mission

	// DailyCount is the number of missions per day (default: 5).
	DailyCount int

	// Now overrides the clock (optional, for tests).
	Now func() time.Time
}

// Service hands out the deterministic daily mission selection, cached per
// calendar day and invalidated the moment the profile changes.
type Service struct {
	repo       Repository
	profiles   *profile.Service
	logger     zerolog.Logger
	catalog    []Mission
	dailyCount int
	now        func() time.Time
}

// NewService creates a new mission service.
func NewService(cfg ServiceConfig) *Service {
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = Catalog()
	}

	dailyCount := cfg.DailyCount
	if dailyCount == 0 {
		dailyCount = 5
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:       cfg.Repository,
		profiles:   cfg.Profiles,
		logger:     cfg.Logger,
		catalog:    catalog,
		dailyCount: dailyCount,
		now:        now,
	}
}

// TodayDate returns the local calendar date string used as the daily seed.
func (s *Service) TodayDate() string {
	return s.now().Format("2006-01-02")
}

// Today returns the user's mission selection for the current calendar day.
// The first call of the day computes and caches it; later calls reuse the
// cache until midnight rolls the date or the profile changes.
func (s *Service) Today(ctx context.Context, userID string) ([]Mission, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	date := s.TodayDate()
	fingerprint := p.Fingerprint()

	cached, err := s.repo.GetDaily(ctx, userID, date)
	if err == nil && cached.Fingerprint == fingerprint {
		return cached.Missions, nil
	}
	if err != nil && !errors.Is(err, ErrSelectionNotFound) {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("daily selection cache read failed")
	}

	missions := SelectDaily(s.catalog, s.dailyCount, date, p)

	sel := &DailySelection{
		UserID:      userID,
		Date:        date,
		Fingerprint: fingerprint,
		Missions:    missions,
	}
	if err := s.repo.SaveDaily(ctx, sel); err != nil {
		s.logger.Warn().Err(err).Str("user_id", userID).Msg("daily selection cache write failed")
	}

	s.logger.Debug().
		Str("user_id", userID).
		Str("date", date).
		Int("missions", len(missions)).
		Msg("daily missions selected")

	return missions, nil
}

// Guides returns the behavioral guide list for a user at the given PM10
// value.
func (s *Service) Guides(ctx context.Context, userID string, pm10 *float64) ([]Guide, error) {
	p := &profile.UserProfile{}
	if userID != "" {
		loaded, err := s.profiles.Get(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("loading profile: %w", err)
		}
		p = loaded
	}

	return BuildGuides(airquality.LevelForPM10(pm10), p), nil
}

// WatchProfileChanges drops cached selections whenever a profile changes, so
// the next Today call recomputes with the new profile. Blocks until the
// context is cancelled; run it in its own goroutine.
func (s *Service) WatchProfileChanges(ctx context.Context) {
	ch, cancel := s.profiles.Subscribe()
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case change, ok := <-ch:
			if !ok {
				return
			}
			if err := s.repo.DeleteDaily(ctx, change.UserID); err != nil {
				s.logger.Warn().Err(err).
					Str("user_id", change.UserID).
					Msg("failed to invalidate daily selection")
				continue
			}
			s.logger.Debug().
				Str("user_id", change.UserID).
				Msg("daily selection invalidated after profile change")
		}
	}
}
