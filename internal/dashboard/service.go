package dashboard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/location"
	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/notify"
	"github.com/dustwatch/dustwatch/pkg/seedrand"
)

// ServiceConfig holds configuration for the dashboard service.
type ServiceConfig struct {
	Location   *location.Service
	AirQuality *airquality.Service
	Missions   *mission.Service
	Scheduler  *notify.Scheduler
	Logger     zerolog.Logger
}

// Service orchestrates the full dashboard pipeline: location, nearest-station
// air quality, daily missions and behavioral guides. Each section resolves
// independently; one failing leaves the others intact.
type Service struct {
	location   *location.Service
	airQuality *airquality.Service
	missions   *mission.Service
	scheduler  *notify.Scheduler
	logger     zerolog.Logger
}

// NewService creates a new dashboard service.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		location:   cfg.Location,
		airQuality: cfg.AirQuality,
		missions:   cfg.Missions,
		scheduler:  cfg.Scheduler,
		logger:     cfg.Logger,
	}
}

// LoadOptions selects the user and optionally carries a device-measured fix.
type LoadOptions struct {
	// UserID is the authenticated device; empty means anonymous (no
	// missions, unpersonalized guides).
	UserID string

	// Fix is a client-measured position. When nil the server-side
	// geolocator chain runs instead.
	Fix *location.Fix
}

// LocationSection is the resolved position, or why it is missing.
type LocationSection struct {
	Resolution *location.Resolution `json:"resolution,omitempty"`
	Err        string               `json:"error,omitempty"`
}

// AirSection is the nearest-station air quality result, or why it is missing.
type AirSection struct {
	Result *airquality.NearestResult `json:"result,omitempty"`
	Err    string                    `json:"error,omitempty"`
}

// MissionSection is the daily mission list, or why it is missing.
type MissionSection struct {
	Missions []mission.Mission `json:"missions,omitempty"`
	Err      string            `json:"error,omitempty"`
}

// View is the assembled dashboard.
type View struct {
	Location LocationSection `json:"location"`
	Air      AirSection      `json:"air"`
	Missions MissionSection  `json:"missions"`
	Guides   []mission.Guide `json:"guides"`
}

// Load assembles the dashboard. The location chain and the snapshot fetch
// have no data dependency and run concurrently; ranking waits for both.
func (s *Service) Load(ctx context.Context, opts LoadOptions) *View {
	view := &View{}

	var wg sync.WaitGroup

	var (
		resolution  *location.Resolution
		locationErr error
		snapshotErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		if opts.Fix != nil {
			resolution = s.location.Decorate(ctx, opts.Fix)
			return
		}
		resolution, locationErr = s.location.Resolve(ctx)
	}()
	go func() {
		defer wg.Done()
		// Warms the snapshot cache so the ranking below does not pay for
		// the fetch serially.
		_, snapshotErr = s.airQuality.GetSnapshot(ctx)
	}()
	wg.Wait()

	if locationErr != nil {
		view.Location.Err = locationErr.Error()
	} else {
		view.Location.Resolution = resolution
	}

	switch {
	case resolution == nil:
		view.Air.Err = location.ErrLocationUnavailable.Error()
	case snapshotErr != nil:
		view.Air.Err = snapshotErr.Error()
	default:
		result, err := s.airQuality.Nearest(ctx, resolution.Lat, resolution.Lon)
		if err != nil {
			s.logger.Warn().Err(err).Msg("nearest station resolution failed")
			view.Air.Err = err.Error()
		} else {
			view.Air.Result = result
		}
	}

	// Missions do not depend on station resolution succeeding.
	if opts.UserID != "" {
		missions, err := s.missions.Today(ctx, opts.UserID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", opts.UserID).Msg("daily mission selection failed")
			view.Missions.Err = err.Error()
		} else {
			view.Missions.Missions = missions
			s.armReminder(missions)
		}
	}

	var pm10 *float64
	if view.Air.Result != nil && view.Air.Result.Reading != nil {
		pm10 = view.Air.Result.Reading.PM10
	}
	guides, err := s.missions.Guides(ctx, opts.UserID, pm10)
	if err != nil {
		s.logger.Warn().Err(err).Msg("behavioral guide assembly failed")
	} else {
		view.Guides = guides
	}

	return view
}

// Scheduler exposes the reminder scheduler owned by this dashboard, so the
// API can trigger it when the client reports the page going away.
func (s *Service) Scheduler() *notify.Scheduler {
	return s.scheduler
}

// armReminder arms the scheduler with one of today's missions, chosen with
// the daily seed so the reminder is stable across reloads within a day.
func (s *Service) armReminder(missions []mission.Mission) {
	if s.scheduler == nil || len(missions) == 0 {
		return
	}
	seed := seedrand.DateSeed(s.missions.TodayDate())
	idx := int(seedrand.Frac(seed)*float64(len(missions))) % len(missions)
	s.scheduler.Arm(notify.DefaultDelay, missions[idx].Title)
}
