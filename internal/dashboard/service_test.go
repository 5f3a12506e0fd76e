package dashboard_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/dashboard"
	"github.com/dustwatch/dustwatch/internal/location"
	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/notify"
	"github.com/dustwatch/dustwatch/internal/profile"
)

func fp(v float64) *float64 { return &v }

type stubPosition struct {
	fix *location.Fix
	err error
}

func (s *stubPosition) Locate(_ context.Context) (*location.Fix, error) {
	return s.fix, s.err
}

type stubSnapshot struct {
	snapshot *airquality.Snapshot
	err      error
}

func (s *stubSnapshot) FetchSnapshot(_ context.Context) (*airquality.Snapshot, error) {
	return s.snapshot, s.err
}

type capturePublisher struct {
	published []*notify.Notification
}

func (c *capturePublisher) Publish(_ context.Context, n *notify.Notification) error {
	c.published = append(c.published, n)
	return nil
}

func daejeonSnapshot() *airquality.Snapshot {
	snap := airquality.NewSnapshot("test")
	snap.AddStation(&airquality.Station{Name: "정림동", Lat: 36.3060, Lon: 127.3637})
	snap.AddStation(&airquality.Station{Name: "노은동", Lat: 36.3736, Lon: 127.3190})
	snap.SetReading("정림동", &airquality.Reading{PM10: fp(42), PM25: fp(21), DataTime: "2025-06-01 14:00"})
	return snap
}

func newDashboard(t *testing.T, pos location.PositionProvider, snap airquality.Provider) (*dashboard.Service, *profile.Service, *capturePublisher) {
	t.Helper()

	logger := zerolog.New(io.Discard)

	profiles := profile.NewService(profile.ServiceConfig{
		Repository: profile.NewInMemoryRepository(),
		Logger:     logger,
	})
	missions := mission.NewService(mission.ServiceConfig{
		Repository: mission.NewInMemoryRepository(),
		Profiles:   profiles,
		Logger:     logger,
		Now:        func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	pub := &capturePublisher{}

	svc := dashboard.NewService(dashboard.ServiceConfig{
		Location: location.NewService(location.ServiceConfig{
			Provider:    pos,
			Logger:      logger,
			MaxAttempts: 1,
		}),
		AirQuality: airquality.NewService(airquality.ServiceConfig{
			Provider: snap,
			Logger:   logger,
		}),
		Missions:  missions,
		Scheduler: notify.NewScheduler(pub, logger),
		Logger:    logger,
	})
	return svc, profiles, pub
}

func TestService_Load_FullPipeline(t *testing.T) {
	svc, _, _ := newDashboard(t,
		&stubPosition{fix: &location.Fix{Lat: 36.3050, Lon: 127.3600, AccuracyM: 20}},
		&stubSnapshot{snapshot: daejeonSnapshot()},
	)

	view := svc.Load(context.Background(), dashboard.LoadOptions{UserID: "device-1"})

	require.NotNil(t, view.Location.Resolution)
	assert.Empty(t, view.Location.Err)
	assert.Equal(t, 36.3050, view.Location.Resolution.Lat)
	assert.False(t, view.Location.Resolution.Fallback)

	require.NotNil(t, view.Air.Result)
	assert.Equal(t, "정림동", view.Air.Result.Station.Name)
	assert.Equal(t, airquality.GradeModerate, view.Air.Result.PM10Grade)

	assert.Len(t, view.Missions.Missions, 5)
	assert.Empty(t, view.Missions.Err)
	assert.Len(t, view.Guides, len(mission.GuidelineKeys))
}

func TestService_Load_SnapshotFailureLeavesMissionsIntact(t *testing.T) {
	svc, _, _ := newDashboard(t,
		&stubPosition{fix: &location.Fix{Lat: 36.3050, Lon: 127.3600, AccuracyM: 20}},
		&stubSnapshot{err: errors.New("feed unavailable")},
	)

	view := svc.Load(context.Background(), dashboard.LoadOptions{UserID: "device-1"})

	assert.Nil(t, view.Air.Result)
	assert.NotEmpty(t, view.Air.Err)

	// Missions and guides still render; guides fall back to the moderate
	// level when PM10 is unknown.
	assert.Len(t, view.Missions.Missions, 5)
	assert.Len(t, view.Guides, len(mission.GuidelineKeys))
}

func TestService_Load_LocationFailureFallsBackToDefault(t *testing.T) {
	svc, _, _ := newDashboard(t,
		&stubPosition{err: errors.New("no signal")},
		&stubSnapshot{snapshot: daejeonSnapshot()},
	)

	view := svc.Load(context.Background(), dashboard.LoadOptions{})

	// The geolocator converts total failure into the default location, so
	// the air section still resolves against Daejeon City Hall.
	require.NotNil(t, view.Location.Resolution)
	assert.True(t, view.Location.Resolution.Fallback)
	require.NotNil(t, view.Air.Result)
	assert.Equal(t, "정림동", view.Air.Result.Station.Name)
}

func TestService_Load_ClientFixSkipsGeolocator(t *testing.T) {
	svc, _, _ := newDashboard(t,
		&stubPosition{err: errors.New("should not be called")},
		&stubSnapshot{snapshot: daejeonSnapshot()},
	)

	view := svc.Load(context.Background(), dashboard.LoadOptions{
		Fix: &location.Fix{Lat: 36.3736, Lon: 127.3190, AccuracyM: 15},
	})

	require.NotNil(t, view.Location.Resolution)
	assert.Equal(t, 36.3736, view.Location.Resolution.Lat)
	assert.Empty(t, view.Location.Err)
}

func TestService_Load_ArmsReminderOnce(t *testing.T) {
	svc, _, pub := newDashboard(t,
		&stubPosition{fix: &location.Fix{Lat: 36.3050, Lon: 127.3600, AccuracyM: 20}},
		&stubSnapshot{snapshot: daejeonSnapshot()},
	)

	ctx := context.Background()
	view := svc.Load(ctx, dashboard.LoadOptions{UserID: "device-1"})
	require.NotEmpty(t, view.Missions.Missions)
	assert.True(t, svc.Scheduler().Armed())

	require.NoError(t, svc.Scheduler().Trigger(ctx))
	require.Len(t, pub.published, 1)

	n := pub.published[0]
	assert.Equal(t, notify.MessageTypeSchedule, n.Type)
	assert.Equal(t, notify.DefaultDelay.Milliseconds(), n.Delay)

	// The armed mission is one of today's missions, chosen by the seed.
	titles := make([]string, 0, 5)
	for _, m := range view.Missions.Missions {
		titles = append(titles, m.Title)
	}
	assert.Contains(t, titles, n.MissionTitle)
}

func TestService_Load_AnonymousSkipsMissions(t *testing.T) {
	svc, _, _ := newDashboard(t,
		&stubPosition{fix: &location.Fix{Lat: 36.3050, Lon: 127.3600, AccuracyM: 20}},
		&stubSnapshot{snapshot: daejeonSnapshot()},
	)

	view := svc.Load(context.Background(), dashboard.LoadOptions{})

	assert.Empty(t, view.Missions.Missions)
	assert.False(t, svc.Scheduler().Armed())
	assert.Len(t, view.Guides, len(mission.GuidelineKeys))
}
