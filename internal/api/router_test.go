package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/api"
	"github.com/dustwatch/dustwatch/internal/auth"
	"github.com/dustwatch/dustwatch/internal/dashboard"
	"github.com/dustwatch/dustwatch/internal/location"
	"github.com/dustwatch/dustwatch/internal/mission"
	"github.com/dustwatch/dustwatch/internal/notify"
	"github.com/dustwatch/dustwatch/internal/profile"
)

// stubSnapshotProvider serves a fixed snapshot.
type stubSnapshotProvider struct {
	snapshot *airquality.Snapshot
	err      error
}

func (p *stubSnapshotProvider) FetchSnapshot(context.Context) (*airquality.Snapshot, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.snapshot, nil
}

// stubPositionProvider returns a fixed device position.
type stubPositionProvider struct {
	fix *location.Fix
}

func (p *stubPositionProvider) Locate(context.Context) (*location.Fix, error) {
	return p.fix, nil
}

// nopPublisher swallows reminder messages.
type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, *notify.Notification) error { return nil }

func fixedSnapshot() *airquality.Snapshot {
	pm10 := 42.0
	pm25 := 21.0
	snap := airquality.NewSnapshot("airkorea")
	snap.UpdatedAt = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	snap.AddStation(&airquality.Station{Name: "노은동", Address: "대전 유성구", Lat: 36.3326, Lon: 127.3174})
	snap.AddStation(&airquality.Station{Name: "문평동", Address: "대전 대덕구", Lat: 36.4306, Lon: 127.4046})
	snap.SetReading("노은동", &airquality.Reading{PM10: &pm10, PM25: &pm25, DataTime: "2025-06-01 09:00"})
	return snap
}

// newTestRouter wires a full in-memory stack behind the router.
func newTestRouter(t *testing.T, provider airquality.Provider) (http.Handler, *auth.Service) {
	t.Helper()
	logger := zerolog.Nop()

	authService := auth.NewService(auth.ServiceConfig{
		JWT: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "router-test-key",
			Issuer:     "dustwatch-test",
			Audience:   "dustwatch-app",
		}),
		Logger: logger,
	})

	airService := airquality.NewService(airquality.ServiceConfig{
		Provider: provider,
		Logger:   logger,
	})

	profileService := profile.NewService(profile.ServiceConfig{
		Repository: profile.NewInMemoryRepository(),
		Logger:     logger,
	})

	missionService := mission.NewService(mission.ServiceConfig{
		Repository: mission.NewInMemoryRepository(),
		Profiles:   profileService,
		Logger:     logger,
	})

	locationService := location.NewService(location.ServiceConfig{
		Provider: &stubPositionProvider{fix: &location.Fix{Lat: 36.3326, Lon: 127.3174, AccuracyM: 30, At: time.Now()}},
		Logger:   logger,
	})

	dashboardService := dashboard.NewService(dashboard.ServiceConfig{
		Location:   locationService,
		AirQuality: airService,
		Missions:   missionService,
		Scheduler:  notify.NewScheduler(nopPublisher{}, logger),
		Logger:     logger,
	})

	router := api.NewRouter(api.RouterConfig{
		Version:           "test",
		BuildTime:         "now",
		Logger:            logger,
		AuthService:       authService,
		AirQualityService: airService,
		ProfileService:    profileService,
		MissionService:    missionService,
		DashboardService:  dashboardService,
	})

	return router, authService
}

func registerDevice(t *testing.T, router http.Handler) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/anonymous", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var pair auth.TokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	return pair.AccessToken
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"OK"`)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestRouter_Ready(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "air-quality-snapshot")
}

func TestRouter_Ready_SnapshotUnavailable(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{err: airquality.ErrSnapshotUnavailable})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/ready", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"FAIL"`)
}

func TestRouter_RegisterAnonymous(t *testing.T) {
	router, authService := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	token := registerDevice(t, router)

	deviceID, err := authService.Validate(token)
	require.NoError(t, err)
	assert.NotEmpty(t, deviceID)
}

func TestRouter_Stations(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/airquality/stations", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Stations []struct {
			Name string `json:"name"`
		} `json:"stations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Stations, 2)
	// Directory order is name-sorted
	assert.Equal(t, "노은동", body.Stations[0].Name)
	assert.Equal(t, "문평동", body.Stations[1].Name)
}

func TestRouter_Nearest(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/airquality/nearest?lat=36.33&lon=127.32", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Station struct {
			Name string `json:"name"`
		} `json:"station"`
		PM10Grade    string `json:"pm10Grade"`
		StationCount int    `json:"stationCount"`
		Mood         struct {
			Label string `json:"label"`
		} `json:"mood"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "노은동", body.Station.Name)
	assert.Equal(t, "moderate", body.PM10Grade)
	assert.Equal(t, 2, body.StationCount)
	assert.Equal(t, "조금 주의", body.Mood.Label)
}

func TestRouter_Nearest_MissingParams(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/airquality/nearest", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), `"field":"lat"`)
	assert.Contains(t, rec.Body.String(), `"field":"lon"`)
}

func TestRouter_Nearest_OutOfRange(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/airquality/nearest?lat=91&lon=127.3", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Dashboard_Anonymous(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?lat=36.33&lon=127.32&accuracy=25", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Location struct {
			Resolution *struct {
				Lat float64 `json:"lat"`
			} `json:"resolution"`
		} `json:"location"`
		Air struct {
			Result *struct {
				Station struct {
					Name string `json:"name"`
				} `json:"station"`
			} `json:"result"`
		} `json:"air"`
		Missions struct {
			Missions []json.RawMessage `json:"missions"`
		} `json:"missions"`
		Guides []struct {
			Key string `json:"key"`
		} `json:"guides"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.Location.Resolution)
	assert.InDelta(t, 36.33, body.Location.Resolution.Lat, 0.001)
	require.NotNil(t, body.Air.Result)
	assert.Equal(t, "노은동", body.Air.Result.Station.Name)
	assert.Empty(t, body.Missions.Missions, "anonymous dashboard has no missions")
	assert.NotEmpty(t, body.Guides)
}

func TestRouter_Dashboard_Authenticated(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/dashboard?lat=36.33&lon=127.32", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Missions struct {
			Missions []struct {
				Title string `json:"title"`
			} `json:"missions"`
		} `json:"missions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Missions.Missions, 5)
}

func TestRouter_MissionsToday_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/missions/today", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MissionsToday(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	req := httptest.NewRequest(http.MethodGet, "/v1/missions/today", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Date     string `json:"date"`
		Missions []struct {
			ID    int    `json:"id"`
			Title string `json:"title"`
		} `json:"missions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, time.Now().Format("2006-01-02"), body.Date)
	assert.Len(t, body.Missions, 5)
}

func TestRouter_Profile_RoundTrip(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	// A fresh device has an empty profile
	req := httptest.NewRequest(http.MethodGet, "/v1/me/profile", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	// Save a profile
	payload := `{"ageGroup":"adult","pet":"dog","health":"asthma"}`
	req = httptest.NewRequest(http.MethodPut, "/v1/me/profile", bytes.NewBufferString(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// Read it back
	req = httptest.NewRequest(http.MethodGet, "/v1/me/profile", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, payload, rec.Body.String())
}

func TestRouter_Profile_InvalidValue(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	req := httptest.NewRequest(http.MethodPut, "/v1/me/profile", bytes.NewBufferString(`{"pet":"hamster"}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid profile")
}

func TestRouter_Guides_WithPM10(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/guides?pm10=120", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Guides []struct {
			Key     string   `json:"key"`
			Content []string `json:"content"`
		} `json:"guides"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Guides)
}

func TestRouter_Guides_BadPM10(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/guides?pm10=dusty", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_NotificationSchedule(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	payload := `{"missionTitle":"환기하기"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/schedule", bytes.NewBufferString(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body struct {
		Armed        bool   `json:"armed"`
		DelayMs      int64  `json:"delayMs"`
		MissionTitle string `json:"missionTitle"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Armed)
	assert.Equal(t, int64(10000), body.DelayMs)
	assert.Equal(t, "환기하기", body.MissionTitle)
}

func TestRouter_NotificationTrigger(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	payload := `{"delayMs":5000,"missionTitle":"환기하기"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/schedule", bytes.NewBufferString(payload))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusAccepted, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/v1/notifications/trigger", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusAccepted, rec.Code)

	var body struct {
		Armed   bool  `json:"armed"`
		DelayMs int64 `json:"delayMs"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Armed)
	assert.Equal(t, int64(5000), body.DelayMs)
}

func TestRouter_NotificationTrigger_NotArmed(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})
	token := registerDevice(t, router)

	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/trigger", http.NoBody)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_NotificationSchedule_RequiresAuth(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodPost, "/v1/notifications/schedule", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/ops/health", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestRouter_UnknownRoute(t *testing.T) {
	router, _ := newTestRouter(t, &stubSnapshotProvider{snapshot: fixedSnapshot()})

	req := httptest.NewRequest(http.MethodGet, "/v1/nope", http.NoBody)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
