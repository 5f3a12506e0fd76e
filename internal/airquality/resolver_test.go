package airquality_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dustwatch/dustwatch/internal/airquality"
)

func fp(v float64) *float64 { return &v }

func testStations() []*airquality.Station {
	return []*airquality.Station{
		{Name: "문평동", Address: "대전 대덕구 문평동", Lat: 36.4379, Lon: 127.4108},
		{Name: "읍내동", Address: "대전 대덕구 읍내동", Lat: 36.3664, Lon: 127.4253},
		{Name: "정림동", Address: "대전 서구 정림동", Lat: 36.3060, Lon: 127.3637},
		{Name: "노은동", Address: "대전 유성구 노은동", Lat: 36.3736, Lon: 127.3190},
	}
}

func TestHaversineKm_KnownDistance(t *testing.T) {
	// Seoul City Hall to Daejeon City Hall, roughly 140 km great-circle.
	d := airquality.HaversineKm(37.5663, 126.9779, 36.3504, 127.3845)
	assert.InDelta(t, 139.9, d, 1.0)
}

func TestHaversineKm_ZeroForSamePoint(t *testing.T) {
	d := airquality.HaversineKm(36.35, 127.38, 36.35, 127.38)
	assert.Equal(t, 0.0, d)
}

func TestRankStations_OrderAndTotality(t *testing.T) {
	stations := testStations()

	// Query from near 정림동 in the city's southwest.
	ranked, err := airquality.RankStations(36.3050, 127.3600, stations)
	require.NoError(t, err)

	// Every input station appears exactly once.
	require.Len(t, ranked, len(stations))
	seen := make(map[string]int)
	for _, rs := range ranked {
		seen[rs.Station.Name]++
	}
	for _, st := range stations {
		assert.Equal(t, 1, seen[st.Name], "station %s", st.Name)
	}

	// Ascending by distance.
	assert.True(t, sort.SliceIsSorted(ranked, func(a, b int) bool {
		return ranked[a].DistanceKm < ranked[b].DistanceKm
	}))
	assert.Equal(t, "정림동", ranked[0].Station.Name)
}

func TestRankStations_TiesKeepInputOrder(t *testing.T) {
	// Two stations at the identical coordinate must keep input order.
	stations := []*airquality.Station{
		{Name: "b-second", Lat: 36.40, Lon: 127.40},
		{Name: "a-first", Lat: 36.40, Lon: 127.40},
	}

	ranked, err := airquality.RankStations(36.35, 127.38, stations)
	require.NoError(t, err)
	assert.Equal(t, "b-second", ranked[0].Station.Name)
	assert.Equal(t, "a-first", ranked[1].Station.Name)
}

func TestRankStations_Empty(t *testing.T) {
	_, err := airquality.RankStations(36.35, 127.38, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, airquality.ErrNoStations)
}

func TestResolveUsableReading_WalksToFirstUsable(t *testing.T) {
	stations := testStations()
	ranked, err := airquality.RankStations(36.3050, 127.3600, stations)
	require.NoError(t, err)

	snap := airquality.NewSnapshot("test")
	// Nearest is missing pm10, second is missing pm25, third has both.
	snap.SetReading(ranked[0].Station.Name, &airquality.Reading{PM25: fp(21)})
	snap.SetReading(ranked[1].Station.Name, &airquality.Reading{PM10: fp(42)})
	snap.SetReading(ranked[2].Station.Name, &airquality.Reading{PM10: fp(42), PM25: fp(21)})

	sr, err := airquality.ResolveUsableReading(ranked, snap)
	require.NoError(t, err)
	assert.Equal(t, ranked[2].Station.Name, sr.Station.Name)
	assert.Equal(t, 2, sr.FallbackDepth)
	assert.False(t, sr.Partial)
	require.NotNil(t, sr.Reading)
	assert.Equal(t, 42.0, *sr.Reading.PM10)
}

func TestResolveUsableReading_NoUsableReturnsNearestPartial(t *testing.T) {
	stations := testStations()
	ranked, err := airquality.RankStations(36.3050, 127.3600, stations)
	require.NoError(t, err)

	snap := airquality.NewSnapshot("test")
	snap.SetReading(ranked[0].Station.Name, &airquality.Reading{PM25: fp(18), Err: "noItems"})

	sr, err := airquality.ResolveUsableReading(ranked, snap)
	require.NoError(t, err)
	assert.Equal(t, ranked[0].Station.Name, sr.Station.Name)
	assert.True(t, sr.Partial)
	require.NotNil(t, sr.Reading)
	assert.Nil(t, sr.Reading.PM10)
}

func TestResolveUsableReading_MissingEntriesTolerated(t *testing.T) {
	stations := testStations()
	ranked, err := airquality.RankStations(36.3050, 127.3600, stations)
	require.NoError(t, err)

	// Completely empty snapshot: still no error, nearest with nil reading.
	snap := airquality.NewSnapshot("test")

	sr, err := airquality.ResolveUsableReading(ranked, snap)
	require.NoError(t, err)
	assert.Equal(t, ranked[0].Station.Name, sr.Station.Name)
	assert.True(t, sr.Partial)
	assert.Nil(t, sr.Reading)
}

func TestResolveUsableReading_EmptyRanking(t *testing.T) {
	_, err := airquality.ResolveUsableReading(nil, airquality.NewSnapshot("test"))
	require.Error(t, err)
	assert.ErrorIs(t, err, airquality.ErrNoStations)
}

func TestReading_Usable(t *testing.T) {
	assert.False(t, (*airquality.Reading)(nil).Usable())
	assert.False(t, (&airquality.Reading{PM10: fp(1)}).Usable())
	assert.False(t, (&airquality.Reading{PM25: fp(1)}).Usable())
	assert.True(t, (&airquality.Reading{PM10: fp(1), PM25: fp(1)}).Usable())
}
