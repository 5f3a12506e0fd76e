package airquality

import (
	"math"
	"sort"
)

// RankedStation pairs a station with its great-circle distance from a query
// coordinate.
type RankedStation struct {
	Station    *Station
	DistanceKm float64
}

// StationReading is the outcome of the fallback lookup: the chosen station,
// its distance, and whatever reading the snapshot holds for it.
type StationReading struct {
	Station    *Station
	DistanceKm float64

	// Reading may be nil or partial when no ranked station had a usable
	// reading; callers render the gaps instead of failing.
	Reading *Reading

	// Partial is set when the returned reading is missing one or both
	// pollutant values.
	Partial bool

	// FallbackDepth is the index into the ranked list of the chosen
	// station. Zero means the nearest station itself had usable data.
	FallbackDepth int
}

// RankStations computes the great-circle distance from the query coordinate
// to every station and returns the full list ordered by ascending distance.
// Ties keep the input order. Station counts are in the tens, so a flat scan
// is the right tool; there is no spatial index here on purpose.
func RankStations(lat, lon float64, stations []*Station) ([]RankedStation, error) {
	if len(stations) == 0 {
		return nil, ErrNoStations
	}

	ranked := make([]RankedStation, 0, len(stations))
	for _, st := range stations {
		ranked = append(ranked, RankedStation{
			Station:    st,
			DistanceKm: HaversineKm(lat, lon, st.Lat, st.Lon),
		})
	}

	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].DistanceKm < ranked[b].DistanceKm
	})

	return ranked, nil
}

// ResolveUsableReading walks the ranked list and returns the first station
// whose snapshot reading has both pollutants present. When no station has a
// usable reading the nearest station is returned with whatever partial data
// it has: the dashboard degrades to "nearest station, with gaps" rather than
// surfacing an error for a transient single-station outage.
func ResolveUsableReading(ranked []RankedStation, snapshot *Snapshot) (StationReading, error) {
	if len(ranked) == 0 {
		return StationReading{}, ErrNoStations
	}

	for i, rs := range ranked {
		r := snapshot.Reading(rs.Station.Name)
		if r.Usable() {
			return StationReading{
				Station:       rs.Station,
				DistanceKm:    rs.DistanceKm,
				Reading:       r,
				FallbackDepth: i,
			}, nil
		}
	}

	nearest := ranked[0]
	return StationReading{
		Station:    nearest.Station,
		DistanceKm: nearest.DistanceKm,
		Reading:    snapshot.Reading(nearest.Station.Name),
		Partial:    true,
	}, nil
}

// HaversineKm calculates the great-circle distance between two points in
// kilometers using the Haversine formula.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadiusKm = 6371

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}
