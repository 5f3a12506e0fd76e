// Package airquality provides the station directory, reading snapshots and
// the nearest-station resolution pipeline.
package airquality

import (
	"errors"
	"time"
)

// Snapshot errors.
var (
	ErrNoStations          = errors.New("no stations available")
	ErrStationNotFound     = errors.New("station not found")
	ErrSnapshotUnavailable = errors.New("air quality snapshot unavailable")
)

// Pollutant represents a measured pollutant type.
type Pollutant string

const (
	PollutantPM10 Pollutant = "PM10"
	PollutantPM25 Pollutant = "PM25"
	PollutantO3   Pollutant = "O3"
)

// Station represents a fixed-location monitoring station, identified by name.
type Station struct {
	Name    string
	Address string
	Lat     float64
	Lon     float64
}

// Reading is the latest known measurement for one station. Pollutant values
// are pointers: the upstream collector records null when a station reported
// no value ("-" in the source feed).
type Reading struct {
	PM10 *float64
	PM25 *float64

	// DataTime is the upstream measurement timestamp string, empty when the
	// station reported none.
	DataTime string

	// Err carries the collector-side error for stations that could not be
	// fetched. A reading with Err set still renders as "no data", not as a
	// failure of the whole snapshot.
	Err string
}

// Usable reports whether the reading has both pollutant values present.
// Only usable readings satisfy the dashboard's "your local air quality"
// promise; partial readings render with gaps.
func (r *Reading) Usable() bool {
	return r != nil && r.PM10 != nil && r.PM25 != nil
}

// Snapshot is a point-in-time view of the station directory and the latest
// readings, produced out-of-band and treated as immutable once loaded.
type Snapshot struct {
	// Stations holds the directory in normalized (name-sorted) order, so
	// equal-distance ranking ties resolve the same way on every load.
	Stations []*Station

	// Readings maps station name to its latest reading. Stations without an
	// entry are treated the same as stations with a fully null reading.
	Readings map[string]*Reading

	// UpdatedAt is the upstream publication time of the snapshot files.
	UpdatedAt time.Time

	// FetchedAt is when this process loaded the snapshot.
	FetchedAt time.Time

	// Provider identifies the data source.
	Provider string

	index map[string]*Station
}

// NewSnapshot creates an empty snapshot for the given provider.
func NewSnapshot(provider string) *Snapshot {
	return &Snapshot{
		Readings:  make(map[string]*Reading),
		FetchedAt: time.Now(),
		Provider:  provider,
		index:     make(map[string]*Station),
	}
}

// AddStation appends a station to the directory. Callers are expected to add
// stations in a deterministic order; the codec helpers sort by name.
func (s *Snapshot) AddStation(st *Station) {
	if _, ok := s.index[st.Name]; ok {
		return
	}
	s.Stations = append(s.Stations, st)
	s.index[st.Name] = st
}

// Station returns the directory entry for the given name, or nil.
func (s *Snapshot) Station(name string) *Station {
	return s.index[name]
}

// Reading returns the latest reading for the given station name, or nil when
// the snapshot has no entry for it.
func (s *Snapshot) Reading(name string) *Reading {
	return s.Readings[name]
}

// SetReading stores the latest reading for a station.
func (s *Snapshot) SetReading(name string, r *Reading) {
	s.Readings[name] = r
}
