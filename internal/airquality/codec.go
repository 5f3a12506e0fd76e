package airquality

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// Wire formats for the two published snapshot files. Both are produced by
// the collector and consumed read-only by every other process.

// StationsFile is the station directory file:
// {updatedAt, count, data: {name: {address, latitude, longitude}}}.
type StationsFile struct {
	UpdatedAt string                 `json:"updatedAt"`
	Count     int                    `json:"count"`
	Data      map[string]StationInfo `json:"data"`
}

// StationInfo is one directory entry.
type StationInfo struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ReadingsFile is the latest-readings file:
// {updatedAt, count, data: {name: {pm10, pm25, dataTime, error?}}}.
type ReadingsFile struct {
	UpdatedAt string                 `json:"updatedAt"`
	Count     int                    `json:"count"`
	Data      map[string]ReadingInfo `json:"data"`
}

// ReadingInfo is one reading entry. Pollutant fields are null when the
// station reported no value.
type ReadingInfo struct {
	PM10     *float64 `json:"pm10"`
	PM25     *float64 `json:"pm25"`
	DataTime *string  `json:"dataTime"`
	Error    string   `json:"error,omitempty"`
}

// BuildSnapshot combines the two decoded files into a Snapshot. Station
// names are sorted before insertion so the directory order, and therefore
// distance tie-breaking, is identical on every load. Readings for stations
// missing from the directory are kept; directory stations without readings
// simply have no entry.
func BuildSnapshot(provider string, stations *StationsFile, readings *ReadingsFile) *Snapshot {
	snap := NewSnapshot(provider)

	if t, err := time.Parse(time.RFC3339, stations.UpdatedAt); err == nil {
		snap.UpdatedAt = t
	}
	if readings != nil {
		if t, err := time.Parse(time.RFC3339, readings.UpdatedAt); err == nil && t.After(snap.UpdatedAt) {
			snap.UpdatedAt = t
		}
	}

	names := make([]string, 0, len(stations.Data))
	for name := range stations.Data {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		info := stations.Data[name]
		snap.AddStation(&Station{
			Name:    name,
			Address: info.Address,
			Lat:     info.Latitude,
			Lon:     info.Longitude,
		})
	}

	if readings != nil {
		for name, info := range readings.Data {
			r := &Reading{
				PM10: info.PM10,
				PM25: info.PM25,
				Err:  info.Error,
			}
			if info.DataTime != nil {
				r.DataTime = *info.DataTime
			}
			snap.SetReading(name, r)
		}
	}

	return snap
}

// DecodeStationsFile parses the station directory file.
func DecodeStationsFile(data []byte) (*StationsFile, error) {
	var f StationsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode stations file: %w", err)
	}
	return &f, nil
}

// DecodeReadingsFile parses the latest-readings file.
func DecodeReadingsFile(data []byte) (*ReadingsFile, error) {
	var f ReadingsFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode readings file: %w", err)
	}
	return &f, nil
}

// EncodeReadingsFile serializes a readings file, filling updatedAt and count.
func EncodeReadingsFile(data map[string]ReadingInfo, now time.Time) ([]byte, error) {
	f := ReadingsFile{
		UpdatedAt: now.UTC().Format(time.RFC3339),
		Count:     len(data),
		Data:      data,
	}
	out, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode readings file: %w", err)
	}
	return out, nil
}
