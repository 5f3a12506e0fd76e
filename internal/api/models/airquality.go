package models

import (
	"github.com/dustwatch/dustwatch/internal/airquality"
)

// Station represents a monitoring station in API responses.
type Station struct {
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

// StationList is the response for the station directory.
type StationList struct {
	Stations  []Station `json:"stations"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// Reading represents one station's latest measurement. Pollutant values are
// null when the station reported none.
type Reading struct {
	PM10     *float64 `json:"pm10"`
	PM25     *float64 `json:"pm25"`
	DataTime string   `json:"dataTime,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// NearestAir is the graded nearest-station result.
type NearestAir struct {
	Station       Station         `json:"station"`
	DistanceKm    float64         `json:"distanceKm"`
	Reading       *Reading        `json:"reading"`
	Partial       bool            `json:"partial"`
	FallbackDepth int             `json:"fallbackDepth"`
	PM10Grade     string          `json:"pm10Grade"`
	PM10Label     string          `json:"pm10Label"`
	PM25Grade     string          `json:"pm25Grade"`
	PM25Label     string          `json:"pm25Label"`
	Mood          airquality.Mood `json:"mood"`
	StationCount  int             `json:"stationCount"`
}

// NewStation maps a domain station to its API representation.
func NewStation(st *airquality.Station) Station {
	return Station{
		Name:    st.Name,
		Address: st.Address,
		Lat:     st.Lat,
		Lon:     st.Lon,
	}
}

// NewReading maps a domain reading to its API representation. A nil reading
// maps to nil, which renders as JSON null.
func NewReading(r *airquality.Reading) *Reading {
	if r == nil {
		return nil
	}
	return &Reading{
		PM10:     r.PM10,
		PM25:     r.PM25,
		DataTime: r.DataTime,
		Error:    r.Err,
	}
}

// NewNearestAir maps a domain nearest-station result to its API representation.
func NewNearestAir(res *airquality.NearestResult) *NearestAir {
	return &NearestAir{
		Station:       NewStation(res.Station),
		DistanceKm:    res.DistanceKm,
		Reading:       NewReading(res.Reading),
		Partial:       res.Partial,
		FallbackDepth: res.FallbackDepth,
		PM10Grade:     string(res.PM10Grade),
		PM10Label:     res.PM10Grade.Label(),
		PM25Grade:     string(res.PM25Grade),
		PM25Label:     res.PM25Grade.Label(),
		Mood:          res.Mood,
		StationCount:  res.StationCount,
	}
}
