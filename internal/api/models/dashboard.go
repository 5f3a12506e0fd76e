package models

import (
	"github.com/dustwatch/dustwatch/internal/dashboard"
	"github.com/dustwatch/dustwatch/internal/location"
	"github.com/dustwatch/dustwatch/internal/mission"
)

// DashboardLocation is the resolved position section, or why it is missing.
type DashboardLocation struct {
	Resolution *location.Resolution `json:"resolution,omitempty"`
	Error      string               `json:"error,omitempty"`
}

// DashboardAir is the air quality section, or why it is missing.
type DashboardAir struct {
	Result *NearestAir `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// DashboardMissions is the daily mission section, or why it is missing.
type DashboardMissions struct {
	Missions []mission.Mission `json:"missions,omitempty"`
	Error    string            `json:"error,omitempty"`
}

// Dashboard is the assembled dashboard response.
type Dashboard struct {
	Location DashboardLocation `json:"location"`
	Air      DashboardAir      `json:"air"`
	Missions DashboardMissions `json:"missions"`
	Guides   []mission.Guide   `json:"guides"`
}

// NewDashboard maps an assembled dashboard view to its API representation.
func NewDashboard(view *dashboard.View) *Dashboard {
	d := &Dashboard{
		Location: DashboardLocation{
			Resolution: view.Location.Resolution,
			Error:      view.Location.Err,
		},
		Air: DashboardAir{
			Error: view.Air.Err,
		},
		Missions: DashboardMissions{
			Missions: view.Missions.Missions,
			Error:    view.Missions.Err,
		},
		Guides: view.Guides,
	}
	if view.Air.Result != nil {
		d.Air.Result = NewNearestAir(view.Air.Result)
	}
	return d
}
