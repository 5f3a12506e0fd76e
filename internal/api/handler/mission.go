package handler

import (
	"net/http"
	"strconv"

	"github.com/dustwatch/dustwatch/internal/api/middleware"
	"github.com/dustwatch/dustwatch/internal/api/models"
	"github.com/dustwatch/dustwatch/internal/api/response"
	"github.com/dustwatch/dustwatch/internal/mission"
)

// MissionHandler handles daily mission and behavioral guide endpoints.
type MissionHandler struct {
	missions *mission.Service
}

// NewMissionHandler creates a new MissionHandler.
func NewMissionHandler(missions *mission.Service) *MissionHandler {
	return &MissionHandler{missions: missions}
}

// TodayResponse is the daily mission list response.
type TodayResponse struct {
	Date     string            `json:"date"`
	Missions []mission.Mission `json:"missions"`
}

// Today handles GET /v1/missions/today - the device's mission list for the
// current date. The list is stable for the day unless the profile changes.
func (h *MissionHandler) Today(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.GetDeviceID(r.Context())
	if deviceID == "" {
		response.Unauthorized(w, r, "device not authenticated")
		return
	}

	missions, err := h.missions.Today(r.Context(), deviceID)
	if err != nil {
		response.InternalError(w, r, "failed to compute daily missions")
		return
	}

	response.JSON(w, r, http.StatusOK, TodayResponse{
		Date:     h.missions.TodayDate(),
		Missions: missions,
	})
}

// GuidesResponse is the behavioral guide list response.
type GuidesResponse struct {
	Guides []mission.Guide `json:"guides"`
}

// Guides handles GET /v1/guides?pm10= - behavioral guides for a dust level.
// The pm10 parameter is optional; without it the guides give middling
// advice. Authentication is optional; an authenticated device gets its
// profile-boosted ordering and badges.
func (h *MissionHandler) Guides(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.GetDeviceID(r.Context())

	var pm10 *float64
	if raw := r.URL.Query().Get("pm10"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			response.BadRequest(w, r, "invalid pm10 value", []models.FieldError{
				{Field: "pm10", Message: "must be a non-negative number"},
			})
			return
		}
		pm10 = &v
	}

	guides, err := h.missions.Guides(r.Context(), deviceID, pm10)
	if err != nil {
		response.InternalError(w, r, "failed to build guides")
		return
	}

	response.JSON(w, r, http.StatusOK, GuidesResponse{Guides: guides})
}
