package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dustwatch/dustwatch/internal/api/middleware"
	"github.com/dustwatch/dustwatch/internal/api/response"
	"github.com/dustwatch/dustwatch/internal/profile"
)

// ProfileHandler handles device profile endpoints.
type ProfileHandler struct {
	profiles *profile.Service
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profiles *profile.Service) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// GetProfile handles GET /v1/me/profile - the device's stored profile.
// A device that never saved one gets an empty profile, not a 404.
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.GetDeviceID(r.Context())
	if deviceID == "" {
		response.Unauthorized(w, r, "device not authenticated")
		return
	}

	p, err := h.profiles.Get(r.Context(), deviceID)
	if err != nil {
		response.InternalError(w, r, "failed to load profile")
		return
	}

	response.JSON(w, r, http.StatusOK, p)
}

// UpsertProfile handles PUT /v1/me/profile - create or replace the profile.
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	deviceID := middleware.GetDeviceID(r.Context())
	if deviceID == "" {
		response.Unauthorized(w, r, "device not authenticated")
		return
	}

	var input profile.UserProfile
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, r, "invalid JSON body", nil)
		return
	}

	if err := h.profiles.Update(r.Context(), deviceID, &input); err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			response.BadRequest(w, r, err.Error(), nil)
			return
		}
		response.InternalError(w, r, "failed to save profile")
		return
	}

	response.JSON(w, r, http.StatusOK, &input)
}
