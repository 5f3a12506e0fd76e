package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dustwatch/dustwatch/internal/api/middleware"
	"github.com/dustwatch/dustwatch/internal/api/models"
	"github.com/dustwatch/dustwatch/internal/api/response"
	"github.com/dustwatch/dustwatch/internal/dashboard"
	"github.com/dustwatch/dustwatch/internal/location"
)

// DashboardHandler handles the assembled dashboard endpoint.
type DashboardHandler struct {
	dashboard *dashboard.Service
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboard: svc}
}

// Load handles GET /v1/dashboard - the full home screen payload. A client
// that already measured its position passes lat, lon, and optionally
// accuracy; without them the server-side location chain runs. The endpoint
// works anonymously; an authenticated device additionally gets its daily
// missions and personalized guides.
func (h *DashboardHandler) Load(w http.ResponseWriter, r *http.Request) {
	opts := dashboard.LoadOptions{
		UserID: middleware.GetDeviceID(r.Context()),
	}

	q := r.URL.Query()
	if q.Get("lat") != "" || q.Get("lon") != "" {
		lat, lon, fieldErrors := parseCoordinate(r)
		if len(fieldErrors) > 0 {
			response.BadRequest(w, r, "invalid coordinate", fieldErrors)
			return
		}

		fix := &location.Fix{Lat: lat, Lon: lon, At: time.Now()}
		if raw := q.Get("accuracy"); raw != "" {
			acc, err := strconv.ParseFloat(raw, 64)
			if err != nil || acc < 0 {
				response.BadRequest(w, r, "invalid coordinate", []models.FieldError{
					{Field: "accuracy", Message: "must be a non-negative number"},
				})
				return
			}
			fix.AccuracyM = acc
		}
		opts.Fix = fix
	}

	view := h.dashboard.Load(r.Context(), opts)
	response.JSON(w, r, http.StatusOK, models.NewDashboard(view))
}
