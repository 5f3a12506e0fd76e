package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/api/models"
	"github.com/dustwatch/dustwatch/internal/api/response"
)

// AirQualityHandler handles air quality endpoints.
type AirQualityHandler struct {
	airQuality *airquality.Service
}

// NewAirQualityHandler creates a new AirQualityHandler.
func NewAirQualityHandler(aq *airquality.Service) *AirQualityHandler {
	return &AirQualityHandler{airQuality: aq}
}

// ListStations handles GET /v1/airquality/stations - the station directory.
func (h *AirQualityHandler) ListStations(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.airQuality.GetSnapshot(r.Context())
	if err != nil {
		response.ServiceUnavailable(w, r, "air quality data is currently unavailable")
		return
	}

	stations := make([]models.Station, 0, len(snapshot.Stations))
	for _, st := range snapshot.Stations {
		stations = append(stations, models.NewStation(st))
	}

	response.JSON(w, r, http.StatusOK, models.StationList{
		Stations:  stations,
		UpdatedAt: models.Timestamp(snapshot.UpdatedAt),
	})
}

// Nearest handles GET /v1/airquality/nearest?lat=&lon= - the graded
// nearest-station reading for a coordinate.
func (h *AirQualityHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	lat, lon, fieldErrors := parseCoordinate(r)
	if len(fieldErrors) > 0 {
		response.BadRequest(w, r, "invalid coordinate", fieldErrors)
		return
	}

	result, err := h.airQuality.Nearest(r.Context(), lat, lon)
	if err != nil {
		switch {
		case errors.Is(err, airquality.ErrNoStations):
			response.NotFound(w, r, "no monitoring stations available")
		default:
			response.ServiceUnavailable(w, r, "air quality data is currently unavailable")
		}
		return
	}

	response.JSON(w, r, http.StatusOK, models.NewNearestAir(result))
}

// parseCoordinate extracts and validates the lat/lon query parameters.
func parseCoordinate(r *http.Request) (lat, lon float64, errs []models.FieldError) {
	lat, errs = parseFloatParam(r, "lat", -90, 90, errs)
	lon, errs = parseFloatParam(r, "lon", -180, 180, errs)
	return lat, lon, errs
}

// parseFloatParam parses a required float query parameter within a range.
func parseFloatParam(r *http.Request, name string, min, max float64, errs []models.FieldError) (float64, []models.FieldError) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, append(errs, models.FieldError{Field: name, Message: "is required"})
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, append(errs, models.FieldError{Field: name, Message: "must be a number"})
	}
	if v < min || v > max {
		return 0, append(errs, models.FieldError{
			Field:   name,
			Message: "must be between " + strconv.FormatFloat(min, 'f', -1, 64) + " and " + strconv.FormatFloat(max, 'f', -1, 64),
		})
	}
	return v, errs
}
