// Package handler provides HTTP handlers for the DustWatch API.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dustwatch/dustwatch/internal/airquality"
	"github.com/dustwatch/dustwatch/internal/api/models"
	"github.com/dustwatch/dustwatch/internal/api/response"
)

// Pinger checks connectivity to a backing store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	version    string
	buildTime  string
	airQuality *airquality.Service
	db         Pinger
}

// NewOpsHandler creates a new OpsHandler. The database pinger may be nil
// when the service runs without persistence.
func NewOpsHandler(version, buildTime string, aq *airquality.Service, db Pinger) *OpsHandler {
	return &OpsHandler{
		version:    version,
		buildTime:  buildTime,
		airQuality: aq,
		db:         db,
	}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	health := models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.version,
			"buildTime": h.buildTime,
		},
	}
	response.JSON(w, r, http.StatusOK, health)
}

// ReadinessCheck handles GET /v1/ops/ready - readiness check. Ready means a
// snapshot is loadable and, when configured, the database answers a ping.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	status := models.HealthStatusOK
	var subsystems []models.SubsystemStatus

	snapshotStatus := models.HealthStatusOK
	if _, err := h.airQuality.GetSnapshot(r.Context()); err != nil {
		snapshotStatus = models.HealthStatusFail
		status = models.HealthStatusFail
		detail := err.Error()
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "air-quality-snapshot",
			Status: snapshotStatus,
			Detail: &detail,
		})
	} else {
		subsystems = append(subsystems, models.SubsystemStatus{
			Name:   "air-quality-snapshot",
			Status: snapshotStatus,
		})
	}

	if h.db != nil {
		dbStatus := models.HealthStatusOK
		if err := h.db.Ping(r.Context()); err != nil {
			dbStatus = models.HealthStatusFail
			status = models.HealthStatusFail
			detail := err.Error()
			subsystems = append(subsystems, models.SubsystemStatus{
				Name:   "cloud-sql",
				Status: dbStatus,
				Detail: &detail,
			})
		} else {
			subsystems = append(subsystems, models.SubsystemStatus{
				Name:   "cloud-sql",
				Status: dbStatus,
			})
		}
	}

	code := http.StatusOK
	if status != models.HealthStatusOK {
		code = http.StatusServiceUnavailable
	}

	response.JSON(w, r, code, models.Readiness{
		Status:     status,
		Time:       models.Timestamp(time.Now()),
		Subsystems: subsystems,
	})
}
