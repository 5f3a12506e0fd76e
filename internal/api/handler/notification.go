package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dustwatch/dustwatch/internal/api/response"
	"github.com/dustwatch/dustwatch/internal/notify"
)

// NotificationHandler handles the mission reminder scheduling endpoint.
type NotificationHandler struct {
	scheduler *notify.Scheduler
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(scheduler *notify.Scheduler) *NotificationHandler {
	return &NotificationHandler{scheduler: scheduler}
}

// ScheduleRequest is the body of a reminder scheduling call. Both fields are
// optional: a zero delay uses the default, an empty title keeps whatever is
// already armed.
type ScheduleRequest struct {
	DelayMs      int64  `json:"delayMs"`
	MissionTitle string `json:"missionTitle"`
}

// ScheduleResponse reports the scheduler state after the call.
type ScheduleResponse struct {
	Armed        bool   `json:"armed"`
	DelayMs      int64  `json:"delayMs"`
	MissionTitle string `json:"missionTitle,omitempty"`
}

// Schedule handles POST /v1/notifications/schedule - arm the mission
// reminder. Arming twice only refreshes the message; the pending delay is
// not reset.
func (h *NotificationHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, r, "invalid JSON body", nil)
			return
		}
	}

	h.scheduler.Arm(time.Duration(req.DelayMs)*time.Millisecond, req.MissionTitle)

	state := h.scheduler.State()
	response.JSON(w, r, http.StatusAccepted, ScheduleResponse{
		Armed:        state.Armed,
		DelayMs:      state.Delay.Milliseconds(),
		MissionTitle: state.MissionTitle,
	})
}

// Trigger handles POST /v1/notifications/trigger - publish the armed
// reminder. Clients call this when the app goes to background; the schedule
// stays armed so repeated triggers are fine.
func (h *NotificationHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if err := h.scheduler.Trigger(r.Context()); err != nil {
		if errors.Is(err, notify.ErrNotArmed) {
			response.Conflict(w, r, "no reminder is armed")
			return
		}
		response.ServiceUnavailable(w, r, "reminder delivery unavailable")
		return
	}

	state := h.scheduler.State()
	response.JSON(w, r, http.StatusAccepted, ScheduleResponse{
		Armed:        state.Armed,
		DelayMs:      state.Delay.Milliseconds(),
		MissionTitle: state.MissionTitle,
	})
}
