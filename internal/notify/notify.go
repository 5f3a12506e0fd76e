// Package notify implements the mission reminder pipeline: an explicit
// scheduler state object armed by the dashboard, and a Pub/Sub publisher
// the delivery worker consumes from.
package notify

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// MessageTypeSchedule is the wire type of a reminder scheduling message.
const MessageTypeSchedule = "SCHEDULE_NOTIFICATION"

// DefaultDelay is how long after the trigger the reminder should fire.
const DefaultDelay = 10 * time.Second

// ErrNotArmed indicates Trigger was called before Arm.
var ErrNotArmed = errors.New("notification schedule not armed")

// Notification is the message posted to the delivery surface.
type Notification struct {
	Type         string `json:"type"`
	Delay        int64  `json:"delay"` // milliseconds
	MissionTitle string `json:"missionTitle,omitempty"`
}

// Publisher delivers notifications to the background surface.
type Publisher interface {
	Publish(ctx context.Context, n *Notification) error
}

// LogPublisher logs notifications instead of delivering them, for
// deployments without a message broker.
type LogPublisher struct {
	Logger zerolog.Logger
}

// Publish implements Publisher.
func (p LogPublisher) Publish(_ context.Context, n *Notification) error {
	p.Logger.Info().
		Int64("delay_ms", n.Delay).
		Str("mission", n.MissionTitle).
		Msg("notification (log only)")
	return nil
}
