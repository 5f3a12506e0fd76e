package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/dustwatch/dustwatch/internal/notify"
)

// DeliverySink receives a reminder once its delay has elapsed. Production
// wires a push sender here; the default sink only logs, which is enough for
// the in-app reminder path.
type DeliverySink interface {
	Deliver(ctx context.Context, missionTitle string) error
}

// LogSink logs delivered reminders.
type LogSink struct {
	Logger zerolog.Logger
}

// Deliver implements DeliverySink.
func (s LogSink) Deliver(_ context.Context, missionTitle string) error {
	s.Logger.Info().Str("mission", missionTitle).Msg("mission reminder delivered")
	return nil
}

// MaxReminderDelay caps the scheduled delay. A message asking for more is
// clamped rather than held for hours on a worker.
const MaxReminderDelay = 10 * time.Minute

// ReminderJob waits out a reminder's delay and hands it to the sink.
type ReminderJob struct {
	sink   DeliverySink
	logger zerolog.Logger
}

// NewReminderJob creates a reminder delivery job.
func NewReminderJob(sink DeliverySink, logger zerolog.Logger) *ReminderJob {
	return &ReminderJob{sink: sink, logger: logger}
}

// Handle processes one scheduling message: sleep for the requested delay,
// then deliver. Cancellation during the wait drops the reminder.
func (j *ReminderJob) Handle(ctx context.Context, n *notify.Notification) error {
	if n.Type != notify.MessageTypeSchedule {
		return fmt.Errorf("unexpected message type %q", n.Type)
	}

	delay := time.Duration(n.Delay) * time.Millisecond
	if delay <= 0 {
		delay = notify.DefaultDelay
	}
	if delay > MaxReminderDelay {
		j.logger.Warn().
			Int64("delay_ms", n.Delay).
			Dur("clamped_to", MaxReminderDelay).
			Msg("reminder delay clamped")
		delay = MaxReminderDelay
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}

	if err := j.sink.Deliver(ctx, n.MissionTitle); err != nil {
		return fmt.Errorf("deliver reminder: %w", err)
	}
	return nil
}
