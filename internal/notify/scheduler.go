package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Scheduler holds one pending reminder. It is an explicit state object owned
// by the component that controls the dashboard lifecycle, so separate
// dashboards (and tests) never share armed state.
//
// Arming is one-shot: the first Arm call fixes the delay, later calls only
// refresh the message. Trigger publishes the reminder and is what the API
// calls when the client reports the page going away.
type Scheduler struct {
	publisher Publisher
	logger    zerolog.Logger

	mu           sync.Mutex
	armed        bool
	delay        time.Duration
	missionTitle string
}

// NewScheduler creates an unarmed scheduler.
func NewScheduler(publisher Publisher, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		publisher: publisher,
		logger:    logger,
	}
}

// Arm records the delay and message. A second call leaves the timer alone
// and only updates the message.
func (s *Scheduler) Arm(delay time.Duration, missionTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if missionTitle != "" {
		s.missionTitle = missionTitle
	}

	if s.armed {
		s.logger.Debug().Msg("schedule already armed, message updated")
		return
	}

	if delay <= 0 {
		delay = DefaultDelay
	}
	s.delay = delay
	s.armed = true

	s.logger.Debug().
		Dur("delay", delay).
		Str("mission", missionTitle).
		Msg("notification schedule armed")
}

// Update replaces only the message payload of an armed schedule.
func (s *Scheduler) Update(missionTitle string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missionTitle = missionTitle
}

// Armed reports whether a reminder is pending.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.armed
}

// State is a point-in-time copy of the scheduler's pending reminder.
type State struct {
	Armed        bool
	Delay        time.Duration
	MissionTitle string
}

// State returns a copy of the current scheduler state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Armed:        s.armed,
		Delay:        s.delay,
		MissionTitle: s.missionTitle,
	}
}

// Trigger publishes the armed reminder to the delivery surface. The schedule
// stays armed: a client may trigger on every unload and the delivery side
// deduplicates by timing.
func (s *Scheduler) Trigger(ctx context.Context) error {
	s.mu.Lock()
	if !s.armed {
		s.mu.Unlock()
		return ErrNotArmed
	}
	n := &Notification{
		Type:         MessageTypeSchedule,
		Delay:        s.delay.Milliseconds(),
		MissionTitle: s.missionTitle,
	}
	s.mu.Unlock()

	if err := s.publisher.Publish(ctx, n); err != nil {
		return err
	}

	s.logger.Info().
		Int64("delay_ms", n.Delay).
		Str("mission", n.MissionTitle).
		Msg("notification scheduled")
	return nil
}
