package profile

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Change is delivered to subscribers whenever a profile is written.
type Change struct {
	UserID  string
	Profile UserProfile
}

// ServiceConfig holds configuration for the profile service.
type ServiceConfig struct {
	// Repository is the profile store (required).
	Repository Repository

	// Logger for service operations.
	Logger zerolog.Logger

	// PollInterval drives the change-poll fallback started by Watch for
	// stores written outside this process (default: 30s). Direct updates
	// through Update notify subscribers immediately regardless.
	PollInterval time.Duration
}

// Service validates and persists profiles and fans out change events so the
// daily mission selection can be invalidated the moment a profile changes.
type Service struct {
	repo         Repository
	logger       zerolog.Logger
	pollInterval time.Duration

	mu   sync.Mutex
	subs []chan Change
}

// NewService creates a new profile service.
func NewService(cfg ServiceConfig) *Service {
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 30 * time.Second
	}

	return &Service{
		repo:         cfg.Repository,
		logger:       cfg.Logger,
		pollInterval: pollInterval,
	}
}

// Get retrieves a user's profile. A user without a stored profile gets the
// zero profile rather than an error; the selector treats it as "no matches".
func (s *Service) Get(ctx context.Context, userID string) (*UserProfile, error) {
	rec, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return &UserProfile{}, nil
		}
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p := rec.Profile
	return &p, nil
}

// Update validates and stores a profile, then notifies subscribers.
func (s *Service) Update(ctx context.Context, userID string, p *UserProfile) error {
	if err := p.Validate(); err != nil {
		return err
	}

	now := time.Now()
	rec := &Record{
		UserID:    userID,
		Profile:   *p,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if existing, err := s.repo.Get(ctx, userID); err == nil {
		rec.CreatedAt = existing.CreatedAt
	}

	if err := s.repo.Upsert(ctx, rec); err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("fingerprint", p.Fingerprint()).
		Msg("profile updated")

	s.notify(Change{UserID: userID, Profile: *p})
	return nil
}

// Subscribe registers a change channel. The returned cancel function removes
// the subscription. Slow subscribers drop events instead of blocking writes.
func (s *Service) Subscribe() (<-chan Change, func()) {
	ch := make(chan Change, 8)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub == ch {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				close(ch)
				return
			}
		}
	}
	return ch, cancel
}

// Watch polls a single user's stored profile and emits a change event when
// an external writer modified it. It blocks until the context is cancelled.
// Only needed when another process shares the store; in-process updates are
// already pushed by Update.
func (s *Service) Watch(ctx context.Context, userID string) {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	last := ""
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p, err := s.Get(ctx, userID)
			if err != nil {
				s.logger.Warn().Err(err).Str("user_id", userID).Msg("profile poll failed")
				continue
			}
			fp := p.Fingerprint()
			if last != "" && fp != last {
				s.notify(Change{UserID: userID, Profile: *p})
			}
			last = fp
		}
	}
}

func (s *Service) notify(c Change) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.subs {
		select {
		case sub <- c:
		default:
			s.logger.Warn().Str("user_id", c.UserID).Msg("profile change dropped, slow subscriber")
		}
	}
}
