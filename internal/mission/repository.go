package mission

import (
	"context"
	"errors"
	"sync"
)

// Repository errors.
var (
	ErrSelectionNotFound = errors.New("daily selection not found")
)

// Repository persists cached daily mission selections across reloads.
type Repository interface {
	// GetDaily retrieves the cached selection for a user and date.
	GetDaily(ctx context.Context, userID, date string) (*DailySelection, error)

	// SaveDaily stores a selection, replacing any previous one for the
	// same user and date.
	SaveDaily(ctx context.Context, sel *DailySelection) error

	// DeleteDaily removes a user's cached selections.
	DeleteDaily(ctx context.Context, userID string) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for MVP/testing. Production should use a database-backed implementation.
type InMemoryRepository struct {
	mu         sync.RWMutex
	selections map[string]*DailySelection
}

// NewInMemoryRepository creates a new in-memory daily selection repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		selections: make(map[string]*DailySelection),
	}
}

func selectionKey(userID, date string) string {
	return userID + "|" + date
}

// GetDaily retrieves the cached selection for a user and date.
func (r *InMemoryRepository) GetDaily(_ context.Context, userID, date string) (*DailySelection, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sel, ok := r.selections[selectionKey(userID, date)]
	if !ok {
		return nil, ErrSelectionNotFound
	}

	selCopy := *sel
	selCopy.Missions = append([]Mission(nil), sel.Missions...)
	return &selCopy, nil
}

// SaveDaily stores a selection.
func (r *InMemoryRepository) SaveDaily(_ context.Context, sel *DailySelection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	selCopy := *sel
	selCopy.Missions = append([]Mission(nil), sel.Missions...)
	r.selections[selectionKey(sel.UserID, sel.Date)] = &selCopy
	return nil
}

// DeleteDaily removes a user's cached selections.
func (r *InMemoryRepository) DeleteDaily(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, sel := range r.selections {
		if sel.UserID == userID {
			delete(r.selections, key)
		}
	}
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
