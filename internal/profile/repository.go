package profile

import (
	"context"
	"sync"
)

// Repository defines the interface for profile persistence.
type Repository interface {
	// Get retrieves a profile record by user ID.
	Get(ctx context.Context, userID string) (*Record, error)

	// Upsert creates or replaces a profile record.
	Upsert(ctx context.Context, rec *Record) error
}

// InMemoryRepository is an in-memory implementation of Repository.
// This is intended for MVP/testing. Production should use a database-backed implementation.
type InMemoryRepository struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewInMemoryRepository creates a new in-memory profile repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]*Record),
	}
}

// Get retrieves a profile record by user ID.
func (r *InMemoryRepository) Get(_ context.Context, userID string) (*Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}

	recCopy := *rec
	return &recCopy, nil
}

// Upsert creates or replaces a profile record.
func (r *InMemoryRepository) Upsert(_ context.Context, rec *Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recCopy := *rec
	r.records[rec.UserID] = &recCopy
	return nil
}

var _ Repository = (*InMemoryRepository)(nil)
