package mission

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository. Missions
// are stored as a JSONB payload: the selection is an opaque cached value,
// not a relational entity.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL daily selection repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// GetDaily retrieves the cached selection for a user and date.
func (r *PostgresRepository) GetDaily(ctx context.Context, userID, date string) (*DailySelection, error) {
	query := `
		SELECT user_id, selection_date, profile_fingerprint, missions
		FROM daily_missions
		WHERE user_id = $1 AND selection_date = $2
	`

	var (
		id          string
		selDate     string
		fingerprint string
		payload     []byte
	)

	err := r.pool.QueryRow(ctx, query, userID, date).Scan(&id, &selDate, &fingerprint, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSelectionNotFound
		}
		return nil, err
	}

	var missions []Mission
	if err := json.Unmarshal(payload, &missions); err != nil {
		return nil, fmt.Errorf("decoding cached missions: %w", err)
	}

	return &DailySelection{
		UserID:      id,
		Date:        selDate,
		Fingerprint: fingerprint,
		Missions:    missions,
	}, nil
}

// SaveDaily stores a selection.
func (r *PostgresRepository) SaveDaily(ctx context.Context, sel *DailySelection) error {
	payload, err := json.Marshal(sel.Missions)
	if err != nil {
		return fmt.Errorf("encoding missions: %w", err)
	}

	query := `
		INSERT INTO daily_missions (user_id, selection_date, profile_fingerprint, missions)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, selection_date) DO UPDATE SET
			profile_fingerprint = EXCLUDED.profile_fingerprint,
			missions = EXCLUDED.missions
	`

	_, err = r.pool.Exec(ctx, query, sel.UserID, sel.Date, sel.Fingerprint, payload)
	return err
}

// DeleteDaily removes a user's cached selections.
func (r *PostgresRepository) DeleteDaily(ctx context.Context, userID string) error {
	query := `DELETE FROM daily_missions WHERE user_id = $1`
	_, err := r.pool.Exec(ctx, query, userID)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
