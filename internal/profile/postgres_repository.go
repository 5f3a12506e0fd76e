package profile

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository is a PostgreSQL implementation of Repository.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL profile repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Get retrieves a profile record by user ID.
func (r *PostgresRepository) Get(ctx context.Context, userID string) (*Record, error) {
	query := `
		SELECT user_id, age_group, child, pet, health, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	var (
		id        string
		ageGroup  string
		child     string
		pet       string
		health    string
		createdAt time.Time
		updatedAt time.Time
	)

	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&id, &ageGroup, &child, &pet, &health, &createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	return &Record{
		UserID: id,
		Profile: UserProfile{
			AgeGroup: ageGroup,
			Child:    child,
			Pet:      pet,
			Health:   health,
		},
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Upsert creates or replaces a profile record.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *Record) error {
	query := `
		INSERT INTO user_profiles (user_id, age_group, child, pet, health, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			age_group = EXCLUDED.age_group,
			child = EXCLUDED.child,
			pet = EXCLUDED.pet,
			health = EXCLUDED.health,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.pool.Exec(ctx, query,
		rec.UserID,
		rec.Profile.AgeGroup,
		rec.Profile.Child,
		rec.Profile.Pet,
		rec.Profile.Health,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	return err
}

// Ensure PostgresRepository implements Repository interface.
var _ Repository = (*PostgresRepository)(nil)
