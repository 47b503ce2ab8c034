package profiles

import (
	"context"
	"database/sql"
	"errors"

	// registers the "postgres" driver
	_ "github.com/lib/pq"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

const createDefaultsTable = `
CREATE TABLE IF NOT EXISTS default_profiles (
	user_id    TEXT PRIMARY KEY,
	tag        TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

type postgresRepo struct {
	db           *sql.DB
	timeProvider TimeProvider
}

// PostgresRepoConfig holds configuration for the PostgreSQL repository
type PostgresRepoConfig struct {
	DB           *sql.DB
	TimeProvider TimeProvider
}

// NewPostgresRepository creates a PostgreSQL-backed repository and ensures its table exists
func NewPostgresRepository(ctx context.Context, cfg *PostgresRepoConfig) (Repository, error) {
	if cfg == nil || cfg.DB == nil {
		return nil, apperr.InvalidArgument("database handle is required")
	}

	if _, err := cfg.DB.ExecContext(ctx, createDefaultsTable); err != nil {
		return nil, apperr.Wrap(err, "failed to migrate default_profiles")
	}

	timeProvider := cfg.TimeProvider
	if timeProvider == nil {
		timeProvider = RealTimeProvider{}
	}

	return &postgresRepo{
		db:           cfg.DB,
		timeProvider: timeProvider,
	}, nil
}

func (r *postgresRepo) Get(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", apperr.InvalidArgument("user ID is required")
	}

	var tag string
	err := r.db.QueryRowContext(ctx,
		`SELECT tag FROM default_profiles WHERE user_id = $1`, userID,
	).Scan(&tag)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.NotFoundf("no default profile for user '%s'", userID).
				WithMeta("user_id", userID)
		}
		return "", apperr.Wrap(err, "failed to get default profile")
	}

	return tag, nil
}

func (r *postgresRepo) Set(ctx context.Context, userID, tag string) error {
	if userID == "" {
		return apperr.InvalidArgument("user ID is required")
	}
	if tag == "" {
		return apperr.InvalidArgument("tag is required")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO default_profiles (user_id, tag, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE SET tag = EXCLUDED.tag, updated_at = EXCLUDED.updated_at`,
		userID, tag, r.timeProvider.Now(),
	)
	if err != nil {
		return apperr.Wrap(err, "failed to save default profile")
	}

	return nil
}

func (r *postgresRepo) Delete(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, apperr.InvalidArgument("user ID is required")
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM default_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return false, apperr.Wrap(err, "failed to delete default profile")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Wrap(err, "failed to read delete result")
	}

	return affected > 0, nil
}
