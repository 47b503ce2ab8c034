package verifications

import (
	"context"
	"database/sql"

	// registers the "postgres" driver
	_ "github.com/lib/pq"

	apperr "github.com/KirkDiggler/clash-profile-bot/internal/errors"
)

const createVerificationsTable = `
CREATE TABLE IF NOT EXISTS verified_owners (
	tag        TEXT NOT NULL,
	user_id    TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (tag, user_id)
)`

type postgresRepo struct {
	db *sql.DB
}

// PostgresRepoConfig holds configuration for the PostgreSQL repository
type PostgresRepoConfig struct {
	DB *sql.DB
}

// NewPostgresRepository creates a PostgreSQL-backed repository and ensures its table exists
func NewPostgresRepository(ctx context.Context, cfg *PostgresRepoConfig) (Repository, error) {
	if cfg == nil || cfg.DB == nil {
		return nil, apperr.InvalidArgument("database handle is required")
	}

	if _, err := cfg.DB.ExecContext(ctx, createVerificationsTable); err != nil {
		return nil, apperr.Wrap(err, "failed to migrate verified_owners")
	}

	return &postgresRepo{db: cfg.DB}, nil
}

func (r *postgresRepo) IsOwner(ctx context.Context, tag, userID string) (bool, error) {
	if err := validate(tag, userID); err != nil {
		return false, err
	}

	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM verified_owners WHERE tag = $1 AND user_id = $2)`,
		tag, userID,
	).Scan(&exists)
	if err != nil {
		return false, apperr.Wrap(err, "failed to check verification").
			WithMeta("tag", tag)
	}

	return exists, nil
}

func (r *postgresRepo) Add(ctx context.Context, tag, userID string) error {
	if err := validate(tag, userID); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO verified_owners (tag, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
		tag, userID,
	)
	if err != nil {
		return apperr.Wrap(err, "failed to add verification")
	}

	return nil
}

func (r *postgresRepo) Remove(ctx context.Context, tag, userID string) (bool, error) {
	if err := validate(tag, userID); err != nil {
		return false, err
	}

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM verified_owners WHERE tag = $1 AND user_id = $2`, tag, userID)
	if err != nil {
		return false, apperr.Wrap(err, "failed to remove verification")
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Wrap(err, "failed to read delete result")
	}

	return affected > 0, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, apperr.InvalidArgument("user ID is required")
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT tag FROM verified_owners WHERE user_id = $1 ORDER BY tag`, userID)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list verifications")
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, apperr.Wrap(err, "failed to scan verification")
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}
