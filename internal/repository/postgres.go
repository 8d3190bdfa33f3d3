package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vcscsvcscs/medsafety/pkg/model"
	"go.uber.org/zap"
)

// PostgresSnapshotRepository stores snapshot documents in the health_snapshots table
type PostgresSnapshotRepository struct {
	db     *pgxpool.Pool
	codec  *Codec
	logger *zap.Logger
}

// NewPostgresSnapshotRepository creates a new PostgresSnapshotRepository
func NewPostgresSnapshotRepository(db *pgxpool.Pool, codec *Codec, logger *zap.Logger) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{
		db:     db,
		codec:  codec,
		logger: logger,
	}
}

// Migrate creates the snapshot table if it does not exist
func (r *PostgresSnapshotRepository) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS health_snapshots (
			id TEXT PRIMARY KEY,
			document TEXT NOT NULL,
			last_updated TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`

	if _, err := r.db.Exec(ctx, query); err != nil {
		r.logger.Error("failed to migrate health_snapshots", zap.Error(err))
		return fmt.Errorf("failed to migrate health_snapshots: %w", err)
	}
	return nil
}

// Load retrieves the snapshot stored under key
func (r *PostgresSnapshotRepository) Load(ctx context.Context, key string) (*model.HealthDataSnapshot, error) {
	query := `SELECT document FROM health_snapshots WHERE id = $1`

	var document string
	err := r.db.QueryRow(ctx, query, key).Scan(&document)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, key)
	}
	if err != nil {
		r.logger.Error("failed to load snapshot", zap.Error(err), zap.String("snapshot_key", key))
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	return r.codec.Decode([]byte(document))
}

// Save replaces the whole document stored under key
func (r *PostgresSnapshotRepository) Save(ctx context.Context, key string, snapshot *model.HealthDataSnapshot) error {
	document, err := r.codec.Encode(snapshot)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO health_snapshots (id, document, last_updated, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		ON CONFLICT (id) DO UPDATE
		SET document = EXCLUDED.document,
			last_updated = EXCLUDED.last_updated,
			updated_at = NOW()
	`

	_, err = r.db.Exec(ctx, query, key, string(document), snapshot.LastUpdated)
	if err != nil {
		r.logger.Error("failed to save snapshot",
			zap.Error(err),
			zap.String("snapshot_key", key),
		)
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	return nil
}

// Delete removes the document stored under key
func (r *PostgresSnapshotRepository) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM health_snapshots WHERE id = $1`

	if _, err := r.db.Exec(ctx, query, key); err != nil {
		r.logger.Error("failed to delete snapshot", zap.Error(err), zap.String("snapshot_key", key))
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}
