package migration

import (
	"context"

	"goviz/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.0.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order. Every step is
// idempotent, so Run is safe to call on each start.
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createDatasetsTable(ctx, db); err != nil {
		return errors.DatabaseError("failed to create datasets table", err)
	}

	if err := r.addDatasetsColumns(ctx, db); err != nil {
		return errors.DatabaseError("failed to add datasets columns", err)
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.DatabaseError("failed to create indexes", err)
	}

	return nil
}

func (r *MigrationRunner) createDatasetsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS datasets (
			id UUID PRIMARY KEY,
			original_filename TEXT NOT NULL,
			file_path TEXT NOT NULL,
			file_size BIGINT NOT NULL DEFAULT 0,
			format VARCHAR(16) NOT NULL,
			mime_type VARCHAR(255) NOT NULL DEFAULT '',
			record_count INTEGER NOT NULL DEFAULT 0,
			field_count INTEGER NOT NULL DEFAULT 0,
			missing_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			status VARCHAR(20) NOT NULL DEFAULT 'processing',
			error_message TEXT NOT NULL DEFAULT '',
			metadata JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)
	`)
	return err
}

// addDatasetsColumns brings tables created by earlier versions up to date.
func (r *MigrationRunner) addDatasetsColumns(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		ALTER TABLE datasets
		ADD COLUMN IF NOT EXISTS data_kind VARCHAR(20) NOT NULL DEFAULT 'other'
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_datasets_created_at ON datasets(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_datasets_status ON datasets(status)`,
	}

	for _, index := range indexes {
		if _, err := db.ExecContext(ctx, index); err != nil {
			return err
		}
	}
	return nil
}
