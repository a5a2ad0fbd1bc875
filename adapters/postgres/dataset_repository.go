package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"goviz/domain/core"
	"goviz/domain/dataset"
	"goviz/ports"

	"github.com/jmoiron/sqlx"
)

const datasetColumns = `id, original_filename, file_path, file_size, format, mime_type,
	record_count, field_count, missing_rate, data_kind, status,
	COALESCE(error_message, '') AS error_message, metadata, created_at, updated_at`

// datasetRow is the storage form of a dataset; metadata is kept as JSONB.
type datasetRow struct {
	dataset.Dataset
	Metadata []byte `db:"metadata"`
}

func (r datasetRow) toDataset() (*dataset.Dataset, error) {
	ds := r.Dataset
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &ds.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &ds, nil
}

// datasetRepository implements the DatasetRepository interface
type datasetRepository struct {
	db *sqlx.DB
}

// NewDatasetRepository creates a new dataset repository
func NewDatasetRepository(db *sqlx.DB) ports.DatasetRepository {
	return &datasetRepository{db: db}
}

// Create inserts a new dataset into the database
func (r *datasetRepository) Create(ctx context.Context, ds *dataset.Dataset) error {
	metadataJSON, err := json.Marshal(ds.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `INSERT INTO datasets (
		id, original_filename, file_path, file_size, format, mime_type,
		record_count, field_count, missing_rate, data_kind, status,
		error_message, metadata, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
	)`

	_, err = r.db.ExecContext(ctx, query,
		ds.ID, ds.OriginalFilename, ds.FilePath, ds.FileSize, ds.Format, ds.MimeType,
		ds.RecordCount, ds.FieldCount, ds.MissingRate, ds.DataKind, ds.Status,
		ds.ErrorMessage, metadataJSON, ds.CreatedAt, ds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create dataset: %w", err)
	}
	return nil
}

// GetByID retrieves a dataset by its ID
func (r *datasetRepository) GetByID(ctx context.Context, id core.ID) (*dataset.Dataset, error) {
	var row datasetRow
	err := r.db.GetContext(ctx, &row, `SELECT `+datasetColumns+` FROM datasets WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.NewNotFoundError("dataset", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}
	return row.toDataset()
}

// List retrieves datasets newest first with pagination
func (r *datasetRepository) List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error) {
	var rows []datasetRow
	query := `SELECT ` + datasetColumns + ` FROM datasets
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	if err := r.db.SelectContext(ctx, &rows, query, limit, offset); err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}

	datasets := make([]*dataset.Dataset, 0, len(rows))
	for _, row := range rows {
		ds, err := row.toDataset()
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	return datasets, nil
}

// Update modifies an existing dataset
func (r *datasetRepository) Update(ctx context.Context, ds *dataset.Dataset) error {
	metadataJSON, err := json.Marshal(ds.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}

	query := `UPDATE datasets SET
		original_filename = $2, file_path = $3, file_size = $4, format = $5, mime_type = $6,
		record_count = $7, field_count = $8, missing_rate = $9, data_kind = $10,
		status = $11, error_message = $12, metadata = $13, updated_at = $14
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		ds.ID, ds.OriginalFilename, ds.FilePath, ds.FileSize, ds.Format, ds.MimeType,
		ds.RecordCount, ds.FieldCount, ds.MissingRate, ds.DataKind,
		ds.Status, ds.ErrorMessage, metadataJSON, ds.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update dataset: %w", err)
	}
	return expectOneRow(result, ds.ID)
}

// Delete removes a dataset from the database
func (r *datasetRepository) Delete(ctx context.Context, id core.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return expectOneRow(result, id)
}

func expectOneRow(result sql.Result, id core.ID) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return core.NewNotFoundError("dataset", id.String())
	}
	return nil
}
