package ports

import (
	"context"

	"goviz/domain/core"
	"goviz/domain/dataset"
)

// DatasetRepository defines the interface for dataset registry operations.
// Lookups of unknown IDs return an error matching core.ErrNotFound.
type DatasetRepository interface {
	Create(ctx context.Context, ds *dataset.Dataset) error
	GetByID(ctx context.Context, id core.ID) (*dataset.Dataset, error)
	// List returns datasets newest first.
	List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error)
	Update(ctx context.Context, ds *dataset.Dataset) error
	Delete(ctx context.Context, id core.ID) error
}
