package dataset

import (
	"context"
	"sort"
	"sync"

	"goviz/domain/core"
	"goviz/domain/dataset"
	"goviz/ports"
)

// MemoryRepository is a DatasetRepository that keeps the registry in
// process. It is used when no database is configured.
type MemoryRepository struct {
	mu       sync.RWMutex
	datasets map[core.ID]dataset.Dataset
}

var _ ports.DatasetRepository = (*MemoryRepository)(nil)

// NewMemoryRepository creates an empty in-memory registry
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{datasets: make(map[core.ID]dataset.Dataset)}
}

func (r *MemoryRepository) Create(ctx context.Context, ds *dataset.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.datasets[ds.ID] = *ds
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id core.ID) (*dataset.Dataset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[id]
	if !ok {
		return nil, core.NewNotFoundError("dataset", id.String())
	}
	return &ds, nil
}

func (r *MemoryRepository) List(ctx context.Context, limit, offset int) ([]*dataset.Dataset, error) {
	r.mu.RLock()
	all := make([]*dataset.Dataset, 0, len(r.datasets))
	for _, ds := range r.datasets {
		ds := ds
		all = append(all, &ds)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if offset >= len(all) {
		return []*dataset.Dataset{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *MemoryRepository) Update(ctx context.Context, ds *dataset.Dataset) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datasets[ds.ID]; !ok {
		return core.NewNotFoundError("dataset", ds.ID.String())
	}
	r.datasets[ds.ID] = *ds
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.datasets[id]; !ok {
		return core.NewNotFoundError("dataset", id.String())
	}
	delete(r.datasets, id)
	return nil
}
