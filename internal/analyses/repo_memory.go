package analyses

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Meta // ownerId -> analyses
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Meta),
	}
}

// Create stores metadata for a new analysis.
func (r *MemoryRepo) Create(ctx context.Context, meta Meta) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[meta.OwnerID] = append(r.data[meta.OwnerID], meta)
	return nil
}

// GetByID returns one analysis by ID for an owner.
func (r *MemoryRepo) GetByID(ctx context.Context, ownerID, analysisID string) (Meta, error) {
	if err := ctx.Err(); err != nil {
		return Meta{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	metas := r.data[ownerID]
	for i := range metas {
		if metas[i].ID == analysisID {
			return metas[i], nil
		}
	}
	return Meta{}, ErrNotFound
}

// ListByOwner returns analyses for an owner, newest first, honoring limit/offset.
func (r *MemoryRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Meta, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	owned := r.data[ownerID]
	r.mu.RUnlock()

	if len(owned) == 0 || offset >= len(owned) {
		return []Meta{}, nil
	}

	metas := make([]Meta, len(owned))
	copy(metas, owned)
	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})

	end := len(metas)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	return metas[offset:end], nil
}

// Delete removes an analysis for an owner.
func (r *MemoryRepo) Delete(ctx context.Context, ownerID, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	metas := r.data[ownerID]
	for i := range metas {
		if metas[i].ID == analysisID {
			r.data[ownerID] = append(metas[:i], metas[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Touch refreshes the summary and score after a record update.
func (r *MemoryRepo) Touch(ctx context.Context, ownerID, analysisID string, summary string, score float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	metas := r.data[ownerID]
	for i := range metas {
		if metas[i].ID == analysisID {
			metas[i].Summary = summary
			metas[i].Score = score
			return nil
		}
	}
	return ErrNotFound
}

var _ Repo = (*MemoryRepo)(nil)
