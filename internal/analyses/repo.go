package analyses

import "context"

// Repo defines persistence operations for analysis metadata.
// Full records live in the record store; the repo keeps the listing index.
type Repo interface {
	Create(ctx context.Context, meta Meta) error
	GetByID(ctx context.Context, ownerID, analysisID string) (Meta, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Meta, error)
	Delete(ctx context.Context, ownerID, analysisID string) error
	Touch(ctx context.Context, ownerID, analysisID string, summary string, score float64) error
}
