package repository

import "context"

// Store is the generic persistence contract shared by entity
// repositories. T is the entity row type and P the patch accepted
// by Update for partial-field mutation. Each entity implements the
// interface exactly once against its own table; handlers depend on
// this contract (plus per-entity lookup extensions) so tests can
// substitute in-memory implementations.
type Store[T any, P any] interface {
	// Create inserts the entity and returns the stored row with
	// generated fields (id, creation timestamp) populated.
	Create(ctx context.Context, e T) (T, error)
	// GetByID returns the row or ErrNotFound.
	GetByID(ctx context.Context, id uint64) (T, error)
	// Update applies the non-nil fields of patch and returns the
	// resulting row, or ErrNotFound when no such entity exists.
	Update(ctx context.Context, id uint64, patch P) (T, error)
	// Delete removes the row, reporting whether anything was deleted.
	Delete(ctx context.Context, id uint64) (bool, error)
}
