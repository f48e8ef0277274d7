package ports

import (
	"context"

	"statkit/domain/core"
	"statkit/domain/stats"
)

// ResultFilter narrows a result listing. Zero values mean no restriction.
type ResultFilter struct {
	Kind  stats.Kind
	Limit int
}

// ResultRepository persists analysis results
type ResultRepository interface {
	// Save stores a result under its own ID, replacing any previous copy
	Save(ctx context.Context, result *stats.Result) error

	// Get returns the result with the given ID or core.ErrResultNotFound
	Get(ctx context.Context, id core.ID) (*stats.Result, error)

	// List returns results newest first
	List(ctx context.Context, filter ResultFilter) ([]*stats.Result, error)

	// Delete removes a result; deleting a missing result is core.ErrResultNotFound
	Delete(ctx context.Context, id core.ID) error
}
