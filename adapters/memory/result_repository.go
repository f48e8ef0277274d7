// Package memory holds in-process implementations of the ports, used when no
// database is configured and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/ports"
)

// ResultRepository keeps results in a map guarded by a RWMutex
type ResultRepository struct {
	mu      sync.RWMutex
	results map[core.ID]*stats.Result
}

// NewResultRepository creates an empty repository
func NewResultRepository() *ResultRepository {
	return &ResultRepository{results: make(map[core.ID]*stats.Result)}
}

var _ ports.ResultRepository = (*ResultRepository)(nil)

// Save stores result. Results are immutable, so the pointer is shared.
func (r *ResultRepository) Save(ctx context.Context, result *stats.Result) error {
	if result == nil {
		return core.ErrNoResultAvailable
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results[result.ID()] = result
	return nil
}

func (r *ResultRepository) Get(ctx context.Context, id core.ID) (*stats.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	res, ok := r.results[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
	}
	return res, nil
}

func (r *ResultRepository) List(ctx context.Context, filter ports.ResultFilter) ([]*stats.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]*stats.Result, 0, len(r.results))
	for _, res := range r.results {
		if filter.Kind == "" || res.Kind() == filter.Kind {
			out = append(out, res)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt().Equal(out[j].CreatedAt()) {
			return out[i].CreatedAt().After(out[j].CreatedAt())
		}
		return out[i].ID() > out[j].ID()
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *ResultRepository) Delete(ctx context.Context, id core.ID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.results[id]; !ok {
		return fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
	}
	delete(r.results, id)
	return nil
}
