package parallel

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"statkit/internal"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Processor bounds how many tasks run at once. Workers <= 0 means one per
// available CPU.
type Processor struct {
	sem     *semaphore.Weighted
	workers int64
	logger  *internal.Logger
}

// NewProcessor creates a processor with the given worker count
func NewProcessor(workers int) *Processor {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Processor{
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: int64(workers),
		logger:  internal.DefaultLogger.Named("parallel"),
	}
}

// Workers returns the concurrency bound
func (p *Processor) Workers() int {
	return int(p.workers)
}

// Map applies fn to every item with at most p.Workers() calls in flight and
// returns the outputs in input order. The first error cancels the remaining
// work and is returned.
func Map[T, R any](ctx context.Context, p *Processor, items []T, fn func(ctx context.Context, item T) (R, error)) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range items {
		if err := p.sem.Acquire(gctx, 1); err != nil {
			// gctx is done: either the caller cancelled or a task failed
			break
		}
		g.Go(func() error {
			defer p.sem.Release(1)
			out, err := fn(gctx, item)
			if err != nil {
				return fmt.Errorf("task %d: %w", i, err)
			}
			results[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p.logger.Trace("%d tasks completed in %v (workers: %d)", len(items), time.Since(start), p.workers)
	return results, nil
}
