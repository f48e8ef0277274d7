package variance

import (
	"context"

	"statkit/domain/stats"
	"statkit/internal/parallel"
)

type pair struct{ i, j int }

// pairs lists every (i, j) with i < j, row-major
func pairs(k int) []pair {
	out := make([]pair, 0, k*(k-1)/2)
	for i := 0; i < k; i++ {
		for j := i + 1; j < k; j++ {
			out = append(out, pair{i, j})
		}
	}
	return out
}

// compare evaluates fn over all group pairs concurrently. The output follows
// pairs order whatever the completion order, with group labels filled in.
func (a *Analyzer) compare(ctx context.Context, labels []string, fn func(i, j int) (stats.Comparison, error)) ([]stats.Comparison, error) {
	return parallel.Map(ctx, a.processor, pairs(len(labels)), func(_ context.Context, p pair) (stats.Comparison, error) {
		cmp, err := fn(p.i, p.j)
		if err != nil {
			return stats.Comparison{}, err
		}
		cmp.Group1 = labels[p.i]
		cmp.Group2 = labels[p.j]
		return cmp, nil
	})
}
