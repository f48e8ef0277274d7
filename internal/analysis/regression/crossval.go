package regression

import (
	"context"
	"fmt"

	"statkit/domain/core"
	"statkit/internal/parallel"
)

type fold struct {
	start, end int
}

// kFolds splits n rows into k contiguous folds; the first n%k folds get one
// extra row.
func kFolds(n, k int) []fold {
	out := make([]fold, k)
	size, extra := n/k, n%k
	start := 0
	for i := range out {
		end := start + size
		if i < extra {
			end++
		}
		out[i] = fold{start, end}
		start = end
	}
	return out
}

// CrossValidate scores a fresh model from factory on each of folds
// contiguous test folds, trained on the remaining rows. Folds run through the
// processor; scores come back in fold order.
func CrossValidate(ctx context.Context, p *parallel.Processor, factory func() Model, X [][]float64, y []float64, folds int) ([]float64, error) {
	n, _, err := checkXY(X, y)
	if err != nil {
		return nil, err
	}
	if folds < 2 || folds > n {
		return nil, core.NewInvalidParameterError("folds", folds, fmt.Sprintf("in [2, %d]", n))
	}

	return parallel.Map(ctx, p, kFolds(n, folds), func(_ context.Context, f fold) (float64, error) {
		trainX := make([][]float64, 0, n-(f.end-f.start))
		trainY := make([]float64, 0, n-(f.end-f.start))
		trainX = append(append(trainX, X[:f.start]...), X[f.end:]...)
		trainY = append(append(trainY, y[:f.start]...), y[f.end:]...)

		model := factory()
		if err := model.Fit(trainX, trainY); err != nil {
			return 0, err
		}
		return model.Score(X[f.start:f.end], y[f.start:f.end])
	})
}
