package regression

import (
	"fmt"
	"math"

	"statkit/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MSE is the mean squared error
func MSE(y, pred []float64) float64 {
	diff := make([]float64, len(y))
	floats.SubTo(diff, y, pred)
	return floats.Dot(diff, diff) / float64(len(y))
}

// RMSE is the square root of MSE
func RMSE(y, pred []float64) float64 {
	return math.Sqrt(MSE(y, pred))
}

// MAE is the mean absolute error
func MAE(y, pred []float64) float64 {
	diff := make([]float64, len(y))
	floats.SubTo(diff, y, pred)
	return floats.Norm(diff, 1) / float64(len(y))
}

// R2 is the coefficient of determination. A constant target scores 1 when
// predicted exactly and 0 otherwise.
func R2(y, pred []float64) float64 {
	mean := stat.Mean(y, nil)
	ssRes, ssTot := 0.0, 0.0
	for i := range y {
		r := y[i] - pred[i]
		d := y[i] - mean
		ssRes += r * r
		ssTot += d * d
	}
	if ssTot == 0 {
		if ssRes == 0 {
			return 1
		}
		return 0
	}
	return 1 - ssRes/ssTot
}

// AdjustedR2 penalizes R² for p predictors over n observations; NaN when
// n-p-1 <= 0.
func AdjustedR2(r2 float64, n, p int) float64 {
	dof := n - p - 1
	if dof <= 0 {
		return math.NaN()
	}
	return 1 - (1-r2)*float64(n-1)/float64(dof)
}

// Accuracy is the share of exact matches
func Accuracy(y, pred []float64) (float64, error) {
	if len(y) != len(pred) {
		return 0, fmt.Errorf("%w: %d labels for %d predictions", core.ErrLengthMismatch, len(y), len(pred))
	}
	if len(y) == 0 {
		return 0, core.ErrEmptyInput
	}
	hits := 0
	for i := range y {
		if y[i] == pred[i] {
			hits++
		}
	}
	return float64(hits) / float64(len(y)), nil
}

// ConfusionMatrix counts binary outcomes: [actual][predicted], class 0 first
func ConfusionMatrix(y, pred []float64) ([2][2]int, error) {
	var cm [2][2]int
	if len(y) != len(pred) {
		return cm, fmt.Errorf("%w: %d labels for %d predictions", core.ErrLengthMismatch, len(y), len(pred))
	}
	for i := range y {
		a, p := int(y[i]), int(pred[i])
		if (a != 0 && a != 1) || (p != 0 && p != 1) || float64(a) != y[i] || float64(p) != pred[i] {
			return cm, fmt.Errorf("%w: row %d is not binary", core.ErrTypeMismatch, i)
		}
		cm[a][p]++
	}
	return cm, nil
}
