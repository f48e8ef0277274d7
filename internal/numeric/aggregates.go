package numeric

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Aggregates holds the always-computed descriptive statistics of a sequence
type Aggregates struct {
	Mean   float64
	Std    float64 // sample standard deviation (n-1); NaN for a single value
	Min    float64
	Max    float64
	Median float64
}

// Describe computes Aggregates. values must be non-empty.
func Describe(values []float64) Aggregates {
	median, _ := stats.Median(values)
	return Aggregates{
		Mean:   stat.Mean(values, nil),
		Std:    stat.StdDev(values, nil),
		Min:    floats.Min(values),
		Max:    floats.Max(values),
		Median: median,
	}
}

// Quantile returns the p-quantile of values (0 <= p <= 1) interpolating
// linearly between the closest ranks at position p*(n-1).
func Quantile(values []float64, p float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return QuantileSorted(sorted, p)
}

// QuantileSorted is Quantile for input already sorted ascending
func QuantileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	if lo+1 >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// LinearFit fits y = intercept + slope*x by least squares
func LinearFit(x, y []float64) (slope, intercept float64) {
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return beta, alpha
}

// Index returns 0..n-1 as floats, the implicit time axis of a sequence
func Index(n int) []float64 {
	x := make([]float64, n)
	for i := range x {
		x[i] = float64(i)
	}
	return x
}
