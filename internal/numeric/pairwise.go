package numeric

import (
	"fmt"
	"math"

	"statkit/domain/core"

	"gonum.org/v1/gonum/floats"
)

// Sample sizes at or below which the exact null distributions are used
const (
	mannWhitneyExactMax = 8
	wilcoxonExactMax    = 50
)

// MannWhitneyU runs a two-sided Mann-Whitney U test and returns U for x.
// The exact distribution is used when either sample has at most 8
// observations and there are no ties; otherwise the normal approximation with
// tie and continuity correction.
func MannWhitneyU(x, y []float64) (u, pValue float64, err error) {
	n1, n2 := len(x), len(y)
	if n1 == 0 || n2 == 0 {
		return 0, 0, fmt.Errorf("%w: Mann-Whitney needs two non-empty samples", core.ErrEmptyInput)
	}

	all := make([]float64, 0, n1+n2)
	all = append(all, x...)
	all = append(all, y...)
	ranks, ties := Rank(all)

	r1 := floats.Sum(ranks[:n1])
	u1 := r1 - float64(n1*(n1+1))/2
	u2 := float64(n1*n2) - u1
	uMax := math.Max(u1, u2)

	if (n1 <= mannWhitneyExactMax || n2 <= mannWhitneyExactMax) && len(ties) == 0 {
		return u1, math.Min(1, 2*mannWhitneyUpperTail(n1, n2, uMax)), nil
	}

	n := float64(n1 + n2)
	mu := float64(n1*n2) / 2
	variance := float64(n1*n2) / 12 * ((n + 1) - tieTerm(ties)/(n*(n-1)))
	if variance <= 0 {
		return u1, 1, nil
	}
	z := (uMax - mu - 0.5) / math.Sqrt(variance)
	return u1, math.Min(1, 2*NormalSurvival(z)), nil
}

// mannWhitneyUpperTail returns P(U >= u) under the null. The counts of U are
// the coefficients of the Gaussian binomial [m+n choose m]_q.
func mannWhitneyUpperTail(m, n int, u float64) float64 {
	if m > n {
		m, n = n, m
	}
	size := m*n + 1
	coeffs := make([]float64, size)
	coeffs[0] = 1

	// multiply by (1 - q^(n+i)) for i = 1..m
	for i := 1; i <= m; i++ {
		shift := n + i
		for d := size - 1; d >= shift; d-- {
			coeffs[d] -= coeffs[d-shift]
		}
	}
	// divide by (1 - q^i) for i = 1..m
	for i := 1; i <= m; i++ {
		for d := i; d < size; d++ {
			coeffs[d] += coeffs[d-i]
		}
	}

	total := floats.Sum(coeffs)
	tail := 0.0
	for d := int(math.Ceil(u)); d < size; d++ {
		tail += coeffs[d]
	}
	return tail / total
}

// WilcoxonSignedRank runs a two-sided Wilcoxon signed-rank test on paired
// samples. Zero differences are discarded. The statistic is min(W+, W-).
func WilcoxonSignedRank(x, y []float64) (t, pValue float64, err error) {
	if len(x) != len(y) {
		return 0, 0, fmt.Errorf("%w: paired samples of %d and %d", core.ErrLengthMismatch, len(x), len(y))
	}

	diffs := make([]float64, 0, len(x))
	zeros := 0
	for i := range x {
		d := x[i] - y[i]
		if d == 0 {
			zeros++
			continue
		}
		diffs = append(diffs, d)
	}
	n := len(diffs)
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: all paired differences are zero", core.ErrDegenerateData)
	}

	abs := make([]float64, n)
	for i, d := range diffs {
		abs[i] = math.Abs(d)
	}
	ranks, ties := Rank(abs)

	wPlus, wMinus := 0.0, 0.0
	for i, d := range diffs {
		if d > 0 {
			wPlus += ranks[i]
		} else {
			wMinus += ranks[i]
		}
	}
	t = math.Min(wPlus, wMinus)

	if n <= wilcoxonExactMax && len(ties) == 0 && zeros == 0 {
		return t, math.Min(1, 2*wilcoxonLowerTail(n, t)), nil
	}

	nf := float64(n)
	mean := nf * (nf + 1) / 4
	variance := nf*(nf+1)*(2*nf+1)/24 - tieTerm(ties)/48
	if variance <= 0 {
		return t, 1, nil
	}
	z := (t - mean) / math.Sqrt(variance)
	return t, TwoSidedNormalPValue(z), nil
}

// wilcoxonLowerTail returns P(W <= t) where W is the sum of a random subset
// of the ranks 1..n.
func wilcoxonLowerTail(n int, t float64) float64 {
	maxSum := n * (n + 1) / 2
	counts := make([]float64, maxSum+1)
	counts[0] = 1
	for r := 1; r <= n; r++ {
		for s := maxSum; s >= r; s-- {
			counts[s] += counts[s-r]
		}
	}

	total := math.Pow(2, float64(n))
	tail := 0.0
	for s := 0; s <= int(math.Floor(t)) && s <= maxSum; s++ {
		tail += counts[s]
	}
	return tail / total
}
