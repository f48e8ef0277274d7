package numeric

import (
	"fmt"
	"math"

	"statkit/domain/core"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// OneWayResult is the output of a one-way ANOVA
type OneWayResult struct {
	F         float64
	PValue    float64
	DFBetween int
	DFWithin  int
	MSWithin  float64
	Means     []float64
	Sizes     []int
}

// OneWayANOVA tests equality of group means
func OneWayANOVA(groups [][]float64) (OneWayResult, error) {
	k := len(groups)
	if k < 2 {
		return OneWayResult{}, core.NewInsufficientDataError("ANOVA groups", 2, k)
	}

	var all []float64
	means := make([]float64, k)
	sizes := make([]int, k)
	for i, g := range groups {
		if len(g) == 0 {
			return OneWayResult{}, fmt.Errorf("%w: group %d is empty", core.ErrEmptyInput, i)
		}
		means[i] = stat.Mean(g, nil)
		sizes[i] = len(g)
		all = append(all, g...)
	}

	n := len(all)
	if n-k < 1 {
		return OneWayResult{}, core.NewInsufficientDataError("ANOVA observations", k+1, n)
	}

	grand := stat.Mean(all, nil)
	ssBetween, ssWithin := 0.0, 0.0
	for i, g := range groups {
		d := means[i] - grand
		ssBetween += float64(sizes[i]) * d * d
		for _, x := range g {
			e := x - means[i]
			ssWithin += e * e
		}
	}

	dfb, dfw := k-1, n-k
	msb := ssBetween / float64(dfb)
	msw := ssWithin / float64(dfw)

	res := OneWayResult{DFBetween: dfb, DFWithin: dfw, MSWithin: msw, Means: means, Sizes: sizes}
	switch {
	case msw == 0 && msb == 0:
		return OneWayResult{}, fmt.Errorf("%w: all groups are constant and equal", core.ErrDegenerateData)
	case msw == 0:
		res.F = math.Inf(1)
		res.PValue = 0
	default:
		res.F = msb / msw
		res.PValue = FTestPValue(res.F, dfb, dfw)
	}
	return res, nil
}

// KruskalWallis computes the tie-corrected H statistic and its chi-square p-value
func KruskalWallis(groups [][]float64) (h, pValue float64, err error) {
	k := len(groups)
	if k < 2 {
		return 0, 0, core.NewInsufficientDataError("Kruskal-Wallis groups", 2, k)
	}

	var all []float64
	for i, g := range groups {
		if len(g) == 0 {
			return 0, 0, fmt.Errorf("%w: group %d is empty", core.ErrEmptyInput, i)
		}
		all = append(all, g...)
	}

	ranks, ties := Rank(all)
	n := float64(len(all))

	sum := 0.0
	offset := 0
	for _, g := range groups {
		r := floats.Sum(ranks[offset : offset+len(g)])
		sum += r * r / float64(len(g))
		offset += len(g)
	}

	h = 12/(n*(n+1))*sum - 3*(n+1)
	correction := 1 - tieTerm(ties)/(n*n*n-n)
	if correction == 0 {
		return 0, 0, fmt.Errorf("%w: all values are identical", core.ErrDegenerateData)
	}
	h /= correction

	return h, ChiSquarePValue(h, k-1), nil
}

// Friedman computes the tie-corrected Friedman chi-square for a complete
// block design. blocks[i][j] is the observation of treatment j in block i.
func Friedman(blocks [][]float64) (chi2, pValue float64, err error) {
	n := len(blocks)
	if n == 0 {
		return 0, 0, core.ErrEmptyInput
	}
	k := len(blocks[0])
	if k < 3 {
		return 0, 0, core.NewInsufficientDataError("Friedman treatments", 3, k)
	}

	rankSums := make([]float64, k)
	tieTotal := 0.0
	for i, block := range blocks {
		if len(block) != k {
			return 0, 0, fmt.Errorf("%w: block %d has %d treatments, expected %d",
				core.ErrUnbalancedDesign, i, len(block), k)
		}
		ranks, ties := Rank(block)
		floats.Add(rankSums, ranks)
		tieTotal += tieTerm(ties)
	}

	nf, kf := float64(n), float64(k)
	ssq := 0.0
	for _, r := range rankSums {
		ssq += r * r
	}
	chi2 = 12/(nf*kf*(kf+1))*ssq - 3*nf*(kf+1)

	correction := 1 - tieTotal/(kf*(kf*kf-1)*nf)
	if correction == 0 {
		return 0, 0, fmt.Errorf("%w: every block is constant", core.ErrDegenerateData)
	}
	chi2 /= correction

	return chi2, ChiSquarePValue(chi2, k-1), nil
}
