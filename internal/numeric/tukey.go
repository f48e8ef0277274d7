package numeric

import (
	"math"

	"gonum.org/v1/gonum/integrate/quad"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// quadrature nodes for the inner (normal) and outer (chi) integrals
	tukeyInnerNodes = 96
	tukeyOuterNodes = 64
	// beyond this many degrees of freedom the chi factor is treated as 1
	tukeyLargeDF = 25000
)

// TukeyComparison is the Tukey HSD outcome for groups I < J
type TukeyComparison struct {
	I, J     int
	MeanDiff float64 // mean(J) - mean(I)
	Q        float64 // studentized range statistic
	PValue   float64
	Lower    float64
	Upper    float64
	Reject   bool
}

// TukeyHSD holds what every pairwise comparison needs, so pairs can be
// evaluated independently once the omnibus ANOVA is known.
type TukeyHSD struct {
	anova OneWayResult
	alpha float64
	qCrit float64
}

// NewTukeyHSD prepares Tukey's honestly significant difference test from a
// one-way ANOVA over the same groups.
func NewTukeyHSD(anova OneWayResult, alpha float64) *TukeyHSD {
	k := len(anova.Means)
	return &TukeyHSD{
		anova: anova,
		alpha: alpha,
		qCrit: StudentizedRangeQuantile(1-alpha, k, float64(anova.DFWithin)),
	}
}

// Compare evaluates the pair (i, j)
func (t *TukeyHSD) Compare(i, j int) TukeyComparison {
	a := t.anova
	k := len(a.Means)
	diff := a.Means[j] - a.Means[i]
	se := math.Sqrt(a.MSWithin / 2 * (1/float64(a.Sizes[i]) + 1/float64(a.Sizes[j])))

	cmp := TukeyComparison{I: i, J: j, MeanDiff: diff}
	if se == 0 {
		cmp.Q = math.Inf(1)
		cmp.PValue = 0
		cmp.Lower, cmp.Upper = diff, diff
		cmp.Reject = diff != 0
		return cmp
	}

	cmp.Q = math.Abs(diff) / se
	cmp.PValue = math.Max(0, math.Min(1, 1-StudentizedRangeCDF(cmp.Q, k, float64(a.DFWithin))))
	margin := t.qCrit * se
	cmp.Lower = diff - margin
	cmp.Upper = diff + margin
	cmp.Reject = cmp.PValue < t.alpha
	return cmp
}

// StudentizedRangeCDF returns P(Q <= q) for the studentized range of k
// normal means with df degrees of freedom for the error variance.
func StudentizedRangeCDF(q float64, k int, df float64) float64 {
	if q <= 0 || k < 2 {
		return 0
	}
	if math.IsInf(q, 1) {
		return 1
	}
	if df >= tukeyLargeDF || math.IsInf(df, 1) {
		return rangeCDF(q, k)
	}

	chi := distuv.ChiSquared{K: df}
	lo := math.Sqrt(chi.Quantile(1e-10) / df)
	hi := math.Sqrt(chi.Quantile(1-1e-10) / df)

	// s = sqrt(X/df) with X ~ chi2(df): f_s(s) = f_X(df*s^2) * 2*df*s
	integrand := func(s float64) float64 {
		density := chi.Prob(df*s*s) * 2 * df * s
		if density == 0 {
			return 0
		}
		return density * rangeCDF(q*s, k)
	}
	return math.Min(1, quad.Fixed(integrand, lo, hi, tukeyOuterNodes, quad.Legendre{}, 0))
}

// rangeCDF is the distribution of the range of k standard normals:
// k * integral phi(z) [Phi(z) - Phi(z-w)]^(k-1) dz
func rangeCDF(w float64, k int) float64 {
	if w <= 0 {
		return 0
	}
	integrand := func(z float64) float64 {
		inner := distuv.UnitNormal.CDF(z) - distuv.UnitNormal.CDF(z-w)
		if inner <= 0 {
			return 0
		}
		return distuv.UnitNormal.Prob(z) * math.Pow(inner, float64(k-1))
	}
	return math.Min(1, float64(k)*quad.Fixed(integrand, -8, 8, tukeyInnerNodes, quad.Legendre{}, 0))
}

// StudentizedRangeQuantile inverts StudentizedRangeCDF by bisection
func StudentizedRangeQuantile(p float64, k int, df float64) float64 {
	if p <= 0 {
		return 0
	}
	lo, hi := 0.0, 8.0
	for StudentizedRangeCDF(hi, k, df) < p && hi < 1e4 {
		lo = hi
		hi *= 2
	}
	for iter := 0; iter < 60 && hi-lo > 1e-9; iter++ {
		mid := (lo + hi) / 2
		if StudentizedRangeCDF(mid, k, df) < p {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
