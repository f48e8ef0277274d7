package numeric

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// FTestPValue computes the upper-tail p-value of an F statistic (ANOVA)
func FTestPValue(fStatistic float64, df1, df2 int) float64 {
	if df1 <= 0 || df2 <= 0 || math.IsNaN(fStatistic) {
		return 1.0
	}
	if math.IsInf(fStatistic, 1) {
		return 0
	}

	fDist := distuv.F{D1: float64(df1), D2: float64(df2)}
	return 1 - fDist.CDF(fStatistic)
}

// ChiSquarePValue computes the upper-tail p-value of a chi-square statistic
func ChiSquarePValue(chiSquare float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 || math.IsNaN(chiSquare) {
		return 1.0
	}

	chiDist := distuv.ChiSquared{K: float64(degreesOfFreedom)}
	return chiDist.Survival(chiSquare)
}

// NormalSurvival computes 1 - Phi(z) for the standard normal
func NormalSurvival(z float64) float64 {
	return distuv.UnitNormal.Survival(z)
}

// TwoSidedNormalPValue computes 2 * (1 - Phi(|z|)), capped at 1
func TwoSidedNormalPValue(z float64) float64 {
	if math.IsNaN(z) {
		return 1.0
	}
	return math.Min(1, 2*NormalSurvival(math.Abs(z)))
}

// TTestPValue computes the two-tailed p-value of a t statistic
func TTestPValue(tStatistic float64, degreesOfFreedom int) float64 {
	if degreesOfFreedom <= 0 {
		return 1.0
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(degreesOfFreedom)}
	return 2 * tDist.Survival(math.Abs(tStatistic))
}
