package descriptive

import (
	"fmt"
	"math"
	"sort"

	"statkit/domain/core"
	"statkit/internal/numeric"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// check rejects empty input and missing values
func check(values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no observations", core.ErrEmptyInput)
	}
	if floats.HasNaN(values) {
		return core.ErrMissingValues
	}
	return nil
}

// Mean is the arithmetic mean
func Mean(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	return stat.Mean(values, nil), nil
}

// Median is the middle value, averaging the two central values for even n
func Median(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	return stats.Median(values)
}

// Mode returns the most frequent value, the smallest one on ties
func Mode(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	modes, err := stats.Mode(values)
	if err != nil {
		return 0, err
	}
	if len(modes) == 0 {
		// every value is equally frequent
		return floats.Min(values), nil
	}
	return floats.Min(modes), nil
}

// TrimmedMean drops floor(proportion*n) values from each end before averaging
func TrimmedMean(values []float64, proportion float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	if proportion < 0 || proportion >= 0.5 {
		return 0, core.NewInvalidParameterError("proportion", proportion, "in [0, 0.5)")
	}
	sorted := sortedCopy(values)
	cut := int(proportion * float64(len(sorted)))
	return stat.Mean(sorted[cut:len(sorted)-cut], nil), nil
}

// Variance is the population variance (divides by n)
func Variance(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	return stats.PopulationVariance(values)
}

// StandardDeviation is the population standard deviation (divides by n)
func StandardDeviation(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	return stats.StandardDeviationPopulation(values)
}

// InterquartileRange is Q3 - Q1
func InterquartileRange(values []float64) (float64, error) {
	q1, _, q3, err := Quartiles(values)
	if err != nil {
		return 0, err
	}
	return q3 - q1, nil
}

// CoefficientOfVariation is the population standard deviation over the mean
func CoefficientOfVariation(values []float64) (float64, error) {
	std, err := StandardDeviation(values)
	if err != nil {
		return 0, err
	}
	mean := stat.Mean(values, nil)
	if mean == 0 {
		return 0, fmt.Errorf("%w: coefficient of variation of a zero-mean sample", core.ErrDegenerateData)
	}
	return std / mean, nil
}

// Skewness is the adjusted Fisher-Pearson coefficient; needs 3 observations
func Skewness(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	if len(values) < 3 {
		return 0, core.NewInsufficientDataError("skewness", 3, len(values))
	}
	return stat.Skew(values, nil), nil
}

// Kurtosis is the bias-corrected excess kurtosis (0 for a normal
// distribution); needs 4 observations
func Kurtosis(values []float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	if len(values) < 4 {
		return 0, core.NewInsufficientDataError("kurtosis", 4, len(values))
	}
	return stat.ExKurtosis(values, nil), nil
}

// Quartiles returns the 25th, 50th and 75th percentiles
func Quartiles(values []float64) (q1, q2, q3 float64, err error) {
	if err := check(values); err != nil {
		return 0, 0, 0, err
	}
	sorted := sortedCopy(values)
	return numeric.QuantileSorted(sorted, 0.25), numeric.QuantileSorted(sorted, 0.5), numeric.QuantileSorted(sorted, 0.75), nil
}

// Percentile returns the p-th percentile, 0 <= p <= 100, interpolating
// linearly between closest ranks
func Percentile(values []float64, p float64) (float64, error) {
	if err := check(values); err != nil {
		return 0, err
	}
	if p < 0 || p > 100 {
		return 0, core.NewInvalidParameterError("percentile", p, "in [0, 100]")
	}
	return numeric.Quantile(values, p/100), nil
}

// Deciles returns the 10th through 90th percentiles
func Deciles(values []float64) ([]float64, error) {
	if err := check(values); err != nil {
		return nil, err
	}
	sorted := sortedCopy(values)
	out := make([]float64, 9)
	for i := range out {
		out[i] = numeric.QuantileSorted(sorted, float64(i+1)/10)
	}
	return out, nil
}

// Normality is the outcome of a normality test
type Normality struct {
	Statistic float64
	PValue    float64
	IsNormal  bool
}

// NormalityTest runs D'Agostino's K² test for 8 or more observations and a
// Jarque-Bera statistic below that. Both are compared to chi-square(2) at 5%.
func NormalityTest(values []float64) (Normality, error) {
	if err := check(values); err != nil {
		return Normality{}, err
	}
	n := len(values)
	if n < 3 {
		return Normality{}, core.NewInsufficientDataError("normality test", 3, n)
	}

	m2 := stat.Moment(2, values, nil)
	if m2 == 0 {
		return Normality{}, fmt.Errorf("%w: constant sample", core.ErrDegenerateData)
	}
	b1 := stat.Moment(3, values, nil) / math.Pow(m2, 1.5)
	b2 := stat.Moment(4, values, nil) / (m2 * m2)

	var k2 float64
	if n >= 8 {
		k2 = dagostinoK2(float64(n), b1, b2)
	} else {
		k2 = float64(n) / 6 * (b1*b1 + (b2-3)*(b2-3)/4)
	}
	p := numeric.ChiSquarePValue(k2, 2)
	return Normality{Statistic: k2, PValue: p, IsNormal: p > 0.05}, nil
}

// dagostinoK2 combines the skewness test (Z1) and the Anscombe-Glynn
// kurtosis test (Z2) from the biased sample moments b1 = √β1 and b2 = β2.
func dagostinoK2(n, b1, b2 float64) float64 {
	y := b1 * math.Sqrt((n+1)*(n+3)/(6*(n-2)))
	beta2 := 3 * (n*n + 27*n - 70) * (n + 1) * (n + 3) / ((n - 2) * (n + 5) * (n + 7) * (n + 9))
	w2 := -1 + math.Sqrt(2*(beta2-1))
	delta := 1 / math.Sqrt(0.5*math.Log(w2))
	alpha := math.Sqrt(2 / (w2 - 1))
	ay := y / alpha
	z1 := delta * math.Log(ay+math.Sqrt(ay*ay+1))

	e := 3 * (n - 1) / (n + 1)
	v := 24 * n * (n - 2) * (n - 3) / ((n + 1) * (n + 1) * (n + 3) * (n + 5))
	x := (b2 - e) / math.Sqrt(v)
	sqrtBeta1 := 6 * (n*n - 5*n + 2) / ((n + 7) * (n + 9)) * math.Sqrt(6*(n+3)*(n+5)/(n*(n-2)*(n-3)))
	a := 6 + 8/sqrtBeta1*(2/sqrtBeta1+math.Sqrt(1+4/(sqrtBeta1*sqrtBeta1)))
	term := 1 - 2/(9*a)
	den := 1 + x*math.Sqrt(2/(a-4))
	// cube root keeps the sign of a negative ratio
	z2 := (term - math.Cbrt((1-2/a)/den)) / math.Sqrt(2/(9*a))

	return z1*z1 + z2*z2
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
