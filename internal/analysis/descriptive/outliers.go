package descriptive

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// Outlier thresholds
const (
	IQRFactor      = 1.5
	ZScoreLimit    = 3.0
	ModifiedZLimit = 3.5
	madConsistency = 0.6745
)

// OutliersIQR flags values outside [Q1 - 1.5 IQR, Q3 + 1.5 IQR]
func OutliersIQR(values []float64) ([]bool, error) {
	q1, _, q3, err := Quartiles(values)
	if err != nil {
		return nil, err
	}
	iqr := q3 - q1
	lo, hi := q1-IQRFactor*iqr, q3+IQRFactor*iqr
	return mask(values, func(x float64) bool { return x < lo || x > hi }), nil
}

// OutliersZScore flags values more than 3 population standard deviations
// from the mean. A constant sample has no outliers.
func OutliersZScore(values []float64) ([]bool, error) {
	std, err := StandardDeviation(values)
	if err != nil {
		return nil, err
	}
	if std == 0 {
		return make([]bool, len(values)), nil
	}
	mean := stat.Mean(values, nil)
	return mask(values, func(x float64) bool { return math.Abs(x-mean)/std > ZScoreLimit }), nil
}

// OutliersMAD flags values whose modified z-score 0.6745 (x - median) / MAD
// exceeds 3.5 in absolute value. A zero MAD yields no outliers.
func OutliersMAD(values []float64) ([]bool, error) {
	if err := check(values); err != nil {
		return nil, err
	}
	mad, err := stats.MedianAbsoluteDeviation(values)
	if err != nil {
		return nil, err
	}
	if mad == 0 {
		return make([]bool, len(values)), nil
	}
	median, err := stats.Median(values)
	if err != nil {
		return nil, err
	}
	return mask(values, func(x float64) bool {
		return math.Abs(madConsistency*(x-median)/mad) > ModifiedZLimit
	}), nil
}

func mask(values []float64, outlier func(float64) bool) []bool {
	out := make([]bool, len(values))
	for i, x := range values {
		out[i] = outlier(x)
	}
	return out
}
