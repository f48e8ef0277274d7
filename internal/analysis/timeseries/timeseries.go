// Package timeseries computes descriptive statistics, linear trend and
// dominant periodicity of a numeric sequence.
package timeseries

import (
	"context"
	"fmt"
	"time"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/numeric"
	"statkit/internal/parallel"
	"statkit/internal/validation"

	"gonum.org/v1/gonum/stat"
)

const (
	minTrendLength    = 2
	minSpectrumLength = 3
)

// Request configures a time-series analysis. Timestamps are optional; when
// given there must be one per observation.
type Request struct {
	Column     string
	Timestamps []time.Time
}

// Analyze always reports mean, sample standard deviation, min, max and
// median. The linear trend needs 2 observations and the dominant
// frequency/period pair needs 3; shorter series simply omit them.
func Analyze(data any, req Request) (*stats.Result, error) {
	values, err := sequence(data, req.Column, 1)
	if err != nil {
		return nil, err
	}
	if req.Timestamps != nil && len(req.Timestamps) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps for %d observations",
			core.ErrLengthMismatch, len(req.Timestamps), len(values))
	}
	return summarize(values), nil
}

func summarize(values []float64) *stats.Result {
	agg := numeric.Describe(values)
	b := stats.NewBuilder(stats.KindTimeSeries).
		Metric(stats.KeyMean, agg.Mean).
		Metric(stats.KeyStd, agg.Std).
		Metric(stats.KeyMin, agg.Min).
		Metric(stats.KeyMax, agg.Max).
		Metric(stats.KeyMedian, agg.Median)

	if len(values) >= minTrendLength {
		slope, intercept := numeric.LinearFit(numeric.Index(len(values)), values)
		b.Metric(stats.KeySlope, slope).Metric(stats.KeyIntercept, intercept)
	}
	if len(values) >= minSpectrumLength {
		freq, period := numeric.DominantFrequency(values)
		b.Metric(stats.KeyFrequency, freq).Metric(stats.KeyPeriod, period)
	}
	return b.Build()
}

// AnalyzeBatch analyzes many independent series, batch by batch, and returns
// the results in input order.
func AnalyzeBatch(ctx context.Context, bp *parallel.BatchProcessor, series [][]float64) ([]*stats.Result, error) {
	return parallel.MapBatches(ctx, bp, series, func(ctx context.Context, batch [][]float64) ([]*stats.Result, error) {
		out := make([]*stats.Result, 0, len(batch))
		for _, values := range batch {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			res, err := Analyze(values, Request{})
			if err != nil {
				return nil, err
			}
			out = append(out, res)
		}
		return out, nil
	})
}

// Trend fits value = intercept + slope*index on the raw data
func Trend(data any) (slope, intercept float64, err error) {
	values, err := sequence(data, "", minTrendLength)
	if err != nil {
		return 0, 0, err
	}
	slope, intercept = numeric.LinearFit(numeric.Index(len(values)), values)
	return slope, intercept, nil
}

// Seasonality returns period when it is positive, otherwise the period of the
// dominant FFT frequency (+Inf for a zero frequency).
func Seasonality(data any, period float64) (float64, error) {
	values, err := sequence(data, "", minSpectrumLength)
	if err != nil {
		return 0, err
	}
	if period > 0 {
		return period, nil
	}
	_, detected := numeric.DominantFrequency(values)
	return detected, nil
}

// Autocorrelation is the Pearson correlation between the series and itself
// shifted by lag.
func Autocorrelation(data any, lag int) (float64, error) {
	if lag < 1 {
		return 0, core.NewInvalidParameterError("lag", lag, ">= 1")
	}
	values, err := sequence(data, "", lag+2)
	if err != nil {
		return 0, err
	}
	n := len(values) - lag
	return stat.Correlation(values[:n], values[lag:], nil), nil
}

func sequence(data any, column string, minLength int) ([]float64, error) {
	column = validation.ResolveColumn(data, column)
	table, err := validation.Validate(data, validation.Shape{
		Columns:   []string{column},
		MinLength: minLength,
		Numeric:   true,
		Complete:  true,
	})
	if err != nil {
		return nil, err
	}
	return table.Numbers(column)
}
