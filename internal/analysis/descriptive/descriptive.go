// Package descriptive provides rolling means, describe-style summaries and
// the individual descriptive statistics they are built from.
package descriptive

import (
	"context"
	"fmt"
	"strings"

	"statkit/domain/core"
	"statkit/domain/dataset"
	"statkit/domain/stats"
	"statkit/internal/numeric"
	"statkit/internal/parallel"
	"statkit/internal/validation"

	"gonum.org/v1/gonum/floats"
)

// Method selects a descriptive analysis
type Method string

const (
	MethodRollingMean Method = "moyenne_glissante"
	MethodSummary     Method = "resume"
)

// ParseMethod validates a method identifier
func ParseMethod(s string) (Method, error) {
	switch m := Method(strings.TrimSpace(s)); m {
	case MethodRollingMean, MethodSummary:
		return m, nil
	}
	return "", core.NewUnsupportedMethodError("descriptive", s)
}

// Request configures a descriptive analysis. Window is required by the
// rolling mean and ignored by the summary.
type Request struct {
	Method   Method
	ValueCol string
	Window   int
}

// Analyze dispatches on req.Method
func Analyze(data any, req Request) (*stats.Result, error) {
	if _, err := ParseMethod(string(req.Method)); err != nil {
		return nil, err
	}
	column := validation.ResolveColumn(data, req.ValueCol)
	table, err := validation.Validate(data, validation.Shape{
		Columns:  []string{column},
		Numeric:  true,
		Complete: true,
	})
	if err != nil {
		return nil, err
	}
	values, err := table.Numbers(column)
	if err != nil {
		return nil, err
	}

	switch req.Method {
	case MethodRollingMean:
		rolled, err := RollingMean(values, req.Window)
		if err != nil {
			return nil, err
		}
		return stats.NewBuilder(stats.KindRollingMean).
			Metric(stats.KeyWindow, float64(req.Window)).
			Metric(stats.KeyObservations, float64(len(values))).
			Vector(stats.KeyRollingValues, rolled).
			Build(), nil
	default:
		s, err := Describe(values)
		if err != nil {
			return nil, err
		}
		return s.result(), nil
	}
}

// RollingMean averages every run of window consecutive values and returns
// len(values)-window+1 means.
func RollingMean(values []float64, window int) ([]float64, error) {
	if err := check(values); err != nil {
		return nil, err
	}
	if window < 1 || window > len(values) {
		return nil, core.NewInvalidParameterError("window", window, fmt.Sprintf("in [1, %d]", len(values)))
	}
	cum := make([]float64, len(values)+1)
	floats.CumSum(cum[1:], values)

	out := make([]float64, len(values)-window+1)
	for i := range out {
		out[i] = (cum[i+window] - cum[i]) / float64(window)
	}
	return out, nil
}

// Summary mirrors a describe() row: count, mean, sample standard deviation,
// min, quartiles and max.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q1     float64
	Median float64
	Q3     float64
	Max    float64
}

// Describe computes the Summary of values
func Describe(values []float64) (Summary, error) {
	if err := check(values); err != nil {
		return Summary{}, err
	}
	agg := numeric.Describe(values)
	q1, q2, q3, err := Quartiles(values)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Count:  len(values),
		Mean:   agg.Mean,
		Std:    agg.Std,
		Min:    agg.Min,
		Q1:     q1,
		Median: q2,
		Q3:     q3,
		Max:    agg.Max,
	}, nil
}

func (s Summary) result() *stats.Result {
	return stats.NewBuilder(stats.KindSummary).
		Metric(stats.KeyCount, float64(s.Count)).
		Metric(stats.KeyMean, s.Mean).
		Metric(stats.KeyStd, s.Std).
		Metric(stats.KeyMin, s.Min).
		Metric(stats.KeyQ1, s.Q1).
		Metric(stats.KeyMedian, s.Median).
		Metric(stats.KeyQ3, s.Q3).
		Metric(stats.KeyMax, s.Max).
		Build()
}

// ColumnSummary is the Summary of one named column
type ColumnSummary struct {
	Column string
	Summary
}

// SummaryByColumn summarizes every numeric column of data concurrently.
// Text columns are skipped; the output follows column order.
func SummaryByColumn(ctx context.Context, p *parallel.Processor, data any) ([]ColumnSummary, error) {
	table, err := validation.Validate(data, validation.Shape{})
	if err != nil {
		return nil, err
	}

	var columns []dataset.Column
	for _, name := range table.Names() {
		col, _ := table.Column(name)
		if col.Type == dataset.ColumnNumeric {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: no numeric column", core.ErrTypeMismatch)
	}

	return parallel.Map(ctx, p, columns, func(_ context.Context, col dataset.Column) (ColumnSummary, error) {
		s, err := Describe(col.Numbers)
		if err != nil {
			return ColumnSummary{}, fmt.Errorf("column %q: %w", col.Name, err)
		}
		return ColumnSummary{Column: col.Name, Summary: s}, nil
	})
}
