// Package frequency builds value-count tables with cumulative totals.
package frequency

import (
	"fmt"
	"math"
	"slices"

	"statkit/domain/core"
	"statkit/domain/dataset"
	"statkit/domain/stats"
	"statkit/internal/validation"
)

// Method selects absolute counts or relative frequencies
type Method string

const (
	MethodAbsolute Method = "absolue"
	MethodRelative Method = "relative"
)

// ParseMethod maps a method identifier onto a Method
func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodAbsolute, MethodRelative:
		return m, nil
	default:
		return "", core.NewUnsupportedMethodError("frequency", s)
	}
}

// Request configures a frequency analysis. An empty Column selects the sole
// column of a sequence or Series.
type Request struct {
	Column    string
	Normalize bool
}

// Frequencies is one column of a frequency table
type Frequencies struct {
	Values []string
	Counts []float64
}

// Lookup returns the entry for a value label
func (f Frequencies) Lookup(value string) (float64, bool) {
	i := slices.Index(f.Values, value)
	if i < 0 {
		return 0, false
	}
	return f.Counts[i], true
}

// Analyze counts the distinct values of a column. Rows are ordered by
// descending count, ties by first appearance, and the cumulative column sums
// in that same order. Missing numeric values are not counted.
func Analyze(data any, req Request) (*stats.Result, error) {
	column := validation.ResolveColumn(data, req.Column)

	table, err := validation.Validate(data, validation.Shape{Categorical: []string{column}})
	if err != nil {
		return nil, err
	}
	col, _ := table.Column(column)

	labels := presentLabels(col)
	if len(labels) == 0 {
		return nil, fmt.Errorf("%w: column %q has no observed values", core.ErrEmptyInput, column)
	}
	return build(labels, req.Normalize), nil
}

func presentLabels(col dataset.Column) []string {
	if col.Type == dataset.ColumnText {
		return col.Labels()
	}
	labels := make([]string, 0, len(col.Numbers))
	for _, v := range col.Numbers {
		if math.IsNaN(v) {
			continue
		}
		labels = append(labels, dataset.FormatValue(v))
	}
	return labels
}

type valueCount struct {
	label string
	count int
}

// countValues returns the distinct labels with their counts, most frequent first
func countValues(labels []string) []valueCount {
	positions := make(map[string]int)
	var counts []valueCount
	for _, l := range labels {
		if i, ok := positions[l]; ok {
			counts[i].count++
			continue
		}
		positions[l] = len(counts)
		counts = append(counts, valueCount{label: l, count: 1})
	}
	slices.SortStableFunc(counts, func(a, b valueCount) int {
		return b.count - a.count
	})
	return counts
}

func build(labels []string, normalize bool) *stats.Result {
	counts := countValues(labels)
	n := float64(len(labels))

	index := make([]string, len(counts))
	freq := make([]float64, len(counts))
	cum := make([]float64, len(counts))
	running := 0.0
	for i, vc := range counts {
		index[i] = vc.label
		freq[i] = float64(vc.count)
		if normalize {
			freq[i] /= n
		}
		running += freq[i]
		cum[i] = running
	}

	kind := stats.KindFrequency
	columns := []string{stats.ColumnFrequency, stats.ColumnCumulativeFrequency}
	if normalize {
		kind = stats.KindRelativeFrequency
		columns = []string{stats.ColumnRelativeFrequency, stats.ColumnRelativeCumulativeFrequency}
	}

	return stats.NewBuilder(kind).
		Metric(stats.KeyCount, n).
		Table(stats.Table{Index: index, Columns: columns, Values: [][]float64{freq, cum}}).
		Source(labels).
		Build()
}

// Absolute returns the count column of an absolute frequency result
func Absolute(res *stats.Result) (Frequencies, error) {
	if res == nil {
		return Frequencies{}, core.ErrNoResultAvailable
	}
	if res.Kind() != stats.KindFrequency {
		return Frequencies{}, core.NewUnsupportedForKindError("absolute frequency", string(res.Kind()))
	}
	return column(res, stats.ColumnFrequency)
}

// Cumulative returns the cumulative column of a frequency result, absolute or
// relative depending on how the result was computed.
func Cumulative(res *stats.Result) (Frequencies, error) {
	if res == nil {
		return Frequencies{}, core.ErrNoResultAvailable
	}
	switch res.Kind() {
	case stats.KindFrequency:
		return column(res, stats.ColumnCumulativeFrequency)
	case stats.KindRelativeFrequency:
		return column(res, stats.ColumnRelativeCumulativeFrequency)
	default:
		return Frequencies{}, core.NewUnsupportedForKindError("cumulative frequency", string(res.Kind()))
	}
}

// Relative recomputes relative frequencies from the values the result was
// built from. Relative frequencies are never cached: every call runs a fresh
// normalized pass over the retained source values.
func Relative(res *stats.Result) (Frequencies, error) {
	if res == nil {
		return Frequencies{}, core.ErrNoResultAvailable
	}
	if !res.Kind().IsFrequency() {
		return Frequencies{}, core.NewUnsupportedForKindError("relative frequency", string(res.Kind()))
	}
	source := res.Source()
	if len(source) == 0 {
		return Frequencies{}, fmt.Errorf("%w: result holds no source values", core.ErrNoResultAvailable)
	}
	return column(build(source, true), stats.ColumnRelativeFrequency)
}

func column(res *stats.Result, name string) (Frequencies, error) {
	table, ok := res.Table()
	if !ok {
		return Frequencies{}, fmt.Errorf("%w: result has no frequency table", core.ErrNoResultAvailable)
	}
	values, ok := table.Column(name)
	if !ok {
		return Frequencies{}, core.NewMissingColumnError(name)
	}
	return Frequencies{Values: table.Index, Counts: values}, nil
}
