package timeseries

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"statkit/domain/core"
	"statkit/domain/dataset"
	"statkit/domain/stats"
	"statkit/internal/parallel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linear(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = 2*float64(i) + 1
	}
	return out
}

func metric(t *testing.T, res *stats.Result, key string) float64 {
	t.Helper()
	v, ok := res.Metric(key)
	require.True(t, ok, "metric %s missing", key)
	return v
}

func TestAnalyzeLinearSeries(t *testing.T) {
	res, err := Analyze(linear(10), Request{})
	require.NoError(t, err)
	assert.Equal(t, stats.KindTimeSeries, res.Kind())

	assert.InDelta(t, 10, metric(t, res, stats.KeyMean), 1e-12)
	assert.InDelta(t, 1, metric(t, res, stats.KeyMin), 1e-12)
	assert.InDelta(t, 19, metric(t, res, stats.KeyMax), 1e-12)
	assert.InDelta(t, 10, metric(t, res, stats.KeyMedian), 1e-12)
	assert.InDelta(t, 2, metric(t, res, stats.KeySlope), 1e-6)
	assert.InDelta(t, 1, metric(t, res, stats.KeyIntercept), 1e-6)

	_, ok := res.Metric(stats.KeyFrequency)
	assert.True(t, ok)
}

func TestAnalyzeShortSeries(t *testing.T) {
	res, err := Analyze([]float64{4}, Request{})
	require.NoError(t, err)
	_, ok := res.Metric(stats.KeySlope)
	assert.False(t, ok)
	assert.True(t, math.IsNaN(metric(t, res, stats.KeyStd)))

	res, err = Analyze([]float64{4, 6}, Request{})
	require.NoError(t, err)
	assert.InDelta(t, 2, metric(t, res, stats.KeySlope), 1e-12)
	_, ok = res.Metric(stats.KeyPeriod)
	assert.False(t, ok)
}

func TestAnalyzeConstantSeriesFallsBackToFirstBin(t *testing.T) {
	res, err := Analyze([]float64{3, 3, 3, 3}, Request{})
	require.NoError(t, err)
	// every non-zero bin is 0 so bin 1 wins with frequency 1/4
	assert.InDelta(t, 0.25, metric(t, res, stats.KeyFrequency), 1e-12)
	assert.InDelta(t, 4, metric(t, res, stats.KeyPeriod), 1e-12)
}

func TestAnalyzePeriodicSeries(t *testing.T) {
	values := make([]float64, 48)
	for i := range values {
		values[i] = math.Cos(2 * math.Pi * float64(i) / 12)
	}
	res, err := Analyze(values, Request{})
	require.NoError(t, err)
	assert.InDelta(t, 12, metric(t, res, stats.KeyPeriod), 1e-9)
}

func TestAnalyzeTimestamps(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	stamps := []time.Time{start, start.Add(time.Hour), start.Add(2 * time.Hour)}

	_, err := Analyze([]float64{1, 2, 3}, Request{Timestamps: stamps})
	require.NoError(t, err)

	_, err = Analyze([]float64{1, 2}, Request{Timestamps: stamps})
	assert.True(t, errors.Is(err, core.ErrLengthMismatch))
}

func TestAnalyzeRejections(t *testing.T) {
	_, err := Analyze("série", Request{})
	assert.True(t, core.IsTypeError(err))

	_, err = Analyze([]float64{}, Request{})
	assert.True(t, errors.Is(err, core.ErrEmptyInput))

	_, err = Analyze([]float64{1, math.NaN()}, Request{})
	assert.True(t, errors.Is(err, core.ErrMissingValues))

	table, _ := dataset.NewTable(dataset.NumericColumn("ventes", []float64{1, 2}))
	_, err = Analyze(table, Request{Column: "prix"})
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestTrend(t *testing.T) {
	slope, intercept, err := Trend(linear(50))
	require.NoError(t, err)
	assert.InDelta(t, 2, slope, 1e-6)
	assert.InDelta(t, 1, intercept, 1e-6)

	_, _, err = Trend([]float64{1})
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestSeasonality(t *testing.T) {
	period, err := Seasonality([]float64{1, 2, 3, 4}, 7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, period)

	values := make([]float64, 40)
	for i := range values {
		values[i] = math.Sin(2 * math.Pi * float64(i) / 5)
	}
	period, err = Seasonality(values, 0)
	require.NoError(t, err)
	assert.InDelta(t, 5, period, 1e-9)

	_, err = Seasonality([]float64{1, 2}, 0)
	assert.True(t, errors.Is(err, core.ErrInsufficientData))
}

func TestAutocorrelation(t *testing.T) {
	r, err := Autocorrelation(linear(20), 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, r, 1e-12)

	alternating := []float64{1, -1, 1, -1, 1, -1, 1, -1}
	r, err = Autocorrelation(alternating, 1)
	require.NoError(t, err)
	assert.InDelta(t, -1, r, 1e-12)

	_, err = Autocorrelation(alternating, 0)
	assert.True(t, errors.Is(err, core.ErrInvalidParameter))
	assert.True(t, core.IsValueError(err))
}

func TestNamedSeriesUsesItsOwnColumn(t *testing.T) {
	ventes := dataset.Series{Name: "ventes", Values: []float64{1, 3, 5, 7, 9}}

	res, err := Analyze(ventes, Request{})
	require.NoError(t, err)
	mean, _ := res.Metric(stats.KeyMean)
	assert.InDelta(t, 5, mean, 1e-12)

	slope, intercept, err := Trend(ventes)
	require.NoError(t, err)
	assert.InDelta(t, 2, slope, 1e-9)
	assert.InDelta(t, 1, intercept, 1e-9)

	period, err := Seasonality(ventes, 4)
	require.NoError(t, err)
	assert.Equal(t, 4.0, period)

	r, err := Autocorrelation(ventes, 1)
	require.NoError(t, err)
	assert.InDelta(t, 1, r, 1e-12)

	_, err = Analyze(ventes, Request{Column: "prix"})
	assert.True(t, errors.Is(err, core.ErrMissingColumn))
}

func TestAnalyzeBatchKeepsOrder(t *testing.T) {
	series := [][]float64{{1, 2, 3}, {10, 20, 30, 40}, {5}, {7, 7}}
	bp := parallel.NewBatchProcessor(2, parallel.NewProcessor(2))

	results, err := AnalyzeBatch(context.Background(), bp, series)
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.InDelta(t, 2, metric(t, results[0], stats.KeyMean), 1e-12)
	assert.InDelta(t, 25, metric(t, results[1], stats.KeyMean), 1e-12)
	assert.InDelta(t, 5, metric(t, results[2], stats.KeyMean), 1e-12)
	assert.InDelta(t, 0, metric(t, results[3], stats.KeySlope), 1e-12)

	_, err = AnalyzeBatch(context.Background(), bp, [][]float64{{1}, {}})
	assert.True(t, errors.Is(err, core.ErrEmptyInput))
}
