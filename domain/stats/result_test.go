package stats

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildANOVA() *Result {
	return NewBuilder(KindANOVA).
		Metric(KeyStatistic, 4.2).
		Metric(KeyPValue, 0.03).
		Metric(KeyDFBetween, 2).
		Groups([]string{"a", "b", "c"}).
		PostHoc(PostHocTukey, []Comparison{
			{Group1: "a", Group2: "b", Statistic: 1.5, PValue: 0.2, MeanDiff: 0.4, Lower: -0.1, Upper: 0.9},
		}).
		Build()
}

func TestBuilderAssignsIdentity(t *testing.T) {
	r1 := buildANOVA()
	r2 := buildANOVA()

	assert.False(t, r1.ID().IsEmpty())
	assert.NotEqual(t, r1.ID(), r2.ID())
	assert.False(t, r1.CreatedAt().IsZero())
	assert.Equal(t, KindANOVA, r1.Kind())
}

func TestMetricOverwriteKeepsOrder(t *testing.T) {
	r := NewBuilder(KindTimeSeries).
		Metric(KeyMean, 1).
		Metric(KeyStd, 2).
		Metric(KeyMean, 3).
		Build()

	metrics := r.Metrics()
	require.Len(t, metrics, 2)
	assert.Equal(t, Metric{Name: KeyMean, Value: 3}, metrics[0])

	_, ok := r.Metric("missing")
	assert.False(t, ok)
}

func TestResultIsImmutable(t *testing.T) {
	groups := []string{"a", "b"}
	values := []float64{1, 2}
	r := NewBuilder(KindRollingMean).Groups(groups).Vector(KeyRollingValues, values).Build()

	groups[0] = "mutated"
	values[0] = 99
	assert.Equal(t, []string{"a", "b"}, r.Groups())

	got, ok := r.Vector(KeyRollingValues)
	require.True(t, ok)
	assert.Equal(t, 1.0, got[0])

	got[1] = -1
	again, _ := r.Vector(KeyRollingValues)
	assert.Equal(t, 2.0, again[1])

	ph := buildANOVA().PostHoc()
	ph.Comparisons[0].Group1 = "z"
	assert.Nil(t, r.PostHoc())
}

func TestJSONRoundTrip(t *testing.T) {
	original := NewBuilder(KindFrequency).
		Metric(KeyPeriod, math.Inf(1)).
		Metric(KeyStd, math.NaN()).
		Table(Table{
			Index:   []string{"3", "1"},
			Columns: []string{ColumnFrequency, ColumnCumulativeFrequency},
			Values:  [][]float64{{3, 2}, {3, 5}},
		}).
		Source([]string{"1", "3", "3", "1", "3"}).
		Build()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Result
	require.NoError(t, json.Unmarshal(data, &restored))

	assert.Equal(t, original.ID(), restored.ID())
	assert.Equal(t, original.Kind(), restored.Kind())
	assert.True(t, original.CreatedAt().Equal(restored.CreatedAt()))
	assert.Equal(t, original.Source(), restored.Source())

	period, _ := restored.Metric(KeyPeriod)
	assert.True(t, math.IsInf(period, 1))
	std, _ := restored.Metric(KeyStd)
	assert.True(t, math.IsNaN(std))

	table, ok := restored.Table()
	require.True(t, ok)
	cum, ok := table.Column(ColumnCumulativeFrequency)
	require.True(t, ok)
	assert.Equal(t, []float64{3, 5}, cum)
}

func TestJSONRoundTripPostHoc(t *testing.T) {
	original := buildANOVA()
	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored Result
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, original.PostHoc(), restored.PostHoc())
	assert.Equal(t, original.Groups(), restored.Groups())
}

func TestFloatRejectsUnknownLiteral(t *testing.T) {
	var f Float
	assert.Error(t, json.Unmarshal([]byte(`"infinity"`), &f))

	require.NoError(t, json.Unmarshal([]byte(`"-Inf"`), &f))
	assert.True(t, math.IsInf(float64(f), -1))

	require.NoError(t, json.Unmarshal([]byte(`2.5`), &f))
	assert.Equal(t, Float(2.5), f)
}

func TestReportLabels(t *testing.T) {
	report := buildANOVA().Report()

	assert.Equal(t, "ANOVA", report[LabelType])
	assert.Equal(t, Float(4.2), report["Statistique F"])
	assert.Equal(t, Float(0.03), report[LabelPValue])
	assert.Equal(t, []string{"a", "b", "c"}, report[LabelGroups])

	postHoc, ok := report[LabelPostHoc].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, PostHocTukey, postHoc[LabelMethod])
	rows, ok := postHoc[LabelResults].([]map[string]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	assert.Equal(t, "a", rows[0][LabelGroup1])

	_, err := json.Marshal(report)
	assert.NoError(t, err)
}

func TestReportUsesMethodLabelForRegression(t *testing.T) {
	report := NewBuilder(KindLinearRegression).
		Metric(KeyR2, 0.9).
		Vector(KeyCoefficients, []float64{2, 3}).
		Build().
		Report()

	assert.Equal(t, "Régression linéaire", report[LabelMethod])
	assert.Equal(t, Float(0.9), report["R2"])
	assert.Equal(t, []Float{2, 3}, report[LabelCoefficient])
	_, hasType := report[LabelType]
	assert.False(t, hasType)
}

func TestReportEncodesInfinitePeriod(t *testing.T) {
	report := NewBuilder(KindTimeSeries).Metric(KeyPeriod, math.Inf(1)).Build().Report()
	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Période Principale":"Inf"`)
}
