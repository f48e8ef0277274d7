package report

import (
	"math"
	"testing"

	"statkit/domain/core"
	"statkit/domain/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkdownANOVA(t *testing.T) {
	res := stats.NewBuilder(stats.KindANOVA).
		Metric(stats.KeyStatistic, 27).
		Metric(stats.KeyPValue, 0.001).
		Groups([]string{"a", "b"}).
		PostHoc(stats.PostHocTukey, []stats.Comparison{
			{Group1: "a", Group2: "b", Statistic: 5.2, PValue: 0.01, MeanDiff: 3, Reject: true},
		}).
		Build()

	md, err := Markdown(res)
	require.NoError(t, err)
	text := string(md)

	assert.Contains(t, text, "# ANOVA")
	assert.Contains(t, text, "| Statistique F | 27 |")
	assert.Contains(t, text, "| p-valeur | 0.001 |")
	assert.Contains(t, text, "- a\n- b\n")
	assert.Contains(t, text, "## Test post-hoc : Tukey HSD")
	assert.Contains(t, text, "| a | b | 5.2 | 0.01 | 3 | true |")
	assert.Contains(t, text, string(res.ID()))
}

func TestMarkdownFrequencyTable(t *testing.T) {
	res := stats.NewBuilder(stats.KindFrequency).
		Metric(stats.KeyCount, 6).
		Table(stats.Table{
			Index:   []string{"3", "1|x"},
			Columns: []string{stats.ColumnFrequency, stats.ColumnCumulativeFrequency},
			Values:  [][]float64{{3, 2}, {3, 5}},
		}).
		Build()

	md, err := Markdown(res)
	require.NoError(t, err)
	text := string(md)

	assert.Contains(t, text, "| Valeurs | Fréquence | Fréquence Cumulée |")
	assert.Contains(t, text, "| 3 | 3 | 3 |")
	assert.Contains(t, text, `| 1\|x | 2 | 5 |`)
}

func TestMarkdownRegressionAndSpecialFloats(t *testing.T) {
	res := stats.NewBuilder(stats.KindLinearRegression).
		Metric(stats.KeyR2, math.NaN()).
		Metric(stats.KeyPeriod, math.Inf(1)).
		Terms([]string{"x"}).
		Vector(stats.KeyCoefficients, []float64{2, 0.5}).
		Build()

	md, err := Markdown(res)
	require.NoError(t, err)
	text := string(md)

	assert.Contains(t, text, "| R2 | NaN |")
	assert.Contains(t, text, "| Période Principale | +Inf |")
	assert.Contains(t, text, "| x | 2 |")
	assert.Contains(t, text, "| x1 | 0.5 |")
}

func TestHTML(t *testing.T) {
	res := stats.NewBuilder(stats.KindRollingMean).
		Metric(stats.KeyWindow, 2).
		Vector(stats.KeyRollingValues, []float64{1.5, 2.5}).
		Build()

	page, err := HTML(res)
	require.NoError(t, err)
	text := string(page)

	assert.Contains(t, text, "<title>Moyenne glissante</title>")
	assert.Contains(t, text, "<table>")
	assert.Contains(t, text, "1.5, 2.5")
}

func TestNilResult(t *testing.T) {
	_, err := Markdown(nil)
	assert.ErrorIs(t, err, core.ErrNoResultAvailable)
	_, err = HTML(nil)
	assert.ErrorIs(t, err, core.ErrNoResultAvailable)
}
