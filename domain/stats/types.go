package stats

// ============================================================================
// RESULT KINDS
// ============================================================================

// Kind identifies which analysis produced a Result. The value doubles as the
// "Type"/"Méthode" label of the report view.
type Kind string

const (
	KindANOVA         Kind = "ANOVA"
	KindKruskalWallis Kind = "Kruskal-Wallis"
	KindFriedman      Kind = "Friedman"

	KindFrequency         Kind = "Fréquence"
	KindRelativeFrequency Kind = "Fréquence Relative"

	KindTimeSeries Kind = "Série temporelle"

	KindLinearRegression     Kind = "Régression linéaire"
	KindPolynomialRegression Kind = "Régression polynomiale"
	KindLogisticRegression   Kind = "Régression logistique"

	KindRollingMean Kind = "Moyenne glissante"
	KindSummary     Kind = "Résumé"
)

// IsVariance reports whether the kind is one of the variance tests
func (k Kind) IsVariance() bool {
	return k == KindANOVA || k == KindKruskalWallis || k == KindFriedman
}

// IsFrequency reports whether the kind carries a frequency table
func (k Kind) IsFrequency() bool {
	return k == KindFrequency || k == KindRelativeFrequency
}

// IsRegression reports whether the kind is a regression fit
func (k Kind) IsRegression() bool {
	return k == KindLinearRegression || k == KindPolynomialRegression || k == KindLogisticRegression
}

// ============================================================================
// STABLE METRIC KEYS
// ============================================================================

// Metric keys are fixed regardless of which branch produced a Result.
const (
	KeyStatistic     = "statistic"
	KeyPValue        = "p-value"
	KeyDFBetween     = "df_between"
	KeyDFWithin      = "df_within"
	KeyObservations  = "n_observations"
	KeyBlocks        = "n_blocks"
	KeyMean          = "mean"
	KeyStd           = "std"
	KeyMin           = "min"
	KeyMax           = "max"
	KeyMedian        = "median"
	KeyQ1            = "q1"
	KeyQ3            = "q3"
	KeyCount         = "count"
	KeySlope         = "slope"
	KeyIntercept     = "intercept"
	KeyFrequency     = "dominant_frequency"
	KeyPeriod        = "dominant_period"
	KeyR2            = "r2"
	KeyAdjustedR2    = "adjusted_r2"
	KeyMSE           = "mse"
	KeyRMSE          = "rmse"
	KeyMAE           = "mae"
	KeyAccuracy      = "accuracy"
	KeyWindow        = "window"
	KeyDegree        = "degree"
	KeyAlpha         = "alpha"
	KeyCoefficients  = "coefficients"
	KeyRollingValues = "rolling_values"
)

// Post-hoc method names
const (
	PostHocTukey       = "Tukey HSD"
	PostHocMannWhitney = "Mann-Whitney"
	PostHocWilcoxon    = "Wilcoxon"
)

// Frequency table column names
const (
	ColumnFrequency                   = "Fréquence"
	ColumnCumulativeFrequency         = "Fréquence Cumulée"
	ColumnRelativeFrequency           = "Fréquence Relative"
	ColumnRelativeCumulativeFrequency = "Fréquence Relative Cumulée"
)

// Metric is a single named scalar
type Metric struct {
	Name  string
	Value float64
}

// Comparison is one pairwise post-hoc test between Group1 and Group2.
// MeanDiff, Lower, Upper and Reject are only populated by Tukey HSD.
type Comparison struct {
	Group1    string
	Group2    string
	Statistic float64
	PValue    float64
	MeanDiff  float64
	Lower     float64
	Upper     float64
	Reject    bool
}

// PostHoc holds the pairwise follow-up of an omnibus test
type PostHoc struct {
	Method      string
	Comparisons []Comparison
}

// Table is a labeled numeric table stored column-major: Values[c][r] is the
// value of column Columns[c] at row Index[r].
type Table struct {
	Index   []string
	Columns []string
	Values  [][]float64
}

// Column returns one column of the table by name
func (t Table) Column(name string) ([]float64, bool) {
	for i, c := range t.Columns {
		if c == name {
			out := make([]float64, len(t.Values[i]))
			copy(out, t.Values[i])
			return out, true
		}
	}
	return nil, false
}

// Vector is a named numeric sequence attached to a Result
type Vector struct {
	Name   string
	Values []float64
}
