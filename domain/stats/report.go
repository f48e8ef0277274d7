package stats

// Report labels
const (
	LabelType        = "Type"
	LabelMethod      = "Méthode"
	LabelPValue      = "p-valeur"
	LabelGroups      = "Groupes"
	LabelPostHoc     = "Test post-hoc"
	LabelResults     = "Résultats"
	LabelGroup1      = "Groupe 1"
	LabelGroup2      = "Groupe 2"
	LabelStatistic   = "Statistique"
	LabelValues      = "Valeurs"
	LabelCoefficient = "Coefficients"
	LabelTerms       = "Variables"
)

var metricLabels = map[string]string{
	KeyPValue:       LabelPValue,
	KeyDFBetween:    "ddl inter-groupes",
	KeyDFWithin:     "ddl intra-groupes",
	KeyObservations: "Observations",
	KeyBlocks:       "Blocs",
	KeyMean:         "Moyenne",
	KeyStd:          "Écart-type",
	KeyMin:          "Minimum",
	KeyMax:          "Maximum",
	KeyMedian:       "Médiane",
	KeyQ1:           "Q1",
	KeyQ3:           "Q3",
	KeyCount:        "Effectif",
	KeySlope:        "Pente",
	KeyIntercept:    "Intercept",
	KeyFrequency:    "Fréquence Principale",
	KeyPeriod:       "Période Principale",
	KeyR2:           "R2",
	KeyAdjustedR2:   "R2 ajusté",
	KeyMSE:          "MSE",
	KeyRMSE:         "RMSE",
	KeyMAE:          "MAE",
	KeyAccuracy:     "Exactitude",
	KeyWindow:       "Fenêtre",
	KeyDegree:       "Degré",
	KeyAlpha:        "Alpha",
}

// MetricLabel returns the display label for a metric key
func (r *Result) MetricLabel(key string) string {
	if key == KeyStatistic {
		return statisticLabel(r.kind)
	}
	if label, ok := metricLabels[key]; ok {
		return label
	}
	return key
}

func statisticLabel(kind Kind) string {
	switch kind {
	case KindANOVA:
		return "Statistique F"
	case KindKruskalWallis:
		return "Statistique H"
	default:
		return LabelStatistic
	}
}

// Report renders the result as the labeled dictionary consumers rely on.
// Floats are wrapped in Float so the map can always be JSON encoded.
func (r *Result) Report() map[string]interface{} {
	out := make(map[string]interface{})

	if r.kind.IsRegression() || r.kind == KindRollingMean || r.kind == KindSummary {
		out[LabelMethod] = string(r.kind)
	} else {
		out[LabelType] = string(r.kind)
	}

	for _, m := range r.metrics {
		out[r.MetricLabel(m.Name)] = Float(m.Value)
	}

	if r.groups != nil {
		out[LabelGroups] = cloneStrings(r.groups)
	}
	if r.terms != nil {
		out[LabelTerms] = cloneStrings(r.terms)
	}

	if r.postHoc != nil {
		rows := make([]map[string]interface{}, 0, len(r.postHoc.Comparisons))
		for _, c := range r.postHoc.Comparisons {
			row := map[string]interface{}{
				LabelGroup1:    c.Group1,
				LabelGroup2:    c.Group2,
				LabelStatistic: Float(c.Statistic),
				LabelPValue:    Float(c.PValue),
			}
			if r.postHoc.Method == PostHocTukey {
				row["Différence"] = Float(c.MeanDiff)
				row["Borne inférieure"] = Float(c.Lower)
				row["Borne supérieure"] = Float(c.Upper)
				row["Rejet"] = c.Reject
			}
			rows = append(rows, row)
		}
		out[LabelPostHoc] = map[string]interface{}{
			LabelMethod:  r.postHoc.Method,
			LabelResults: rows,
		}
	}

	if r.table != nil {
		out[LabelValues] = cloneStrings(r.table.Index)
		for i, name := range r.table.Columns {
			out[name] = toFloats(r.table.Values[i])
		}
	}

	for _, v := range r.vectors {
		switch v.Name {
		case KeyCoefficients:
			out[LabelCoefficient] = toFloats(v.Values)
		case KeyRollingValues:
			out[LabelResults] = toFloats(v.Values)
		default:
			out[v.Name] = toFloats(v.Values)
		}
	}

	return out
}
