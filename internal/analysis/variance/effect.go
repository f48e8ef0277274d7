package variance

import (
	"math"

	"statkit/domain/core"
	"statkit/domain/stats"
)

// Severity buckets an eta-squared value
type Severity int

const (
	SeverityNegligible Severity = iota
	SeveritySmall
	SeverityMedium
	SeverityLarge
)

func (s Severity) String() string {
	switch s {
	case SeverityNegligible:
		return "Effet négligeable"
	case SeveritySmall:
		return "Petit effet"
	case SeverityMedium:
		return "Effet moyen"
	default:
		return "Grand effet"
	}
}

// ClassifyEtaSquared applies the 0.01 / 0.06 / 0.14 thresholds
func ClassifyEtaSquared(eta float64) Severity {
	switch {
	case eta < 0.01:
		return SeverityNegligible
	case eta < 0.06:
		return SeveritySmall
	case eta < 0.14:
		return SeverityMedium
	default:
		return SeverityLarge
	}
}

// Effect is the eta-squared of an ANOVA result
type Effect struct {
	Measure  string
	Value    float64
	Severity Severity
}

// Report renders the effect size with its display labels
func (e Effect) Report() map[string]interface{} {
	return map[string]interface{}{
		"Taille d'effet": e.Measure,
		"Valeur":         stats.Float(e.Value),
		"Interprétation": e.Severity.String(),
	}
}

// EffectSize computes eta-squared from an ANOVA result as
// (F*df_b) / (F*df_b + df_t) with df_b = k-1 and df_t = k(k-1), k being the
// number of groups. df_t ignores the group sizes; it is not the N-1 of the
// textbook definition.
func EffectSize(res *stats.Result) (Effect, error) {
	if res == nil {
		return Effect{}, core.ErrNoResultAvailable
	}
	if res.Kind() != stats.KindANOVA {
		return Effect{}, core.NewUnsupportedForKindError("effect size", string(res.Kind()))
	}
	f, ok := res.Metric(stats.KeyStatistic)
	if !ok {
		return Effect{}, core.NewUnsupportedForKindError("effect size", "ANOVA result without statistic")
	}

	k := float64(len(res.Groups()))
	dfBetween := k - 1
	dfTotal := k * (k - 1)

	var eta float64
	if math.IsInf(f, 1) {
		eta = 1
	} else {
		eta = (f * dfBetween) / (f*dfBetween + dfTotal)
	}
	return Effect{Measure: "Eta-carré", Value: eta, Severity: ClassifyEtaSquared(eta)}, nil
}
