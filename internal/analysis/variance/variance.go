// Package variance compares groups with one-way ANOVA, Kruskal-Wallis or
// Friedman and follows up with pairwise post-hoc comparisons.
package variance

import (
	"context"
	"errors"
	"fmt"
	"math"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/numeric"
	"statkit/internal/parallel"
	"statkit/internal/validation"
)

// DefaultAlpha is the significance level used when a request leaves it unset
const DefaultAlpha = 0.05

// Test is the omnibus test to run
type Test string

const (
	ANOVA    Test = "anova"
	Kruskal  Test = "kruskal"
	Friedman Test = "friedman"
)

// ParseTest maps a test identifier onto a Test
func ParseTest(s string) (Test, error) {
	switch t := Test(s); t {
	case ANOVA, Kruskal, Friedman:
		return t, nil
	default:
		return "", core.NewUnsupportedMethodError("variance", s)
	}
}

// Request configures a variance analysis over a long-format table: one row per
// observation, GroupCol naming the group and ValueCol holding the value.
// SubjectCol is only read by Friedman, to align repeated measures into blocks.
type Request struct {
	Test       Test
	GroupCol   string
	ValueCol   string
	SubjectCol string
	Alpha      float64
}

// Analyzer runs variance analyses. Post-hoc comparisons are spread over the
// processor's workers.
type Analyzer struct {
	processor *parallel.Processor
	logger    *internal.Logger
}

// NewAnalyzer creates an analyzer. A nil processor uses one worker per CPU.
func NewAnalyzer(processor *parallel.Processor) *Analyzer {
	if processor == nil {
		processor = parallel.NewProcessor(0)
	}
	return &Analyzer{
		processor: processor,
		logger:    internal.DefaultLogger.Named("variance"),
	}
}

// Analyze validates the request and data, then runs the selected test.
// An unknown test is rejected before the data is looked at.
func (a *Analyzer) Analyze(ctx context.Context, data any, req Request) (*stats.Result, error) {
	if _, err := ParseTest(string(req.Test)); err != nil {
		return nil, err
	}

	alpha := req.Alpha
	if alpha == 0 {
		alpha = DefaultAlpha
	}
	if alpha <= 0 || alpha >= 1 {
		return nil, core.NewInvalidParameterError("alpha", req.Alpha, "in (0, 1)")
	}

	shape := validation.Shape{
		Columns:     []string{req.ValueCol},
		Categorical: []string{req.GroupCol},
		MinLength:   2,
		Numeric:     true,
		Complete:    true,
	}
	if req.Test == Friedman && req.SubjectCol != "" {
		shape.Categorical = append(shape.Categorical, req.SubjectCol)
	}
	table, err := validation.Validate(data, shape)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("running %s on %d rows (group=%s, value=%s)", req.Test, table.Len(), req.GroupCol, req.ValueCol)

	switch req.Test {
	case ANOVA:
		g, err := splitGroups(table, req.GroupCol, req.ValueCol)
		if err != nil {
			return nil, err
		}
		return a.anova(ctx, g, alpha)
	case Kruskal:
		g, err := splitGroups(table, req.GroupCol, req.ValueCol)
		if err != nil {
			return nil, err
		}
		return a.kruskal(ctx, g)
	default:
		d, err := pivotBlocks(table, req.GroupCol, req.ValueCol, req.SubjectCol)
		if err != nil {
			return nil, err
		}
		return a.friedman(ctx, d)
	}
}

func (a *Analyzer) anova(ctx context.Context, g groups, alpha float64) (*stats.Result, error) {
	res, err := numeric.OneWayANOVA(g.values)
	if err != nil {
		return nil, fmt.Errorf("ANOVA: %w", err)
	}

	tukey := numeric.NewTukeyHSD(res, alpha)
	cmps, err := a.compare(ctx, g.labels, func(i, j int) (stats.Comparison, error) {
		t := tukey.Compare(i, j)
		return stats.Comparison{
			Statistic: t.Q,
			PValue:    t.PValue,
			MeanDiff:  t.MeanDiff,
			Lower:     t.Lower,
			Upper:     t.Upper,
			Reject:    t.Reject,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	return stats.NewBuilder(stats.KindANOVA).
		Metric(stats.KeyStatistic, res.F).
		Metric(stats.KeyPValue, res.PValue).
		Metric(stats.KeyDFBetween, float64(res.DFBetween)).
		Metric(stats.KeyDFWithin, float64(res.DFWithin)).
		Metric(stats.KeyObservations, float64(g.total())).
		Metric(stats.KeyAlpha, alpha).
		Groups(g.labels).
		PostHoc(stats.PostHocTukey, cmps).
		Build(), nil
}

func (a *Analyzer) kruskal(ctx context.Context, g groups) (*stats.Result, error) {
	h, p, err := numeric.KruskalWallis(g.values)
	if err != nil {
		return nil, fmt.Errorf("Kruskal-Wallis: %w", err)
	}

	cmps, err := a.compare(ctx, g.labels, func(i, j int) (stats.Comparison, error) {
		u, pu, err := numeric.MannWhitneyU(g.values[i], g.values[j])
		if err != nil {
			return stats.Comparison{}, err
		}
		return stats.Comparison{Statistic: u, PValue: pu}, nil
	})
	if err != nil {
		return nil, err
	}

	return stats.NewBuilder(stats.KindKruskalWallis).
		Metric(stats.KeyStatistic, h).
		Metric(stats.KeyPValue, p).
		Metric(stats.KeyDFBetween, float64(len(g.labels)-1)).
		Metric(stats.KeyObservations, float64(g.total())).
		Groups(g.labels).
		PostHoc(stats.PostHocMannWhitney, cmps).
		Build(), nil
}

func (a *Analyzer) friedman(ctx context.Context, d design) (*stats.Result, error) {
	chi2, p, err := numeric.Friedman(d.blocks)
	if err != nil {
		return nil, fmt.Errorf("Friedman: %w", err)
	}

	cmps, err := a.compare(ctx, d.treatments, func(i, j int) (stats.Comparison, error) {
		w, pw, err := numeric.WilcoxonSignedRank(d.column(i), d.column(j))
		if errors.Is(err, core.ErrDegenerateData) {
			// identical treatments: no signed differences to rank
			return stats.Comparison{Statistic: 0, PValue: math.NaN()}, nil
		}
		if err != nil {
			return stats.Comparison{}, err
		}
		return stats.Comparison{Statistic: w, PValue: pw}, nil
	})
	if err != nil {
		return nil, err
	}

	return stats.NewBuilder(stats.KindFriedman).
		Metric(stats.KeyStatistic, chi2).
		Metric(stats.KeyPValue, p).
		Metric(stats.KeyDFBetween, float64(len(d.treatments)-1)).
		Metric(stats.KeyBlocks, float64(len(d.blocks))).
		Groups(d.treatments).
		PostHoc(stats.PostHocWilcoxon, cmps).
		Build(), nil
}
