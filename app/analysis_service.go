package app

import (
	"context"
	"strings"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal"
	"statkit/internal/analysis/descriptive"
	"statkit/internal/analysis/frequency"
	"statkit/internal/analysis/regression"
	"statkit/internal/analysis/timeseries"
	"statkit/internal/analysis/variance"
	"statkit/internal/errors"
	"statkit/internal/parallel"
	"statkit/ports"
)

// Frequency table views served by AnalysisService.Frequencies
const (
	ViewAbsolute   = "absolute"
	ViewCumulative = "cumulative"
	ViewRelative   = "relative"
)

// ServiceConfig holds the analysis defaults of the service
type ServiceConfig struct {
	Workers   int
	BatchSize int
	Alpha     float64
}

// AnalysisService runs analyses, persists every result and serves the
// derived-metric accessors over stored results.
type AnalysisService struct {
	repo      ports.ResultRepository
	variance  *variance.Analyzer
	processor *parallel.Processor
	batches   *parallel.BatchProcessor
	alpha     float64
	logger    *internal.Logger
}

// NewAnalysisService creates the service
func NewAnalysisService(repo ports.ResultRepository, cfg ServiceConfig) *AnalysisService {
	processor := parallel.NewProcessor(cfg.Workers)
	alpha := cfg.Alpha
	if alpha <= 0 || alpha >= 1 {
		alpha = variance.DefaultAlpha
	}
	return &AnalysisService{
		repo:      repo,
		variance:  variance.NewAnalyzer(processor),
		processor: processor,
		batches:   parallel.NewBatchProcessor(cfg.BatchSize, processor),
		alpha:     alpha,
		logger:    internal.DefaultLogger.Named("analysis"),
	}
}

// Frequency counts the values of a column
func (s *AnalysisService) Frequency(ctx context.Context, data any, req frequency.Request) (*stats.Result, error) {
	return s.store(ctx, "frequency", func() (*stats.Result, error) {
		return frequency.Analyze(data, req)
	})
}

// TimeSeries summarizes a numeric sequence
func (s *AnalysisService) TimeSeries(ctx context.Context, data any, req timeseries.Request) (*stats.Result, error) {
	return s.store(ctx, "timeseries", func() (*stats.Result, error) {
		return timeseries.Analyze(data, req)
	})
}

// TimeSeriesBatch summarizes many sequences and stores every result
func (s *AnalysisService) TimeSeriesBatch(ctx context.Context, series [][]float64) ([]*stats.Result, error) {
	results, err := timeseries.AnalyzeBatch(ctx, s.batches, series)
	if err != nil {
		return nil, err
	}
	for _, res := range results {
		if err := s.repo.Save(ctx, res); err != nil {
			return nil, errors.Wrapf(err, "failed to store result %s", res.ID())
		}
	}
	s.logger.Info("stored %d time series results", len(results))
	return results, nil
}

// Variance runs ANOVA, Kruskal-Wallis or Friedman. A zero Alpha takes the
// service default.
func (s *AnalysisService) Variance(ctx context.Context, data any, req variance.Request) (*stats.Result, error) {
	if req.Alpha == 0 {
		req.Alpha = s.alpha
	}
	return s.store(ctx, "variance", func() (*stats.Result, error) {
		return s.variance.Analyze(ctx, data, req)
	})
}

// Regression fits a linear, polynomial or logistic model
func (s *AnalysisService) Regression(ctx context.Context, data any, req regression.Request) (*stats.Result, error) {
	return s.store(ctx, "regression", func() (*stats.Result, error) {
		return regression.Analyze(data, req)
	})
}

// Descriptive computes a rolling mean or a summary
func (s *AnalysisService) Descriptive(ctx context.Context, data any, req descriptive.Request) (*stats.Result, error) {
	return s.store(ctx, "descriptive", func() (*stats.Result, error) {
		return descriptive.Analyze(data, req)
	})
}

// SummaryByColumn summarizes every numeric column; summaries are not stored
func (s *AnalysisService) SummaryByColumn(ctx context.Context, data any) ([]descriptive.ColumnSummary, error) {
	return descriptive.SummaryByColumn(ctx, s.processor, data)
}

// Result loads a stored result
func (s *AnalysisService) Result(ctx context.Context, id core.ID) (*stats.Result, error) {
	return s.repo.Get(ctx, id)
}

// Results lists stored results, newest first
func (s *AnalysisService) Results(ctx context.Context, filter ports.ResultFilter) ([]*stats.Result, error) {
	return s.repo.List(ctx, filter)
}

// DeleteResult removes a stored result
func (s *AnalysisService) DeleteResult(ctx context.Context, id core.ID) error {
	return s.repo.Delete(ctx, id)
}

// EffectSize computes eta-squared for a stored ANOVA result
func (s *AnalysisService) EffectSize(ctx context.Context, id core.ID) (variance.Effect, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return variance.Effect{}, err
	}
	return variance.EffectSize(res)
}

// Frequencies reads one view of a stored frequency result. The relative view
// is recomputed from the retained source values on every call.
func (s *AnalysisService) Frequencies(ctx context.Context, id core.ID, view string) (frequency.Frequencies, error) {
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return frequency.Frequencies{}, err
	}
	switch strings.ToLower(view) {
	case ViewAbsolute:
		return frequency.Absolute(res)
	case ViewCumulative:
		return frequency.Cumulative(res)
	case ViewRelative:
		return frequency.Relative(res)
	}
	return frequency.Frequencies{}, core.NewUnsupportedMethodError("frequencies", view)
}

func (s *AnalysisService) store(ctx context.Context, module string, run func() (*stats.Result, error)) (*stats.Result, error) {
	res, err := run()
	if err != nil {
		s.logger.Debug("%s analysis rejected: %v", module, err)
		return nil, err
	}
	if err := s.repo.Save(ctx, res); err != nil {
		return nil, errors.Wrapf(err, "failed to store %s result", module)
	}
	s.logger.Info("%s analysis stored as %s (%s)", module, res.ID(), res.Kind())
	return res, nil
}
