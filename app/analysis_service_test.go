package app

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/analysis/descriptive"
	"statkit/internal/analysis/frequency"
	"statkit/internal/analysis/timeseries"
	"statkit/internal/analysis/variance"
	"statkit/internal/errors"
	"statkit/internal/testkit"
	"statkit/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockResultRepository records calls to the result port
type MockResultRepository struct {
	mock.Mock
}

func (m *MockResultRepository) Save(ctx context.Context, result *stats.Result) error {
	args := m.Called(ctx, result)
	return args.Error(0)
}

func (m *MockResultRepository) Get(ctx context.Context, id core.ID) (*stats.Result, error) {
	args := m.Called(ctx, id)
	res, _ := args.Get(0).(*stats.Result)
	return res, args.Error(1)
}

func (m *MockResultRepository) List(ctx context.Context, filter ports.ResultFilter) ([]*stats.Result, error) {
	args := m.Called(ctx, filter)
	res, _ := args.Get(0).([]*stats.Result)
	return res, args.Error(1)
}

func (m *MockResultRepository) Delete(ctx context.Context, id core.ID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newService(repo ports.ResultRepository) *AnalysisService {
	return NewAnalysisService(repo, ServiceConfig{Workers: 2, BatchSize: 2})
}

func TestFrequencyIsStored(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*stats.Result")).Return(nil).Once()

	res, err := newService(repo).Frequency(context.Background(), []float64{1, 1, 2, 3, 3, 3}, frequency.Request{})
	require.NoError(t, err)
	assert.Equal(t, stats.KindFrequency, res.Kind())
	repo.AssertExpectations(t)
}

func TestRejectedAnalysisIsNotStored(t *testing.T) {
	repo := new(MockResultRepository)

	_, err := newService(repo).Variance(context.Background(), []float64{1, 2}, variance.Request{Test: "chi2"})
	assert.ErrorIs(t, err, core.ErrUnsupportedMethod)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestStoreFailureKeepsDatabaseCode(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(errors.DatabaseError("disk full"))

	_, err := newService(repo).Descriptive(context.Background(), []float64{1, 2, 3}, descriptive.Request{Method: descriptive.MethodSummary})
	require.Error(t, err)
	assert.Equal(t, errors.CodeDatabaseError, errors.GetCode(err))
}

func TestVarianceUsesServiceAlpha(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil)
	svc := NewAnalysisService(repo, ServiceConfig{Workers: 1, BatchSize: 10, Alpha: 0.01})

	table := testkit.NewDataGenerator(testkit.DefaultGeneratorConfig()).GroupedTable([]float64{0, 1, 2}, 10, 1)
	res, err := svc.Variance(context.Background(), table, variance.Request{Test: variance.ANOVA, GroupCol: "groupe", ValueCol: "valeur"})
	require.NoError(t, err)

	alpha, ok := res.Metric(stats.KeyAlpha)
	require.True(t, ok)
	assert.Equal(t, 0.01, alpha)
}

func TestEffectSizeFromStoredResult(t *testing.T) {
	anova := stats.NewBuilder(stats.KindANOVA).
		Metric(stats.KeyStatistic, 9.2647).
		Metric(stats.KeyDFBetween, 2).
		Groups([]string{"A", "B", "C"}).
		Build()
	kruskal := stats.NewBuilder(stats.KindKruskalWallis).Metric(stats.KeyStatistic, 7.2).Build()

	repo := new(MockResultRepository)
	repo.On("Get", mock.Anything, anova.ID()).Return(anova, nil)
	repo.On("Get", mock.Anything, kruskal.ID()).Return(kruskal, nil)
	missing := core.NewID()
	repo.On("Get", mock.Anything, missing).Return(nil, core.ErrResultNotFound)
	svc := newService(repo)

	effect, err := svc.EffectSize(context.Background(), anova.ID())
	require.NoError(t, err)
	assert.Greater(t, effect.Value, 0.0)

	_, err = svc.EffectSize(context.Background(), kruskal.ID())
	assert.ErrorIs(t, err, core.ErrUnsupportedForKind)

	_, err = svc.EffectSize(context.Background(), missing)
	assert.True(t, core.IsNotFoundError(err))
}

func TestFrequencyViews(t *testing.T) {
	res, err := frequency.Analyze([]float64{1, 1, 2, 3, 3, 3}, frequency.Request{})
	require.NoError(t, err)

	repo := new(MockResultRepository)
	repo.On("Get", mock.Anything, res.ID()).Return(res, nil)
	svc := newService(repo)

	absolute, err := svc.Frequencies(context.Background(), res.ID(), "absolute")
	require.NoError(t, err)
	count, _ := absolute.Lookup("3")
	assert.Equal(t, 3.0, count)

	cumulative, err := svc.Frequencies(context.Background(), res.ID(), "Cumulative")
	require.NoError(t, err)
	assert.Equal(t, 6.0, cumulative.Counts[len(cumulative.Counts)-1])

	relative, err := svc.Frequencies(context.Background(), res.ID(), ViewRelative)
	require.NoError(t, err)
	share, _ := relative.Lookup("3")
	assert.Equal(t, 0.5, share)

	_, err = svc.Frequencies(context.Background(), res.ID(), "percent")
	assert.ErrorIs(t, err, core.ErrUnsupportedMethod)
}

func TestTimeSeriesBatchStoresEveryResult(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(nil).Times(3)

	results, err := newService(repo).TimeSeriesBatch(context.Background(), [][]float64{{1, 2, 3}, {4, 5}, {6}})
	require.NoError(t, err)
	require.Len(t, results, 3)
	_, hasSlope := results[2].Metric(stats.KeySlope)
	assert.False(t, hasSlope)
	repo.AssertExpectations(t)
}

func TestTimeSeriesBatchStopsOnStoreError(t *testing.T) {
	repo := new(MockResultRepository)
	repo.On("Save", mock.Anything, mock.Anything).Return(stderrors.New("closed")).Once()

	_, err := newService(repo).TimeSeriesBatch(context.Background(), [][]float64{{1, 2, 3}, {4, 5}})
	assert.ErrorContains(t, err, "closed")
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestTimeSeriesRejectsTimestampMismatch(t *testing.T) {
	repo := new(MockResultRepository)
	_, err := newService(repo).TimeSeries(context.Background(), []float64{1, 2, 3}, timeseries.Request{Timestamps: []time.Time{time.Now()}})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}
