package sqlstore

import (
	"context"
	"math"
	"testing"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/migration"
	"statkit/ports"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *ResultRepository {
	t.Helper()
	db, err := Open(context.Background(), "sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewResultRepository(db)
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	original := stats.NewBuilder(stats.KindANOVA).
		Metric(stats.KeyStatistic, 9.26).
		Metric(stats.KeyPValue, 0.0024).
		Metric(stats.KeyPeriod, math.Inf(1)).
		Groups([]string{"A", "B", "C"}).
		PostHoc(stats.PostHocTukey, []stats.Comparison{{Group1: "A", Group2: "B", Statistic: 3.1, PValue: 0.04, Reject: true}}).
		Build()
	require.NoError(t, repo.Save(ctx, original))

	loaded, err := repo.Get(ctx, original.ID())
	require.NoError(t, err)
	assert.Equal(t, original.ID(), loaded.ID())
	assert.Equal(t, original.Kind(), loaded.Kind())
	assert.Equal(t, original.Groups(), loaded.Groups())
	assert.Equal(t, original.PostHoc(), loaded.PostHoc())

	period, ok := loaded.Metric(stats.KeyPeriod)
	require.True(t, ok)
	assert.True(t, math.IsInf(period, 1))
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)
	res := stats.NewBuilder(stats.KindSummary).Metric(stats.KeyMean, 1).Build()

	require.NoError(t, repo.Save(ctx, res))
	require.NoError(t, repo.Save(ctx, res))

	all, err := repo.List(ctx, ports.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestGetMissing(t *testing.T) {
	repo := newTestRepo(t)
	_, err := repo.Get(context.Background(), core.NewID())
	assert.ErrorIs(t, err, core.ErrResultNotFound)
	assert.True(t, core.IsNotFoundError(err))
}

func TestListAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	var ids []core.ID
	for _, kind := range []stats.Kind{stats.KindFrequency, stats.KindANOVA, stats.KindFrequency} {
		res := stats.NewBuilder(kind).Build()
		ids = append(ids, res.ID())
		require.NoError(t, repo.Save(ctx, res))
	}

	freq, err := repo.List(ctx, ports.ResultFilter{Kind: stats.KindFrequency})
	require.NoError(t, err)
	require.Len(t, freq, 2)
	assert.Equal(t, ids[2], freq[0].ID())

	limited, err := repo.List(ctx, ports.ResultFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, ids[2], limited[0].ID())

	require.NoError(t, repo.Delete(ctx, ids[1]))
	assert.ErrorIs(t, repo.Delete(ctx, ids[1]), core.ErrResultNotFound)

	all, err := repo.List(ctx, ports.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "whatever")
	assert.Error(t, err)
}

func TestMigrationsAreRepeatable(t *testing.T) {
	ctx := context.Background()
	db, err := sqlx.Connect("sqlite3", ":memory:")
	require.NoError(t, err)
	defer db.Close()
	db.SetMaxOpenConns(1)

	repo := NewResultRepository(db)
	require.Error(t, repo.Save(ctx, stats.NewBuilder(stats.KindSummary).Build()))

	runner := migration.NewRunner()
	require.NoError(t, runner.Run(ctx, db))
	require.NoError(t, runner.Run(ctx, db))
	require.NoError(t, repo.Save(ctx, stats.NewBuilder(stats.KindSummary).Build()))

	require.NoError(t, runner.Reset(ctx, db))
	_, err = repo.List(ctx, ports.ResultFilter{})
	assert.Error(t, err)
}
