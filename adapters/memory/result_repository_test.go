package memory

import (
	"context"
	"sync"
	"testing"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository()
	res := stats.NewBuilder(stats.KindTimeSeries).Metric(stats.KeyMean, 2).Build()

	require.NoError(t, repo.Save(ctx, res))
	got, err := repo.Get(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, res.ID(), got.ID())

	require.NoError(t, repo.Delete(ctx, res.ID()))
	_, err = repo.Get(ctx, res.ID())
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, res.ID()), core.ErrResultNotFound)

	assert.ErrorIs(t, repo.Save(ctx, nil), core.ErrNoResultAvailable)
}

func TestListFiltersAndLimits(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository()
	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Save(ctx, stats.NewBuilder(stats.KindANOVA).Build()))
	}
	require.NoError(t, repo.Save(ctx, stats.NewBuilder(stats.KindFrequency).Build()))

	all, err := repo.List(ctx, ports.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
	for i := 1; i < len(all); i++ {
		assert.False(t, all[i].CreatedAt().After(all[i-1].CreatedAt()))
	}

	anova, err := repo.List(ctx, ports.ResultFilter{Kind: stats.KindANOVA, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, anova, 2)
	for _, r := range anova {
		assert.Equal(t, stats.KindANOVA, r.Kind())
	}
}

func TestConcurrentSaves(t *testing.T) {
	ctx := context.Background()
	repo := NewResultRepository()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Save(ctx, stats.NewBuilder(stats.KindSummary).Build())
		}()
	}
	wg.Wait()

	all, err := repo.List(ctx, ports.ResultFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 50)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewResultRepository().List(ctx, ports.ResultFilter{})
	assert.ErrorIs(t, err, context.Canceled)
}
