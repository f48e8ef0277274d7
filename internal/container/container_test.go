package container

import (
	"context"
	"testing"

	"statkit/adapters/memory"
	"statkit/adapters/sqlstore"
	"statkit/internal/analysis/frequency"
	"statkit/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Database: config.DatabaseConfig{Driver: config.DriverSQLite},
		Analysis: config.AnalysisConfig{Workers: 2, BatchSize: 10, Alpha: 0.05},
		LogLevel: "ERROR",
	}
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestInitInMemory(t *testing.T) {
	c, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))
	defer c.Shutdown(context.Background())

	assert.Nil(t, c.DB)
	assert.IsType(t, &memory.ResultRepository{}, c.Results)
	require.NotNil(t, c.Service)
}

func TestInitSQLite(t *testing.T) {
	cfg := testConfig()
	cfg.Database.URL = ":memory:"

	c, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, c.Init(context.Background()))

	assert.NotNil(t, c.DB)
	assert.IsType(t, &sqlstore.ResultRepository{}, c.Results)

	ctx := context.Background()
	res, err := c.Service.Frequency(ctx, []float64{1, 2, 2}, frequency.Request{})
	require.NoError(t, err)
	loaded, err := c.Service.Result(ctx, res.ID())
	require.NoError(t, err)
	assert.Equal(t, res.ID(), loaded.ID())

	require.NoError(t, c.Shutdown(ctx))
	assert.Nil(t, c.DB)
	require.NoError(t, c.Shutdown(ctx))
}

func TestInitUnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Database.Driver = "oracle"
	cfg.Database.URL = "oracle://nowhere"

	c, err := New(cfg)
	require.NoError(t, err)
	assert.Error(t, c.Init(context.Background()))
}
