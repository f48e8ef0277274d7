// Package container assembles the result store and analysis service from
// configuration and manages their lifecycle.
package container

import (
	"context"
	"fmt"

	"statkit/adapters/memory"
	"statkit/adapters/sqlstore"
	"statkit/app"
	"statkit/internal"
	"statkit/internal/config"
	"statkit/ports"

	"github.com/jmoiron/sqlx"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure; nil when results are kept in memory
	DB *sqlx.DB

	Results ports.ResultRepository
	Service *app.AnalysisService

	logger *internal.Logger
}

// New creates a new dependency injection container
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	internal.DefaultLogger.SetLevel(internal.ParseLevel(cfg.LogLevel))
	return &Container{
		Config: cfg,
		logger: internal.DefaultLogger.Named("container"),
	}, nil
}

// Init opens the result store and builds the analysis service. Without a
// DATABASE_URL results live in memory for the lifetime of the process.
func (c *Container) Init(ctx context.Context) error {
	if c.Config.Database.InMemory() {
		c.Results = memory.NewResultRepository()
		c.logger.Warn("DATABASE_URL not set, results are kept in memory")
	} else {
		db, err := sqlstore.Open(ctx, c.Config.Database.Driver, c.Config.Database.URL)
		if err != nil {
			return err
		}
		c.DB = db
		c.Results = sqlstore.NewResultRepository(db)
		c.logger.Info("results stored in %s database", c.Config.Database.Driver)
	}

	c.Service = app.NewAnalysisService(c.Results, app.ServiceConfig{
		Workers:   c.Config.Analysis.Workers,
		BatchSize: c.Config.Analysis.BatchSize,
		Alpha:     c.Config.Analysis.Alpha,
	})
	return nil
}

// Shutdown releases the database connection
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB == nil {
		return nil
	}
	if err := c.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	c.DB = nil
	return nil
}
