// Package sqlstore persists analysis results in PostgreSQL or SQLite through
// sqlx. Results are stored as their JSON encoding.
package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"statkit/domain/core"
	"statkit/domain/stats"
	"statkit/internal/errors"
	"statkit/internal/migration"
	"statkit/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Open connects to the database, verifies the connection and applies the
// schema migrations.
func Open(ctx context.Context, driver, url string) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, driver, url)
	if err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "failed to connect to database")
	}
	if driver == "sqlite3" && strings.Contains(url, ":memory:") {
		// every pooled connection would otherwise open its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := migration.NewRunner().Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	return db, nil
}

type resultRow struct {
	ID      string `db:"id"`
	Kind    string `db:"kind"`
	Payload string `db:"payload"`
}

// ResultRepository implements ports.ResultRepository over sqlx
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a repository on an already migrated database
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

var _ ports.ResultRepository = (*ResultRepository)(nil)

// Save upserts the result keyed by its ID
func (r *ResultRepository) Save(ctx context.Context, result *stats.Result) error {
	if result == nil {
		return core.ErrNoResultAvailable
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result %s: %w", result.ID(), err)
	}

	_, err = r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO analysis_results (id, kind, payload, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET kind = excluded.kind, payload = excluded.payload
	`), result.ID().String(), string(result.Kind()), string(payload), result.CreatedAt().UTC())
	if err != nil {
		return errors.Wrapf(errors.WithCode(errors.CodeDatabaseError, err), "save result %s", result.ID())
	}
	return nil
}

// Get loads one result
func (r *ResultRepository) Get(ctx context.Context, id core.ID) (*stats.Result, error) {
	var row resultRow
	err := r.db.GetContext(ctx, &row, r.db.Rebind(`
		SELECT id, kind, payload
		FROM analysis_results
		WHERE id = ?
	`), id.String())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.WithCode(errors.CodeDatabaseError, err), "load result %s", id)
	}
	return decode(row)
}

// List returns results newest first, optionally restricted to one kind
func (r *ResultRepository) List(ctx context.Context, filter ports.ResultFilter) ([]*stats.Result, error) {
	query := `SELECT id, kind, payload FROM analysis_results`
	var args []interface{}
	if filter.Kind != "" {
		query += ` WHERE kind = ?`
		args = append(args, string(filter.Kind))
	}
	query += ` ORDER BY created_at DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	var rows []resultRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(errors.WithCode(errors.CodeDatabaseError, err), "list results")
	}

	out := make([]*stats.Result, 0, len(rows))
	for _, row := range rows {
		res, err := decode(row)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

// Delete removes a result
func (r *ResultRepository) Delete(ctx context.Context, id core.ID) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM analysis_results WHERE id = ?`), id.String())
	if err != nil {
		return errors.Wrapf(errors.WithCode(errors.CodeDatabaseError, err), "delete result %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrapf(errors.WithCode(errors.CodeDatabaseError, err), "delete result %s", id)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrResultNotFound, id)
	}
	return nil
}

func decode(row resultRow) (*stats.Result, error) {
	var res stats.Result
	if err := json.Unmarshal([]byte(row.Payload), &res); err != nil {
		return nil, fmt.Errorf("decode result %s: %w", row.ID, err)
	}
	return &res, nil
}
