// Package inspect materializes entity definitions from a live database, so
// callers can compare a desired definition against what the database
// currently holds.
package inspect

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/entity"
	"github.com/pgsplit/pgsplit/internal/logger"
	"github.com/pgsplit/pgsplit/internal/statement"
)

const matViewQuery = `
SELECT
    schemaname,
    matviewname,
    definition,
    ispopulated
FROM
    pg_matviews
WHERE
    schemaname NOT IN ('pg_catalog', 'information_schema')
    AND schemaname::text LIKE $1
ORDER BY schemaname, matviewname
`

const routineQuery = `
SELECT
    n.nspname,
    pg_get_functiondef(p.oid),
    p.prokind = 'p'
FROM
    pg_proc p
    JOIN pg_namespace n ON n.oid = p.pronamespace
WHERE
    n.nspname NOT IN ('pg_catalog', 'information_schema')
    AND n.nspname::text LIKE $1
    AND p.prokind IN ('f', 'p')
ORDER BY n.nspname, p.proname
`

// Result holds everything an inspection run materialized.
type Result struct {
	MaterializedViews []entity.MaterializedView
	Routines          []*statement.Routine
}

// Inspector reads entity definitions from a database and runs them through
// the decomposition engine.
type Inspector struct {
	db  *sql.DB
	cfg config.Config
}

// NewInspector creates an inspector over an open database connection.
func NewInspector(db *sql.DB, cfg config.Config) *Inspector {
	return &Inspector{db: db, cfg: cfg}
}

// MaterializedViews returns every materialized view in schemas matching the
// LIKE pattern, excluding system schemas.
func (i *Inspector) MaterializedViews(ctx context.Context, schemaPattern string) ([]entity.MaterializedView, error) {
	rows, err := i.db.QueryContext(ctx, matViewQuery, schemaPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query pg_matviews: %w", err)
	}
	defer rows.Close()

	var views []entity.MaterializedView
	for rows.Next() {
		var schema, name, definition string
		var populated bool
		if err := rows.Scan(&schema, &name, &definition, &populated); err != nil {
			return nil, fmt.Errorf("failed to scan materialized view row: %w", err)
		}
		views = append(views, entity.New(schema, name, definition, populated, i.cfg))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read materialized views: %w", err)
	}
	return views, nil
}

// Routines returns the decomposition of every function and procedure in
// schemas matching the LIKE pattern, excluding system schemas.
func (i *Inspector) Routines(ctx context.Context, schemaPattern string) ([]*statement.Routine, error) {
	rows, err := i.db.QueryContext(ctx, routineQuery, schemaPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query pg_proc: %w", err)
	}
	defer rows.Close()

	var routines []*statement.Routine
	for rows.Next() {
		var schema, definition string
		var isProcedure bool
		if err := rows.Scan(&schema, &definition, &isProcedure); err != nil {
			return nil, fmt.Errorf("failed to scan routine row: %w", err)
		}

		routine, err := statement.SplitRoutine(definition)
		if err != nil {
			return nil, fmt.Errorf("failed to split routine in schema %s: %w", schema, err)
		}
		routines = append(routines, routine)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read routines: %w", err)
	}
	return routines, nil
}

// Inspect materializes views and routines concurrently.
func (i *Inspector) Inspect(ctx context.Context, schemaPattern string) (*Result, error) {
	logger.Get().Debug("inspecting database", "schema_pattern", schemaPattern)

	result := &Result{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		views, err := i.MaterializedViews(ctx, schemaPattern)
		if err != nil {
			return err
		}
		result.MaterializedViews = views
		return nil
	})
	g.Go(func() error {
		routines, err := i.Routines(ctx, schemaPattern)
		if err != nil {
			return err
		}
		result.Routines = routines
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}
