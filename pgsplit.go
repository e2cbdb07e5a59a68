// Package pgsplit extracts canonical, diffable components from PostgreSQL
// routine and materialized view DDL and re-synthesizes equivalent create,
// drop and replace statements from those components. Consumers compare a
// desired object definition against the components materialized from raw
// source text, independent of superficial formatting, and generate the
// statements that move a database from one state to the other.
package pgsplit

import (
	"context"
	"database/sql"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/entity"
	"github.com/pgsplit/pgsplit/internal/inspect"
	"github.com/pgsplit/pgsplit/internal/statement"
)

// Client bundles a configuration with the engine's entry points.
type Client struct {
	cfg config.Config
}

// NewClient creates a client with an explicit configuration.
func NewClient(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// NewClientFromEnv creates a client configured from the process environment.
func NewClientFromEnv() *Client {
	return &Client{cfg: config.FromEnv()}
}

// SplitRoutine decomposes a CREATE FUNCTION or CREATE PROCEDURE statement.
func (c *Client) SplitRoutine(sql string) (*Routine, error) {
	return statement.SplitRoutine(sql)
}

// RenderDropStatement synthesizes the DROP statement for the routine defined
// by sql.
func (c *Client) RenderDropStatement(sql string, isProcedure bool) (string, error) {
	return statement.RenderDropStatement(sql, isProcedure)
}

// ParseMaterializedView decomposes a CREATE MATERIALIZED VIEW statement.
func (c *Client) ParseMaterializedView(sql string) (MaterializedView, error) {
	return entity.FromSQL(sql, c.cfg)
}

// NewMaterializedView builds a materialized view entity from literal fields.
func (c *Client) NewMaterializedView(schema, signature, definition string, withData bool) MaterializedView {
	return entity.New(schema, signature, definition, withData, c.cfg)
}

// Inspect decomposes every routine and materialized view in schemas matching
// the LIKE pattern.
func (c *Client) Inspect(ctx context.Context, db *sql.DB, schemaPattern string) (*InspectResult, error) {
	return inspect.NewInspector(db, c.cfg).Inspect(ctx, schemaPattern)
}
