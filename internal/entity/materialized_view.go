// Package entity holds the decomposed, diffable representation of
// view-like database objects and renders them back into executable DDL.
package entity

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/logger"
	"github.com/pgsplit/pgsplit/internal/statement"
	"github.com/pgsplit/pgsplit/internal/template"
)

// matViewTemplates is the ordered list of CREATE MATERIALIZED VIEW shapes.
// The first match wins: for each of the schema-qualified and unqualified
// forms, the explicit "with data" and "with no data" variants are tried
// before the bare no-clause variant so an explicit populate clause is never
// swallowed by a looser pattern.
var matViewTemplates = template.MustCompileAll(
	"create{}materialized{}view{:s}{schema}.{signature}{:s}as{:s}{definition}{:s}with{:s}data",
	"create{}materialized{}view{:s}{schema}.{signature}{:s}as{:s}{definition}{:s}with{:s}{no_data}{:s}data",
	"create{}materialized{}view{:s}{schema}.{signature}{:s}as{:s}{definition}",
	"create{}materialized{}view{:s}{signature}{:s}as{:s}{definition}{:s}with{:s}data",
	"create{}materialized{}view{:s}{signature}{:s}as{:s}{definition}{:s}with{:s}{no_data}{:s}data",
	"create{}materialized{}view{:s}{signature}{:s}as{:s}{definition}",
)

// MaterializedView is an immutable record of the decomposed components of a
// CREATE MATERIALIZED VIEW statement. Construct values with New or FromSQL;
// do not mutate fields after construction.
type MaterializedView struct {
	// Schema is the owning schema, unquoted and normalized, defaulting to
	// "public".
	Schema string
	// Signature is the view's unquoted name without any inline column list.
	Signature string
	// Definition is the SELECT statement, without a terminating semicolon.
	Definition string
	// WithData reports whether create and replace statements populate the
	// view at creation.
	WithData bool
	// IncludeSchemaPrefix controls whether rendered statements qualify the
	// view name. Derived from Schema at construction; not part of identity.
	IncludeSchemaPrefix bool
}

// New builds a MaterializedView from literal fields, normalizing the schema
// and signature and stripping the definition's terminating semicolon.
func New(schema, signature, definition string, withData bool, cfg config.Config) MaterializedView {
	if cfg.NeverIncludeSchema {
		schema = "public"
	}
	schema = statement.CoerceToUnquoted(statement.NormalizeWhitespace(schema, " "))
	return MaterializedView{
		Schema:              schema,
		Signature:           statement.CoerceToUnquoted(statement.NormalizeWhitespace(signature, " ")),
		Definition:          statement.StripTerminatingSemicolon(definition),
		WithData:            withData,
		IncludeSchemaPrefix: schema != "public",
	}
}

// FromSQL builds a MaterializedView by template-matching a raw
// CREATE MATERIALIZED VIEW statement. It fails with a TemplateMatchError
// when no template matches; it never returns a partial parse.
func FromSQL(sql string, cfg config.Config) (MaterializedView, error) {
	logger.Get().Debug("parsing materialized view statement", "sql", sql)

	// The populate clause is optional, so the terminating semicolon is
	// stripped up front instead of enumerating every ending in the
	// template list.
	stripped := statement.StripTerminatingSemicolon(sql)

	captures, ok := template.First(matViewTemplates, stripped)
	if !ok {
		return MaterializedView{}, &statement.TemplateMatchError{Kind: "MaterializedView", SQL: sql}
	}

	_, noData := captures["no_data"]

	// Drop an inline column list, e.g. my_view (col1, col2).
	signature, _, _ := strings.Cut(captures["signature"], "(")

	schema, ok := captures["schema"]
	if !ok {
		schema = "public"
	}

	return New(schema, strings.ReplaceAll(signature, `"`, ""), captures["definition"], !noData, cfg), nil
}

// Identity returns a string that consistently and globally identifies the
// view.
func (v MaterializedView) Identity() string {
	return fmt.Sprintf("MaterializedView: %s.%s", v.Schema, v.Signature)
}

// VariableName returns a deterministic identifier for the view's rendered
// declaration.
func (v MaterializedView) VariableName() string {
	name := strings.ToLower(strings.TrimSpace(v.Signature))
	if v.IncludeSchemaPrefix {
		return strings.ToLower(v.Schema) + "_" + name
	}
	return name
}

// schemaPrefix returns the quoted schema qualifier, or "" when the view
// renders unqualified.
func (v MaterializedView) schemaPrefix() string {
	if !v.IncludeSchemaPrefix {
		return ""
	}
	return pq.QuoteIdentifier(v.Schema) + "."
}

// populateClause renders the WITH [NO] DATA clause.
func (v MaterializedView) populateClause() string {
	if v.WithData {
		return "WITH DATA"
	}
	return "WITH NO DATA"
}

// CreateStatement renders an executable CREATE MATERIALIZED VIEW statement.
func (v MaterializedView) CreateStatement() string {
	// The definition's own terminator would double up with the populate
	// clause appended after it.
	definition := statement.StripTerminatingSemicolon(v.Definition)
	return fmt.Sprintf("CREATE MATERIALIZED VIEW %s%s AS %s %s;",
		v.schemaPrefix(), pq.QuoteIdentifier(v.Signature), definition, v.populateClause())
}

// DropStatement renders an executable DROP MATERIALIZED VIEW statement.
// Unlike CreateStatement it carries no terminating semicolon.
func (v MaterializedView) DropStatement(cascade bool) string {
	stmt := fmt.Sprintf("DROP MATERIALIZED VIEW %s%s", v.schemaPrefix(), pq.QuoteIdentifier(v.Signature))
	if cascade {
		stmt += " CASCADE"
	}
	return stmt
}

// CreateOrReplaceStatements renders the two-statement replace sequence.
// Materialized views have no atomic in-place replace, so the caller must
// execute the conditional drop and the create in order inside a single
// transaction.
func (v MaterializedView) CreateOrReplaceStatements() []string {
	definition := statement.StripTerminatingSemicolon(v.Definition)
	return []string{
		fmt.Sprintf("DROP MATERIALIZED VIEW IF EXISTS %s%s;", v.schemaPrefix(), pq.QuoteIdentifier(v.Signature)),
		fmt.Sprintf("CREATE MATERIALIZED VIEW %s%s AS %s %s;",
			v.schemaPrefix(), pq.QuoteIdentifier(v.Signature), definition, v.populateClause()),
	}
}

// RenderDeclaration renders a composite literal that reconstructs the view
// when pasted into a migration source file. The definition is a quoted
// single-line literal, or a raw multi-line block when
// cfg.MultilineDefinition is set and the definition permits one.
func (v MaterializedView) RenderDeclaration(cfg config.Config) string {
	var sb strings.Builder
	sb.WriteString(v.VariableName() + " := entity.MaterializedView{")
	if v.Schema != "" && v.IncludeSchemaPrefix {
		fmt.Fprintf(&sb, "\n\tSchema: %q,", v.Schema)
		sb.WriteString("\n\tIncludeSchemaPrefix: true,")
	}
	fmt.Fprintf(&sb, "\n\tSignature: %q,", v.Signature)
	if cfg.MultilineDefinition && !strings.Contains(v.Definition, "`") {
		fmt.Fprintf(&sb, "\n\tDefinition: `\n%s\n`,", v.Definition)
	} else {
		fmt.Fprintf(&sb, "\n\tDefinition: %s,", strconv.Quote(v.Definition))
	}
	fmt.Fprintf(&sb, "\n\tWithData: %v,", v.WithData)
	sb.WriteString("\n}\n")
	return sb.String()
}
