package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/statement"
)

func TestFromSQL(t *testing.T) {
	tests := []struct {
		name     string
		sql      string
		expected MaterializedView
	}{
		{
			name: "qualified without populate clause",
			sql:  "CREATE MATERIALIZED VIEW public.mv AS SELECT 1 AS x;",
			expected: MaterializedView{
				Schema:     "public",
				Signature:  "mv",
				Definition: "SELECT 1 AS x",
				WithData:   true,
			},
		},
		{
			name: "qualified with data",
			sql:  "create materialized view analytics.daily as select day, count(*) from events group by day with data",
			expected: MaterializedView{
				Schema:              "analytics",
				Signature:           "daily",
				Definition:          "select day, count(*) from events group by day",
				WithData:            true,
				IncludeSchemaPrefix: true,
			},
		},
		{
			name: "qualified with no data",
			sql:  "create materialized view s.v as select 1 with no data",
			expected: MaterializedView{
				Schema:              "s",
				Signature:           "v",
				Definition:          "select 1",
				WithData:            false,
				IncludeSchemaPrefix: true,
			},
		},
		{
			name: "unqualified defaults to public",
			sql:  "create materialized view mv as select 1",
			expected: MaterializedView{
				Schema:     "public",
				Signature:  "mv",
				Definition: "select 1",
				WithData:   true,
			},
		},
		{
			name: "unqualified with no data",
			sql:  "create materialized view mv as select 1 with no data;",
			expected: MaterializedView{
				Schema:     "public",
				Signature:  "mv",
				Definition: "select 1",
				WithData:   false,
			},
		},
		{
			name: "inline column list dropped",
			sql:  "create materialized view s.mv (a, b) as select 1, 2",
			expected: MaterializedView{
				Schema:              "s",
				Signature:           "mv",
				Definition:          "select 1, 2",
				WithData:            true,
				IncludeSchemaPrefix: true,
			},
		},
		{
			name: "quoted identifiers stripped",
			sql:  `create materialized view "s"."mv" as select 1`,
			expected: MaterializedView{
				Schema:              "s",
				Signature:           "mv",
				Definition:          "select 1",
				WithData:            true,
				IncludeSchemaPrefix: true,
			},
		},
		{
			name: "multiline definition",
			sql:  "create materialized view mv as\nselect day, total\nfrom sales\nwith no data",
			expected: MaterializedView{
				Schema:     "public",
				Signature:  "mv",
				Definition: "select day, total\nfrom sales",
				WithData:   false,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := FromSQL(tt.sql, config.Default())
			if err != nil {
				t.Fatalf("FromSQL(%q) failed: %v", tt.sql, err)
			}
			if diff := cmp.Diff(tt.expected, view); diff != "" {
				t.Errorf("view mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFromSQLTemplatePrecedence(t *testing.T) {
	// An explicit WITH NO DATA must never be swallowed by the looser
	// bare or "with data" patterns.
	view, err := FromSQL("create materialized view s.v as select 1 with no data", config.Default())
	if err != nil {
		t.Fatalf("FromSQL failed: %v", err)
	}
	if view.WithData {
		t.Error("WithData = true; want false for an explicit WITH NO DATA")
	}
	if view.Definition != "select 1" {
		t.Errorf("Definition = %q; want %q", view.Definition, "select 1")
	}
}

func TestFromSQLNoMatch(t *testing.T) {
	_, err := FromSQL("CREATE VIEW WITHOUT AS CLAUSE", config.Default())
	if err == nil {
		t.Fatal("FromSQL succeeded; want TemplateMatchError")
	}
	var target *statement.TemplateMatchError
	if !errors.As(err, &target) {
		t.Fatalf("error = %v (%T); want TemplateMatchError", err, err)
	}

	// Failures must be deterministic across attempts.
	_, second := FromSQL("CREATE VIEW WITHOUT AS CLAUSE", config.Default())
	if second == nil || second.Error() != err.Error() {
		t.Errorf("repeated attempt produced a different outcome: %v vs %v", err, second)
	}
}

func TestNewNormalizes(t *testing.T) {
	view := New(` "analytics" `, `"mv"`, "select 1;", true, config.Default())

	expected := MaterializedView{
		Schema:              "analytics",
		Signature:           "mv",
		Definition:          "select 1",
		WithData:            true,
		IncludeSchemaPrefix: true,
	}
	if diff := cmp.Diff(expected, view); diff != "" {
		t.Errorf("view mismatch (-want +got):\n%s", diff)
	}
}

func TestNewNeverIncludeSchema(t *testing.T) {
	cfg := config.Config{NeverIncludeSchema: true}
	view := New("analytics", "mv", "select 1", true, cfg)

	if view.Schema != "public" {
		t.Errorf("Schema = %q; want %q", view.Schema, "public")
	}
	if view.IncludeSchemaPrefix {
		t.Error("IncludeSchemaPrefix = true; want false when schemas are suppressed")
	}
}

func TestCreateStatement(t *testing.T) {
	tests := []struct {
		name     string
		view     MaterializedView
		expected string
	}{
		{
			name:     "public unqualified",
			view:     New("public", "mv", "SELECT 1 AS x", true, config.Default()),
			expected: `CREATE MATERIALIZED VIEW "mv" AS SELECT 1 AS x WITH DATA;`,
		},
		{
			name:     "qualified no data",
			view:     New("analytics", "daily", "select 1", false, config.Default()),
			expected: `CREATE MATERIALIZED VIEW "analytics"."daily" AS select 1 WITH NO DATA;`,
		},
		{
			name:     "definition semicolon stripped",
			view:     New("public", "mv", "select 1;", true, config.Default()),
			expected: `CREATE MATERIALIZED VIEW "mv" AS select 1 WITH DATA;`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.view.CreateStatement(); got != tt.expected {
				t.Errorf("CreateStatement() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestDropStatement(t *testing.T) {
	view := New("analytics", "daily", "select 1", true, config.Default())

	if got := view.DropStatement(false); got != `DROP MATERIALIZED VIEW "analytics"."daily"` {
		t.Errorf("DropStatement(false) = %q", got)
	}
	if got := view.DropStatement(true); got != `DROP MATERIALIZED VIEW "analytics"."daily" CASCADE` {
		t.Errorf("DropStatement(true) = %q", got)
	}
}

func TestCreateOrReplaceStatements(t *testing.T) {
	view := New("public", "mv", "select 1", false, config.Default())

	expected := []string{
		`DROP MATERIALIZED VIEW IF EXISTS "mv";`,
		`CREATE MATERIALIZED VIEW "mv" AS select 1 WITH NO DATA;`,
	}
	if diff := cmp.Diff(expected, view.CreateOrReplaceStatements()); diff != "" {
		t.Errorf("statements mismatch (-want +got):\n%s", diff)
	}
}

func TestIdentity(t *testing.T) {
	view := New("analytics", "daily", "select 1", true, config.Default())
	if got := view.Identity(); got != "MaterializedView: analytics.daily" {
		t.Errorf("Identity() = %q", got)
	}
}

func TestVariableName(t *testing.T) {
	tests := []struct {
		name     string
		view     MaterializedView
		expected string
	}{
		{"public schema omitted", New("public", "MV", "select 1", true, config.Default()), "mv"},
		{"qualified", New("Analytics", "Daily", "select 1", true, config.Default()), "analytics_daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.view.VariableName(); got != tt.expected {
				t.Errorf("VariableName() = %q; want %q", got, tt.expected)
			}
		})
	}
}

func TestRenderDeclarationSingleLine(t *testing.T) {
	view := New("analytics", "daily", "select day\nfrom sales", false, config.Default())

	expected := "analytics_daily := entity.MaterializedView{" +
		"\n\tSchema: \"analytics\"," +
		"\n\tIncludeSchemaPrefix: true," +
		"\n\tSignature: \"daily\"," +
		"\n\tDefinition: \"select day\\nfrom sales\"," +
		"\n\tWithData: false," +
		"\n}\n"
	if diff := cmp.Diff(expected, view.RenderDeclaration(config.Default())); diff != "" {
		t.Errorf("declaration mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeclarationMultiline(t *testing.T) {
	cfg := config.Config{MultilineDefinition: true}
	view := New("public", "mv", "select day\nfrom sales", true, cfg)

	expected := "mv := entity.MaterializedView{" +
		"\n\tSignature: \"mv\"," +
		"\n\tDefinition: `\nselect day\nfrom sales\n`," +
		"\n\tWithData: true," +
		"\n}\n"
	if diff := cmp.Diff(expected, view.RenderDeclaration(cfg)); diff != "" {
		t.Errorf("declaration mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderDeclarationBackquoteFallsBackToQuoted(t *testing.T) {
	cfg := config.Config{MultilineDefinition: true}
	view := New("public", "mv", "select '`' as tick", true, cfg)

	declaration := view.RenderDeclaration(cfg)
	if want := "Definition: \"select '`' as tick\","; !strings.Contains(declaration, want) {
		t.Errorf("declaration = %q; want a quoted definition line %q", declaration, want)
	}
}
