package statement

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitRoutineFunction(t *testing.T) {
	sql := "CREATE FUNCTION s.add(a int, b int) RETURNS int AS $$ select a+b $$ LANGUAGE sql;"

	routine, err := SplitRoutine(sql)
	if err != nil {
		t.Fatalf("SplitRoutine(%q) failed: %v", sql, err)
	}

	if !strings.HasPrefix(routine.Signature, "add(") {
		t.Errorf("Signature = %q; want prefix %q", routine.Signature, "add(")
	}
	if routine.Returns != "returns int" {
		t.Errorf("Returns = %q; want %q", routine.Returns, "returns int")
	}
	if routine.Schema != "s" {
		t.Errorf("Schema = %q; want %q", routine.Schema, "s")
	}
	if routine.IsProcedure {
		t.Error("IsProcedure = true; want false")
	}
	if !strings.Contains(routine.Body, "$$ select a+b $$") {
		t.Errorf("Body = %q; want it to contain %q", routine.Body, "$$ select a+b $$")
	}
}

func TestSplitRoutineRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		sql  string
	}{
		{"sql function", "CREATE FUNCTION s.add(a int, b int) RETURNS int AS $$ select a+b $$ LANGUAGE sql;"},
		{"or replace", "CREATE OR REPLACE FUNCTION s.add(a int, b int) RETURNS int AS $$ select a+b $$ LANGUAGE sql;"},
		{"plpgsql body", "CREATE FUNCTION f() RETURNS text AS $$\nBEGIN\n  -- comment survives\n  RETURN 'x';\nEND;\n$$ LANGUAGE plpgsql;"},
		{"no schema", "CREATE FUNCTION noargs() RETURNS int AS $$ select 1 $$ LANGUAGE sql;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			first, err := SplitRoutine(tt.sql)
			if err != nil {
				t.Fatalf("SplitRoutine failed: %v", err)
			}

			// Splitting the reconstruction must yield identical components.
			second, err := SplitRoutine(first.CreateStatement())
			if err != nil {
				t.Fatalf("SplitRoutine(reconstruction) failed: %v", err)
			}
			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("round trip mismatch (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSplitRoutineProcedure(t *testing.T) {
	sql := "CREATE PROCEDURE s.log_event(msg text) AS $$ insert into events values (msg) $$ LANGUAGE sql;"

	routine, err := SplitRoutine(sql)
	if err != nil {
		t.Fatalf("SplitRoutine(%q) failed: %v", sql, err)
	}

	if !routine.IsProcedure {
		t.Error("IsProcedure = false; want true")
	}
	if routine.Returns != "" {
		t.Errorf("Returns = %q; want empty for a procedure", routine.Returns)
	}
	if routine.Kind() != "PROCEDURE" {
		t.Errorf("Kind() = %q; want %q", routine.Kind(), "PROCEDURE")
	}
	if !strings.HasPrefix(routine.Signature, "log_event(") {
		t.Errorf("Signature = %q; want prefix %q", routine.Signature, "log_event(")
	}
}

func TestSplitRoutineDefaultSchema(t *testing.T) {
	sql := "CREATE FUNCTION f() RETURNS int AS $$ select 1 $$ LANGUAGE sql;"

	routine, err := SplitRoutine(sql)
	if err != nil {
		t.Fatalf("SplitRoutine failed: %v", err)
	}
	if routine.Schema != "public" {
		t.Errorf("Schema = %q; want %q", routine.Schema, "public")
	}
}

func TestSplitRoutineBodyPreservesFormatting(t *testing.T) {
	body := "$$\n  SELECT\ta + b   -- odd spacing kept\n$$"
	sql := "CREATE FUNCTION s.add(a int, b int) RETURNS int AS " + body + " LANGUAGE sql;"

	routine, err := SplitRoutine(sql)
	if err != nil {
		t.Fatalf("SplitRoutine failed: %v", err)
	}
	if !strings.Contains(routine.Body, "\n  SELECT\ta + b   -- odd spacing kept\n") {
		t.Errorf("Body = %q; want the original body text verbatim", routine.Body)
	}
}

func TestSplitRoutineErrors(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		errType any
	}{
		{"malformed", "CREATE FUNCTION oops oops", &ParseFailureError{}},
		{"not a routine", "SELECT 1", &StructuralMismatchError{}},
		{"multiple statements", "SELECT 1; SELECT 2;", &StructuralMismatchError{}},
		{"view statement", "CREATE VIEW v AS SELECT 1", &StructuralMismatchError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SplitRoutine(tt.sql)
			if err == nil {
				t.Fatalf("SplitRoutine(%q) succeeded; want error", tt.sql)
			}

			switch tt.errType.(type) {
			case *ParseFailureError:
				var target *ParseFailureError
				if !errors.As(err, &target) {
					t.Errorf("error = %v (%T); want ParseFailureError", err, err)
				}
			case *StructuralMismatchError:
				var target *StructuralMismatchError
				if !errors.As(err, &target) {
					t.Errorf("error = %v (%T); want StructuralMismatchError", err, err)
				}
			}

			// Failures must be deterministic across attempts.
			_, second := SplitRoutine(tt.sql)
			if second == nil || second.Error() != err.Error() {
				t.Errorf("repeated attempt produced a different outcome: %v vs %v", err, second)
			}
		})
	}
}

func TestRenderDropStatement(t *testing.T) {
	sql := "CREATE FUNCTION s.concat2(a text, b text) RETURNS text AS $$ select a || b $$ LANGUAGE sql;"

	drop, err := RenderDropStatement(sql, false)
	if err != nil {
		t.Fatalf("RenderDropStatement failed: %v", err)
	}
	if drop != "DROP FUNCTION s.concat2(text, text)" {
		t.Errorf("drop = %q; want %q", drop, "DROP FUNCTION s.concat2(text, text)")
	}
}

func TestRenderDropStatementStripsNamesAndDefaults(t *testing.T) {
	sql := "CREATE FUNCTION s.add(a int, b int DEFAULT 0) RETURNS int AS $$ select a+b $$ LANGUAGE sql;"

	drop, err := RenderDropStatement(sql, false)
	if err != nil {
		t.Fatalf("RenderDropStatement failed: %v", err)
	}

	// The drop target is the overload key: argument types only.
	if !strings.HasPrefix(drop, "DROP FUNCTION s.add(") {
		t.Errorf("drop = %q; want prefix %q", drop, "DROP FUNCTION s.add(")
	}
	for _, forbidden := range []string{"a int", "b int", "DEFAULT", "default 0"} {
		if strings.Contains(drop, forbidden) {
			t.Errorf("drop = %q; must not contain %q", drop, forbidden)
		}
	}
}

func TestRenderDropStatementProcedure(t *testing.T) {
	sql := "CREATE PROCEDURE s.log_event(msg text) AS $$ insert into events values (msg) $$ LANGUAGE sql;"

	drop, err := RenderDropStatement(sql, true)
	if err != nil {
		t.Fatalf("RenderDropStatement failed: %v", err)
	}
	if drop != "DROP PROCEDURE s.log_event(text)" {
		t.Errorf("drop = %q; want %q", drop, "DROP PROCEDURE s.log_event(text)")
	}
}
