package statement

import "fmt"

// maxExcerptLen bounds how much offending SQL is carried in error messages.
const maxExcerptLen = 200

// excerpt returns a bounded slice of sql for inclusion in error messages.
func excerpt(sql string) string {
	if len(sql) > maxExcerptLen {
		return sql[:maxExcerptLen] + "..."
	}
	return sql
}

// ParseFailureError indicates the grammar codec rejected the input SQL.
type ParseFailureError struct {
	SQL string
	Err error
}

func (e *ParseFailureError) Error() string {
	return fmt.Sprintf("failed to parse SQL %q: %v", excerpt(e.SQL), e.Err)
}

func (e *ParseFailureError) Unwrap() error {
	return e.Err
}

// StructuralMismatchError indicates a parsed tree does not have the expected
// statement kind, arity, or field shape.
type StructuralMismatchError struct {
	Expected string
	Got      string
	SQL      string
}

func (e *StructuralMismatchError) Error() string {
	return fmt.Sprintf("expected %s, got %s in %q", e.Expected, e.Got, excerpt(e.SQL))
}

// SplitFailureError indicates the body extraction could not locate its
// sentinel marker exactly once, or the reconstructed statement failed to
// re-parse.
type SplitFailureError struct {
	Reason string
	SQL    string
	Err    error
}

func (e *SplitFailureError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to split statement (%s) %q: %v", e.Reason, excerpt(e.SQL), e.Err)
	}
	return fmt.Sprintf("failed to split statement (%s): %q", e.Reason, excerpt(e.SQL))
}

func (e *SplitFailureError) Unwrap() error {
	return e.Err
}

// TemplateMatchError indicates no statement template matched the input.
type TemplateMatchError struct {
	Kind string
	SQL  string
}

func (e *TemplateMatchError) Error() string {
	return fmt.Sprintf("failed to parse SQL into %s: %q", e.Kind, excerpt(e.SQL))
}
