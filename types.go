package pgsplit

import (
	"github.com/pgsplit/pgsplit/internal/config"
	"github.com/pgsplit/pgsplit/internal/entity"
	"github.com/pgsplit/pgsplit/internal/inspect"
	"github.com/pgsplit/pgsplit/internal/statement"
)

// Re-export important types for external consumption

// Config carries the process-wide behavior toggles.
type Config = config.Config

// Routine holds the decomposed components of a function or procedure.
type Routine = statement.Routine

// MaterializedView holds the decomposed components of a materialized view.
type MaterializedView = entity.MaterializedView

// Inspector reads entity definitions from a live database.
type Inspector = inspect.Inspector

// InspectResult holds everything an inspection run materialized.
type InspectResult = inspect.Result

// ParseFailureError indicates the grammar codec rejected the input.
type ParseFailureError = statement.ParseFailureError

// StructuralMismatchError indicates a parsed tree had an unexpected shape.
type StructuralMismatchError = statement.StructuralMismatchError

// SplitFailureError indicates body extraction or revalidation failed.
type SplitFailureError = statement.SplitFailureError

// TemplateMatchError indicates no statement template matched the input.
type TemplateMatchError = statement.TemplateMatchError
