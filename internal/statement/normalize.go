package statement

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeWhitespace collapses every whitespace run in text to sep and trims
// both ends, so statements that differ only in formatting compare equal.
func NormalizeWhitespace(text string, sep string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(text), sep))
}

// StripTerminatingSemicolon removes every terminating semicolon along with
// surrounding whitespace. The trailing semicolons and whitespace are trimmed
// as one run so applying it twice equals applying it once, even for endings
// like "; ;".
func StripTerminatingSemicolon(sql string) string {
	sql = strings.TrimRight(sql, "; \t\n\r\v\f")
	return strings.TrimSpace(sql)
}

// StripDoubleQuotes removes a leading and trailing double quote character
// along with surrounding whitespace.
func StripDoubleQuotes(sql string) string {
	sql = strings.TrimSpace(sql)
	sql = strings.TrimSuffix(sql, `"`)
	sql = strings.TrimSpace(sql)
	sql = strings.TrimPrefix(sql, `"`)
	return strings.TrimSpace(sql)
}

// CoerceToQuoted coerces a possibly schema-qualified identifier to its double
// quoted form, quoting the segments before and after the first dot
// independently.
//
//	CoerceToQuoted(`public`)         => `"public"`
//	CoerceToQuoted(`public.table`)   => `"public"."table"`
//	CoerceToQuoted(`"public".table`) => `"public"."table"`
func CoerceToQuoted(text string) string {
	if schema, name, ok := strings.Cut(text, "."); ok {
		return `"` + StripDoubleQuotes(schema) + `"."` + StripDoubleQuotes(name) + `"`
	}
	return `"` + StripDoubleQuotes(text) + `"`
}

// CoerceToUnquoted coerces a possibly schema-qualified identifier to its
// unquoted form by removing every double quote character.
func CoerceToUnquoted(text string) string {
	return strings.ReplaceAll(text, `"`, "")
}

// EscapeColonForSQL escapes bare colons so the text survives the host
// templating layer, which treats ":name" as a substitution marker. The "::"
// type-cast operator is left untouched.
func EscapeColonForSQL(sql string) string {
	holder := uuid.New().String()
	sql = strings.ReplaceAll(sql, "::", holder)
	sql = strings.ReplaceAll(sql, ":", `\:`)
	sql = strings.ReplaceAll(sql, holder, "::")
	return sql
}

// EscapeColonForPLPGSQL escapes bare colons in plpgsql source. On top of the
// "::" cast, the ":=" assignment operator and any pre-existing `\:` escape
// must survive unescaped. The substitution order matters: each sentinel must
// not re-trigger a later replacement.
func EscapeColonForPLPGSQL(sql string) string {
	holder1 := uuid.New().String()
	holder2 := uuid.New().String()
	holder3 := uuid.New().String()
	sql = strings.ReplaceAll(sql, "::", holder1)
	sql = strings.ReplaceAll(sql, ":=", holder2)
	sql = strings.ReplaceAll(sql, `\:`, holder3)

	sql = strings.ReplaceAll(sql, ":", `\:`)

	sql = strings.ReplaceAll(sql, holder3, `\:`)
	sql = strings.ReplaceAll(sql, holder2, ":=")
	sql = strings.ReplaceAll(sql, holder1, "::")
	return sql
}
