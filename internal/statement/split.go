package statement

import (
	"fmt"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
	"google.golang.org/protobuf/proto"

	"github.com/pgsplit/pgsplit/internal/logger"
	"github.com/pgsplit/pgsplit/internal/template"
)

// dummyRoutineSQL is the fixed-shape statement whose name, parameter list and
// return type get spliced into a real statement's tree during body extraction.
// The "RETURNS void" sentinel must appear exactly once after deparsing.
const dummyRoutineSQL = "CREATE FUNCTION foo.bar() RETURNS void AS $$ BEGIN $$ LANGUAGE plpgsql;"

// dummyDropFormat is the fixed-shape statement whose target object gets
// replaced with a real routine's qualified name and argument list.
const dummyDropFormat = "DROP %s sqrt(integer);"

// returnsSplit separates a minimal "name(params) RETURNS type" string at the
// RETURNS keyword. The boundary is lexical, not structural: the deparsed tree
// has no node boundary between the two.
var returnsSplit = template.MustCompile("{signature}returns{ret_type}")

// Routine holds the decomposed, diffable components of a single
// CREATE FUNCTION or CREATE PROCEDURE statement.
type Routine struct {
	// Signature is the unqualified routine name with its full parameter
	// list, e.g. `add(a int, b int)`.
	Signature string
	// Returns is the lowercased returns clause, e.g. `returns int`, or
	// empty for procedures and functions without one.
	Returns string
	// Schema is the owning schema, defaulting to "public" when the routine
	// name is unqualified.
	Schema string
	// Body is the verbatim text between the returns clause and the
	// terminating semicolon, including original whitespace, dollar quoting
	// and comments.
	Body string
	// IsProcedure reports whether the source statement was CREATE PROCEDURE.
	IsProcedure bool
}

// Kind returns the SQL keyword for the routine's entity kind.
func (r *Routine) Kind() string {
	if r.IsProcedure {
		return "PROCEDURE"
	}
	return "FUNCTION"
}

// CreateStatement reconstructs an executable CREATE statement from the
// decomposed components.
func (r *Routine) CreateStatement() string {
	return fmt.Sprintf("CREATE %s %s.%s %s %s", r.Kind(), r.Schema, r.Signature, r.Returns, r.Body)
}

// SplitRoutine decomposes a raw CREATE [OR REPLACE] FUNCTION or PROCEDURE
// statement into its diffable components. The input must contain exactly one
// statement. The reconstructed statement is re-parsed before returning, so a
// successful split is guaranteed to be self-consistent.
func SplitRoutine(sql string) (*Routine, error) {
	logger.Get().Debug("splitting routine statement", "sql", excerpt(sql))

	signatureAndReturns, isProcedure, err := routineSignatureAndReturns(sql)
	if err != nil {
		return nil, err
	}

	rawSignature := signatureAndReturns
	returns := ""
	if captures, ok := returnsSplit.Match(signatureAndReturns); ok {
		rawSignature = strings.TrimSpace(captures["signature"])
		returns = "returns " + strings.TrimSpace(captures["ret_type"])
	}

	schema, err := routineSchema(sql)
	if err != nil {
		return nil, err
	}
	body, err := routineBody(sql)
	if err != nil {
		return nil, err
	}

	// Unquote a leading double-quoted signature segment if present.
	signature := rawSignature
	if strings.HasPrefix(signature, `"`) {
		signature = strings.Replace(signature, `"`, "", 2)
	}

	routine := &Routine{
		Signature:   signature,
		Returns:     returns,
		Schema:      schema,
		Body:        body,
		IsProcedure: isProcedure,
	}

	if _, err := pg_query.Parse(routine.CreateStatement()); err != nil {
		return nil, &SplitFailureError{
			Reason: "reconstructed statement does not re-parse",
			SQL:    routine.CreateStatement(),
			Err:    err,
		}
	}
	return routine, nil
}

// parseSingle parses sql and requires exactly one top-level statement.
func parseSingle(sql string) (*pg_query.ParseResult, error) {
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, &ParseFailureError{SQL: sql, Err: err}
	}
	if len(tree.Stmts) != 1 {
		return nil, &StructuralMismatchError{
			Expected: "1 statement",
			Got:      fmt.Sprintf("%d statements", len(tree.Stmts)),
			SQL:      sql,
		}
	}
	return tree, nil
}

// createFunctionStmt parses sql and returns its single create-function or
// create-procedure node. The node stays owned by the returned tree, so
// mutations to it are visible when the tree is deparsed.
func createFunctionStmt(sql string) (*pg_query.ParseResult, *pg_query.CreateFunctionStmt, error) {
	tree, err := parseSingle(sql)
	if err != nil {
		return nil, nil, err
	}
	stmt := tree.Stmts[0].Stmt.GetCreateFunctionStmt()
	if stmt == nil {
		return nil, nil, &StructuralMismatchError{
			Expected: "CreateFunctionStmt",
			Got:      fmt.Sprintf("%T", tree.Stmts[0].Stmt.Node),
			SQL:      sql,
		}
	}
	return tree, stmt, nil
}

// routineSignatureAndReturns reduces a routine statement to a minimal
// "name(params) [RETURNS type]" string by clearing the procedure and replace
// flags, the routine options, the body, and the leading schema qualifier on
// the tree, then deparsing what remains.
func routineSignatureAndReturns(sql string) (string, bool, error) {
	tree, stmt, err := createFunctionStmt(sql)
	if err != nil {
		return "", false, err
	}

	isProcedure := stmt.IsProcedure
	stmt.IsProcedure = false
	stmt.Replace = false
	stmt.Options = nil
	stmt.SqlBody = nil
	if len(stmt.Funcname) > 1 {
		stmt.Funcname = stmt.Funcname[1:]
	}

	deparsed, err := pg_query.Deparse(tree)
	if err != nil {
		return "", false, &ParseFailureError{SQL: sql, Err: err}
	}

	// The tree guarantees the prefix, so a mismatch means codec drift.
	const prefix = "create function"
	if !strings.HasPrefix(strings.ToLower(deparsed), prefix) {
		return "", false, &StructuralMismatchError{
			Expected: prefix + " prefix",
			Got:      deparsed,
			SQL:      sql,
		}
	}
	return strings.TrimSpace(deparsed[len(prefix):]), isProcedure, nil
}

// routineSchema returns the leading component of the routine's qualified
// name, or "public" when the name is unqualified.
func routineSchema(sql string) (string, error) {
	_, stmt, err := createFunctionStmt(sql)
	if err != nil {
		return "", err
	}
	if len(stmt.Funcname) > 1 {
		schema := stmt.Funcname[0].GetString_().GetSval()
		if strings.HasPrefix(schema, `"`) || strings.HasPrefix(schema, "'") {
			schema = schema[1 : len(schema)-1]
		}
		return schema, nil
	}
	return "public", nil
}

// routineBody extracts the verbatim routine body. Deparsing loses the body's
// exact source formatting, so instead the dummy statement's name, parameter
// list and return type are spliced into the real statement's tree, leaving
// the options and body untouched, and the deparsed result is carved at the
// "RETURNS void" sentinel.
func routineBody(sql string) (string, error) {
	dummyTree, err := parseSingle(dummyRoutineSQL)
	if err != nil {
		return "", err
	}
	dummy := dummyTree.Stmts[0].Stmt.GetCreateFunctionStmt()

	tree, stmt, err := createFunctionStmt(sql)
	if err != nil {
		return "", err
	}
	stmt.IsProcedure = false
	stmt.Replace = false

	// Copy node values so the two trees never alias.
	stmt.Funcname = nil
	for _, name := range dummy.Funcname {
		stmt.Funcname = append(stmt.Funcname, proto.Clone(name).(*pg_query.Node))
	}
	stmt.Parameters = nil
	for _, param := range dummy.Parameters {
		stmt.Parameters = append(stmt.Parameters, proto.Clone(param).(*pg_query.Node))
	}
	stmt.ReturnType = proto.Clone(dummy.ReturnType).(*pg_query.TypeName)

	deparsed, err := pg_query.Deparse(tree)
	if err != nil {
		return "", &ParseFailureError{SQL: sql, Err: err}
	}

	parts := strings.Split(deparsed, "RETURNS void")
	if len(parts) != 2 {
		return "", &SplitFailureError{
			Reason: fmt.Sprintf("expected 1 occurrence of RETURNS void, found %d", len(parts)-1),
			SQL:    sql,
		}
	}
	if strings.ToLower(strings.TrimSpace(parts[0])) != "create function foo.bar()" {
		return "", &SplitFailureError{
			Reason: fmt.Sprintf("expected CREATE FUNCTION foo.bar() prefix, got %q", parts[0]),
			SQL:    sql,
		}
	}
	return parts[1], nil
}

// RenderDropStatement synthesizes a DROP FUNCTION or DROP PROCEDURE statement
// for the routine defined by sql. Overloaded routines are identified by their
// argument types, so parameter default expressions are cleared before the
// argument list is copied into the drop target.
func RenderDropStatement(sql string, isProcedure bool) (string, error) {
	kind := "FUNCTION"
	if isProcedure {
		kind = "PROCEDURE"
	}

	dummyTree, err := parseSingle(fmt.Sprintf(dummyDropFormat, kind))
	if err != nil {
		return "", err
	}
	dropStmt := dummyTree.Stmts[0].Stmt.GetDropStmt()
	if dropStmt == nil || len(dropStmt.Objects) != 1 {
		// The dummy is a compile-time constant, so this indicates an
		// engine/codec mismatch rather than bad input.
		panic(fmt.Sprintf("statement: dummy drop statement has unexpected shape: %v", dropStmt))
	}
	target := dropStmt.Objects[0].GetObjectWithArgs()
	if target == nil || len(target.Objname) == 0 {
		panic(fmt.Sprintf("statement: dummy drop statement has no target name: %v", dropStmt))
	}

	_, stmt, err := createFunctionStmt(sql)
	if err != nil {
		return "", err
	}

	target.Objname = nil
	target.Objargs = nil
	target.Objfuncargs = nil
	for _, name := range stmt.Funcname {
		target.Objname = append(target.Objname, proto.Clone(name).(*pg_query.Node))
	}
	for _, param := range stmt.Parameters {
		arg := proto.Clone(param).(*pg_query.Node)
		if fp := arg.GetFunctionParameter(); fp != nil {
			// Names and defaults are not part of the overload key.
			fp.Defexpr = nil
			fp.Name = ""
		}
		target.Objfuncargs = append(target.Objfuncargs, arg)
	}

	deparsed, err := pg_query.Deparse(dummyTree)
	if err != nil {
		return "", &ParseFailureError{SQL: sql, Err: err}
	}
	return deparsed, nil
}
