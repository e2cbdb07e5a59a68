package pgsplit

// SplitRoutine is a convenience function to decompose a routine statement
// with the default configuration.
func SplitRoutine(sql string) (*Routine, error) {
	return NewClientFromEnv().SplitRoutine(sql)
}

// RenderDropStatement is a convenience function to synthesize a routine's
// DROP statement with the default configuration.
func RenderDropStatement(sql string, isProcedure bool) (string, error) {
	return NewClientFromEnv().RenderDropStatement(sql, isProcedure)
}

// ParseMaterializedView is a convenience function to decompose a
// materialized view statement with the default configuration.
func ParseMaterializedView(sql string) (MaterializedView, error) {
	return NewClientFromEnv().ParseMaterializedView(sql)
}
