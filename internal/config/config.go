// Package config holds the process-wide behavior toggles. The engine never
// reads ambient environment state itself: a Config value is built once at
// startup and passed explicitly into each call, keeping the engine pure and
// independently testable.
package config

import (
	"os"
	"strings"
)

// Environment variables read by FromEnv.
const (
	// EnvNeverIncludeSchema forces every entity into the default schema,
	// suppressing schema qualifiers in rendered statements.
	EnvNeverIncludeSchema = "PGSPLIT_NEVER_INCLUDE_SCHEMA"
	// EnvMultilineDefinition selects multi-line rendering of definitions in
	// declaration output.
	EnvMultilineDefinition = "PGSPLIT_MULTILINE_DEFINITION"
)

// Config carries the read-only flags shared across engine calls.
type Config struct {
	NeverIncludeSchema  bool
	MultilineDefinition bool
}

// Default returns the zero configuration.
func Default() Config {
	return Config{}
}

// FromEnv builds a Config from the process environment. Call it once at
// startup.
func FromEnv() Config {
	return Config{
		NeverIncludeSchema:  envBool(EnvNeverIncludeSchema),
		MultilineDefinition: envBool(EnvMultilineDefinition),
	}
}

// GetEnvWithDefault returns the value of an environment variable or a
// default value if not set.
func GetEnvWithDefault(envVar, defaultValue string) string {
	if value := os.Getenv(envVar); value != "" {
		return value
	}
	return defaultValue
}

func envBool(envVar string) bool {
	switch strings.ToLower(GetEnvWithDefault(envVar, "false")) {
	case "true", "1":
		return true
	}
	return false
}
