// Package logger holds the process-wide slog logger used for parse and
// render diagnostics. The CLI configures it once at startup; library
// callers that never call SetGlobal get a stderr text logger.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	mu     sync.RWMutex
	global *slog.Logger
	debug  bool
)

// SetGlobal installs the logger every package logs through, along with the
// debug flag reported by IsDebug.
func SetGlobal(logger *slog.Logger, debugEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	global = logger
	debug = debugEnabled
}

// Get returns the installed logger, or a stderr fallback when SetGlobal has
// not run.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if global != nil {
		return global
	}
	return newFallback(debug)
}

// IsDebug reports whether debug logging was enabled via SetGlobal.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debug
}

func newFallback(debugEnabled bool) *slog.Logger {
	level := slog.LevelInfo
	if debugEnabled {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
