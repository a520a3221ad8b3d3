package sieve

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with sieve-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithQuery adds the rendered statement to the logger.
func (l *Logger) WithQuery(query string) *Logger {
	return &Logger{
		Logger: l.Logger.With("query", query),
	}
}

// WithTable adds the table (or alias) name to the logger.
func (l *Logger) WithTable(table string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", table),
	}
}

// LogConstruct logs engine construction.
func (l *Logger) LogConstruct(ctx context.Context, functions int, columns []string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "engine construction failed",
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "engine constructed",
			"functions", functions,
			"columns", columns,
		)
	}
}

// LogRestrict logs the outcome of index restriction.
func (l *Logger) LogRestrict(ctx context.Context, column string, candidates int) {
	if column == "" {
		l.DebugContext(ctx, "no index restriction, scanning all rows")
		return
	}
	l.DebugContext(ctx, "restricted by index",
		"index", column,
		"candidates", candidates,
	)
}

// LogExecute logs a query execution.
func (l *Logger) LogExecute(ctx context.Context, scanned, matched int, restricted bool, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "execute failed",
			"scanned", scanned,
			"restricted", restricted,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "execute completed",
			"scanned", scanned,
			"matched", matched,
			"restricted", restricted,
			"duration", d,
		)
	}
}
