package soago

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with soago-specific context.
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
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithField adds a field name to the logger (useful for tagging operations).
func (l *Logger) WithField(field string) *Logger {
	return &Logger{
		Logger: l.Logger.With("field", field),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogRegister logs a field registration.
func (l *Logger) LogRegister(ctx context.Context, field string, derived bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "register failed",
			"field", field,
			"derived", derived,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "register completed",
			"field", field,
			"derived", derived,
		)
	}
}

// LogSet logs a column write.
func (l *Logger) LogSet(ctx context.Context, field string, count int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "set failed",
			"field", field,
			"count", count,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "set completed",
			"field", field,
			"count", count,
		)
	}
}

// LogGet logs a column read.
func (l *Logger) LogGet(ctx context.Context, field string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "get failed",
			"field", field,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "get completed",
			"field", field,
		)
	}
}

// LogApply logs a bulk transform.
func (l *Logger) LogApply(ctx context.Context, fields, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "apply failed",
			"fields", fields,
			"rows", rows,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "apply completed",
			"fields", fields,
			"rows", rows,
		)
	}
}

// LogPartition logs a partition operation.
func (l *Logger) LogPartition(ctx context.Context, field string, buckets int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "partition failed",
			"field", field,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "partition completed",
			"field", field,
			"buckets", buckets,
		)
	}
}
