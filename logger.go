package ktreego

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with ktree-specific context.
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
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// LogSplit logs a node split.
func (l *Logger) LogSplit(ctx context.Context, leaf bool, depth, entries int) {
	l.DebugContext(ctx, "node split",
		"leaf", leaf,
		"depth", depth,
		"entries", entries,
	)
}

// LogBuild logs a completed bulk build.
func (l *Logger) LogBuild(ctx context.Context, inserted int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "build failed",
			"inserted", inserted,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "build completed",
			"inserted", inserted,
		)
	}
}

// LogSave logs a tree save operation.
func (l *Logger) LogSave(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"name", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "tree saved",
			"name", name,
		)
	}
}
