package memgo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with memgo-specific context.
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

// WithAllocator adds an allocator name field to the logger.
func (l *Logger) WithAllocator(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("allocator", name),
	}
}

// LogLeaks logs the outstanding allocations found by a leak check.
func (l *Logger) LogLeaks(ctx context.Context, allocs int, bytes int64) {
	l.WarnContext(ctx, "allocator has outstanding allocations",
		"allocs", allocs,
		"bytes", bytes,
	)
}

// LogUntrackedFree logs a free (or reallocation) of a buffer the allocator
// does not track: a double free, or a buffer from a different allocator.
func (l *Logger) LogUntrackedFree(ctx context.Context, addr uint64, size int) {
	l.ErrorContext(ctx, "free of untracked buffer",
		"addr", fmt.Sprintf("%#x", addr),
		"size", size,
	)
}
