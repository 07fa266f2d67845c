package memcore

import (
	"context"
	"log/slog"
	"os"

	"github.com/hupe1980/memcore/mempool"
)

// Logger wraps slog.Logger with memcore-specific context.
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
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// PoolOption returns the mempool option that routes a pool's group events to
// this logger.
func (l *Logger) PoolOption() mempool.Option {
	return mempool.WithLogger(l.Logger)
}

// WithPool adds a pool name field to the logger.
func (l *Logger) WithPool(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("pool", name),
	}
}

// WithElementSize adds an element size field to the logger.
func (l *Logger) WithElementSize(size int) *Logger {
	return &Logger{
		Logger: l.Logger.With("element_size", size),
	}
}

// LogPoolStats logs a pool occupancy snapshot.
func (l *Logger) LogPoolStats(ctx context.Context, st mempool.Stats) {
	l.InfoContext(ctx, "pool stats",
		"element_size", st.ElementSize,
		"group_size", st.GroupSize,
		"groups", st.Groups,
		"live", st.LiveSlots,
		"free", st.FreeSlots,
		"reserved_bytes", st.ReservedBytes,
	)
}

// LogAlloc logs the outcome of an allocation that may have failed.
func (l *Logger) LogAlloc(ctx context.Context, elementSize int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "allocation failed",
			"element_size", elementSize,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "allocation completed",
			"element_size", elementSize,
		)
	}
}

// LogVerify logs the result of a structural check.
func (l *Logger) LogVerify(ctx context.Context, structure string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "verification failed",
			"structure", structure,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "verification passed",
			"structure", structure,
		)
	}
}
