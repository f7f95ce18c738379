package descgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with descgo-specific helpers so the library
// logs with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, a default text handler to stderr is used.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{Logger: slog.New(handler)}
}

// WithDescriptor adds the descriptor-set name to the logger.
func (l *Logger) WithDescriptor(name string) *Logger {
	return &Logger{Logger: l.Logger.With("descriptor", name)}
}

// LogOpen logs the outcome of opening a store.
func (l *Logger) LogOpen(variant, name string, dim, total int, fromCache bool, err error) {
	if err != nil {
		l.Error("open failed",
			"variant", variant,
			"descriptor", name,
			"error", err,
		)
		return
	}
	l.Info("store opened",
		"variant", variant,
		"descriptor", name,
		"dimension", dim,
		"descriptors", total,
		"from_cache", fromCache,
	)
}

// LogNormalize logs application of a post-processing transform.
func (l *Logger) LogNormalize(name string, cols int) {
	l.Debug("normalization applied", "transform", name, "columns", cols)
}
