package logging

import (
	"context"
	"log/slog"
)

// SlogLogger adapts a *slog.Logger to the Logger interface. Each level
// forwards through the context-aware slog method so handlers can read
// values from ctx.
type SlogLogger struct {
	sl *slog.Logger
}

// NewSlogLogger wraps an already configured slog logger.
func NewSlogLogger(sl *slog.Logger) *SlogLogger {
	return &SlogLogger{sl: sl}
}

func (s *SlogLogger) Debug(ctx context.Context, msg string, args ...any) {
	s.sl.DebugContext(ctx, msg, args...)
}

func (s *SlogLogger) Info(ctx context.Context, msg string, args ...any) {
	s.sl.InfoContext(ctx, msg, args...)
}

func (s *SlogLogger) Warn(ctx context.Context, msg string, args ...any) {
	s.sl.WarnContext(ctx, msg, args...)
}

func (s *SlogLogger) Error(ctx context.Context, msg string, args ...any) {
	s.sl.ErrorContext(ctx, msg, args...)
}

// With returns a child logger that always carries the given key-value pairs.
func (s *SlogLogger) With(args ...any) Logger {
	return &SlogLogger{sl: s.sl.With(args...)}
}
