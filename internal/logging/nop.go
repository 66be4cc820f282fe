package logging

import "log/slog"

// NewNopLogger returns a logger that drops everything. Handy in tests.
func NewNopLogger() Logger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}
