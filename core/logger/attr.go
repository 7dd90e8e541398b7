package logger

import (
	"log/slog"
	"time"
)

// Attr helpers return the zero slog.Attr for nil/empty input, which slog
// drops silently. This keeps call sites free of nil checks:
// log.Info("sent", logger.Error(err)) is safe whether err is nil or not.

// Error creates an attribute for a single error under the key "error".
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Duration creates an attribute for a duration under the key "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Component tags log records with the emitting component's name.
func Component(name string) slog.Attr {
	if name == "" {
		return slog.Attr{}
	}
	return slog.String("component", name)
}
