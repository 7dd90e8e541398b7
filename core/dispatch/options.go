package dispatch

import (
	"log/slog"
	"time"
)

const (
	// DefaultSendDelay spaces out sequential sends to reduce spam-filter
	// flagging. Applied between recipients, never after the last one.
	DefaultSendDelay = 2 * time.Second

	// DefaultBufferSize is the progress channel buffer. A slow observer only
	// stalls the batch once this many events are pending.
	DefaultBufferSize = 16
)

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSendDelay sets the pause between consecutive sends.
// Non-positive values disable throttling.
func WithSendDelay(d time.Duration) Option {
	return func(disp *Dispatcher) {
		disp.sendDelay = d
	}
}

// WithBufferSize sets the progress channel buffer size. Default is 16.
func WithBufferSize(size int) Option {
	return func(disp *Dispatcher) {
		if size > 0 {
			disp.bufferSize = size
		}
	}
}

// WithLogger configures structured logging for the dispatcher.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(log *slog.Logger) Option {
	return func(disp *Dispatcher) {
		if log != nil {
			disp.logger = log
		}
	}
}
