// Package logger provides slog attribute helpers shared across the toolkit.
//
// All helpers follow the empty-Attr pattern: nil or empty input yields a zero
// slog.Attr, which slog omits from output, so call sites never need nil
// guards around attribute construction.
package logger
