// Package observability provides logging, metrics, and tracing for event
// dispatch.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// EnrichLogger adds event context to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, "issue", "6f1c...")
//	enriched.Info("handling") // includes event_type, event_id
func EnrichLogger(logger *slog.Logger, eventType, eventID string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
	)
}

// LogDispatchStart logs the start of a dispatch.
func LogDispatchStart(logger *slog.Logger, eventType, eventID string, matched int) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch starting",
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
		slog.Int("callbacks", matched),
	)
}

// LogDispatchComplete logs the end of a dispatch in which every callback
// returned without error.
func LogDispatchComplete(logger *slog.Logger, eventType, eventID string, invoked int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch completed",
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
		slog.Int("callbacks_invoked", invoked),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCallbackComplete logs a successful callback.
func LogCallbackComplete(logger *slog.Logger, eventType, eventID string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("callback completed",
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogCallbackError logs a failed callback.
func LogCallbackError(logger *slog.Logger, eventType, eventID string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Error("callback failed",
		slog.String("event_type", eventType),
		slog.String("event_id", eventID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
