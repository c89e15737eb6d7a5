package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records dispatch metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordDispatch records a completed or aborted dispatch.
	RecordDispatch(ctx context.Context, eventType string, invoked int, duration time.Duration, err error)

	// RecordCallback records a single callback invocation.
	RecordCallback(ctx context.Context, eventType string, duration time.Duration, err error)
}

type otelMetrics struct {
	dispatches        metric.Int64Counter
	dispatchLatency   metric.Float64Histogram
	dispatchErrors    metric.Int64Counter
	callbacks         metric.Int64Counter
	callbackLatency   metric.Float64Histogram
	callbacksPerEvent metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("hookroute")

	dispatches, err := meter.Int64Counter("hookroute.dispatch.events",
		metric.WithDescription("Number of dispatched events"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("hookroute.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("hookroute.dispatch.errors",
		metric.WithDescription("Number of dispatches aborted by a callback error"),
	)
	if err != nil {
		return nil, err
	}

	callbacks, err := meter.Int64Counter("hookroute.callback.invocations",
		metric.WithDescription("Number of callback invocations"),
	)
	if err != nil {
		return nil, err
	}

	callbackLatency, err := meter.Float64Histogram("hookroute.callback.latency_ms",
		metric.WithDescription("Callback latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	callbacksPerEvent, err := meter.Int64Histogram("hookroute.dispatch.callbacks",
		metric.WithDescription("Callbacks invoked per dispatch"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		dispatches:        dispatches,
		dispatchLatency:   dispatchLatency,
		dispatchErrors:    dispatchErrors,
		callbacks:         callbacks,
		callbackLatency:   callbackLatency,
		callbacksPerEvent: callbacksPerEvent,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordDispatch records a dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, eventType string, invoked int, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.Bool("success", err == nil),
	)

	m.dispatches.Add(ctx, 1, attrs)
	m.dispatchLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	m.callbacksPerEvent.Record(ctx, int64(invoked), attrs)

	if err != nil {
		m.dispatchErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
	}
}

// RecordCallback records a callback invocation.
func (m *otelMetrics) RecordCallback(ctx context.Context, eventType string, duration time.Duration, err error) {
	attrs := metric.WithAttributes(
		attribute.String("event_type", eventType),
		attribute.Bool("success", err == nil),
	)
	m.callbacks.Add(ctx, 1, attrs)
	m.callbackLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)
}
