package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Uses the global OTel tracer provider.
var tracer = otel.Tracer("hookroute")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDispatchSpan starts a span covering one Dispatch call.
	StartDispatchSpan(ctx context.Context, eventType, eventID string, matched int) (context.Context, trace.Span)

	// StartCallbackSpan starts a child span for the callback at position index.
	StartCallbackSpan(ctx context.Context, eventType string, index int) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)
}

type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartDispatchSpan starts a span for a dispatch.
func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, eventType, eventID string, matched int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "hookroute.dispatch",
		trace.WithAttributes(
			attribute.String("event.type", eventType),
			attribute.String("event.id", eventID),
			attribute.Int("dispatch.callbacks", matched),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCallbackSpan starts a span for one callback.
func (m *otelSpanManager) StartCallbackSpan(ctx context.Context, eventType string, index int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "hookroute.callback",
		trace.WithAttributes(
			attribute.String("event.type", eventType),
			attribute.Int("callback.index", index),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
