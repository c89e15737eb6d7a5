// Package event defines the webhook event abstraction consumed by the router.
//
// Events are produced by the surrounding system after the raw delivery has
// been authenticated. The router only reads the event type and the flattened
// object attributes; everything else is carried for callbacks.
package event

import (
	"time"

	"github.com/google/uuid"
)

// Event is a validated webhook delivery.
type Event interface {
	ID() string   // Delivery identifier
	Type() string // Event category (e.g. "issue", "merge_request")

	// ObjectAttributes returns the flattened fields usable for secondary
	// dispatch, e.g. {"action": "open"}. Never nil.
	ObjectAttributes() map[string]any

	Data() map[string]any // Full decoded payload
	ReceivedAt() time.Time
}

// Webhook is the default Event implementation.
type Webhook struct {
	EventID    string         `json:"id"`
	EventType  string         `json:"type"`
	Attributes map[string]any `json:"object_attributes"`
	Payload    map[string]any `json:"payload"`
	Received   time.Time      `json:"received_at"`
}

// ID returns the delivery identifier.
func (w *Webhook) ID() string {
	return w.EventID
}

// Type returns the event type.
func (w *Webhook) Type() string {
	return w.EventType
}

// ObjectAttributes returns the attribute map used for secondary dispatch.
func (w *Webhook) ObjectAttributes() map[string]any {
	if w.Attributes == nil {
		return map[string]any{}
	}
	return w.Attributes
}

// Data returns the full payload.
func (w *Webhook) Data() map[string]any {
	return w.Payload
}

// ReceivedAt returns when the delivery was received.
func (w *Webhook) ReceivedAt() time.Time {
	return w.Received
}

// Option configures event creation.
type Option func(*eventConfig)

type eventConfig struct {
	id         string
	receivedAt time.Time
	attributes map[string]any
}

// WithID sets the delivery ID (default: auto-generated UUID).
func WithID(id string) Option {
	return func(cfg *eventConfig) {
		cfg.id = id
	}
}

// WithReceivedAt sets the receive time (default: time.Now()).
func WithReceivedAt(t time.Time) Option {
	return func(cfg *eventConfig) {
		cfg.receivedAt = t
	}
}

// WithAttributes overrides the object attributes. By default they are taken
// from the payload's "object_attributes" entry.
func WithAttributes(attrs map[string]any) Option {
	return func(cfg *eventConfig) {
		cfg.attributes = attrs
	}
}

// New creates a Webhook of the given type from a decoded payload.
func New(eventType string, data map[string]any, opts ...Option) *Webhook {
	cfg := &eventConfig{
		id:         uuid.New().String(),
		receivedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	attrs := cfg.attributes
	if attrs == nil {
		attrs = objectAttributes(data)
	}

	return &Webhook{
		EventID:    cfg.id,
		EventType:  eventType,
		Attributes: attrs,
		Payload:    data,
		Received:   cfg.receivedAt,
	}
}

// objectAttributes extracts the "object_attributes" map from a payload.
// Payloads without one yield an empty map.
func objectAttributes(data map[string]any) map[string]any {
	if data == nil {
		return map[string]any{}
	}
	if attrs, ok := data["object_attributes"].(map[string]any); ok {
		return attrs
	}
	return map[string]any{}
}
