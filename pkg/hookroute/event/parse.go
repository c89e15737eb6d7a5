package event

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ParseError indicates a webhook body could not be decoded.
type ParseError struct {
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse webhook: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("parse webhook: %s", e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// FromJSON decodes a JSON body into a Webhook of the given type.
// An empty body produces an event with no payload.
func FromJSON(eventType string, body []byte, opts ...Option) (*Webhook, error) {
	if eventType == "" {
		return nil, &ParseError{Message: "missing event type"}
	}

	data, err := decode(body)
	if err != nil {
		return nil, err
	}
	return New(eventType, data, opts...), nil
}

// FromPayload decodes a JSON body and takes the event type from the
// payload's "object_kind" field.
func FromPayload(body []byte, opts ...Option) (*Webhook, error) {
	data, err := decode(body)
	if err != nil {
		return nil, err
	}

	kind, _ := data["object_kind"].(string)
	if kind == "" {
		return nil, &ParseError{Message: "payload has no object_kind"}
	}
	return New(kind, data, opts...), nil
}

func decode(body []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return map[string]any{}, nil
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &ParseError{Message: "invalid JSON body", Err: err}
	}
	if data == nil {
		// "null" body
		data = map[string]any{}
	}
	return data, nil
}
