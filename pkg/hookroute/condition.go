package hookroute

import (
	"fmt"
	"reflect"
)

// Condition restricts a route to events whose object attribute Key equals
// Value. Value is compared with == and must be comparable. Numeric values of
// any Go type are compared as float64.
type Condition struct {
	Key   string
	Value any
}

// When builds a Condition.
func When(key string, value any) Condition {
	return Condition{Key: key, Value: value}
}

// String returns key=value.
func (c Condition) String() string {
	return fmt.Sprintf("%s=%v", c.Key, c.Value)
}

func (c Condition) validate() error {
	if c.Key == "" {
		return &ArgumentError{Field: "condition", Message: "attribute name is empty"}
	}
	if !isComparable(c.Value) {
		return &ArgumentError{
			Field:   "condition",
			Message: fmt.Sprintf("value for %q has non-comparable type %T", c.Key, c.Value),
		}
	}
	return nil
}

// isComparable reports whether v can be used as a map key without panicking.
func isComparable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).Comparable()
}
