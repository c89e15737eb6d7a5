// Package config provides typed access to loosely typed configuration,
// such as route manifests decoded from YAML or JSON.
//
// Accessors never fail: a missing key or a value of the wrong type yields
// the supplied default.
package config

import (
	"time"
)

// Config wraps a map[string]any for type-safe value extraction.
type Config struct {
	data map[string]any
}

// New creates a Config from the given map.
// If data is nil, an empty Config is returned.
func New(data map[string]any) Config {
	if data == nil {
		data = make(map[string]any)
	}
	return Config{data: data}
}

// String returns the string value for key, or defaultVal if missing or not a string.
func (c Config) String(key, defaultVal string) string {
	if s, ok := c.data[key].(string); ok {
		return s
	}
	return defaultVal
}

// Bool returns the boolean value for key, or defaultVal if missing or not a bool.
func (c Config) Bool(key string, defaultVal bool) bool {
	if b, ok := c.data[key].(bool); ok {
		return b
	}
	return defaultVal
}

// Duration returns the duration value for key, or defaultVal if missing or invalid.
//
// Accepts:
//   - string: parsed with time.ParseDuration
//   - int, int64, float64: interpreted as seconds
//   - time.Duration: used directly
func (c Config) Duration(key string, defaultVal time.Duration) time.Duration {
	switch val := c.data[key].(type) {
	case string:
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	case float64:
		return time.Duration(val * float64(time.Second))
	case int:
		return time.Duration(val) * time.Second
	case int64:
		return time.Duration(val) * time.Second
	case time.Duration:
		return val
	}
	return defaultVal
}

// Map returns the nested map for key, or nil if missing or not a map.
func (c Config) Map(key string) map[string]any {
	if m, ok := c.data[key].(map[string]any); ok {
		return m
	}
	return nil
}

// Sub returns the nested section for key. Missing or non-map values yield
// an empty Config.
func (c Config) Sub(key string) Config {
	return New(c.Map(key))
}

// List returns the elements of the list at key that are maps, each as a
// Config. ok is false if key is missing, not a list, or holds a non-map.
func (c Config) List(key string) (items []Config, ok bool) {
	raw, isList := c.data[key].([]any)
	if !isList {
		return nil, false
	}
	items = make([]Config, 0, len(raw))
	for _, item := range raw {
		m, isMap := item.(map[string]any)
		if !isMap {
			return nil, false
		}
		items = append(items, New(m))
	}
	return items, true
}

// Has returns true if the key exists in the config.
func (c Config) Has(key string) bool {
	_, ok := c.data[key]
	return ok
}

