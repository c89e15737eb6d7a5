// Package registry provides a generic thread-safe registry for values indexed
// by key.
//
// hookroute uses it to give callbacks names, so route manifests can refer to
// handlers that are compiled into the program:
//
//	handlers := registry.New[string, hookroute.Callback]()
//	handlers.MustAdd("triage", triage)
//	handlers.MustAdd("audit", audit)
//
//	router, err := m.Build(handlers)
//
// All methods are safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"sync"
)

// ErrDuplicate is returned by Add when the key is already registered.
var ErrDuplicate = errors.New("registry: duplicate key")

// Registry maps keys to values. It uses sync.RWMutex for read-heavy
// workloads.
type Registry[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates a new empty registry.
func New[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Add registers value under key, failing with ErrDuplicate if key is taken.
func (r *Registry[K, V]) Add(key K, value V) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.entries[key]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicate, key)
	}
	r.entries[key] = value
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry[K, V]) MustAdd(key K, value V) {
	if err := r.Add(key, value); err != nil {
		panic(err)
	}
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Keys returns all keys in the registry.
// The order is not guaranteed.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

