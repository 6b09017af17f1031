// Package store provides the persistent key-value collaborator the engine
// keeps its durable state in. Values are opaque JSON blobs under fixed,
// version-namespaced key names; a missing or unreadable key is always treated
// as an empty structure, never as a startup failure.
package store

import (
	"context"
	"sync"

	json "github.com/goccy/go-json"
)

// Store is an async-boundary key-value store for JSON blobs.
type Store interface {
	// Get returns the values for the requested keys. Keys with no stored
	// value are simply absent from the result.
	Get(ctx context.Context, keys []string) (map[string]json.RawMessage, error)

	// Set writes all entries. Partial writes are not observable: an
	// implementation either persists the batch or reports an error.
	Set(ctx context.Context, entries map[string]json.RawMessage) error
}

// Memory is an in-process Store used by tests and ephemeral runs.
type Memory struct {
	mu     sync.Mutex
	values map[string]json.RawMessage

	// FailSets makes the next n Set calls fail; tests use it to exercise
	// the write-retry path.
	FailSets int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]json.RawMessage)}
}

// Seed stores a raw value directly, bypassing Set accounting.
func (m *Memory) Seed(key string, value json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append(json.RawMessage(nil), value...)
}

// Get implements Store.
func (m *Memory) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]json.RawMessage, len(keys))
	for _, k := range keys {
		if v, ok := m.values[k]; ok {
			out[k] = append(json.RawMessage(nil), v...)
		}
	}
	return out, nil
}

// Set implements Store.
func (m *Memory) Set(_ context.Context, entries map[string]json.RawMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSets > 0 {
		m.FailSets--
		return errSetFailed
	}
	for k, v := range entries {
		m.values[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}
