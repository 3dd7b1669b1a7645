// Package kv implements the key-value storage backends behind types.Storage.
// Each backend offers localStorage semantics: string keys, string values,
// absent keys reported without error.
package kv

import (
	"sync"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// Compile-time interface check.
var _ types.Storage = (*Memory)(nil)

// Memory is an in-process Storage. Values do not survive the process.
type Memory struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// NewMemory creates an empty Memory storage.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return "", false, types.ErrClosed
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrClosed
	}
	m.values[key] = value
	return nil
}

// Remove deletes key.
func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return types.ErrClosed
	}
	delete(m.values, key)
	return nil
}

// Close marks the storage closed. Idempotent.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}
