// ABOUTME: In-memory byte-slot store for tests and ephemeral sessions.
// ABOUTME: Supports failure injection to simulate an unavailable substrate.
package bytestore

import (
	"errors"
	"sync"
)

// ErrInjected is the error returned while failure injection is enabled.
var ErrInjected = errors.New("injected storage failure")

// Memory is a map-backed Store. The zero value is not usable; use NewMemory.
type Memory struct {
	mu    sync.RWMutex
	slots map[string][]byte

	failGets bool
	failSets bool
	sets     int
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{slots: make(map[string][]byte)}
}

// Get returns a copy of the blob stored under key.
func (m *Memory) Get(key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.failGets {
		return nil, ErrInjected
	}
	v, ok := m.slots[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (m *Memory) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSets {
		return ErrInjected
	}
	m.slots[key] = append([]byte(nil), value...)
	m.sets++
	return nil
}

// Delete removes key.
func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failSets {
		return ErrInjected
	}
	delete(m.slots, key)
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error {
	return nil
}

// FailGets makes subsequent Gets fail with ErrInjected.
func (m *Memory) FailGets(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failGets = fail
}

// FailSets makes subsequent Sets and Deletes fail with ErrInjected.
func (m *Memory) FailSets(fail bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSets = fail
}

// Writes returns the number of successful Sets.
func (m *Memory) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sets
}
