package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
	tags      []string
}

// Memory is the default in-process Store. Reads take the read lock; expired
// entries are dropped lazily on access and swept periodically.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	// tag -> set of keys carrying it
	tagged map[string]map[string]struct{}

	now func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]memoryEntry),
		tagged:  make(map[string]map[string]struct{}),
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if m.now().After(e.expiresAt) {
		m.mu.Lock()
		m.removeLocked(key)
		m.mu.Unlock()
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration, tags []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.removeLocked(key)
	m.entries[key] = memoryEntry{
		value:     value,
		expiresAt: m.now().Add(ttl),
		tags:      tags,
	}
	for _, tag := range tags {
		keys, ok := m.tagged[tag]
		if !ok {
			keys = make(map[string]struct{})
			m.tagged[tag] = keys
		}
		keys[key] = struct{}{}
	}
	return nil
}

func (m *Memory) InvalidateTag(_ context.Context, tag string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.tagged[tag] {
		m.removeLocked(key)
	}
	delete(m.tagged, tag)
	return nil
}

// removeLocked drops an entry and its tag index references. Callers hold the
// write lock.
func (m *Memory) removeLocked(key string) {
	e, ok := m.entries[key]
	if !ok {
		return
	}
	delete(m.entries, key)
	for _, tag := range e.tags {
		if keys, ok := m.tagged[tag]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(m.tagged, tag)
			}
		}
	}
}

// Sweep removes expired entries. Intended to be called from a background
// ticker; correctness does not depend on it since Get drops expired entries
// on access.
func (m *Memory) Sweep() {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			m.removeLocked(key)
		}
	}
}

// Len reports the number of live entries.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
