package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
)

// MemoryStore is a mutex-guarded in-process Store. It backs tests and the
// "memory" driver, and is embedded by FileStore for the snapshot driver.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]json.RawMessage
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]json.RawMessage)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: %s", ErrCorrupt, key)
	}
	out := make(json.RawMessage, len(raw))
	copy(out, raw)
	return out, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = raw
	return nil
}

func (m *MemoryStore) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.records, key)
	return nil
}

func (m *MemoryStore) KeysWithPrefix(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	return keys, nil
}

// PutRaw stores bytes at key without validating them. Tests use it to plant
// corrupt payloads.
func (m *MemoryStore) PutRaw(key string, raw []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[key] = raw
}

// snapshot returns a copy of the full record map. Used by FileStore.
func (m *MemoryStore) snapshot() map[string]json.RawMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]json.RawMessage, len(m.records))
	for k, v := range m.records {
		c := make(json.RawMessage, len(v))
		copy(c, v)
		out[k] = c
	}
	return out
}

// replace swaps the full record map. Used by FileStore on load.
func (m *MemoryStore) replace(records map[string]json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = records
}
