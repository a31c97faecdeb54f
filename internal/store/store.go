// Package store provides the durable key/value record store that every other
// engine component reads and writes through. Values are JSON documents; each
// key is a unit of consistency (writes are full read-modify-write of the key).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for record lookups. ErrCorrupt is distinct from ErrNotFound
// so diagnostics can tell a missing record from a damaged one; higher layers
// treat both as "absent".
var (
	ErrNotFound = errors.New("record not found")
	ErrCorrupt  = errors.New("record is not valid JSON")
)

// Store is the persistent record store contract.
type Store interface {
	// Get returns the raw JSON value at key, ErrNotFound when absent,
	// or ErrCorrupt when the stored payload is not valid JSON.
	Get(ctx context.Context, key string) (json.RawMessage, error)
	// Set marshals value to JSON and writes it at key.
	Set(ctx context.Context, key string, value any) error
	// Remove deletes the record at key. Removing a missing key is a no-op.
	Remove(ctx context.Context, key string) error
	// KeysWithPrefix lists every key starting with prefix, in no defined order.
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}

// Load reads and decodes the record at key into dst. It reports whether a
// usable record was found. A corrupt record is treated the same as a missing
// one: this trades strict correctness for availability, so a damaged record
// never takes the whole engine down. Callers needing to distinguish the two
// must use Store.Get directly.
func Load(ctx context.Context, s Store, key string, dst any) (bool, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrCorrupt) {
			return false, nil
		}
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Valid JSON of the wrong shape counts as corrupt too.
		return false, nil
	}
	return true, nil
}
