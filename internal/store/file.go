package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

const snapshotFile = "records.json"

// FileStore is a MemoryStore that snapshots the full record map to a JSON
// file after every mutation. The snapshot is written to a temp file and
// renamed into place, so a crash leaves either the old file or the new one,
// never a torn write.
type FileStore struct {
	*MemoryStore
	dir string
	wmu sync.Mutex
	log zerolog.Logger
}

// NewFileStore loads (or creates) the snapshot under dir.
// An unreadable or non-JSON snapshot is logged and discarded rather than
// failing startup.
func NewFileStore(dir string, log zerolog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	fs := &FileStore{
		MemoryStore: NewMemoryStore(),
		dir:         dir,
		log:         log.With().Str("component", "file_store").Logger(),
	}

	path := filepath.Join(dir, snapshotFile)
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(content, &records); err != nil {
		fs.log.Warn().Err(err).Str("path", path).Msg("Snapshot unreadable, starting empty")
		return fs, nil
	}
	fs.replace(records)
	return fs, nil
}

func (f *FileStore) Set(ctx context.Context, key string, value any) error {
	if err := f.MemoryStore.Set(ctx, key, value); err != nil {
		return err
	}
	return f.persist()
}

func (f *FileStore) Remove(ctx context.Context, key string) error {
	if err := f.MemoryStore.Remove(ctx, key); err != nil {
		return err
	}
	return f.persist()
}

func (f *FileStore) persist() error {
	f.wmu.Lock()
	defer f.wmu.Unlock()

	raw, err := json.MarshalIndent(f.snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	path := filepath.Join(f.dir, snapshotFile)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("swap snapshot: %w", err)
	}
	return nil
}
