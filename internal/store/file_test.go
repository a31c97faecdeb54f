package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestFileStoreSurvivesReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := fs.Set(ctx, "account-table", []string{"u1"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := fs.Set(ctx, "session:u1", map[string]string{"token_id": "abc"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := fs.Remove(ctx, "session:u1"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	reloaded, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	raw, err := reloaded.Get(ctx, "account-table")
	if err != nil {
		t.Fatalf("get after reload failed: %v", err)
	}
	var accounts []string
	if err := json.Unmarshal(raw, &accounts); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if len(accounts) != 1 || accounts[0] != "u1" {
		t.Fatalf("unexpected accounts: %v", accounts)
	}

	if _, err := reloaded.Get(ctx, "session:u1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("removed key must stay removed, got %v", err)
	}
}

func TestFileStoreUnreadableSnapshotStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, snapshotFile), []byte("not json at all"), 0o644); err != nil {
		t.Fatalf("write snapshot: %v", err)
	}

	fs, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("open must not fail on bad snapshot: %v", err)
	}
	keys, err := fs.KeysWithPrefix(context.Background(), "")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 0 {
		t.Fatalf("expected empty store, got %v", keys)
	}
}

func TestFileStoreLeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	fs, err := NewFileStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if err := fs.Set(ctx, "k", 1); err != nil {
		t.Fatalf("set failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, snapshotFile+".tmp")); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, snapshotFile)); err != nil {
		t.Fatalf("snapshot missing: %v", err)
	}
}
