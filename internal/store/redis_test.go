package store

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStore(client, "lumen"), mr
}

func TestRedisStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	if err := s.Set(ctx, "progress-meta:u1", map[string]string{"started_at": "2026-01-01"}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if !mr.Exists("lumen:progress-meta:u1") {
		t.Fatal("expected namespaced redis key")
	}

	raw, err := s.Get(ctx, "progress-meta:u1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	var got map[string]string
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if got["started_at"] != "2026-01-01" {
		t.Fatalf("unexpected value: %v", got)
	}
}

func TestRedisStoreMissingAndCorrupt(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	if _, err := s.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	mr.Set("lumen:broken", "{oops")
	if _, err := s.Get(ctx, "broken"); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("expected ErrCorrupt, got %v", err)
	}
}

func TestRedisStoreKeysWithPrefixStripsNamespace(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestRedisStore(t)

	for _, k := range []string{"quiz-result-u1:welcome-overview", "quiz-result-u1:leads-capture", "quiz-result-u2:welcome-overview"} {
		if err := s.Set(ctx, k, struct{}{}); err != nil {
			t.Fatalf("set %s failed: %v", k, err)
		}
	}

	keys, err := s.KeysWithPrefix(ctx, "quiz-result-u1:")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	sort.Strings(keys)
	want := []string{"quiz-result-u1:leads-capture", "quiz-result-u1:welcome-overview"}
	if len(keys) != 2 || keys[0] != want[0] || keys[1] != want[1] {
		t.Fatalf("expected %v, got %v", want, keys)
	}
}

func TestRedisStoreRemove(t *testing.T) {
	ctx := context.Background()
	s, mr := newTestRedisStore(t)

	if err := s.Set(ctx, "k", 1); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if mr.Exists("lumen:k") {
		t.Fatal("key must be gone from redis")
	}
	if err := s.Remove(ctx, "k"); err != nil {
		t.Fatalf("removing a missing key must be a no-op: %v", err)
	}
}
