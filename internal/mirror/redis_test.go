package mirror

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisTestStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store, err := NewRedisStore(client, time.Hour)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	return store
}

func TestRedisStoreRoundTrip(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	if err := store.Set(ctx, "u1", Selection{OrganizationID: "org-a", CreatedAt: created}); err != nil {
		t.Fatalf("Set: %v", err)
	}

	sel, ok, err := store.Get(ctx, "u1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected entry")
	}
	if sel.OrganizationID != "org-a" || !sel.CreatedAt.Equal(created) {
		t.Fatalf("unexpected selection: %+v", sel)
	}
}

func TestRedisStoreMissingKey(t *testing.T) {
	store := newRedisTestStore(t)

	_, ok, err := store.Get(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected absence for missing key")
	}
}

func TestRedisStoreDelete(t *testing.T) {
	store := newRedisTestStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "u1", Selection{OrganizationID: "org-a", CreatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, "u1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "u1"); ok {
		t.Fatal("expected entry to be gone")
	}
}

func TestMirrorOverRedisAndMemory(t *testing.T) {
	redisStore := newRedisTestStore(t)
	memStore := NewMemoryStore()

	m, err := New([]Store{memStore, redisStore})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	m.Publish(ctx, "u1", "org-a")

	// A second surface sharing only the durable store picks the selection
	// up.
	other, err := New([]Store{NewMemoryStore(), redisStore})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	sel := other.Read(ctx, "u1")
	if sel == nil || sel.OrganizationID != "org-a" {
		t.Fatalf("expected org-a via shared redis store, got %+v", sel)
	}
}
