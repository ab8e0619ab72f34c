package mirror

import (
	"context"
	"errors"
	"testing"
	"time"
)

type failingStore struct{}

func (failingStore) Set(context.Context, string, Selection) error { return errors.New("set failed") }
func (failingStore) Get(context.Context, string) (Selection, bool, error) {
	return Selection{}, false, errors.New("get failed")
}
func (failingStore) Delete(context.Context, string) error { return errors.New("delete failed") }

type clock struct{ now time.Time }

func (c *clock) Now() time.Time          { return c.now }
func (c *clock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestMirror(t *testing.T, stores []Store, c *clock) *Mirror {
	t.Helper()
	m, err := New(stores, WithClock(c.Now))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func TestPublishReadRoundTrip(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	m := newTestMirror(t, []Store{primary, secondary}, c)
	ctx := context.Background()

	m.Publish(ctx, "u1", "org-a")

	sel := m.Read(ctx, "u1")
	if sel == nil {
		t.Fatal("expected a selection")
	}
	if sel.OrganizationID != "org-a" {
		t.Fatalf("unexpected organization: %q", sel.OrganizationID)
	}

	// Both redundant stores observed the write.
	for i, store := range []Store{primary, secondary} {
		if _, ok, _ := store.Get(ctx, "u1"); !ok {
			t.Fatalf("store %d missing entry", i)
		}
	}
}

func TestReadExpiredEntryIsCleared(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	m := newTestMirror(t, []Store{primary, secondary}, c)
	ctx := context.Background()

	m.Publish(ctx, "u1", "org-a")
	c.Advance(DefaultTTL + time.Second)

	if sel := m.Read(ctx, "u1"); sel != nil {
		t.Fatalf("expected expired selection to be nil, got %+v", sel)
	}
	// Eagerly cleared, not just hidden: the backing stores are empty and a
	// second read also returns nil.
	for i, store := range []Store{primary, secondary} {
		if _, ok, _ := store.Get(ctx, "u1"); ok {
			t.Fatalf("store %d still holds expired entry", i)
		}
	}
	if sel := m.Read(ctx, "u1"); sel != nil {
		t.Fatalf("second read must also be nil, got %+v", sel)
	}
}

func TestPublishOverwritesWithFreshTimestamp(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m := newTestMirror(t, []Store{NewMemoryStore()}, c)
	ctx := context.Background()

	m.Publish(ctx, "u1", "org-a")
	c.Advance(20 * time.Minute)
	m.Publish(ctx, "u1", "org-b")
	c.Advance(20 * time.Minute)

	// 40 minutes after the first publish, the second one is still live.
	sel := m.Read(ctx, "u1")
	if sel == nil || sel.OrganizationID != "org-b" {
		t.Fatalf("expected fresh org-b selection, got %+v", sel)
	}
}

func TestClearRemovesFromAllStores(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	primary := NewMemoryStore()
	secondary := NewMemoryStore()
	m := newTestMirror(t, []Store{primary, secondary}, c)
	ctx := context.Background()

	m.Publish(ctx, "u1", "org-a")
	m.Clear(ctx, "u1")

	if sel := m.Read(ctx, "u1"); sel != nil {
		t.Fatalf("expected nil after clear, got %+v", sel)
	}
}

func TestFailingStoreNeverRaises(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	healthy := NewMemoryStore()
	m := newTestMirror(t, []Store{failingStore{}, healthy}, c)
	ctx := context.Background()

	// Publish, Read and Clear degrade to the healthy store.
	m.Publish(ctx, "u1", "org-a")
	sel := m.Read(ctx, "u1")
	if sel == nil || sel.OrganizationID != "org-a" {
		t.Fatalf("healthy store should still serve the selection, got %+v", sel)
	}
	m.Clear(ctx, "u1")
	if sel := m.Read(ctx, "u1"); sel != nil {
		t.Fatalf("expected nil after clear, got %+v", sel)
	}
}

func TestCustomTTL(t *testing.T) {
	c := &clock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	m, err := New([]Store{NewMemoryStore()}, WithClock(c.Now), WithTTL(time.Minute))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()

	m.Publish(ctx, "u1", "org-a")
	c.Advance(59 * time.Second)
	if m.Read(ctx, "u1") == nil {
		t.Fatal("selection expired too early")
	}
	c.Advance(2 * time.Second)
	if m.Read(ctx, "u1") != nil {
		t.Fatal("selection outlived its TTL")
	}
}

func TestNewRequiresStores(t *testing.T) {
	if _, err := New(nil); err == nil {
		t.Fatal("expected error for empty store list")
	}
}
