// Package mirror keeps the "currently selected organization" in sync
// across independently hosted front-end surfaces. It is a best-effort UX
// convenience layered over redundant key/value stores; the grant store and
// the user preference fields remain the authoritative state, so storage
// failures are logged and swallowed rather than surfaced.
package mirror

import (
	"context"
	"errors"
	"time"

	"schoolgate.dev/internal/audit"
)

// DefaultTTL bounds how long a published selection stays observable.
const DefaultTTL = 30 * time.Minute

// Selection is the ephemeral synchronized value.
type Selection struct {
	OrganizationID string    `json:"organization_id"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store is one redundant backend. Implementations must treat Set as a
// single atomic key write; there is no multi-step transaction to leave
// half-done.
type Store interface {
	Set(ctx context.Context, userID string, sel Selection) error
	Get(ctx context.Context, userID string) (Selection, bool, error)
	Delete(ctx context.Context, userID string) error
}

// Mirror fans selection writes out to every configured store and reads the
// freshest surviving entry back. Last-writer-wins; a fresh Publish simply
// overwrites with a new timestamp.
type Mirror struct {
	stores []Store
	ttl    time.Duration
	now    func() time.Time
}

// Option configures Mirror behavior.
type Option func(*Mirror)

// WithTTL overrides the selection time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(m *Mirror) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(m *Mirror) {
		if fn != nil {
			m.now = fn
		}
	}
}

// New constructs a Mirror over the given redundant stores.
func New(stores []Store, opts ...Option) (*Mirror, error) {
	if len(stores) == 0 {
		return nil, errors.New("mirror: at least one store is required")
	}
	m := &Mirror{
		stores: stores,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// TTL reports the configured time-to-live.
func (m *Mirror) TTL() time.Duration { return m.ttl }

// Publish writes the selection to every store with a fresh creation
// timestamp. Failures degrade to "no synced selection" on the failing
// store and are never returned to the caller.
func (m *Mirror) Publish(ctx context.Context, userID, organizationID string) {
	sel := Selection{
		OrganizationID: organizationID,
		CreatedAt:      m.now().UTC(),
	}
	for _, store := range m.stores {
		if err := store.Set(ctx, userID, sel); err != nil {
			_ = audit.LogEvent(ctx, "mirror.publish_failed", map[string]any{
				"organization_id": organizationID,
				"error":           err.Error(),
			})
		}
	}
}

// Read returns the freshest selection across all stores, or nil when no
// store holds one. An expired entry is eagerly cleared everywhere so a
// subsequent Read observes absence, not a hidden value.
func (m *Mirror) Read(ctx context.Context, userID string) *Selection {
	var (
		freshest Selection
		found    bool
	)
	for _, store := range m.stores {
		sel, ok, err := store.Get(ctx, userID)
		if err != nil {
			_ = audit.LogEvent(ctx, "mirror.read_failed", map[string]any{
				"error": err.Error(),
			})
			continue
		}
		if !ok {
			continue
		}
		if !found || sel.CreatedAt.After(freshest.CreatedAt) {
			freshest = sel
			found = true
		}
	}
	if !found {
		return nil
	}
	if m.now().Sub(freshest.CreatedAt) > m.ttl {
		m.Clear(ctx, userID)
		return nil
	}
	return &freshest
}

// Clear removes the selection from every store.
func (m *Mirror) Clear(ctx context.Context, userID string) {
	for _, store := range m.stores {
		if err := store.Delete(ctx, userID); err != nil {
			_ = audit.LogEvent(ctx, "mirror.clear_failed", map[string]any{
				"error": err.Error(),
			})
		}
	}
}
