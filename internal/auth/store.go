package auth

import "context"

// LastAccessedUpdate mutates the stored navigation preferences. Nil fields
// are left untouched; a pointer to the empty string clears the column.
type LastAccessedUpdate struct {
	OrganizationID *string
	ModuleID       *string
}

// UserStore is the account provider's persistence surface. This service
// reads the preference fields and persists updates on explicit switches;
// account creation and deletion live elsewhere.
type UserStore interface {
	Find(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	UpdateLastAccessed(ctx context.Context, userID string, upd LastAccessedUpdate) error
}
