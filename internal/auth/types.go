package auth

import "time"

// User statuses.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// User is the authenticated account record. The two last-accessed fields
// are the stored navigation preferences consumed by the redirect planner;
// they change only when the user explicitly switches organization or
// module.
type User struct {
	ID                         string    `json:"id"`
	Email                      string    `json:"email"`
	PasswordHash               string    `json:"-"`
	Status                     string    `json:"status"`
	LastAccessedOrganizationID string    `json:"last_accessed_organization_id,omitempty"`
	LastAccessedModuleID       string    `json:"last_accessed_module_id,omitempty"`
	CreatedAt                  time.Time `json:"created_at"`
	UpdatedAt                  time.Time `json:"updated_at"`
}
