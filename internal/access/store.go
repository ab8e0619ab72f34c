package access

import "context"

// GrantStore is the read-only query surface over the grant layers and the
// organization/module catalogs. Implementations decide their own query
// strategy; callers never branch on it. Only rows that are explicitly
// active are meaningful. Implementations may pre-filter or return raw
// rows; the resolver ignores inactive ones either way.
type GrantStore interface {
	OrganizationGrants(ctx context.Context, userID string) ([]OrganizationGrant, error)
	ModuleGrants(ctx context.Context, userID string) ([]ModuleGrant, error)
	EnabledModules(ctx context.Context, organizationID string) ([]Module, error)
	Organization(ctx context.Context, id string) (Organization, error)
}
