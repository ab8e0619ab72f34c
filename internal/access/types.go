package access

// Role is an organization- or module-scoped privilege level.
type Role string

const (
	RoleTeacher    Role = "teacher"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// roleRank orders roles by privilege. Unknown role names rank at the
// teacher floor so a malformed grant can never escalate.
var roleRank = map[Role]int{
	RoleTeacher:    1,
	RoleAdmin:      2,
	RoleSuperadmin: 3,
}

// Rank returns the privilege rank of the role within the fixed global
// ordering superadmin > admin > teacher.
func (r Role) Rank() int {
	if rank, ok := roleRank[r]; ok {
		return rank
	}
	return roleRank[RoleTeacher]
}

// Higher returns the higher-privilege of the two roles.
func Higher(a, b Role) Role {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Organization is a tenant boundary (a school).
type Organization struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// Module is an independently enabled feature area within an organization.
// RoleHierarchy lists the module's role names from lowest to highest
// privilege; it is carried for surfaces that render role pickers, while
// resolution itself uses the global ordering.
type Module struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	RoleHierarchy []Role `json:"role_hierarchy,omitempty"`
	Active        bool   `json:"active"`
}

// OrganizationGrant is an organization-wide authorization row. At most one
// active row exists per (user, organization); the grant store enforces this.
type OrganizationGrant struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	Role           Role   `json:"role"`
	Active         bool   `json:"active"`
}

// ModuleGrant authorizes a user for one feature area of one organization.
type ModuleGrant struct {
	UserID         string `json:"user_id"`
	OrganizationID string `json:"organization_id"`
	ModuleID       string `json:"module_id"`
	Role           Role   `json:"role"`
	Active         bool   `json:"active"`
}

// ModuleAccess is a module annotated with the caller's resolved role.
type ModuleAccess struct {
	Module Module `json:"module"`
	Role   Role   `json:"role"`
}

// OrganizationAccess is one catalog entry: an organization, the resolved
// organization-wide role, and the resolved per-module accesses. Derived
// from active grants only; never persisted.
type OrganizationAccess struct {
	Organization Organization   `json:"organization"`
	Role         Role           `json:"role"`
	Modules      []ModuleAccess `json:"modules"`
}

// Module returns the resolved access for the given module id, if present.
func (a OrganizationAccess) Module(moduleID string) (ModuleAccess, bool) {
	for _, m := range a.Modules {
		if m.Module.ID == moduleID {
			return m, true
		}
	}
	return ModuleAccess{}, false
}
