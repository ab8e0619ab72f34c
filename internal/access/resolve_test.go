package access

import "testing"

func TestResolveOrganizationRoleOrgGrantWins(t *testing.T) {
	grants := []OrganizationGrant{
		{UserID: "u1", OrganizationID: "org-a", Role: RoleTeacher, Active: true},
	}
	moduleGrants := []ModuleGrant{
		{UserID: "u1", OrganizationID: "org-a", ModuleID: "scheduler", Role: RoleSuperadmin, Active: true},
	}

	role, ok := ResolveOrganizationRole(grants, moduleGrants)
	if !ok {
		t.Fatal("expected a resolved role")
	}
	if role != RoleTeacher {
		t.Fatalf("organization grant must be authoritative, got %q", role)
	}
}

func TestResolveOrganizationRoleFallsBackToHighestModuleRole(t *testing.T) {
	moduleGrants := []ModuleGrant{
		{UserID: "u1", OrganizationID: "org-a", ModuleID: "scheduler", Role: RoleTeacher, Active: true},
		{UserID: "u1", OrganizationID: "org-a", ModuleID: "grading", Role: RoleAdmin, Active: true},
		{UserID: "u1", OrganizationID: "org-a", ModuleID: "billing", Role: RoleSuperadmin, Active: false},
	}

	role, ok := ResolveOrganizationRole(nil, moduleGrants)
	if !ok {
		t.Fatal("expected a resolved role")
	}
	if role != RoleAdmin {
		t.Fatalf("expected highest active module role admin, got %q", role)
	}
}

func TestResolveOrganizationRoleInactiveOrgGrantIsAbsent(t *testing.T) {
	// Inactive organization grant, active module grant: the module layer
	// decides.
	grants := []OrganizationGrant{
		{UserID: "u1", OrganizationID: "org-a", Role: RoleTeacher, Active: false},
	}
	moduleGrants := []ModuleGrant{
		{UserID: "u1", OrganizationID: "org-a", ModuleID: "scheduler", Role: RoleAdmin, Active: true},
	}

	role, ok := ResolveOrganizationRole(grants, moduleGrants)
	if !ok {
		t.Fatal("expected a resolved role")
	}
	if role != RoleAdmin {
		t.Fatalf("expected admin from module layer, got %q", role)
	}
}

func TestResolveOrganizationRoleNoActiveGrants(t *testing.T) {
	grants := []OrganizationGrant{
		{UserID: "u1", OrganizationID: "org-a", Role: RoleAdmin, Active: false},
	}
	moduleGrants := []ModuleGrant{
		{UserID: "u1", OrganizationID: "org-a", ModuleID: "scheduler", Role: RoleAdmin, Active: false},
	}

	if _, ok := ResolveOrganizationRole(grants, moduleGrants); ok {
		t.Fatal("expected no resolved role")
	}
	if _, ok := ResolveOrganizationRole(nil, nil); ok {
		t.Fatal("expected no resolved role for empty layers")
	}
}

func TestResolveModuleRole(t *testing.T) {
	cases := []struct {
		name     string
		orgRole  Role
		grant    *ModuleGrant
		wantRole Role
		wantOK   bool
	}{
		{
			name:     "module grant wins over org role",
			orgRole:  RoleSuperadmin,
			grant:    &ModuleGrant{ModuleID: "scheduler", Role: RoleTeacher, Active: true},
			wantRole: RoleTeacher,
			wantOK:   true,
		},
		{
			name:     "superadmin bypass without module grant",
			orgRole:  RoleSuperadmin,
			grant:    nil,
			wantRole: RoleSuperadmin,
			wantOK:   true,
		},
		{
			name:    "admin org role implies nothing at module layer",
			orgRole: RoleAdmin,
			grant:   nil,
			wantOK:  false,
		},
		{
			name:    "inactive module grant is absent",
			orgRole: RoleTeacher,
			grant:   &ModuleGrant{ModuleID: "scheduler", Role: RoleAdmin, Active: false},
			wantOK:  false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			role, ok := ResolveModuleRole(tc.orgRole, tc.grant)
			if ok != tc.wantOK {
				t.Fatalf("ok=%v, want %v", ok, tc.wantOK)
			}
			if ok && role != tc.wantRole {
				t.Fatalf("role=%q, want %q", role, tc.wantRole)
			}
		})
	}
}

func TestRoleRankUnknownRoleIsFloor(t *testing.T) {
	if Role("principal").Rank() != RoleTeacher.Rank() {
		t.Fatal("unknown role must rank at the teacher floor")
	}
	if Higher(Role("principal"), RoleAdmin) != RoleAdmin {
		t.Fatal("admin must outrank an unknown role")
	}
	if Higher(RoleSuperadmin, RoleAdmin) != RoleSuperadmin {
		t.Fatal("superadmin must outrank admin")
	}
}
