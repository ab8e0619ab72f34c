package access

// ResolveOrganizationRole merges both grant layers into one effective
// organization-wide role. An active organization grant is authoritative.
// Without one, the highest-privilege role among the organization's active
// module grants applies. Rows not explicitly active are treated as absent.
// The second return value is false when neither layer holds an active
// grant; that is a valid empty result, not an error.
func ResolveOrganizationRole(grants []OrganizationGrant, moduleGrants []ModuleGrant) (Role, bool) {
	for _, g := range grants {
		if g.Active {
			return g.Role, true
		}
	}
	var (
		highest Role
		found   bool
	)
	for _, g := range moduleGrants {
		if !g.Active {
			continue
		}
		if !found {
			highest = g.Role
			found = true
			continue
		}
		highest = Higher(highest, g.Role)
	}
	return highest, found
}

// ResolveModuleRole computes the effective role for one module. An active
// module grant wins. Without one, an organization-wide superadmin is
// granted superadmin access to every enabled module; any lower
// organization role implies nothing at the module layer.
func ResolveModuleRole(organizationRole Role, grant *ModuleGrant) (Role, bool) {
	if grant != nil && grant.Active {
		return grant.Role, true
	}
	if organizationRole == RoleSuperadmin {
		return RoleSuperadmin, true
	}
	return "", false
}
