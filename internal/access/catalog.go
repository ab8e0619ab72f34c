package access

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Service builds effective-access catalogs on top of a GrantStore.
type Service struct {
	grants GrantStore
}

// NewService constructs the access service.
func NewService(grants GrantStore) (*Service, error) {
	if grants == nil {
		return nil, errors.New("access: grant store is required")
	}
	return &Service{grants: grants}, nil
}

// BuildCatalog resolves the full set of organizations and modules visible
// to the user. Inactive organizations and modules are excluded regardless
// of grant state. The catalog is all-or-nothing: any grant store failure
// aborts the call with ErrUpstreamUnavailable so a partial access picture
// is never presented. Entries carry no implied ordering; callers that need
// deterministic output sort by organization name.
func (s *Service) BuildCatalog(ctx context.Context, userID string) ([]OrganizationAccess, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	orgGrants, err := s.grants.OrganizationGrants(ctx, userID)
	if err != nil {
		return nil, upstreamErr("organization grants", err)
	}
	moduleGrants, err := s.grants.ModuleGrants(ctx, userID)
	if err != nil {
		return nil, upstreamErr("module grants", err)
	}

	orgGrantsByOrg := make(map[string][]OrganizationGrant)
	for _, g := range orgGrants {
		if !g.Active {
			continue
		}
		orgGrantsByOrg[g.OrganizationID] = append(orgGrantsByOrg[g.OrganizationID], g)
	}
	moduleGrantsByOrg := make(map[string][]ModuleGrant)
	for _, g := range moduleGrants {
		if !g.Active {
			continue
		}
		moduleGrantsByOrg[g.OrganizationID] = append(moduleGrantsByOrg[g.OrganizationID], g)
	}

	orgIDs := make(map[string]struct{}, len(orgGrantsByOrg)+len(moduleGrantsByOrg))
	for id := range orgGrantsByOrg {
		orgIDs[id] = struct{}{}
	}
	for id := range moduleGrantsByOrg {
		orgIDs[id] = struct{}{}
	}

	var catalog []OrganizationAccess
	for orgID := range orgIDs {
		org, err := s.grants.Organization(ctx, orgID)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, upstreamErr("organization", err)
		}
		if !org.Active {
			continue
		}

		role, ok := ResolveOrganizationRole(orgGrantsByOrg[orgID], moduleGrantsByOrg[orgID])
		if !ok {
			continue
		}

		modules, err := s.resolveModules(ctx, orgID, role, moduleGrantsByOrg[orgID])
		if err != nil {
			return nil, err
		}
		catalog = append(catalog, OrganizationAccess{
			Organization: org,
			Role:         role,
			Modules:      modules,
		})
	}
	return catalog, nil
}

// ModuleAccess resolves the caller's access to one module of one
// organization. Returns ErrNotFound when the organization or module is
// missing, inactive, not enabled for the organization, or when the user
// holds no access to it.
func (s *Service) ModuleAccess(ctx context.Context, userID, organizationID, moduleID string) (ModuleAccess, error) {
	userID = strings.TrimSpace(userID)
	organizationID = strings.TrimSpace(organizationID)
	moduleID = strings.TrimSpace(moduleID)
	if userID == "" || organizationID == "" || moduleID == "" {
		return ModuleAccess{}, fmt.Errorf("%w: user_id, organization_id and module_id are required", ErrInvalidInput)
	}

	catalog, err := s.BuildCatalog(ctx, userID)
	if err != nil {
		return ModuleAccess{}, err
	}
	for _, entry := range catalog {
		if entry.Organization.ID != organizationID {
			continue
		}
		if m, ok := entry.Module(moduleID); ok {
			return m, nil
		}
		break
	}
	return ModuleAccess{}, ErrNotFound
}

func (s *Service) resolveModules(ctx context.Context, orgID string, orgRole Role, grants []ModuleGrant) ([]ModuleAccess, error) {
	enabled, err := s.grants.EnabledModules(ctx, orgID)
	if err != nil {
		return nil, upstreamErr("enabled modules", err)
	}
	grantByModule := make(map[string]*ModuleGrant, len(grants))
	for i := range grants {
		grantByModule[grants[i].ModuleID] = &grants[i]
	}

	var result []ModuleAccess
	for _, mod := range enabled {
		if !mod.Active {
			continue
		}
		role, ok := ResolveModuleRole(orgRole, grantByModule[mod.ID])
		if !ok {
			continue
		}
		result = append(result, ModuleAccess{Module: mod, Role: role})
	}
	return result, nil
}

// SortByOrganizationName orders catalog entries by organization name for
// callers that need deterministic output.
func SortByOrganizationName(catalog []OrganizationAccess) {
	sort.Slice(catalog, func(i, j int) bool {
		return catalog[i].Organization.Name < catalog[j].Organization.Name
	})
}

func upstreamErr(what string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstreamUnavailable, what, err)
}
