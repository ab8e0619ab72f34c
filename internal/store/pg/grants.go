package pg

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"schoolgate.dev/internal/access"
)

// OrganizationGrants returns the user's active organization-level grants.
// Inactive rows are filtered at the query so the resolver never sees them.
func (s *Store) OrganizationGrants(ctx context.Context, userID string) ([]access.OrganizationGrant, error) {
	rows, err := s.db.QueryContext(ctx, `
		select user_id, organization_id, role
		from organization_grants
		where user_id = $1 and active
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []access.OrganizationGrant
	for rows.Next() {
		g := access.OrganizationGrant{Active: true}
		if err := rows.Scan(&g.UserID, &g.OrganizationID, &g.Role); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// ModuleGrants returns the user's active module-level grants across all
// organizations in one batch.
func (s *Store) ModuleGrants(ctx context.Context, userID string) ([]access.ModuleGrant, error) {
	rows, err := s.db.QueryContext(ctx, `
		select user_id, organization_id, module_id, role
		from module_grants
		where user_id = $1 and active
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var grants []access.ModuleGrant
	for rows.Next() {
		g := access.ModuleGrant{Active: true}
		if err := rows.Scan(&g.UserID, &g.OrganizationID, &g.ModuleID, &g.Role); err != nil {
			return nil, err
		}
		grants = append(grants, g)
	}
	return grants, rows.Err()
}

// EnabledModules lists the active modules enabled for an organization.
func (s *Store) EnabledModules(ctx context.Context, organizationID string) ([]access.Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		select m.id, m.name, m.role_hierarchy
		from modules m
		join organization_modules om on om.module_id = m.id
		where om.organization_id = $1 and om.enabled and m.active
		order by m.name
	`, organizationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var modules []access.Module
	for rows.Next() {
		var (
			mod       = access.Module{Active: true}
			hierarchy []byte
		)
		if err := rows.Scan(&mod.ID, &mod.Name, &hierarchy); err != nil {
			return nil, err
		}
		if len(hierarchy) > 0 {
			if err := json.Unmarshal(hierarchy, &mod.RoleHierarchy); err != nil {
				return nil, fmt.Errorf("decode role hierarchy for module %s: %w", mod.ID, err)
			}
		}
		modules = append(modules, mod)
	}
	return modules, rows.Err()
}

// Organization fetches one organization by id.
func (s *Store) Organization(ctx context.Context, id string) (access.Organization, error) {
	var org access.Organization
	err := s.db.QueryRowContext(ctx, `
		select id, name, active
		from organizations
		where id = $1
	`, id).Scan(&org.ID, &org.Name, &org.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Organization{}, access.ErrNotFound
	}
	if err != nil {
		return access.Organization{}, err
	}
	return org, nil
}
