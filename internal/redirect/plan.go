// Package redirect computes the single post-authentication navigation
// destination from a user's stored preferences and their resolved access
// catalog. Plan is a total, deterministic function over plain data; it is
// the only place routing policy lives.
package redirect

import "schoolgate.dev/internal/access"

// Kind identifies the destination class. The navigation surface translates
// it into an actual route; this package never constructs URLs.
type Kind string

const (
	KindSchoolSetup     Kind = "school_setup"
	KindSchoolSelection Kind = "school_selection"
	KindModuleSelection Kind = "module_selection"
	KindDirectModule    Kind = "direct_module"
)

// Destination is the computed navigation target.
type Destination struct {
	Kind           Kind   `json:"kind"`
	OrganizationID string `json:"organization_id,omitempty"`
	ModuleID       string `json:"module_id,omitempty"`
}

// Preferences are the user's last-accessed selections. A stored id that no
// longer resolves against the catalog is not an error; the planner falls
// through to the next rule.
type Preferences struct {
	OrganizationID string
	ModuleID       string
}

// Plan picks exactly one destination. First matching rule wins:
//
//  1. empty catalog                                      -> school_setup
//  2. preferred org in catalog, preferred module valid   -> direct_module
//  3. preferred org in catalog                           -> module_selection
//  4. exactly one catalog entry                          -> module_selection
//  5. otherwise                                          -> school_selection
//
// The most-specific, most-recently-expressed preference wins; the planner
// never guesses among multiple equally valid organizations.
func Plan(prefs Preferences, catalog []access.OrganizationAccess) Destination {
	if len(catalog) == 0 {
		return Destination{Kind: KindSchoolSetup}
	}

	if prefs.OrganizationID != "" {
		if entry, ok := findOrganization(catalog, prefs.OrganizationID); ok {
			if prefs.ModuleID != "" {
				if _, ok := entry.Module(prefs.ModuleID); ok {
					return Destination{
						Kind:           KindDirectModule,
						OrganizationID: entry.Organization.ID,
						ModuleID:       prefs.ModuleID,
					}
				}
			}
			return Destination{
				Kind:           KindModuleSelection,
				OrganizationID: entry.Organization.ID,
			}
		}
	}

	if len(catalog) == 1 {
		return Destination{
			Kind:           KindModuleSelection,
			OrganizationID: catalog[0].Organization.ID,
		}
	}
	return Destination{Kind: KindSchoolSelection}
}

func findOrganization(catalog []access.OrganizationAccess, id string) (access.OrganizationAccess, bool) {
	for _, entry := range catalog {
		if entry.Organization.ID == id {
			return entry, true
		}
	}
	return access.OrganizationAccess{}, false
}
