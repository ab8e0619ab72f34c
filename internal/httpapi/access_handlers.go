package httpapi

import (
	"errors"
	"net/http"

	"schoolgate.dev/internal/access"
	"schoolgate.dev/internal/audit"
	"schoolgate.dev/internal/auth"
	"schoolgate.dev/internal/redirect"
)

// handleCatalog returns every organization and module the caller can
// reach, with effective roles resolved per entry.
func (a *API) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	catalog, err := a.access.BuildCatalog(r.Context(), user.ID)
	if err != nil {
		a.handleAccessError(w, r, err)
		return
	}
	access.SortByOrganizationName(catalog)
	if catalog == nil {
		catalog = []access.OrganizationAccess{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"organizations": catalog,
	})
}

// handleRedirect computes the post-authentication destination from the
// caller's stored preferences and current access. Read-only; preferences
// change only through explicit switches.
func (a *API) handleRedirect(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, http.MethodGet)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	catalog, err := a.access.BuildCatalog(r.Context(), user.ID)
	if err != nil {
		a.handleAccessError(w, r, err)
		return
	}
	dest := redirect.Plan(redirect.Preferences{
		OrganizationID: user.LastAccessedOrganizationID,
		ModuleID:       user.LastAccessedModuleID,
	}, catalog)

	_ = audit.LogEvent(r.Context(), "access.redirect.planned", map[string]any{
		"kind":            string(dest.Kind),
		"organization_id": dest.OrganizationID,
		"module_id":       dest.ModuleID,
	})
	writeJSON(w, http.StatusOK, dest)
}

func (a *API) handleAccessError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, access.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, access.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, access.ErrUpstreamUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, "access data temporarily unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
