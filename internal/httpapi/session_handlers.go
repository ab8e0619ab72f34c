package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"schoolgate.dev/internal/access"
	"schoolgate.dev/internal/audit"
	"schoolgate.dev/internal/auth"
)

type selectionRequest struct {
	OrganizationID string `json:"organization_id"`
}

type moduleSwitchRequest struct {
	OrganizationID string `json:"organization_id"`
	ModuleID       string `json:"module_id"`
}

// handleSelection manages the synchronized organization selection.
//
//	PUT    publishes a new selection and updates the stored preference
//	GET    reads the freshest surviving selection (null when absent)
//	DELETE clears the selection everywhere
func (a *API) handleSelection(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	switch r.Method {
	case http.MethodPut:
		a.putSelection(w, r, user)
	case http.MethodGet:
		sel := a.mirror.Read(r.Context(), user.ID)
		writeJSON(w, http.StatusOK, map[string]any{"selection": sel})
	case http.MethodDelete:
		a.mirror.Clear(r.Context(), user.ID)
		_ = audit.LogEvent(r.Context(), "session.selection.cleared", nil)
		w.WriteHeader(http.StatusNoContent)
	default:
		methodNotAllowed(w, r, http.MethodPut, http.MethodGet, http.MethodDelete)
	}
}

func (a *API) putSelection(w http.ResponseWriter, r *http.Request, user *auth.User) {
	var req selectionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.OrganizationID = strings.TrimSpace(req.OrganizationID)
	if req.OrganizationID == "" {
		writeError(w, r, http.StatusBadRequest, "organization_id is required")
		return
	}

	catalog, err := a.access.BuildCatalog(r.Context(), user.ID)
	if err != nil {
		a.handleAccessError(w, r, err)
		return
	}
	if !catalogContains(catalog, req.OrganizationID) {
		writeError(w, r, http.StatusNotFound, "organization not accessible")
		return
	}

	upd := auth.LastAccessedUpdate{OrganizationID: &req.OrganizationID}
	if user.LastAccessedOrganizationID != req.OrganizationID {
		// Switching organization invalidates the module preference.
		empty := ""
		upd.ModuleID = &empty
	}
	if err := a.users.UpdateLastAccessed(r.Context(), user.ID, upd); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "preference update failed")
		return
	}

	a.mirror.Publish(r.Context(), user.ID, req.OrganizationID)
	_ = audit.LogEvent(r.Context(), "session.selection.published", map[string]any{
		"organization_id": req.OrganizationID,
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleModuleSwitch records an explicit module entry after validating the
// caller can actually reach the module in that organization.
func (a *API) handleModuleSwitch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w, r, http.MethodPut)
		return
	}
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, http.StatusUnauthorized, "authentication required")
		return
	}

	var req moduleSwitchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	req.OrganizationID = strings.TrimSpace(req.OrganizationID)
	req.ModuleID = strings.TrimSpace(req.ModuleID)
	if req.OrganizationID == "" || req.ModuleID == "" {
		writeError(w, r, http.StatusBadRequest, "organization_id and module_id are required")
		return
	}

	if _, err := a.access.ModuleAccess(r.Context(), user.ID, req.OrganizationID, req.ModuleID); err != nil {
		a.handleAccessError(w, r, err)
		return
	}

	upd := auth.LastAccessedUpdate{
		OrganizationID: &req.OrganizationID,
		ModuleID:       &req.ModuleID,
	}
	if err := a.users.UpdateLastAccessed(r.Context(), user.ID, upd); err != nil {
		if errors.Is(err, auth.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "not found")
			return
		}
		writeError(w, r, http.StatusInternalServerError, "preference update failed")
		return
	}

	a.mirror.Publish(r.Context(), user.ID, req.OrganizationID)
	_ = audit.LogEvent(r.Context(), "session.module.switched", map[string]any{
		"organization_id": req.OrganizationID,
		"module_id":       req.ModuleID,
	})
	w.WriteHeader(http.StatusNoContent)
}

func catalogContains(catalog []access.OrganizationAccess, orgID string) bool {
	for _, entry := range catalog {
		if entry.Organization.ID == orgID {
			return true
		}
	}
	return false
}
