package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhive/api/internal/app"
	"github.com/taskhive/api/pkg/apierror"
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/logger"
	"github.com/taskhive/api/pkg/validator"
)

// HierarchyHandler handles the tree view and reporting-relation requests.
type HierarchyHandler struct {
	service   *app.HierarchyService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewHierarchyHandler creates a new hierarchy handler.
func NewHierarchyHandler(svc *app.HierarchyService, v *validator.Validator, log *logger.Logger) *HierarchyHandler {
	return &HierarchyHandler{
		service:   svc,
		validator: v,
		logger:    log,
	}
}

// GetMemberTree returns the project's team tree, redacted for the caller.
// GET /api/v1/projects/{projectID}/member-tree
func (h *HierarchyHandler) GetMemberTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := urlParamID(w, r, "projectID")
	if !ok {
		return
	}

	tree, err := h.service.GetMemberTree(r.Context(), userID, projectID)
	if err != nil {
		h.handleError(w, err, "project")
		return
	}

	respondJSON(w, http.StatusOK, tree)
}

// GetProjectTree returns the tenant-wide project tree for managers.
// GET /api/v1/tenants/{tenantID}/project-tree
func (h *HierarchyHandler) GetProjectTree(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}

	tree, err := h.service.GetProjectTree(r.Context(), userID, tenantID)
	if err != nil {
		h.handleError(w, err, "tenant")
		return
	}

	respondJSON(w, http.StatusOK, tree)
}

// SetReportingRelation points the listed project members at a manager, or
// clears their manager when manager_id is absent.
// PUT /api/v1/projects/{projectID}/reporting
func (h *HierarchyHandler) SetReportingRelation(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := urlParamID(w, r, "projectID")
	if !ok {
		return
	}

	var input app.SetReportingRelationInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(input); err != nil {
		h.handleError(w, err, "project")
		return
	}

	subordinateIDs := make([]shared.ID, 0, len(input.SubordinateIDs))
	for _, raw := range input.SubordinateIDs {
		id, err := shared.IDFromString(raw)
		if err != nil {
			apierror.BadRequest("invalid subordinate id: " + raw).WriteJSON(w)
			return
		}
		subordinateIDs = append(subordinateIDs, id)
	}

	var managerID *shared.ID
	if input.ManagerID != nil {
		id, err := shared.IDFromString(*input.ManagerID)
		if err != nil {
			apierror.BadRequest("invalid manager id").WriteJSON(w)
			return
		}
		managerID = &id
	}

	updated, err := h.service.SetReportingRelation(r.Context(), userID, projectID, subordinateIDs, managerID)
	if err != nil {
		h.handleError(w, err, "project")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"updated": updated})
}

// GetAllSubordinates returns the transitive subordinate closure of a
// project member.
// GET /api/v1/projects/{projectID}/members/{userID}/subordinates
func (h *HierarchyHandler) GetAllSubordinates(w http.ResponseWriter, r *http.Request) {
	callerID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	projectID, ok := urlParamID(w, r, "projectID")
	if !ok {
		return
	}
	managerID, ok := urlParamID(w, r, "userID")
	if !ok {
		return
	}

	subordinates, err := h.service.GetAllSubordinates(r.Context(), callerID, projectID, managerID)
	if err != nil {
		h.handleError(w, err, "project")
		return
	}

	ids := make([]string, 0, len(subordinates))
	for _, id := range subordinates {
		ids = append(ids, id.String())
	}

	respondJSON(w, http.StatusOK, map[string]any{"subordinate_ids": ids})
}

// handleError maps domain errors to API responses. Access denials are
// reported as not-found so callers cannot probe for resources they cannot
// see.
func (h *HierarchyHandler) handleError(w http.ResponseWriter, err error, resource string) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		apierror.ValidationFailed(validationErrs).WriteJSON(w)
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrAccessDenied):
		apierror.NotFound(resource).WriteJSON(w)
	case errors.Is(err, shared.ErrInsufficientPermission):
		apierror.Forbidden(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrCircularReporting):
		apierror.CircularReporting(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrInvalidRelation):
		apierror.InvalidRelation(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrValidation):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	default:
		h.logger.Error("unexpected error", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
