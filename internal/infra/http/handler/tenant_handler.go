package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/taskhive/api/internal/app"
	"github.com/taskhive/api/pkg/apierror"
	"github.com/taskhive/api/pkg/domain/capability"
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/tenant"
	"github.com/taskhive/api/pkg/logger"
	"github.com/taskhive/api/pkg/validator"
)

// TenantHandler handles tenant and membership HTTP requests.
type TenantHandler struct {
	service   *app.TenantService
	authz     *app.AuthzService
	validator *validator.Validator
	logger    *logger.Logger
}

// NewTenantHandler creates a new tenant handler.
func NewTenantHandler(svc *app.TenantService, authz *app.AuthzService, v *validator.Validator, log *logger.Logger) *TenantHandler {
	return &TenantHandler{
		service:   svc,
		authz:     authz,
		validator: v,
		logger:    log,
	}
}

// TenantResponse represents a tenant in API responses.
type TenantResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MemberResponse represents a tenant member in API responses. Role is
// always the canonical spelling, never a stored alias.
type MemberResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Overrides []string  `json:"overrides,omitempty"`
	InvitedBy string    `json:"invited_by,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`
}

func toTenantResponse(t *tenant.Tenant) TenantResponse {
	return TenantResponse{
		ID:          t.ID().String(),
		Name:        t.Name(),
		Slug:        t.Slug(),
		Description: t.Description(),
		CreatedAt:   t.CreatedAt(),
		UpdatedAt:   t.UpdatedAt(),
	}
}

func toMemberResponse(m *tenant.Membership) MemberResponse {
	resp := MemberResponse{
		ID:        m.ID().String(),
		UserID:    m.UserID().String(),
		Role:      m.Role().String(),
		Overrides: m.Overrides(),
		JoinedAt:  m.JoinedAt(),
	}
	if invitedBy := m.InvitedBy(); invitedBy != nil {
		resp.InvitedBy = invitedBy.String()
	}
	return resp
}

// CreateTenant creates a new tenant with the caller as owner.
// POST /api/v1/tenants
func (h *TenantHandler) CreateTenant(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}

	var input app.CreateTenantInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(input); err != nil {
		h.handleError(w, err)
		return
	}

	t, err := h.service.CreateTenant(r.Context(), input, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toTenantResponse(t))
}

// GetTenant returns a tenant visible to the caller.
// GET /api/v1/tenants/{tenantID}
func (h *TenantHandler) GetTenant(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}

	t, err := h.service.GetTenant(r.Context(), tenantID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toTenantResponse(t))
}

// ListMembers lists the members of a tenant.
// GET /api/v1/tenants/{tenantID}/members
func (h *TenantHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), tenantID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	items := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		items = append(items, toMemberResponse(m))
	}

	respondJSON(w, http.StatusOK, map[string]any{"items": items})
}

// AddMember adds a user to a tenant.
// POST /api/v1/tenants/{tenantID}/members
func (h *TenantHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}

	var input app.AddMemberInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(input); err != nil {
		h.handleError(w, err)
		return
	}

	m, err := h.service.AddMember(r.Context(), tenantID, input, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toMemberResponse(m))
}

// UpdateMemberRole changes a member's role.
// PUT /api/v1/tenants/{tenantID}/members/{membershipID}/role
func (h *TenantHandler) UpdateMemberRole(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}
	membershipID, ok := urlParamID(w, r, "membershipID")
	if !ok {
		return
	}

	var input app.UpdateMemberRoleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(input); err != nil {
		h.handleError(w, err)
		return
	}

	m, err := h.service.UpdateMemberRole(r.Context(), tenantID, membershipID, input, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toMemberResponse(m))
}

// GrantOverrideInput represents the input for granting a capability
// override.
type GrantOverrideInput struct {
	Capability string `json:"capability" validate:"required"`
}

// GrantOverride adds a capability override to a membership.
// POST /api/v1/tenants/{tenantID}/members/{membershipID}/overrides
func (h *TenantHandler) GrantOverride(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}
	membershipID, ok := urlParamID(w, r, "membershipID")
	if !ok {
		return
	}

	var input GrantOverrideInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		apierror.BadRequest("invalid request body").WriteJSON(w)
		return
	}
	if err := h.validator.Validate(input); err != nil {
		h.handleError(w, err)
		return
	}
	if _, ok := capability.Parse(input.Capability); !ok {
		apierror.BadRequest("unknown capability: " + input.Capability).WriteJSON(w)
		return
	}

	m, err := h.service.GrantOverride(r.Context(), tenantID, membershipID, input.Capability, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toMemberResponse(m))
}

// RemoveMember removes a member from a tenant.
// DELETE /api/v1/tenants/{tenantID}/members/{membershipID}
func (h *TenantHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}
	membershipID, ok := urlParamID(w, r, "membershipID")
	if !ok {
		return
	}

	if err := h.service.RemoveMember(r.Context(), tenantID, membershipID, userID); err != nil {
		h.handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MyCapabilities returns the caller's effective capability set in the
// tenant.
// GET /api/v1/tenants/{tenantID}/me/capabilities
func (h *TenantHandler) MyCapabilities(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUserID(w, r)
	if !ok {
		return
	}
	tenantID, ok := urlParamID(w, r, "tenantID")
	if !ok {
		return
	}

	set, err := h.authz.EffectiveCapabilities(r.Context(), tenantID, userID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	caps := make([]string, 0, len(set))
	for c := range set {
		caps = append(caps, c.String())
	}
	sort.Strings(caps)

	respondJSON(w, http.StatusOK, map[string]any{"capabilities": caps})
}

// handleError maps domain errors to API responses. Access denials are
// reported as not-found so callers cannot probe for tenants they are not
// members of.
func (h *TenantHandler) handleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		apierror.ValidationFailed(validationErrs).WriteJSON(w)
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, shared.ErrAccessDenied):
		apierror.NotFound("tenant").WriteJSON(w)
	case errors.Is(err, shared.ErrInsufficientPermission):
		apierror.Forbidden(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrConflict):
		apierror.Conflict(err.Error()).WriteJSON(w)
	case errors.Is(err, shared.ErrValidation):
		apierror.BadRequest(err.Error()).WriteJSON(w)
	default:
		h.logger.Error("unexpected error", "error", err)
		apierror.InternalError(err).WriteJSON(w)
	}
}
