package app

import (
	"context"
	"fmt"

	"github.com/taskhive/api/pkg/domain/capability"
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/tenant"
	"github.com/taskhive/api/pkg/logger"
)

// TenantService handles tenant and membership lifecycle operations.
// Role changes re-validate the privilege total order on every write; the
// owner membership is immutable once set and protected from every actor.
type TenantService struct {
	repo   tenant.Repository
	authz  *AuthzService
	logger *logger.Logger
}

// NewTenantService creates a new TenantService.
func NewTenantService(repo tenant.Repository, authz *AuthzService, log *logger.Logger) *TenantService {
	return &TenantService{
		repo:   repo,
		authz:  authz,
		logger: log.With("service", "tenant"),
	}
}

// CreateTenantInput represents the input for creating a tenant.
type CreateTenantInput struct {
	Name        string `json:"name" validate:"required,min=2,max=100"`
	Slug        string `json:"slug" validate:"required,min=3,max=100,slug"`
	Description string `json:"description" validate:"max=500"`
}

// CreateTenant creates a new tenant and adds the creator as owner.
func (s *TenantService) CreateTenant(ctx context.Context, input CreateTenantInput, creatorID shared.ID) (*tenant.Tenant, error) {
	s.logger.Info("creating tenant", "name", input.Name, "slug", input.Slug, "creator", creatorID.String())

	exists, err := s.repo.ExistsBySlug(ctx, input.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to check slug existence: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: slug '%s' is already taken", shared.ErrConflict, input.Slug)
	}

	t, err := tenant.NewTenant(input.Name, input.Slug, creatorID)
	if err != nil {
		return nil, err
	}
	if input.Description != "" {
		t.UpdateDescription(input.Description)
	}

	if err := s.repo.Create(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create tenant: %w", err)
	}

	membership, err := tenant.NewOwnerMembership(creatorID, t.ID())
	if err != nil {
		_ = s.repo.Delete(ctx, t.ID())
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		_ = s.repo.Delete(ctx, t.ID())
		return nil, fmt.Errorf("failed to create owner membership: %w", err)
	}

	return t, nil
}

// GetTenant retrieves a tenant by ID, verifying the viewer is a member.
// Non-members get shared.ErrAccessDenied regardless of tenant existence.
func (s *TenantService) GetTenant(ctx context.Context, tenantID, viewerID shared.ID) (*tenant.Tenant, error) {
	if _, err := s.authz.RequireMinRank(ctx, tenantID, viewerID, tenant.RoleObserver); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, tenantID)
}

// AddMemberInput represents the input for adding a member.
type AddMemberInput struct {
	UserID string `json:"user_id" validate:"required,uuid"`
	Role   string `json:"role" validate:"required,tenant_role"`
}

// AddMember adds a user to a tenant. The actor needs member management
// rights and may not grant a role above their own rank; owner is never
// grantable.
func (s *TenantService) AddMember(ctx context.Context, tenantID shared.ID, input AddMemberInput, actorID shared.ID) (*tenant.Membership, error) {
	actor, err := s.authz.RequireCapability(ctx, tenantID, actorID, capability.MembersInvite)
	if err != nil {
		return nil, err
	}

	role, ok := tenant.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role %q", shared.ErrValidation, input.Role)
	}
	if !actor.Role().CanAssign(role) {
		return nil, fmt.Errorf("%w: %s may not grant role %s", shared.ErrInsufficientPermission, actor.Role(), role)
	}

	userID, err := shared.IDFromString(input.UserID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", shared.ErrValidation)
	}

	invitedBy := actor.UserID()
	membership, err := tenant.NewMembership(userID, tenantID, role, &invitedBy)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("member added", "tenant_id", tenantID.String(), "user_id", input.UserID, "role", role)
	return membership, nil
}

// UpdateMemberRoleInput represents the input for updating a member's role.
type UpdateMemberRoleInput struct {
	Role string `json:"role" validate:"required,tenant_role"`
}

// UpdateMemberRole changes a member's role, enforcing the privilege total
// order:
//   - the owner membership can never be touched, by anyone
//   - owner can never be assigned
//   - the actor may not grant a rank above their own
func (s *TenantService) UpdateMemberRole(ctx context.Context, tenantID, membershipID shared.ID, input UpdateMemberRoleInput, actorID shared.ID) (*tenant.Membership, error) {
	actor, err := s.authz.RequireCapability(ctx, tenantID, actorID, capability.MembersManage)
	if err != nil {
		return nil, err
	}

	membership, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if !membership.TenantID().Equals(tenantID) {
		return nil, shared.ErrNotFound
	}

	if membership.IsOwner() {
		return nil, fmt.Errorf("%w: the owner's role cannot be changed", shared.ErrInsufficientPermission)
	}

	role, ok := tenant.ParseRole(input.Role)
	if !ok {
		return nil, fmt.Errorf("%w: invalid role %q", shared.ErrValidation, input.Role)
	}
	if !actor.Role().CanAssign(role) {
		return nil, fmt.Errorf("%w: %s may not grant role %s", shared.ErrInsufficientPermission, actor.Role(), role)
	}

	oldRole := membership.Role()
	if err := membership.UpdateRole(role); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to update member role: %w", err)
	}

	s.logger.Info("member role updated",
		"tenant_id", tenantID.String(),
		"membership_id", membershipID.String(),
		"old_role", oldRole,
		"new_role", role)
	return membership, nil
}

// GrantOverride adds a capability flag to a member's override set.
// Overrides are additive only; there is no revocation path for
// role-default capabilities.
func (s *TenantService) GrantOverride(ctx context.Context, tenantID, membershipID shared.ID, flag string, actorID shared.ID) (*tenant.Membership, error) {
	if _, err := s.authz.RequireCapability(ctx, tenantID, actorID, capability.MembersManage); err != nil {
		return nil, err
	}

	membership, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return nil, err
	}
	if !membership.TenantID().Equals(tenantID) {
		return nil, shared.ErrNotFound
	}

	// Owners hold every capability already; overrides are never persisted
	// for them.
	if membership.IsOwner() {
		return membership, nil
	}

	membership.GrantOverride(flag)
	if err := s.repo.UpdateMembership(ctx, membership); err != nil {
		return nil, fmt.Errorf("failed to grant override: %w", err)
	}
	return membership, nil
}

// RemoveMember removes a member from a tenant. The owner is irremovable;
// other members can be removed by an actor of strictly higher rank, or by
// themselves (leaving).
func (s *TenantService) RemoveMember(ctx context.Context, tenantID, membershipID shared.ID, actorID shared.ID) error {
	membership, err := s.repo.GetMembershipByID(ctx, membershipID)
	if err != nil {
		return err
	}
	if !membership.TenantID().Equals(tenantID) {
		return shared.ErrNotFound
	}

	if membership.IsOwner() {
		return fmt.Errorf("%w: the owner cannot be removed", shared.ErrInsufficientPermission)
	}

	if membership.UserID().Equals(actorID) {
		return s.deleteMembership(ctx, membership)
	}

	actor, err := s.authz.RequireCapability(ctx, tenantID, actorID, capability.MembersManage)
	if err != nil {
		return err
	}
	if actor.Role().Rank() >= membership.Role().Rank() {
		return fmt.Errorf("%w: cannot remove a member of equal or higher rank", shared.ErrInsufficientPermission)
	}

	return s.deleteMembership(ctx, membership)
}

func (s *TenantService) deleteMembership(ctx context.Context, membership *tenant.Membership) error {
	if err := s.repo.DeleteMembership(ctx, membership.ID()); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	s.logger.Info("member removed",
		"tenant_id", membership.TenantID().String(),
		"user_id", membership.UserID().String())
	return nil
}

// ListMembers lists a tenant's members; any member may read the roster.
func (s *TenantService) ListMembers(ctx context.Context, tenantID, viewerID shared.ID) ([]*tenant.Membership, error) {
	if _, err := s.authz.RequireMinRank(ctx, tenantID, viewerID, tenant.RoleObserver); err != nil {
		return nil, err
	}
	return s.repo.ListMembersByTenant(ctx, tenantID)
}
