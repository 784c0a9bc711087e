package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/tenant"
	"github.com/taskhive/api/pkg/logger"
)

func newTenantService(repo *fakeTenantRepo) *TenantService {
	log := logger.NewNop()
	return NewTenantService(repo, NewAuthzService(repo, log), log)
}

// seedMembership is like seedMember but returns the membership itself.
func seedMembership(t *testing.T, repo *fakeTenantRepo, tenantID shared.ID, role tenant.Role) *tenant.Membership {
	t.Helper()
	m, err := tenant.NewMembership(shared.NewID(), tenantID, role, nil)
	require.NoError(t, err)
	require.NoError(t, repo.CreateMembership(context.Background(), m))
	return m
}

func TestTenantService_CreateTenant(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTenantRepo()
	svc := newTenantService(repo)
	creatorID := shared.NewID()

	created, err := svc.CreateTenant(ctx, CreateTenantInput{Name: "Acme", Slug: "acme"}, creatorID)
	require.NoError(t, err)

	t.Run("creator becomes owner automatically", func(t *testing.T) {
		m, err := repo.GetMembership(ctx, creatorID, created.ID())
		require.NoError(t, err)
		assert.Equal(t, tenant.RoleOwner, m.Role())
	})

	t.Run("slug collision is a conflict", func(t *testing.T) {
		_, err := svc.CreateTenant(ctx, CreateTenantInput{Name: "Other", Slug: "acme"}, shared.NewID())
		assert.ErrorIs(t, err, shared.ErrConflict)
	})
}

func TestTenantService_AddMember(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTenantRepo()
	svc := newTenantService(repo)
	tenantID := shared.NewID()

	director := seedMember(t, repo, tenantID, tenant.RoleDirector)
	observer := seedMember(t, repo, tenantID, tenant.RoleObserver)

	t.Run("director invites at equal rank", func(t *testing.T) {
		m, err := svc.AddMember(ctx, tenantID, AddMemberInput{
			UserID: shared.NewID().String(),
			Role:   "director",
		}, director)
		require.NoError(t, err)
		assert.Equal(t, tenant.RoleDirector, m.Role())
	})

	t.Run("alias role lands at canonical rank", func(t *testing.T) {
		m, err := svc.AddMember(ctx, tenantID, AddMemberInput{
			UserID: shared.NewID().String(),
			Role:   "staff",
		}, director)
		require.NoError(t, err)
		assert.Equal(t, tenant.RoleMember, m.Role())
	})

	t.Run("owner role is never grantable", func(t *testing.T) {
		_, err := svc.AddMember(ctx, tenantID, AddMemberInput{
			UserID: shared.NewID().String(),
			Role:   "owner",
		}, director)
		assert.ErrorIs(t, err, shared.ErrInsufficientPermission)
	})

	t.Run("observer has no invite capability", func(t *testing.T) {
		_, err := svc.AddMember(ctx, tenantID, AddMemberInput{
			UserID: shared.NewID().String(),
			Role:   "observer",
		}, observer)
		assert.ErrorIs(t, err, shared.ErrInsufficientPermission)
	})

	t.Run("unknown role is a validation error", func(t *testing.T) {
		_, err := svc.AddMember(ctx, tenantID, AddMemberInput{
			UserID: shared.NewID().String(),
			Role:   "mystery",
		}, director)
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestTenantService_UpdateMemberRole(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeTenantRepo, *TenantService, shared.ID) {
		repo := newFakeTenantRepo()
		return repo, newTenantService(repo), shared.NewID()
	}

	t.Run("director promotes a member to equal rank", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		director := seedMember(t, repo, tenantID, tenant.RoleDirector)
		target := seedMembership(t, repo, tenantID, tenant.RoleMember)

		updated, err := svc.UpdateMemberRole(ctx, tenantID, target.ID(), UpdateMemberRoleInput{Role: "director"}, director)
		require.NoError(t, err)
		assert.Equal(t, tenant.RoleDirector, updated.Role())
	})

	t.Run("manager cannot grant above their rank", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		// Managers lack members:manage by default; grant it to isolate the
		// rank rule.
		manager := seedMember(t, repo, tenantID, tenant.RoleManager, "members:manage")
		target := seedMembership(t, repo, tenantID, tenant.RoleMember)

		_, err := svc.UpdateMemberRole(ctx, tenantID, target.ID(), UpdateMemberRoleInput{Role: "director"}, manager)
		assert.ErrorIs(t, err, shared.ErrInsufficientPermission)
	})

	t.Run("nobody can promote to owner", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		ownerID := shared.NewID()
		owner, err := tenant.NewOwnerMembership(ownerID, tenantID)
		require.NoError(t, err)
		require.NoError(t, repo.CreateMembership(ctx, owner))
		target := seedMembership(t, repo, tenantID, tenant.RoleDirector)

		_, err = svc.UpdateMemberRole(ctx, tenantID, target.ID(), UpdateMemberRoleInput{Role: "owner"}, ownerID)
		assert.ErrorIs(t, err, shared.ErrInsufficientPermission)
	})

	t.Run("the owner membership is untouchable", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		ownerID := shared.NewID()
		owner, err := tenant.NewOwnerMembership(ownerID, tenantID)
		require.NoError(t, err)
		require.NoError(t, repo.CreateMembership(ctx, owner))
		director := seedMember(t, repo, tenantID, tenant.RoleDirector)

		_, err = svc.UpdateMemberRole(ctx, tenantID, owner.ID(), UpdateMemberRoleInput{Role: "member"}, director)
		assert.ErrorIs(t, err, shared.ErrInsufficientPermission)
	})

	t.Run("membership from another tenant reads as not found", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		director := seedMember(t, repo, tenantID, tenant.RoleDirector)
		foreign := seedMembership(t, repo, shared.NewID(), tenant.RoleMember)

		_, err := svc.UpdateMemberRole(ctx, tenantID, foreign.ID(), UpdateMemberRoleInput{Role: "observer"}, director)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestTenantService_GrantOverride(t *testing.T) {
	ctx := context.Background()
	repo := newFakeTenantRepo()
	svc := newTenantService(repo)
	tenantID := shared.NewID()

	director := seedMember(t, repo, tenantID, tenant.RoleDirector)

	t.Run("grant persists on the membership", func(t *testing.T) {
		target := seedMembership(t, repo, tenantID, tenant.RoleObserver)
		updated, err := svc.GrantOverride(ctx, tenantID, target.ID(), "reports:view", director)
		require.NoError(t, err)
		assert.Contains(t, updated.Overrides(), "reports:view")
	})

	t.Run("owner grant is a no-op", func(t *testing.T) {
		owner, err := tenant.NewOwnerMembership(shared.NewID(), tenantID)
		require.NoError(t, err)
		require.NoError(t, repo.CreateMembership(ctx, owner))

		updated, err := svc.GrantOverride(ctx, tenantID, owner.ID(), "reports:view", director)
		require.NoError(t, err)
		assert.Empty(t, updated.Overrides())
	})
}

func TestTenantService_RemoveMember(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fakeTenantRepo, *TenantService, shared.ID) {
		repo := newFakeTenantRepo()
		return repo, newTenantService(repo), shared.NewID()
	}

	t.Run("higher rank removes lower rank", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		director := seedMember(t, repo, tenantID, tenant.RoleDirector)
		target := seedMembership(t, repo, tenantID, tenant.RoleMember)

		require.NoError(t, svc.RemoveMember(ctx, tenantID, target.ID(), director))
		_, err := repo.GetMembershipByID(ctx, target.ID())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("equal rank cannot remove", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		director := seedMember(t, repo, tenantID, tenant.RoleDirector)
		target := seedMembership(t, repo, tenantID, tenant.RoleDirector)

		err := svc.RemoveMember(ctx, tenantID, target.ID(), director)
		assert.ErrorIs(t, err, shared.ErrInsufficientPermission)
	})

	t.Run("anyone may leave on their own", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		target := seedMembership(t, repo, tenantID, tenant.RoleObserver)

		require.NoError(t, svc.RemoveMember(ctx, tenantID, target.ID(), target.UserID()))
	})

	t.Run("the owner is irremovable, even by themselves", func(t *testing.T) {
		repo, svc, tenantID := setup(t)
		ownerID := shared.NewID()
		owner, err := tenant.NewOwnerMembership(ownerID, tenantID)
		require.NoError(t, err)
		require.NoError(t, repo.CreateMembership(ctx, owner))

		assert.ErrorIs(t, svc.RemoveMember(ctx, tenantID, owner.ID(), ownerID), shared.ErrInsufficientPermission)

		director := seedMember(t, repo, tenantID, tenant.RoleDirector)
		assert.ErrorIs(t, svc.RemoveMember(ctx, tenantID, owner.ID(), director), shared.ErrInsufficientPermission)
	})
}
