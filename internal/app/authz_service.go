package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/taskhive/api/internal/metrics"
	"github.com/taskhive/api/pkg/domain/capability"
	"github.com/taskhive/api/pkg/domain/project"
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/tenant"
	"github.com/taskhive/api/pkg/logger"
)

// AuthzService is the authorization gate applied at the edge of every
// operation that touches tenant or project data. Checks happen before any
// side-effecting or expensive read.
//
// The two failure modes are distinct: no membership at all is
// shared.ErrAccessDenied; a membership whose role or capabilities fall
// short is shared.ErrInsufficientPermission.
type AuthzService struct {
	tenants   tenant.Repository
	evaluator *capability.Evaluator
	logger    *logger.Logger
}

// NewAuthzService creates a new AuthzService.
func NewAuthzService(tenants tenant.Repository, log *logger.Logger) *AuthzService {
	return &AuthzService{
		tenants:   tenants,
		evaluator: capability.NewEvaluator(),
		logger:    log.With("service", "authz"),
	}
}

// loadMembership fetches the principal's membership, translating an absent
// record into access denial. Absence is checked before any role logic; the
// capability evaluator never sees a missing member.
func (s *AuthzService) loadMembership(ctx context.Context, tenantID, userID shared.ID) (*tenant.Membership, error) {
	membership, err := s.tenants.GetMembership(ctx, userID, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: user %s is not a member of tenant %s", shared.ErrAccessDenied, userID, tenantID)
		}
		return nil, fmt.Errorf("failed to load membership: %w", err)
	}
	return membership, nil
}

// RequireRole loads the principal's membership and verifies its resolved
// role is in the allowed set. The membership is returned because callers
// frequently need the resolved role for follow-up business rules.
func (s *AuthzService) RequireRole(ctx context.Context, tenantID, userID shared.ID, allowed ...tenant.Role) (*tenant.Membership, error) {
	membership, err := s.loadMembership(ctx, tenantID, userID)
	if err != nil {
		metrics.AuthzDecisions.WithLabelValues("role", "denied").Inc()
		return nil, err
	}

	if !membership.Role().OneOf(allowed...) {
		metrics.AuthzDecisions.WithLabelValues("role", "insufficient").Inc()
		return nil, fmt.Errorf("%w: role %s is not in the allowed set", shared.ErrInsufficientPermission, membership.Role())
	}

	metrics.AuthzDecisions.WithLabelValues("role", "allowed").Inc()
	return membership, nil
}

// RequireMinRank is the "at least this privileged" form of RequireRole.
func (s *AuthzService) RequireMinRank(ctx context.Context, tenantID, userID shared.ID, min tenant.Role) (*tenant.Membership, error) {
	membership, err := s.loadMembership(ctx, tenantID, userID)
	if err != nil {
		metrics.AuthzDecisions.WithLabelValues("min_rank", "denied").Inc()
		return nil, err
	}

	if !membership.Role().AtLeast(min) {
		metrics.AuthzDecisions.WithLabelValues("min_rank", "insufficient").Inc()
		return nil, fmt.Errorf("%w: role %s is below %s", shared.ErrInsufficientPermission, membership.Role(), min)
	}

	metrics.AuthzDecisions.WithLabelValues("min_rank", "allowed").Inc()
	return membership, nil
}

// RequireCapability gates on an effective capability: role defaults plus
// the membership's explicitly granted overrides. Owners hold every
// capability unconditionally.
func (s *AuthzService) RequireCapability(ctx context.Context, tenantID, userID shared.ID, c capability.Capability) (*tenant.Membership, error) {
	membership, err := s.loadMembership(ctx, tenantID, userID)
	if err != nil {
		metrics.AuthzDecisions.WithLabelValues("capability", "denied").Inc()
		return nil, err
	}

	overrides := capability.FromStrings(membership.Overrides())
	if !s.evaluator.Has(membership.Role(), overrides, c) {
		metrics.AuthzDecisions.WithLabelValues("capability", "insufficient").Inc()
		return nil, fmt.Errorf("%w: capability %s not granted", shared.ErrInsufficientPermission, c)
	}

	metrics.AuthzDecisions.WithLabelValues("capability", "allowed").Inc()
	return membership, nil
}

// EffectiveCapabilities resolves the principal's full capability set.
func (s *AuthzService) EffectiveCapabilities(ctx context.Context, tenantID, userID shared.ID) (capability.Set, error) {
	membership, err := s.loadMembership(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return s.evaluator.Effective(membership.Role(), capability.FromStrings(membership.Overrides())), nil
}

// CanActOnProject reports whether a principal may act on a project.
// Three independent alternatives, joined by OR: a tenant role of at least
// minRank, the project's denormalized leader reference, or the principal's
// own leader flag on their project membership. Project leadership is not a
// refinement of the tenant gate; either side alone suffices.
func (s *AuthzService) CanActOnProject(
	membership *tenant.Membership,
	p *project.Project,
	projectMembers []*project.Membership,
	minRank tenant.Role,
) bool {
	if membership.Role().AtLeast(minRank) {
		return true
	}
	if p.IsLedBy(membership.UserID()) {
		return true
	}
	for _, m := range projectMembers {
		if m.UserID().Equals(membership.UserID()) && m.IsLeader() {
			return true
		}
	}
	return false
}
