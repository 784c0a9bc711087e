package tenant

import (
	"fmt"
	"time"

	"github.com/taskhive/api/pkg/domain/shared"
)

// Membership represents a user's membership in a tenant. Unique per
// (tenant, user). The stored role may be a legacy alias spelling; it is
// resolved on every read, never rewritten in place.
type Membership struct {
	id        shared.ID
	userID    shared.ID
	tenantID  shared.ID
	role      Role
	overrides []string // explicitly granted capability flags, additive only
	invitedBy *shared.ID
	joinedAt  time.Time
}

// NewMembership creates a new Membership.
func NewMembership(userID, tenantID shared.ID, role Role, invitedBy *shared.ID) (*Membership, error) {
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: userID is required", shared.ErrValidation)
	}
	if tenantID.IsZero() {
		return nil, fmt.Errorf("%w: tenantID is required", shared.ErrValidation)
	}
	if !ResolveAlias(role).IsValid() {
		return nil, fmt.Errorf("%w: invalid role %q", shared.ErrValidation, role)
	}

	return &Membership{
		id:        shared.NewID(),
		userID:    userID,
		tenantID:  tenantID,
		role:      role,
		invitedBy: invitedBy,
		joinedAt:  time.Now().UTC(),
	}, nil
}

// NewOwnerMembership creates the membership for the tenant creator.
func NewOwnerMembership(userID, tenantID shared.ID) (*Membership, error) {
	return NewMembership(userID, tenantID, RoleOwner, nil)
}

// ReconstituteMembership recreates a Membership from persistence.
func ReconstituteMembership(
	id shared.ID,
	userID shared.ID,
	tenantID shared.ID,
	role Role,
	overrides []string,
	invitedBy *shared.ID,
	joinedAt time.Time,
) *Membership {
	return &Membership{
		id:        id,
		userID:    userID,
		tenantID:  tenantID,
		role:      role,
		overrides: overrides,
		invitedBy: invitedBy,
		joinedAt:  joinedAt,
	}
}

// ID returns the membership ID.
func (m *Membership) ID() shared.ID { return m.id }

// UserID returns the member's user ID.
func (m *Membership) UserID() shared.ID { return m.userID }

// TenantID returns the tenant ID.
func (m *Membership) TenantID() shared.ID { return m.tenantID }

// Role returns the member's canonical role, resolving legacy aliases.
func (m *Membership) Role() Role {
	return ResolveAlias(m.role)
}

// StoredRole returns the role exactly as persisted, aliases included.
func (m *Membership) StoredRole() Role { return m.role }

// Overrides returns the explicitly granted capability flags. Overrides are
// never consulted for owners and can only add to the role's defaults.
func (m *Membership) Overrides() []string { return m.overrides }

// InvitedBy returns the user who invited this member, nil for the founder.
func (m *Membership) InvitedBy() *shared.ID { return m.invitedBy }

// JoinedAt returns when the member joined.
func (m *Membership) JoinedAt() time.Time { return m.joinedAt }

// IsOwner checks if this membership holds the owner role.
func (m *Membership) IsOwner() bool {
	return m.Role() == RoleOwner
}

// UpdateRole updates the member's role. The owner role is immutable: it can
// neither be assigned nor taken away here.
func (m *Membership) UpdateRole(role Role) error {
	resolved := ResolveAlias(role)
	if !resolved.IsValid() {
		return fmt.Errorf("%w: invalid role %q", shared.ErrValidation, role)
	}
	if m.IsOwner() {
		return fmt.Errorf("%w: owner role cannot be changed", shared.ErrValidation)
	}
	if resolved == RoleOwner {
		return fmt.Errorf("%w: cannot promote to owner", shared.ErrValidation)
	}
	m.role = resolved
	return nil
}

// GrantOverride adds a capability flag to the override set. Granting an
// already-present flag is a no-op.
func (m *Membership) GrantOverride(flag string) {
	for _, existing := range m.overrides {
		if existing == flag {
			return
		}
	}
	m.overrides = append(m.overrides, flag)
}
