package tenant

// Role represents a user's role within a tenant (workspace).
type Role string

// Canonical roles, highest to lowest privilege.
const (
	RoleOwner    Role = "owner"
	RoleDirector Role = "director"
	RoleManager  Role = "manager"
	RoleMember   Role = "member"
	RoleObserver Role = "observer"
)

// rankUnknown sorts below every canonical role. An unrecognized role code
// is treated as non-privileged, never as an error.
const rankUnknown = 1 << 16

// roleRanks orders canonical roles; lower rank = more privileged.
var roleRanks = map[Role]int{
	RoleOwner:    0,
	RoleDirector: 1,
	RoleManager:  2,
	RoleMember:   3,
	RoleObserver: 4,
}

// roleAliases maps historical role spellings onto canonical roles.
// Stored data may carry these spellings indefinitely; there is no backfill
// migration, so every role read from storage goes through ResolveAlias
// before any comparison.
var roleAliases = map[Role]Role{
	"superadmin": RoleOwner,
	"admin":      RoleDirector,
	"sub_admin":  RoleDirector,
	"lead":       RoleManager,
	"staff":      RoleMember,
	"viewer":     RoleObserver,
	"guest":      RoleObserver,
}

// ResolveAlias maps a stored role code onto its canonical role. Resolution
// is idempotent: canonical roles and unknown codes pass through unchanged.
func ResolveAlias(code Role) Role {
	if canonical, ok := roleAliases[code]; ok {
		return canonical
	}
	return code
}

// ParseRole parses a string to a canonical Role, resolving aliases.
// The boolean reports whether the result is a recognized role.
func ParseRole(s string) (Role, bool) {
	r := ResolveAlias(Role(s))
	return r, r.IsValid()
}

// IsValid checks if the role is one of the canonical roles.
func (r Role) IsValid() bool {
	_, ok := roleRanks[r]
	return ok
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Rank returns the role's position in the privilege order after alias
// resolution; lower is more privileged. Unknown roles rank below all
// canonical roles.
func (r Role) Rank() int {
	if rank, ok := roleRanks[ResolveAlias(r)]; ok {
		return rank
	}
	return rankUnknown
}

// AtLeast reports whether the role is at least as privileged as required.
func (r Role) AtLeast(required Role) bool {
	return r.Rank() <= required.Rank()
}

// OneOf reports whether the role, after alias resolution, is in the
// allowed set.
func (r Role) OneOf(allowed ...Role) bool {
	resolved := ResolveAlias(r)
	for _, a := range allowed {
		if resolved == ResolveAlias(a) {
			return true
		}
	}
	return false
}

// CanAssign reports whether an actor holding this role may assign the
// target role to another member. Owner is never assignable; otherwise an
// actor may grant any role up to and including their own rank.
func (r Role) CanAssign(target Role) bool {
	if ResolveAlias(target) == RoleOwner {
		return false
	}
	return target.Rank() >= r.Rank()
}

// AssignableRoles returns the roles that can be granted to members.
// Owner is excluded: exactly one owner exists per tenant, set at creation.
var AssignableRoles = []Role{RoleDirector, RoleManager, RoleMember, RoleObserver}
