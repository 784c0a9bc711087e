package capability

import "github.com/taskhive/api/pkg/domain/tenant"

// Set is a capability membership set.
type Set map[Capability]struct{}

// Contains reports whether the set holds a capability.
func (s Set) Contains(c Capability) bool {
	_, ok := s[c]
	return ok
}

// Evaluator answers "may a principal with this role and these overrides
// perform capability C". It assumes the caller has already established
// that a membership exists; an absent member must be rejected before this
// component is consulted.
type Evaluator struct{}

// NewEvaluator creates a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Effective resolves the effective capability set for a role plus
// explicitly granted overrides.
//
// Owner bypasses the table entirely: every capability, overrides ignored.
// Otherwise the result is the role's default set union the overrides;
// overrides are additive only and cannot revoke a role default.
func (e *Evaluator) Effective(role tenant.Role, overrides []Capability) Set {
	if tenant.ResolveAlias(role) == tenant.RoleOwner {
		set := make(Set, len(All))
		for _, c := range All {
			set[c] = struct{}{}
		}
		return set
	}

	defaults := Defaults(role)
	set := make(Set, len(defaults)+len(overrides))
	for _, c := range defaults {
		set[c] = struct{}{}
	}
	for _, c := range overrides {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether the role plus overrides grants the capability.
func (e *Evaluator) Has(role tenant.Role, overrides []Capability, c Capability) bool {
	return e.Effective(role, overrides).Contains(c)
}
