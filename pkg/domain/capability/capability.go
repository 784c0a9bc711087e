// Package capability defines named permission flags and the evaluator that
// combines role defaults with per-member overrides.
//
// Capability naming convention:
//
//	{module}:{action}
//
// Examples:
//   - members:manage (change roles, remove members)
//   - reports:view (management tree views)
package capability

import "github.com/taskhive/api/pkg/domain/tenant"

// Capability represents a named permission flag checked independently of
// role rank.
type Capability string

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

const (
	WorkspaceManage Capability = "workspace:manage"
	MembersInvite   Capability = "members:invite"
	MembersManage   Capability = "members:manage"
	ProjectsCreate  Capability = "projects:create"
	ProjectsDelete  Capability = "projects:delete"
	TasksView       Capability = "tasks:view"
	TasksAssign     Capability = "tasks:assign"
	ReportsView     Capability = "reports:view"
	BroadcastSend   Capability = "broadcast:send"
	DataExport      Capability = "data:export"
)

// All lists every defined capability. Owners hold all of them
// unconditionally.
var All = []Capability{
	WorkspaceManage,
	MembersInvite,
	MembersManage,
	ProjectsCreate,
	ProjectsDelete,
	TasksView,
	TasksAssign,
	ReportsView,
	BroadcastSend,
	DataExport,
}

// roleDefaults is the single source of truth for the default capability
// set of each canonical role. It is initialized once and never mutated,
// safe for unsynchronized concurrent reads. Do not duplicate these sets at
// call sites.
var roleDefaults = map[tenant.Role][]Capability{
	tenant.RoleDirector: {
		MembersInvite, MembersManage,
		ProjectsCreate, ProjectsDelete,
		TasksView, TasksAssign,
		ReportsView,
		BroadcastSend, DataExport,
	},
	tenant.RoleManager: {
		MembersInvite,
		ProjectsCreate,
		TasksView, TasksAssign,
		ReportsView,
	},
	tenant.RoleMember: {
		TasksView, TasksAssign,
	},
	tenant.RoleObserver: {
		TasksView,
	},
}

// Defaults returns the default capability set for a role after alias
// resolution. Owner defaults are the full capability set. Unknown roles
// default to nothing.
func Defaults(role tenant.Role) []Capability {
	resolved := tenant.ResolveAlias(role)
	if resolved == tenant.RoleOwner {
		return All
	}
	return roleDefaults[resolved]
}

// Parse returns the capability for a string flag, reporting whether the
// flag is recognized.
func Parse(s string) (Capability, bool) {
	c := Capability(s)
	for _, known := range All {
		if c == known {
			return c, true
		}
	}
	return c, false
}

// FromStrings converts raw stored flags to capabilities, dropping
// unrecognized flags.
func FromStrings(flags []string) []Capability {
	out := make([]Capability, 0, len(flags))
	for _, f := range flags {
		if c, ok := Parse(f); ok {
			out = append(out, c)
		}
	}
	return out
}
