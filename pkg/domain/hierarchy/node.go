// Package hierarchy resolves the reports-to graph of a project and builds
// the node shapes consumed by the management tree views.
package hierarchy

import (
	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/task"
)

// MemberNode is a request-scoped view of one project member and their
// subordinate subtree. It is assembled on read and never persisted.
type MemberNode struct {
	UserID       shared.ID      `json:"user_id"`
	Name         string         `json:"name"`
	IsLeader     bool           `json:"is_leader"`
	Stats        task.Stats     `json:"stats"`
	Tasks        []task.Summary `json:"tasks"`
	Subordinates []*MemberNode  `json:"subordinates,omitempty"`
}

// Walk visits the node and every descendant, depth-first.
func (n *MemberNode) Walk(fn func(*MemberNode)) {
	fn(n)
	for _, sub := range n.Subordinates {
		sub.Walk(fn)
	}
}

// RosterRole labels a member's position in a project roster.
type RosterRole string

const (
	// RosterRoleApprover marks the project leader.
	RosterRoleApprover RosterRole = "approver"
	// RosterRoleMember marks a regular project member.
	RosterRoleMember RosterRole = "member"
)

// RosterEntry is one member in a project-tree roster.
type RosterEntry struct {
	UserID    shared.ID  `json:"user_id"`
	Name      string     `json:"name"`
	Role      RosterRole `json:"role"`
	TaskCount int        `json:"task_count"`
}

// ProjectNode is a request-scoped view of one project in the tenant-wide
// project tree.
type ProjectNode struct {
	ProjectID shared.ID     `json:"project_id"`
	Name      string        `json:"name"`
	Stats     task.Stats    `json:"stats"`
	Progress  int           `json:"progress"`
	Members   []RosterEntry `json:"members"`
}
