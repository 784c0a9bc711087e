package project

import (
	"fmt"
	"time"

	"github.com/taskhive/api/pkg/domain/shared"
)

// Membership represents a user's membership in a project. ManagerID, when
// set, must reference another member of the same project; the
// (subordinate, manager) pairs drawn from these records form the
// reports-to graph. A member has at most one direct manager per project.
type Membership struct {
	id        shared.ID
	projectID shared.ID
	userID    shared.ID
	userName  string
	isLeader  bool
	managerID *shared.ID
	joinedAt  time.Time
}

// NewMembership creates a new project Membership.
func NewMembership(projectID, userID shared.ID, isLeader bool) (*Membership, error) {
	if projectID.IsZero() {
		return nil, fmt.Errorf("%w: projectID is required", shared.ErrValidation)
	}
	if userID.IsZero() {
		return nil, fmt.Errorf("%w: userID is required", shared.ErrValidation)
	}

	return &Membership{
		id:        shared.NewID(),
		projectID: projectID,
		userID:    userID,
		isLeader:  isLeader,
		joinedAt:  time.Now().UTC(),
	}, nil
}

// ReconstituteMembership recreates a project Membership from persistence.
func ReconstituteMembership(id, projectID, userID shared.ID, userName string, isLeader bool, managerID *shared.ID, joinedAt time.Time) *Membership {
	return &Membership{
		id:        id,
		projectID: projectID,
		userID:    userID,
		userName:  userName,
		isLeader:  isLeader,
		managerID: managerID,
		joinedAt:  joinedAt,
	}
}

// ID returns the membership ID.
func (m *Membership) ID() shared.ID { return m.id }

// ProjectID returns the project ID.
func (m *Membership) ProjectID() shared.ID { return m.projectID }

// UserID returns the member's user ID.
func (m *Membership) UserID() shared.ID { return m.userID }

// UserName returns the member's display name, populated on read.
func (m *Membership) UserName() string { return m.userName }

// IsLeader reports whether this member carries the leader flag.
func (m *Membership) IsLeader() bool { return m.isLeader }

// ManagerID returns the member's direct manager, nil for top-level members.
func (m *Membership) ManagerID() *shared.ID { return m.managerID }

// JoinedAt returns when the member joined the project.
func (m *Membership) JoinedAt() time.Time { return m.joinedAt }

// SetManager updates the member's direct manager reference. Validation
// against the project member list happens at the service edge; write-time
// validation alone cannot guarantee the stored graph is acyclic, which is
// why reads carry their own cycle guards.
func (m *Membership) SetManager(managerID *shared.ID) {
	m.managerID = managerID
}
