// Package project defines projects, project memberships, and the
// reports-to references between project members.
package project

import (
	"fmt"
	"time"

	"github.com/taskhive/api/pkg/domain/shared"
)

// Project represents a project inside one tenant. LeaderID is denormalized
// onto the project and kept consistent with the members' IsLeader flags by
// the write path.
type Project struct {
	id          shared.ID
	tenantID    shared.ID
	name        string
	description string
	leaderID    *shared.ID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewProject creates a new Project.
func NewProject(tenantID shared.ID, name string) (*Project, error) {
	if tenantID.IsZero() {
		return nil, fmt.Errorf("%w: tenantID is required", shared.ErrValidation)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Project{
		id:        shared.NewID(),
		tenantID:  tenantID,
		name:      name,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstituteProject recreates a Project from persistence.
func ReconstituteProject(id, tenantID shared.ID, name, description string, leaderID *shared.ID, createdAt, updatedAt time.Time) *Project {
	return &Project{
		id:          id,
		tenantID:    tenantID,
		name:        name,
		description: description,
		leaderID:    leaderID,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the project ID.
func (p *Project) ID() shared.ID { return p.id }

// TenantID returns the owning tenant's ID.
func (p *Project) TenantID() shared.ID { return p.tenantID }

// Name returns the project name.
func (p *Project) Name() string { return p.name }

// Description returns the project description.
func (p *Project) Description() string { return p.description }

// LeaderID returns the denormalized leader reference, nil when the project
// has no addressed leader.
func (p *Project) LeaderID() *shared.ID { return p.leaderID }

// CreatedAt returns when the project was created.
func (p *Project) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns when the project was last updated.
func (p *Project) UpdatedAt() time.Time { return p.updatedAt }

// IsLedBy reports whether the given user is the project's addressed leader.
func (p *Project) IsLedBy(userID shared.ID) bool {
	return p.leaderID != nil && p.leaderID.Equals(userID)
}

// SetLeader updates the denormalized leader reference.
func (p *Project) SetLeader(userID *shared.ID) {
	p.leaderID = userID
	p.updatedAt = time.Now().UTC()
}
