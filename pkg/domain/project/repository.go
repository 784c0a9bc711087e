package project

import (
	"context"

	"github.com/taskhive/api/pkg/domain/shared"
)

// WithMembers bundles a project with its membership list, loaded in a
// single collaborator call so a tree build never observes a partial write.
type WithMembers struct {
	Project *Project
	Members []*Membership
}

// Repository defines the interface for project persistence.
type Repository interface {
	Create(ctx context.Context, p *Project) error
	GetByID(ctx context.Context, id shared.ID) (*Project, error)
	// GetWithMembers returns the project together with its leader and all
	// member records. Returns shared.ErrNotFound for an unknown project.
	GetWithMembers(ctx context.Context, id shared.ID) (*WithMembers, error)
	ListByTenant(ctx context.Context, tenantID shared.ID) ([]*Project, error)
	Delete(ctx context.Context, id shared.ID) error

	// Membership operations
	UpsertMembership(ctx context.Context, m *Membership) error
	ListMemberships(ctx context.Context, projectID shared.ID) ([]*Membership, error)
	// SetManager points every listed subordinate at managerID (nil clears
	// the reference) and returns the number of updated rows.
	SetManager(ctx context.Context, projectID shared.ID, subordinateIDs []shared.ID, managerID *shared.ID) (int64, error)
}
