// Package tenant defines tenants (workspaces), their role hierarchy, and
// tenant memberships.
package tenant

import (
	"fmt"
	"time"

	"github.com/taskhive/api/pkg/domain/shared"
)

// Tenant represents an isolated organizational container. All roles and
// permissions are scoped to exactly one tenant.
type Tenant struct {
	id          shared.ID
	name        string
	slug        string
	description string
	createdBy   shared.ID
	createdAt   time.Time
	updatedAt   time.Time
}

// NewTenant creates a new Tenant.
func NewTenant(name, slug string, createdBy shared.ID) (*Tenant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", shared.ErrValidation)
	}
	if createdBy.IsZero() {
		return nil, fmt.Errorf("%w: createdBy is required", shared.ErrValidation)
	}

	now := time.Now().UTC()
	return &Tenant{
		id:        shared.NewID(),
		name:      name,
		slug:      slug,
		createdBy: createdBy,
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstituteTenant recreates a Tenant from persistence.
func ReconstituteTenant(id shared.ID, name, slug, description string, createdBy shared.ID, createdAt, updatedAt time.Time) *Tenant {
	return &Tenant{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		createdBy:   createdBy,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// ID returns the tenant ID.
func (t *Tenant) ID() shared.ID { return t.id }

// Name returns the tenant name.
func (t *Tenant) Name() string { return t.name }

// Slug returns the URL-safe tenant identifier.
func (t *Tenant) Slug() string { return t.slug }

// Description returns the tenant description.
func (t *Tenant) Description() string { return t.description }

// CreatedBy returns the ID of the user who created the tenant.
func (t *Tenant) CreatedBy() shared.ID { return t.createdBy }

// CreatedAt returns when the tenant was created.
func (t *Tenant) CreatedAt() time.Time { return t.createdAt }

// UpdatedAt returns when the tenant was last updated.
func (t *Tenant) UpdatedAt() time.Time { return t.updatedAt }

// UpdateDescription sets the tenant description.
func (t *Tenant) UpdateDescription(description string) {
	t.description = description
	t.updatedAt = time.Now().UTC()
}
