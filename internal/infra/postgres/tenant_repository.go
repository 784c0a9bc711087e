package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/taskhive/api/pkg/domain/shared"
	"github.com/taskhive/api/pkg/domain/tenant"
)

// TenantRepository implements tenant.Repository using PostgreSQL.
type TenantRepository struct {
	db *DB
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db *DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// Create persists a new tenant.
func (r *TenantRepository) Create(ctx context.Context, t *tenant.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, description, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		t.ID(),
		t.Name(),
		t.Slug(),
		t.Description(),
		t.CreatedBy(),
		t.CreatedAt(),
		t.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetByID retrieves a tenant by ID.
func (r *TenantRepository) GetByID(ctx context.Context, id shared.ID) (*tenant.Tenant, error) {
	query := `
		SELECT id, name, slug, description, created_by, created_at, updated_at
		FROM tenants
		WHERE id = $1
	`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, id))
}

// GetBySlug retrieves a tenant by slug.
func (r *TenantRepository) GetBySlug(ctx context.Context, slug string) (*tenant.Tenant, error) {
	query := `
		SELECT id, name, slug, description, created_by, created_at, updated_at
		FROM tenants
		WHERE slug = $1
	`
	return r.scanTenant(r.db.QueryRowContext(ctx, query, slug))
}

// Delete removes a tenant and, through cascading constraints, all of its
// memberships.
func (r *TenantRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tenant: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ExistsBySlug checks whether a tenant slug is taken.
func (r *TenantRepository) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tenants WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug existence: %w", err)
	}
	return exists, nil
}

func (r *TenantRepository) scanTenant(row *sql.Row) (*tenant.Tenant, error) {
	var (
		id          shared.ID
		name        string
		slug        string
		description string
		createdBy   shared.ID
		createdAt   time.Time
		updatedAt   time.Time
	)
	err := row.Scan(&id, &name, &slug, &description, &createdBy, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	return tenant.ReconstituteTenant(id, name, slug, description, createdBy, createdAt, updatedAt), nil
}

// CreateMembership persists a new tenant membership.
func (r *TenantRepository) CreateMembership(ctx context.Context, m *tenant.Membership) error {
	query := `
		INSERT INTO tenant_members (id, user_id, tenant_id, role, overrides, invited_by, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID(),
		m.UserID(),
		m.TenantID(),
		m.StoredRole().String(),
		pq.Array(m.Overrides()),
		m.InvitedBy(),
		m.JoinedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create membership: %w", err)
	}
	return nil
}

// GetMembership retrieves a user's membership in a tenant.
func (r *TenantRepository) GetMembership(ctx context.Context, userID, tenantID shared.ID) (*tenant.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, role, overrides, invited_by, joined_at
		FROM tenant_members
		WHERE user_id = $1 AND tenant_id = $2
	`
	return r.scanMembership(r.db.QueryRowContext(ctx, query, userID, tenantID))
}

// GetMembershipByID retrieves a membership by its ID.
func (r *TenantRepository) GetMembershipByID(ctx context.Context, id shared.ID) (*tenant.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, role, overrides, invited_by, joined_at
		FROM tenant_members
		WHERE id = $1
	`
	return r.scanMembership(r.db.QueryRowContext(ctx, query, id))
}

// UpdateMembership persists role and override changes.
func (r *TenantRepository) UpdateMembership(ctx context.Context, m *tenant.Membership) error {
	query := `
		UPDATE tenant_members
		SET role = $2, overrides = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, m.ID(), m.StoredRole().String(), pq.Array(m.Overrides()))
	if err != nil {
		return fmt.Errorf("failed to update membership: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteMembership removes a membership.
func (r *TenantRepository) DeleteMembership(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tenant_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete membership: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListMembersByTenant lists all memberships of a tenant.
func (r *TenantRepository) ListMembersByTenant(ctx context.Context, tenantID shared.ID) ([]*tenant.Membership, error) {
	query := `
		SELECT id, user_id, tenant_id, role, overrides, invited_by, joined_at
		FROM tenant_members
		WHERE tenant_id = $1
		ORDER BY joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*tenant.Membership
	for rows.Next() {
		m, err := scanMembershipRow(rows)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *TenantRepository) scanMembership(row *sql.Row) (*tenant.Membership, error) {
	m, err := scanMembershipRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	return m, err
}

func scanMembershipRow(row rowScanner) (*tenant.Membership, error) {
	var (
		id        shared.ID
		userID    shared.ID
		tenantID  shared.ID
		role      string
		overrides pq.StringArray
		invitedBy *shared.ID
		joinedAt  time.Time
	)
	if err := row.Scan(&id, &userID, &tenantID, &role, &overrides, &invitedBy, &joinedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan membership: %w", err)
	}
	return tenant.ReconstituteMembership(id, userID, tenantID, tenant.Role(role), overrides, invitedBy, joinedAt), nil
}
