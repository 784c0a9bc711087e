package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/taskhive/api/pkg/domain/project"
	"github.com/taskhive/api/pkg/domain/shared"
)

// ProjectRepository implements project.Repository using PostgreSQL.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create persists a new project.
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	query := `
		INSERT INTO projects (id, tenant_id, name, description, leader_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID(),
		p.TenantID(),
		p.Name(),
		p.Description(),
		p.LeaderID(),
		p.CreatedAt(),
		p.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepository) GetByID(ctx context.Context, id shared.ID) (*project.Project, error) {
	query := `
		SELECT id, tenant_id, name, description, leader_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	p, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNotFound
	}
	return p, err
}

// GetWithMembers retrieves a project together with its member records in
// one round trip per collection.
func (r *ProjectRepository) GetWithMembers(ctx context.Context, id shared.ID) (*project.WithMembers, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	members, err := r.ListMemberships(ctx, id)
	if err != nil {
		return nil, err
	}

	return &project.WithMembers{Project: p, Members: members}, nil
}

// ListByTenant lists all projects of a tenant.
func (r *ProjectRepository) ListByTenant(ctx context.Context, tenantID shared.ID) ([]*project.Project, error) {
	query := `
		SELECT id, tenant_id, name, description, leader_id, created_at, updated_at
		FROM projects
		WHERE tenant_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*project.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Delete removes a project.
func (r *ProjectRepository) Delete(ctx context.Context, id shared.ID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertMembership inserts or updates a project membership.
func (r *ProjectRepository) UpsertMembership(ctx context.Context, m *project.Membership) error {
	query := `
		INSERT INTO project_members (id, project_id, user_id, is_leader, manager_id, joined_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (project_id, user_id)
		DO UPDATE SET is_leader = EXCLUDED.is_leader, manager_id = EXCLUDED.manager_id
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID(),
		m.ProjectID(),
		m.UserID(),
		m.IsLeader(),
		m.ManagerID(),
		m.JoinedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert project membership: %w", err)
	}
	return nil
}

// ListMemberships lists a project's member records, joined with user
// display names.
func (r *ProjectRepository) ListMemberships(ctx context.Context, projectID shared.ID) ([]*project.Membership, error) {
	query := `
		SELECT pm.id, pm.project_id, pm.user_id, COALESCE(u.name, ''), pm.is_leader, pm.manager_id, pm.joined_at
		FROM project_members pm
		LEFT JOIN users u ON u.id = pm.user_id
		WHERE pm.project_id = $1
		ORDER BY pm.joined_at
	`

	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list project members: %w", err)
	}
	defer rows.Close()

	var members []*project.Membership
	for rows.Next() {
		var (
			id        shared.ID
			pID       shared.ID
			userID    shared.ID
			userName  string
			isLeader  bool
			managerID *shared.ID
			joinedAt  time.Time
		)
		if err := rows.Scan(&id, &pID, &userID, &userName, &isLeader, &managerID, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project membership: %w", err)
		}
		members = append(members, project.ReconstituteMembership(id, pID, userID, userName, isLeader, managerID, joinedAt))
	}
	return members, rows.Err()
}

// SetManager points every listed subordinate at managerID (nil clears the
// reference) in a single statement and returns the updated row count.
func (r *ProjectRepository) SetManager(ctx context.Context, projectID shared.ID, subordinateIDs []shared.ID, managerID *shared.ID) (int64, error) {
	ids := make([]string, len(subordinateIDs))
	for i, id := range subordinateIDs {
		ids[i] = id.String()
	}

	query := `
		UPDATE project_members
		SET manager_id = $3
		WHERE project_id = $1 AND user_id = ANY($2)
	`

	result, err := r.db.ExecContext(ctx, query, projectID, pq.Array(ids), managerID)
	if err != nil {
		return 0, fmt.Errorf("failed to set manager: %w", err)
	}
	return result.RowsAffected()
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		id          shared.ID
		tenantID    shared.ID
		name        string
		description string
		leaderID    *shared.ID
		createdAt   time.Time
		updatedAt   time.Time
	)
	if err := row.Scan(&id, &tenantID, &name, &description, &leaderID, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return project.ReconstituteProject(id, tenantID, name, description, leaderID, createdAt, updatedAt), nil
}
