package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/taskhive/api/pkg/domain/task"
)

// TaskRepository implements task.Repository using PostgreSQL.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// List returns task summaries matching the filter.
func (r *TaskRepository) List(ctx context.Context, filter task.Filter) ([]task.Summary, error) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT id, project_id, assignee_id, title, status, parent_id
		FROM tasks
		WHERE project_id = $1
	`)

	args := []any{filter.ProjectID}

	if filter.AssigneeID != nil {
		args = append(args, *filter.AssigneeID)
		fmt.Fprintf(&sb, " AND assignee_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.TopLevelOnly {
		sb.WriteString(" AND parent_id IS NULL")
	}
	sb.WriteString(" ORDER BY created_at")

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []task.Summary
	for rows.Next() {
		var t task.Summary
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.AssigneeID, &t.Title, &t.Status, &t.ParentID); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}
