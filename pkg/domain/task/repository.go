package task

import (
	"context"

	"github.com/taskhive/api/pkg/domain/shared"
)

// Filter narrows a task listing. TopLevelOnly restricts the result to
// tasks without a parent, which is what every tree aggregation consumes.
type Filter struct {
	ProjectID    shared.ID
	AssigneeID   *shared.ID
	Status       *Status
	TopLevelOnly bool
}

// Repository defines the read contract over task storage.
type Repository interface {
	List(ctx context.Context, filter Filter) ([]Summary, error)
}
