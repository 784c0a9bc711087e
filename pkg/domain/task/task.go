// Package task defines task read models and the fixed-shape status
// aggregates consumed by the management tree views.
package task

import (
	"math"

	"github.com/taskhive/api/pkg/domain/shared"
)

// Status represents a task's workflow status.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusReview     Status = "review"
	StatusBlocked    Status = "blocked"
	StatusDone       Status = "done"
)

// IsValid checks if the status is valid.
func (s Status) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusReview, StatusBlocked, StatusDone:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// Summary is the read model for a task as consumed by the tree views.
// ParentID is nil for top-level tasks; the trees only ever aggregate over
// top-level tasks.
type Summary struct {
	ID         shared.ID  `json:"id"`
	ProjectID  shared.ID  `json:"project_id"`
	AssigneeID *shared.ID `json:"assignee_id,omitempty"`
	Title      string     `json:"title"`
	Status     Status     `json:"status"`
	ParentID   *shared.ID `json:"parent_id,omitempty"`
}

// Stats is the fixed-shape status aggregate. It is derived by counting
// task records on read and is never persisted.
type Stats struct {
	Total      int `json:"total"`
	Todo       int `json:"todo"`
	InProgress int `json:"in_progress"`
	Review     int `json:"review"`
	Blocked    int `json:"blocked"`
	Done       int `json:"done"`
}

// Aggregate reduces a collection of task summaries into Stats. Tasks with
// an unrecognized status count toward Total only.
func Aggregate(tasks []Summary) Stats {
	var s Stats
	for _, t := range tasks {
		s.Total++
		switch t.Status {
		case StatusTodo:
			s.Todo++
		case StatusInProgress:
			s.InProgress++
		case StatusReview:
			s.Review++
		case StatusBlocked:
			s.Blocked++
		case StatusDone:
			s.Done++
		}
	}
	return s
}

// Progress returns the completion percentage, rounded half-up to the
// nearest integer. A project with no tasks reports 0, not an error.
func (s Stats) Progress() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(float64(s.Done) / float64(s.Total) * 100))
}
