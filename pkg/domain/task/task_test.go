package task

import "testing"

func TestAggregate(t *testing.T) {
	tasks := []Summary{
		{Status: StatusTodo},
		{Status: StatusTodo},
		{Status: StatusInProgress},
		{Status: StatusReview},
		{Status: StatusBlocked},
		{Status: StatusDone},
		{Status: StatusDone},
		{Status: Status("archived")}, // unrecognized, counts toward total only
	}

	got := Aggregate(tasks)
	want := Stats{Total: 8, Todo: 2, InProgress: 1, Review: 1, Blocked: 1, Done: 2}
	if got != want {
		t.Errorf("Aggregate() = %+v, want %+v", got, want)
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil); got != (Stats{}) {
		t.Errorf("Aggregate(nil) = %+v, want zero stats", got)
	}
}

func TestStats_Progress(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  int
	}{
		{"no tasks is zero, not an error", Stats{}, 0},
		{"all done", Stats{Total: 4, Done: 4}, 100},
		{"three quarters", Stats{Total: 4, Done: 3}, 75},
		{"rounds half up", Stats{Total: 8, Done: 1}, 13}, // 12.5
		{"rounds down below half", Stats{Total: 3, Done: 1}, 33},
		{"rounds up above half", Stats{Total: 3, Done: 2}, 67},
		{"nothing done", Stats{Total: 5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Progress(); got != tt.want {
				t.Errorf("Progress() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	for _, s := range []Status{StatusTodo, StatusInProgress, StatusReview, StatusBlocked, StatusDone} {
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if Status("bogus").IsValid() {
		t.Error("bogus should not be a valid status")
	}
}
