package capability

import (
	"testing"

	"github.com/taskhive/api/pkg/domain/tenant"
)

func TestEvaluator_Effective(t *testing.T) {
	e := NewEvaluator()

	t.Run("owner holds everything, overrides ignored", func(t *testing.T) {
		set := e.Effective(tenant.RoleOwner, nil)
		if len(set) != len(All) {
			t.Fatalf("owner set has %d capabilities, want %d", len(set), len(All))
		}
		for _, c := range All {
			if !set.Contains(c) {
				t.Errorf("owner is missing %s", c)
			}
		}

		// An override adds nothing to a set that is already total.
		withOverride := e.Effective(tenant.RoleOwner, []Capability{MembersManage})
		if len(withOverride) != len(All) {
			t.Errorf("owner set with override has %d capabilities, want %d", len(withOverride), len(All))
		}
	})

	t.Run("owner alias gets owner treatment", func(t *testing.T) {
		set := e.Effective(tenant.Role("superadmin"), nil)
		if len(set) != len(All) {
			t.Errorf("superadmin set has %d capabilities, want %d", len(set), len(All))
		}
	})

	t.Run("overrides are additive", func(t *testing.T) {
		base := e.Effective(tenant.RoleObserver, nil)
		extended := e.Effective(tenant.RoleObserver, []Capability{ReportsView, DataExport})

		// Every default survives the override grant.
		for c := range base {
			if !extended.Contains(c) {
				t.Errorf("override grant dropped default %s", c)
			}
		}
		if !extended.Contains(ReportsView) || !extended.Contains(DataExport) {
			t.Error("granted overrides missing from effective set")
		}
		if len(extended) != len(base)+2 {
			t.Errorf("extended set has %d capabilities, want %d", len(extended), len(base)+2)
		}
	})

	t.Run("duplicate override of a default changes nothing", func(t *testing.T) {
		base := e.Effective(tenant.RoleMember, nil)
		dup := e.Effective(tenant.RoleMember, []Capability{TasksView})
		if len(dup) != len(base) {
			t.Errorf("duplicate override grew the set: %d vs %d", len(dup), len(base))
		}
	})

	t.Run("unknown role has no defaults", func(t *testing.T) {
		set := e.Effective(tenant.Role("mystery"), []Capability{TasksView})
		if len(set) != 1 || !set.Contains(TasksView) {
			t.Errorf("unknown role set = %v, want just the override", set)
		}
	})
}

func TestEvaluator_Has(t *testing.T) {
	e := NewEvaluator()

	tests := []struct {
		name      string
		role      tenant.Role
		overrides []Capability
		check     Capability
		want      bool
	}{
		{"director manages members", tenant.RoleDirector, nil, MembersManage, true},
		{"director cannot manage workspace", tenant.RoleDirector, nil, WorkspaceManage, false},
		{"manager invites", tenant.RoleManager, nil, MembersInvite, true},
		{"manager cannot delete projects", tenant.RoleManager, nil, ProjectsDelete, false},
		{"member assigns tasks", tenant.RoleMember, nil, TasksAssign, true},
		{"observer views only", tenant.RoleObserver, nil, TasksAssign, false},
		{"observer with export override", tenant.RoleObserver, []Capability{DataExport}, DataExport, true},
		{"lead alias resolves to manager defaults", tenant.Role("lead"), nil, ReportsView, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.Has(tt.role, tt.overrides, tt.check); got != tt.want {
				t.Errorf("Has(%s, %v, %s) = %v, want %v", tt.role, tt.overrides, tt.check, got, tt.want)
			}
		})
	}
}

func TestFromStrings(t *testing.T) {
	got := FromStrings([]string{"reports:view", "bogus:flag", "data:export"})
	if len(got) != 2 || got[0] != ReportsView || got[1] != DataExport {
		t.Errorf("FromStrings() = %v, want recognized flags only", got)
	}
}
