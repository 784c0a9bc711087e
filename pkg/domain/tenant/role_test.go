package tenant

import "testing"

func TestResolveAlias(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Role
	}{
		{"superadmin maps to owner", "superadmin", RoleOwner},
		{"admin maps to director", "admin", RoleDirector},
		{"sub_admin maps to director", "sub_admin", RoleDirector},
		{"lead maps to manager", "lead", RoleManager},
		{"staff maps to member", "staff", RoleMember},
		{"viewer maps to observer", "viewer", RoleObserver},
		{"guest maps to observer", "guest", RoleObserver},
		{"canonical passes through", "owner", RoleOwner},
		{"unknown passes through", "mystery", Role("mystery")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveAlias(Role(tt.in))
			if got != tt.want {
				t.Errorf("ResolveAlias(%q) = %q, want %q", tt.in, got, tt.want)
			}
			// Resolution is idempotent: a resolved role resolves to itself.
			if again := ResolveAlias(got); again != got {
				t.Errorf("ResolveAlias(%q) = %q, not idempotent", got, again)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"director", RoleDirector, true},
		{"admin", RoleDirector, true},
		{"guest", RoleObserver, true},
		{"owner", RoleOwner, true},
		{"", Role(""), false},
		{"root", Role(""), false},
	}

	for _, tt := range tests {
		got, ok := ParseRole(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ParseRole(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRoleRankOrder(t *testing.T) {
	ordered := []Role{RoleOwner, RoleDirector, RoleManager, RoleMember, RoleObserver}
	for i := 1; i < len(ordered); i++ {
		if ordered[i-1].Rank() >= ordered[i].Rank() {
			t.Errorf("rank order broken: %s (%d) should outrank %s (%d)",
				ordered[i-1], ordered[i-1].Rank(), ordered[i], ordered[i].Rank())
		}
	}

	if Role("mystery").Rank() <= RoleObserver.Rank() {
		t.Errorf("unrecognized role must rank below observer, got %d", Role("mystery").Rank())
	}
}

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role Role
		min  Role
		want bool
	}{
		{RoleOwner, RoleDirector, true},
		{RoleDirector, RoleDirector, true},
		{RoleManager, RoleDirector, false},
		{RoleObserver, RoleObserver, true},
		{Role("mystery"), RoleObserver, false},
		// Aliases resolve before comparison.
		{Role("admin"), RoleDirector, true},
		{Role("lead"), RoleDirector, false},
	}

	for _, tt := range tests {
		if got := tt.role.AtLeast(tt.min); got != tt.want {
			t.Errorf("%s.AtLeast(%s) = %v, want %v", tt.role, tt.min, got, tt.want)
		}
	}
}

func TestRoleCanAssign(t *testing.T) {
	tests := []struct {
		name   string
		actor  Role
		target Role
		want   bool
	}{
		{"owner is never assignable", RoleOwner, RoleOwner, false},
		{"owner assigns director", RoleOwner, RoleDirector, true},
		{"director assigns equal rank", RoleDirector, RoleDirector, true},
		{"director assigns below", RoleDirector, RoleMember, true},
		{"director cannot assign owner", RoleDirector, RoleOwner, false},
		{"manager cannot assign director", RoleManager, RoleDirector, false},
		{"manager assigns manager", RoleManager, RoleManager, true},
		{"observer assigns observer only", RoleObserver, RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.actor.CanAssign(tt.target); got != tt.want {
				t.Errorf("%s.CanAssign(%s) = %v, want %v", tt.actor, tt.target, got, tt.want)
			}
		})
	}
}

func TestAssignableRoles(t *testing.T) {
	for _, role := range AssignableRoles {
		if role == RoleOwner {
			t.Fatal("owner must never be listed as assignable")
		}
		if !RoleOwner.CanAssign(role) {
			t.Errorf("AssignableRoles contains %s which even the owner cannot assign", role)
		}
	}
}
