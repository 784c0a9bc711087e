package tenant

import (
	"errors"
	"testing"
	"time"

	"github.com/taskhive/api/pkg/domain/shared"
)

func TestNewMembership(t *testing.T) {
	userID := shared.NewID()
	tenantID := shared.NewID()
	inviterID := shared.NewID()

	tests := []struct {
		name     string
		userID   shared.ID
		tenantID shared.ID
		role     Role
		wantErr  bool
	}{
		{"valid membership", userID, tenantID, RoleMember, false},
		{"alias role accepted", userID, tenantID, Role("staff"), false},
		{"zero user ID", shared.ID{}, tenantID, RoleMember, true},
		{"zero tenant ID", userID, shared.ID{}, RoleMember, true},
		{"unknown role", userID, tenantID, Role("mystery"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMembership(tt.userID, tt.tenantID, tt.role, &inviterID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewMembership() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, shared.ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
				return
			}
			if m == nil {
				t.Fatal("NewMembership() returned nil without error")
			}
		})
	}
}

func TestMembership_RoleResolvesAlias(t *testing.T) {
	m := ReconstituteMembership(
		shared.NewID(), shared.NewID(), shared.NewID(),
		Role("sub_admin"), nil, nil, time.Now().UTC(),
	)

	if m.Role() != RoleDirector {
		t.Errorf("Role() = %s, want director", m.Role())
	}
	if m.StoredRole() != Role("sub_admin") {
		t.Errorf("StoredRole() = %s, want sub_admin (stored spelling untouched)", m.StoredRole())
	}
}

func TestMembership_UpdateRole(t *testing.T) {
	t.Run("owner role is immutable", func(t *testing.T) {
		owner, _ := NewOwnerMembership(shared.NewID(), shared.NewID())
		if err := owner.UpdateRole(RoleMember); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("demoting owner: error = %v, want ErrValidation", err)
		}
	})

	t.Run("cannot promote to owner", func(t *testing.T) {
		m, _ := NewMembership(shared.NewID(), shared.NewID(), RoleDirector, nil)
		if err := m.UpdateRole(RoleOwner); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("promoting to owner: error = %v, want ErrValidation", err)
		}
		if err := m.UpdateRole(Role("superadmin")); !errors.Is(err, shared.ErrValidation) {
			t.Errorf("promoting via alias: error = %v, want ErrValidation", err)
		}
	})

	t.Run("stores the canonical spelling", func(t *testing.T) {
		m, _ := NewMembership(shared.NewID(), shared.NewID(), RoleMember, nil)
		if err := m.UpdateRole(Role("lead")); err != nil {
			t.Fatalf("UpdateRole() unexpected error: %v", err)
		}
		if m.StoredRole() != RoleManager {
			t.Errorf("StoredRole() = %s, want manager", m.StoredRole())
		}
	})
}

func TestMembership_GrantOverride(t *testing.T) {
	m, _ := NewMembership(shared.NewID(), shared.NewID(), RoleObserver, nil)

	m.GrantOverride("reports:view")
	m.GrantOverride("reports:view")
	m.GrantOverride("data:export")

	got := m.Overrides()
	if len(got) != 2 {
		t.Fatalf("Overrides() = %v, want 2 distinct flags", got)
	}
	if got[0] != "reports:view" || got[1] != "data:export" {
		t.Errorf("Overrides() = %v, grant order not preserved", got)
	}
}
