package auth

import "testing"

func TestParseRole(t *testing.T) {
	tests := []struct {
		input   string
		want    Role
		wantErr bool
	}{
		{"super_admin", RoleSuperAdmin, false},
		{"regional_admin", RoleRegionalAdmin, false},
		{"viewer", RoleViewer, false},
		{"", "", true},
		{"admin", "", true},
		{"SUPER_ADMIN", "", true}, // roles are stored lowercase
	}

	for _, tt := range tests {
		got, err := ParseRole(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRole(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestRolePermissions(t *testing.T) {
	if !RoleSuperAdmin.CanWrite() || !RoleSuperAdmin.CanApprove() || !RoleSuperAdmin.CanManageUsers() {
		t.Error("super_admin should hold every permission")
	}
	if RoleSuperAdmin.RegionScoped() {
		t.Error("super_admin must never be region scoped")
	}

	if !RoleRegionalAdmin.CanWrite() {
		t.Error("regional_admin should be able to write")
	}
	if RoleRegionalAdmin.CanApprove() || RoleRegionalAdmin.CanManageUsers() {
		t.Error("regional_admin must not approve assessments or manage users")
	}
	if !RoleRegionalAdmin.RegionScoped() {
		t.Error("regional_admin must be region scoped")
	}

	if RoleViewer.CanWrite() || RoleViewer.CanApprove() || RoleViewer.CanManageUsers() {
		t.Error("viewer must be read-only")
	}
}
