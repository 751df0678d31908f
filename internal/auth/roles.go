// Package auth - roles.go defines the portal's role model and the permission
// checks used by the RBAC middleware and the audit-log region-scoping policy.
package auth

import "fmt"

// Role is the access level of an authenticated portal user.
type Role string

const (
	// RoleSuperAdmin manages every region: approves assessments, manages users,
	// and sees the full audit log.
	RoleSuperAdmin Role = "super_admin"

	// RoleRegionalAdmin manages content for a single administrative region and
	// sees only audit entries produced by actors in that region.
	RoleRegionalAdmin Role = "regional_admin"

	// RoleViewer has read-only access to the admin API.
	RoleViewer Role = "viewer"
)

// ParseRole converts a stored role string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleRegionalAdmin, RoleViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role: %q", s)
}

// CanWrite reports whether the role may create or modify content.
func (r Role) CanWrite() bool {
	return r == RoleSuperAdmin || r == RoleRegionalAdmin
}

// CanApprove reports whether the role may approve or reject pending assessments.
func (r Role) CanApprove() bool {
	return r == RoleSuperAdmin
}

// CanManageUsers reports whether the role may create, update, or deactivate users.
func (r Role) CanManageUsers() bool {
	return r == RoleSuperAdmin
}

// RegionScoped reports whether the role's visibility is restricted to its own
// region. Super admins are never region scoped.
func (r Role) RegionScoped() bool {
	return r == RoleRegionalAdmin
}
