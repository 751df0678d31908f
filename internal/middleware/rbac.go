// rbac.go implements role-based access control middleware. Roles are loaded
// into the context by AuthMiddleware; these guards only read from it.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taman-kehati/taman-kehati/internal/auth"
)

// CallerRole returns the authenticated caller's role from the request context.
// The second return is false when the request was not authenticated.
func CallerRole(c *gin.Context) (auth.Role, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := v.(auth.Role)
	return role, ok
}

// CallerRegionID returns the caller's region scope, or "" for unscoped roles.
func CallerRegionID(c *gin.Context) string {
	v, exists := c.Get("region_id")
	if !exists {
		return ""
	}
	regionID, _ := v.(string)
	return regionID
}

// RequireRole allows only callers holding one of the given roles
func RequireRole(roles ...auth.Role) gin.HandlerFunc {
	allowed := make(map[auth.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role, ok := CallerRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		if !allowed[role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}

// RequireWrite allows only roles that may create or modify content
func RequireWrite() gin.HandlerFunc {
	return requirePermission(auth.Role.CanWrite)
}

// RequireApprover allows only roles that may approve or reject assessments
func RequireApprover() gin.HandlerFunc {
	return requirePermission(auth.Role.CanApprove)
}

// RequireUserManagement allows only roles that may manage accounts
func RequireUserManagement() gin.HandlerFunc {
	return requirePermission(auth.Role.CanManageUsers)
}

func requirePermission(check func(auth.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := CallerRole(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		if !check(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Insufficient permissions",
			})
			return
		}

		c.Next()
	}
}
