// users.go implements account management handlers. These routes sit behind
// RequireUserManagement, so only super admins reach them.
package admin

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/taman-kehati/taman-kehati/internal/auditlog"
	"github.com/taman-kehati/taman-kehati/internal/auth"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
)

// UserHandlers handles user management endpoints
type UserHandlers struct {
	db       *sql.DB
	userRepo *repositories.UserRepository
}

// NewUserHandlers creates a new UserHandlers instance
func NewUserHandlers(db *sql.DB) *UserHandlers {
	return &UserHandlers{
		db:       db,
		userRepo: repositories.NewUserRepository(db),
	}
}

// CreateUserRequest is the payload for creating an account
type CreateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=10"`
	FullName string  `json:"full_name" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	RegionID *string `json:"region_id"`
	Active   bool    `json:"active"`
}

// UpdateUserRequest is the payload for updating an account. The password is
// changed through the dedicated reset endpoint, not here.
type UpdateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	FullName string  `json:"full_name" binding:"required"`
	Role     string  `json:"role" binding:"required"`
	RegionID *string `json:"region_id"`
	Active   bool    `json:"active"`
}

// validateRoleRegion enforces that regional admins carry a region and that
// the role string is one of the known roles.
func validateRoleRegion(roleStr string, regionID *string) (auth.Role, string) {
	role, err := auth.ParseRole(roleStr)
	if err != nil {
		return "", "Unknown role"
	}
	if role.RegionScoped() && (regionID == nil || *regionID == "") {
		return "", "Regional admins must be assigned a region"
	}
	return role, ""
}

// ListUsersHandler lists accounts with pagination
// GET /api/v1/admin/users
func (h *UserHandlers) ListUsersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		users, total, err := h.userRepo.ListUsers(c.Request.Context(), limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list users",
			})
			return
		}

		pageInfo, err := pagination.Paginate(page, limit, total)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":       users,
			"pagination": pageInfo,
		})
	}
}

// GetUserHandler retrieves an account by ID
// GET /api/v1/admin/users/:id
func (h *UserHandlers) GetUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.userRepo.GetUserByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve user",
			})
			return
		}

		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// CreateUserHandler creates a new account
// POST /api/v1/admin/users
func (h *UserHandlers) CreateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		role, msg := validateRoleRegion(req.Role, req.RegionID)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		existing, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check email",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An account with this email already exists",
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to hash password",
			})
			return
		}

		user := &models.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
			Role:         string(role),
			RegionID:     req.RegionID,
			Active:       req.Active,
		}

		if err := h.userRepo.CreateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create user",
			})
			return
		}

		after, _ := json.Marshal(user)
		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionCreate,
			EntityType:  auditlog.EntityUser,
			EntityID:    &user.ID,
			After:       after,
			Description: fmt.Sprintf("Created account %s with role %s", user.Email, user.Role),
			Category:    auditlog.CategorySecurity,
			Severity:    auditlog.SeverityMedium,
		})

		c.JSON(http.StatusCreated, gin.H{"user": user})
	}
}

// UpdateUserHandler updates an account's profile, role, and status
// PUT /api/v1/admin/users/:id
func (h *UserHandlers) UpdateUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		role, msg := validateRoleRegion(req.Role, req.RegionID)
		if msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		user, err := h.userRepo.GetUserByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		// An admin cannot deactivate or demote their own account; this
		// prevents locking the last super admin out.
		if user.ID == c.GetString("user_id") && (!req.Active || role != auth.RoleSuperAdmin) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "You cannot deactivate or demote your own account",
			})
			return
		}

		before, _ := json.Marshal(user)

		user.Email = req.Email
		user.FullName = req.FullName
		user.Role = string(role)
		user.RegionID = req.RegionID
		user.Active = req.Active

		if err := h.userRepo.UpdateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update user",
			})
			return
		}

		after, _ := json.Marshal(user)
		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionUpdate,
			EntityType:  auditlog.EntityUser,
			EntityID:    &user.ID,
			Before:      before,
			After:       after,
			Description: fmt.Sprintf("Updated account %s", user.Email),
			Category:    auditlog.CategorySecurity,
			Severity:    auditlog.SeverityMedium,
		})

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ResetPasswordRequest is the payload for an administrative password reset
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=10"`
}

// ResetPasswordHandler sets a new password for an account
// POST /api/v1/admin/users/:id/reset-password
func (h *UserHandlers) ResetPasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		user, err := h.userRepo.GetUserByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to hash password",
			})
			return
		}

		if err := h.userRepo.UpdatePassword(c.Request.Context(), user.ID, string(hash)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to reset password",
			})
			return
		}

		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionUpdate,
			EntityType:  auditlog.EntityUser,
			EntityID:    &user.ID,
			Description: fmt.Sprintf("Reset password for account %s", user.Email),
			Category:    auditlog.CategorySecurity,
			Severity:    auditlog.SeverityHigh,
		})

		c.JSON(http.StatusOK, gin.H{"message": "Password reset"})
	}
}

// DeleteUserHandler deletes an account
// DELETE /api/v1/admin/users/:id
func (h *UserHandlers) DeleteUserHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := h.userRepo.GetUserByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve user",
			})
			return
		}
		if user == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "User not found",
			})
			return
		}

		if user.ID == c.GetString("user_id") {
			c.JSON(http.StatusConflict, gin.H{
				"error": "You cannot delete your own account",
			})
			return
		}

		if err := h.userRepo.DeleteUser(c.Request.Context(), user.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete user",
			})
			return
		}

		before, _ := json.Marshal(user)
		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionDelete,
			EntityType:  auditlog.EntityUser,
			EntityID:    &user.ID,
			Before:      before,
			Description: fmt.Sprintf("Deleted account %s", user.Email),
			Category:    auditlog.CategorySecurity,
			Severity:    auditlog.SeverityHigh,
		})

		c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
	}
}
