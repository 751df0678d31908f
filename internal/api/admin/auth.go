// Package admin implements the administrative HTTP handlers for the Taman
// Kehati portal. Every route in this package sits behind the authentication,
// RBAC, and audit middleware (see internal/middleware) — unlike the read-only
// public handlers in the sibling package, which serve published content
// without credentials.
//
// auth.go implements handlers for password login, session introspection, and
// password changes.
package admin

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/taman-kehati/taman-kehati/internal/auditlog"
	"github.com/taman-kehati/taman-kehati/internal/auth"
	"github.com/taman-kehati/taman-kehati/internal/config"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
)

// AuthHandlers handles authentication-related endpoints
type AuthHandlers struct {
	cfg      *config.Config
	db       *sql.DB
	userRepo *repositories.UserRepository
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(cfg *config.Config, db *sql.DB) *AuthHandlers {
	return &AuthHandlers{
		cfg:      cfg,
		db:       db,
		userRepo: repositories.NewUserRepository(db),
	}
}

// LoginRequest is the payload for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Log in with email and password
// @Description  Validate credentials and issue a signed JWT for subsequent requests
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        body  body  LoginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "token, expires_at, user"
// @Failure      400  {object}  map[string]interface{}  "Invalid request body"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Router       /api/v1/auth/login [post]
// LoginHandler validates credentials and issues a JWT
// POST /api/v1/auth/login
func (h *AuthHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		user, err := h.userRepo.GetUserByEmail(c.Request.Context(), req.Email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to look up user",
			})
			return
		}

		// Same response for unknown email and wrong password so the endpoint
		// does not leak which addresses have accounts.
		if user == nil || !user.Active {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
			})
			return
		}

		role, err := auth.ParseRole(user.Role)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to resolve user role",
			})
			return
		}

		regionID := ""
		if user.RegionID != nil {
			regionID = *user.RegionID
		}

		ttl := h.cfg.Auth.TokenTTL
		token, err := auth.GenerateJWT(user.ID, user.Email, role, regionID, ttl)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to issue token",
			})
			return
		}

		// Login still succeeds if the timestamp write fails; it is informational.
		_ = h.userRepo.RecordLogin(c.Request.Context(), user.ID)

		c.Set("audit_entry", &auditlog.Entry{
			ActorID:       &user.ID,
			ActorName:     user.FullName,
			ActorRole:     user.Role,
			ActorRegionID: user.RegionID,
			Action:        auditlog.ActionLogin,
			EntityType:    auditlog.EntityUser,
			EntityID:      &user.ID,
			Category:      auditlog.CategorySecurity,
			Severity:      auditlog.SeverityLow,
			Description:   "User logged in",
		})

		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_at": time.Now().Add(ttl),
			"user": gin.H{
				"id":        user.ID,
				"email":     user.Email,
				"full_name": user.FullName,
				"role":      user.Role,
				"region_id": user.RegionID,
			},
		})
	}
}

// MeHandler returns the authenticated user's profile
// GET /api/v1/auth/me
func (h *AuthHandlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		v, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		user, ok := v.(*models.User)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load user",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": user})
	}
}

// ChangePasswordRequest is the payload for changing the caller's password
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=10"`
}

// ChangePasswordHandler lets the authenticated user rotate their own password
// POST /api/v1/auth/change-password
func (h *AuthHandlers) ChangePasswordHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ChangePasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		v, exists := c.Get("user")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}
		user := v.(*models.User)

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Current password is incorrect",
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
				"error": "Failed to update password",
			})
			return
		}

		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionUpdate,
			EntityType:  auditlog.EntityUser,
			EntityID:    &user.ID,
			Category:    auditlog.CategorySecurity,
			Severity:    auditlog.SeverityMedium,
			Description: "User changed their password",
		})

		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
