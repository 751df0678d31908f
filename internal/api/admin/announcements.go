// announcements.go implements handlers for the time-windowed announcement
// system. Expired announcements are also swept by the background job in
// internal/jobs/announcement_expiry.go.
package admin

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
	"github.com/taman-kehati/taman-kehati/internal/validation"
)

// AnnouncementHandlers handles announcement management endpoints
type AnnouncementHandlers struct {
	db               *sql.DB
	announcementRepo *repositories.AnnouncementRepository
}

// NewAnnouncementHandlers creates a new AnnouncementHandlers instance
func NewAnnouncementHandlers(db *sql.DB) *AnnouncementHandlers {
	return &AnnouncementHandlers{
		db:               db,
		announcementRepo: repositories.NewAnnouncementRepository(db),
	}
}

// AnnouncementRequest is the payload for creating or updating an announcement
type AnnouncementRequest struct {
	Title    string     `json:"title" binding:"required"`
	Body     string     `json:"body" binding:"required"`
	Audience string     `json:"audience"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	Active   bool       `json:"active"`
}

func (r *AnnouncementRequest) validate() string {
	if r.Audience == "" {
		r.Audience = models.AudiencePublic
	}
	if r.Audience != models.AudiencePublic && r.Audience != models.AudienceAdmins {
		return "Audience must be 'public' or 'admins'"
	}
	if r.StartsAt != nil && r.EndsAt != nil {
		if err := validation.ValidateDateRange(*r.StartsAt, *r.EndsAt); err != nil {
			return err.Error()
		}
	}
	return ""
}

// ListAnnouncementsHandler lists all announcements with pagination
// GET /api/v1/admin/announcements
func (h *AnnouncementHandlers) ListAnnouncementsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		announcements, total, err := h.announcementRepo.ListAnnouncements(c.Request.Context(), limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list announcements",
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
			"data":       announcements,
			"pagination": pageInfo,
		})
	}
}

// GetAnnouncementHandler retrieves an announcement by ID
// GET /api/v1/admin/announcements/:id
func (h *AnnouncementHandlers) GetAnnouncementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := h.announcementRepo.GetAnnouncementByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve announcement",
			})
			return
		}

		if a == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Announcement not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"announcement": a})
	}
}

// CreateAnnouncementHandler creates a new announcement
// POST /api/v1/admin/announcements
func (h *AnnouncementHandlers) CreateAnnouncementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnnouncementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if msg := req.validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		a := &models.Announcement{
			Title:    req.Title,
			Body:     req.Body,
			Audience: req.Audience,
			StartsAt: req.StartsAt,
			EndsAt:   req.EndsAt,
			Active:   req.Active,
		}
		if creatorID := c.GetString("user_id"); creatorID != "" {
			a.CreatedBy = &creatorID
		}

		if err := h.announcementRepo.CreateAnnouncement(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create announcement",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"announcement": a})
	}
}

// UpdateAnnouncementHandler updates an existing announcement
// PUT /api/v1/admin/announcements/:id
func (h *AnnouncementHandlers) UpdateAnnouncementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AnnouncementRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if msg := req.validate(); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}

		a, err := h.announcementRepo.GetAnnouncementByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve announcement",
			})
			return
		}
		if a == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Announcement not found",
			})
			return
		}

		a.Title = req.Title
		a.Body = req.Body
		a.Audience = req.Audience
		a.StartsAt = req.StartsAt
		a.EndsAt = req.EndsAt
		a.Active = req.Active

		if err := h.announcementRepo.UpdateAnnouncement(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update announcement",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"announcement": a})
	}
}

// DeleteAnnouncementHandler deletes an announcement
// DELETE /api/v1/admin/announcements/:id
func (h *AnnouncementHandlers) DeleteAnnouncementHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := h.announcementRepo.GetAnnouncementByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve announcement",
			})
			return
		}
		if a == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Announcement not found",
			})
			return
		}

		if err := h.announcementRepo.DeleteAnnouncement(c.Request.Context(), a.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete announcement",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Announcement deleted"})
	}
}
