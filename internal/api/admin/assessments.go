// assessments.go implements handlers for the yearly biodiversity assessment
// workflow. The overall score is always recomputed server-side from the three
// sub-scores; client-supplied overall values are ignored. Workflow transitions
// (submit, approve, reject) set rich audit entries so that the review trail
// captures who moved an assessment and from which status.
package admin

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/auditlog"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
	"github.com/taman-kehati/taman-kehati/internal/scoring"
	"github.com/taman-kehati/taman-kehati/internal/telemetry"
)

// AssessmentHandlers handles biodiversity assessment endpoints
type AssessmentHandlers struct {
	db             *sql.DB
	assessmentRepo *repositories.AssessmentRepository
	parkRepo       *repositories.ParkRepository
}

// NewAssessmentHandlers creates a new AssessmentHandlers instance
func NewAssessmentHandlers(db *sql.DB) *AssessmentHandlers {
	return &AssessmentHandlers{
		db:             db,
		assessmentRepo: repositories.NewAssessmentRepository(db),
		parkRepo:       repositories.NewParkRepository(db),
	}
}

// AssessmentRequest is the payload for creating or updating an assessment.
// Only the sub-scores are accepted; overall score and band are derived.
type AssessmentRequest struct {
	ParkID         string  `json:"park_id" binding:"required"`
	AssessmentYear int     `json:"assessment_year" binding:"required"`
	FloraScore     float64 `json:"flora_score"`
	FaunaScore     float64 `json:"fauna_score"`
	EcosystemScore float64 `json:"ecosystem_score"`
	Notes          string  `json:"notes"`
}

// parkInScope loads the park and checks the caller's region against it,
// writing the error response itself when the request should not proceed.
func (h *AssessmentHandlers) parkInScope(c *gin.Context, parkID string) bool {
	park, err := h.parkRepo.GetParkByID(c.Request.Context(), parkID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve park",
		})
		return false
	}
	if park == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Park not found",
		})
		return false
	}
	if !regionAllowed(c, park.RegionID) {
		c.JSON(http.StatusForbidden, gin.H{
			"error": "Resource is outside your region",
		})
		return false
	}
	return true
}

// ListAssessmentsHandler lists assessments with optional filters
// GET /api/v1/admin/assessments?park_id=...&status=...&year=...
func (h *AssessmentHandlers) ListAssessmentsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		filters := repositories.AssessmentFilters{}
		if parkID := c.Query("park_id"); parkID != "" {
			filters.ParkID = &parkID
		}
		if status := c.Query("status"); status != "" {
			if err := models.ValidateAssessmentStatus(status); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			filters.Status = &status
		}
		if yearStr := c.Query("year"); yearStr != "" {
			var year int
			if _, err := fmt.Sscanf(yearStr, "%d", &year); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid year"})
				return
			}
			filters.Year = &year
		}

		assessments, total, err := h.assessmentRepo.ListAssessments(c.Request.Context(), filters, limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list assessments",
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
			"data":       assessments,
			"pagination": pageInfo,
		})
	}
}

// GetAssessmentHandler retrieves an assessment by ID
// GET /api/v1/admin/assessments/:id
func (h *AssessmentHandlers) GetAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := h.assessmentRepo.GetAssessmentByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve assessment",
			})
			return
		}

		if a == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Assessment not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"assessment": a})
	}
}

// CreateAssessmentHandler creates a draft assessment for a park and year
// POST /api/v1/admin/assessments
func (h *AssessmentHandlers) CreateAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssessmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if !h.parkInScope(c, req.ParkID) {
			return
		}

		overall, err := scoring.ComputeOverallScore(req.FloraScore, req.FaunaScore, req.EcosystemScore)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		band := scoring.ClassifyScore(overall)

		existing, err := h.assessmentRepo.GetAssessmentByParkYear(c.Request.Context(), req.ParkID, req.AssessmentYear)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check existing assessment",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An assessment for this park and year already exists",
			})
			return
		}

		a := &models.Assessment{
			ParkID:         req.ParkID,
			AssessmentYear: req.AssessmentYear,
			FloraScore:     req.FloraScore,
			FaunaScore:     req.FaunaScore,
			EcosystemScore: req.EcosystemScore,
			OverallScore:   overall,
			Band:           string(band),
			Status:         models.AssessmentStatusDraft,
			Notes:          req.Notes,
		}
		if assessorID := c.GetString("user_id"); assessorID != "" {
			a.AssessedBy = &assessorID
		}

		if err := h.assessmentRepo.CreateAssessment(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create assessment",
			})
			return
		}

		telemetry.AssessmentsScoredTotal.WithLabelValues(string(band)).Inc()

		after, _ := json.Marshal(a)
		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionCreate,
			EntityType:  auditlog.EntityAssessment,
			EntityID:    &a.ID,
			After:       after,
			Description: fmt.Sprintf("Created %d assessment for park %s (score %d, %s)", a.AssessmentYear, a.ParkID, a.OverallScore, a.Band),
			Category:    auditlog.CategoryDataChange,
			Severity:    auditlog.SeverityLow,
		})

		c.JSON(http.StatusCreated, gin.H{"assessment": a})
	}
}

// UpdateAssessmentHandler updates the scores and notes of a draft assessment
// PUT /api/v1/admin/assessments/:id
func (h *AssessmentHandlers) UpdateAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AssessmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		a, err := h.assessmentRepo.GetAssessmentByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve assessment",
			})
			return
		}
		if a == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Assessment not found",
			})
			return
		}

		// Scores are editable only while the assessment is a draft. Anything
		// further along must be rejected back to draft first.
		if a.Status != models.AssessmentStatusDraft {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Only draft assessments can be edited",
			})
			return
		}

		if !h.parkInScope(c, a.ParkID) {
			return
		}

		overall, err := scoring.ComputeOverallScore(req.FloraScore, req.FaunaScore, req.EcosystemScore)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}
		band := scoring.ClassifyScore(overall)

		before, _ := json.Marshal(a)

		a.FloraScore = req.FloraScore
		a.FaunaScore = req.FaunaScore
		a.EcosystemScore = req.EcosystemScore
		a.OverallScore = overall
		a.Band = string(band)
		a.Notes = req.Notes

		if err := h.assessmentRepo.UpdateAssessment(c.Request.Context(), a); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update assessment",
			})
			return
		}

		telemetry.AssessmentsScoredTotal.WithLabelValues(string(band)).Inc()

		after, _ := json.Marshal(a)
		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionUpdate,
			EntityType:  auditlog.EntityAssessment,
			EntityID:    &a.ID,
			Before:      before,
			After:       after,
			Description: fmt.Sprintf("Updated %d assessment for park %s (score %d, %s)", a.AssessmentYear, a.ParkID, a.OverallScore, a.Band),
			Category:    auditlog.CategoryDataChange,
			Severity:    auditlog.SeverityLow,
		})

		c.JSON(http.StatusOK, gin.H{"assessment": a})
	}
}

// transition is shared by the submit/approve/reject handlers. It checks the
// workflow table, applies the status change, and records the audit entry.
func (h *AssessmentHandlers) transition(c *gin.Context, target string, action auditlog.Action, severity auditlog.Severity) {
	a, err := h.assessmentRepo.GetAssessmentByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to retrieve assessment",
		})
		return
	}
	if a == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Assessment not found",
		})
		return
	}

	if !h.parkInScope(c, a.ParkID) {
		return
	}

	if !models.CanTransitionAssessment(a.Status, target) {
		c.JSON(http.StatusConflict, gin.H{
			"error": fmt.Sprintf("Cannot move assessment from %s to %s", a.Status, target),
		})
		return
	}

	var reviewedBy *string
	if target == models.AssessmentStatusApproved || target == models.AssessmentStatusRejected {
		if reviewerID := c.GetString("user_id"); reviewerID != "" {
			reviewedBy = &reviewerID
		}
	}

	if err := h.assessmentRepo.UpdateAssessmentStatus(c.Request.Context(), a.ID, target, reviewedBy); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update assessment status",
		})
		return
	}

	telemetry.AssessmentTransitionsTotal.WithLabelValues(target).Inc()

	from := a.Status
	a.Status = target
	c.Set("audit_entry", &auditlog.Entry{
		Action:      action,
		EntityType:  auditlog.EntityAssessment,
		EntityID:    &a.ID,
		Description: fmt.Sprintf("Moved %d assessment for park %s from %s to %s", a.AssessmentYear, a.ParkID, from, target),
		Category:    auditlog.CategoryWorkflow,
		Severity:    severity,
	})

	c.JSON(http.StatusOK, gin.H{"assessment": a})
}

// SubmitAssessmentHandler moves a draft assessment to pending review
// POST /api/v1/admin/assessments/:id/submit
func (h *AssessmentHandlers) SubmitAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.transition(c, models.AssessmentStatusPending, auditlog.ActionSubmitForReview, auditlog.SeverityLow)
	}
}

// ApproveAssessmentHandler approves a pending assessment
// POST /api/v1/admin/assessments/:id/approve
func (h *AssessmentHandlers) ApproveAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.transition(c, models.AssessmentStatusApproved, auditlog.ActionApprove, auditlog.SeverityMedium)
	}
}

// RejectAssessmentHandler rejects a pending assessment
// POST /api/v1/admin/assessments/:id/reject
func (h *AssessmentHandlers) RejectAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.transition(c, models.AssessmentStatusRejected, auditlog.ActionReject, auditlog.SeverityMedium)
	}
}

// ReopenAssessmentHandler moves a rejected assessment back to draft for rework
// POST /api/v1/admin/assessments/:id/reopen
func (h *AssessmentHandlers) ReopenAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		h.transition(c, models.AssessmentStatusDraft, auditlog.ActionUpdate, auditlog.SeverityLow)
	}
}

// DeleteAssessmentHandler deletes a draft assessment
// DELETE /api/v1/admin/assessments/:id
func (h *AssessmentHandlers) DeleteAssessmentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := h.assessmentRepo.GetAssessmentByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve assessment",
			})
			return
		}
		if a == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Assessment not found",
			})
			return
		}

		if a.Status == models.AssessmentStatusApproved {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Approved assessments cannot be deleted",
			})
			return
		}

		if !h.parkInScope(c, a.ParkID) {
			return
		}

		if err := h.assessmentRepo.DeleteAssessment(c.Request.Context(), a.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete assessment",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Assessment deleted"})
	}
}
