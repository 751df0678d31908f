// auditlogs.go implements the audit trail query endpoints. Filters are parsed
// and validated in internal/auditlog before any SQL is built, and regional
// admins are transparently scoped to entries from their own region.
package admin

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/auditlog"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/middleware"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
)

// AuditLogHandlers handles audit trail query endpoints
type AuditLogHandlers struct {
	db        *sql.DB
	auditRepo *repositories.AuditRepository
}

// NewAuditLogHandlers creates a new AuditLogHandlers instance
func NewAuditLogHandlers(db *sql.DB) *AuditLogHandlers {
	return &AuditLogHandlers{
		db:        db,
		auditRepo: repositories.NewAuditRepository(db),
	}
}

// callerFilters parses the filter query string and scopes it to the caller.
// It writes the 400 response itself on invalid filter values.
func callerFilters(c *gin.Context) (auditlog.PredicateSet, bool) {
	q, err := auditlog.ParseFilterQuery(
		c.Query("action"),
		c.Query("entity"),
		c.Query("category"),
		c.Query("severity"),
		c.Query("actor_id"),
		c.Query("date_from"),
		c.Query("date_to"),
		c.Query("search"),
	)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return auditlog.PredicateSet{}, false
	}

	role, _ := middleware.CallerRole(c)
	return auditlog.BuildFilters(q, role, middleware.CallerRegionID(c)), true
}

// ListAuditLogsHandler lists audit entries matching the filters
// GET /api/v1/admin/audit-logs?action=...&entity=...&category=...&severity=...&actor_id=...&date_from=...&date_to=...&search=...
func (h *AuditLogHandlers) ListAuditLogsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		filters, ok := callerFilters(c)
		if !ok {
			return
		}

		entries, total, err := h.auditRepo.ListEntries(c.Request.Context(), filters, limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list audit entries",
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

		// Summary counters are computed over the same filtered set, not the page.
		stats, err := h.auditRepo.Summarize(c.Request.Context(), filters, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to summarize audit entries",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"data":       entries,
			"pagination": pageInfo,
			"stats":      stats,
		})
	}
}

// GetAuditLogHandler retrieves a single audit entry
// GET /api/v1/admin/audit-logs/:id
func (h *AuditLogHandlers) GetAuditLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		entry, err := h.auditRepo.GetEntry(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve audit entry",
			})
			return
		}

		if entry == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Audit entry not found",
			})
			return
		}

		// Region scoping applies to single-entry reads too, so an entry ID
		// leaked from another region reads as not found.
		role, _ := middleware.CallerRole(c)
		scope := auditlog.BuildFilters(auditlog.FilterQuery{}, role, middleware.CallerRegionID(c))
		if !scope.Matches(entry) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Audit entry not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"entry": entry})
	}
}

// AuditLogSummaryHandler returns aggregate counts for the dashboard
// GET /api/v1/admin/audit-logs/summary
func (h *AuditLogHandlers) AuditLogSummaryHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		filters, ok := callerFilters(c)
		if !ok {
			return
		}

		stats, err := h.auditRepo.Summarize(c.Request.Context(), filters, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to summarize audit entries",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"summary": stats})
	}
}

// ExportAuditLogsHandler streams matching entries as a JSON attachment. The
// export itself is an auditable action.
// GET /api/v1/admin/audit-logs/export
func (h *AuditLogHandlers) ExportAuditLogsHandler() gin.HandlerFunc {
	const exportLimit = 10000

	return func(c *gin.Context) {
		filters, ok := callerFilters(c)
		if !ok {
			return
		}

		entries, total, err := h.auditRepo.ListEntries(c.Request.Context(), filters, exportLimit, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to export audit entries",
			})
			return
		}

		c.Set("audit_entry", &auditlog.Entry{
			Action:      auditlog.ActionExport,
			EntityType:  auditlog.EntitySystem,
			Description: "Exported audit log entries",
			Category:    auditlog.CategoryAccess,
			Severity:    auditlog.SeverityMedium,
		})

		c.Header("Content-Disposition", `attachment; filename="audit-logs.json"`)
		c.Header("Content-Type", "application/json")

		enc := json.NewEncoder(c.Writer)
		enc.SetIndent("", "  ")
		_ = enc.Encode(gin.H{
			"exported_at": time.Now().UTC(),
			"total":       total,
			"truncated":   total > exportLimit,
			"entries":     entries,
		})
	}
}
