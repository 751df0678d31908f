// audit.go provides Gin middleware that records authenticated write operations
// to the audit log, with optional shipping to external audit destinations.
package middleware

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/taman-kehati/taman-kehati/internal/audit"
	"github.com/taman-kehati/taman-kehati/internal/auditlog"
	"github.com/taman-kehati/taman-kehati/internal/config"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/safego"
	"github.com/taman-kehati/taman-kehati/internal/telemetry"
)

// AuditMiddleware records authenticated actions to the database only
func AuditMiddleware(auditRepo *repositories.AuditRepository) gin.HandlerFunc {
	return AuditMiddlewareWithShipper(auditRepo, nil, nil)
}

// AuditMiddlewareWithShipper records authenticated actions and ships them to
// external destinations. Handlers that know more than the route (workflow
// transitions, before/after snapshots) put a prebuilt entry in the context
// under "audit_entry"; the middleware then fills in actor and request fields
// and persists that instead of deriving one from the method and path.
func AuditMiddlewareWithShipper(auditRepo *repositories.AuditRepository, shipper audit.Shipper, auditCfg *config.AuditConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}

		logReadOps := auditCfg != nil && auditCfg.LogReadOperations
		logFailedReqs := auditCfg != nil && auditCfg.LogFailedRequests

		isReadOp := c.Request.Method == "GET"
		isFailed := c.Writer.Status() >= 400

		// A handler-set entry is always recorded, even on GET: exports and
		// logins describe themselves and must not depend on config toggles.
		entry := entryFromContext(c)
		if entry == nil {
			if isReadOp && !logReadOps {
				return
			}
			entry = deriveEntry(c)
		}
		if entry == nil {
			return
		}
		if isFailed && !logFailedReqs {
			return
		}

		// Actor and request fields are always stamped by the middleware so
		// handler-built entries cannot misattribute an action.
		if user, exists := c.Get("user"); exists {
			if u, ok := user.(*models.User); ok {
				entry.ActorID = &u.ID
				entry.ActorName = u.FullName
				entry.ActorRole = u.Role
				entry.ActorRegionID = u.RegionID
			}
		}

		ip := c.ClientIP()
		entry.IPAddress = &ip
		if ua := c.Request.UserAgent(); ua != "" {
			entry.UserAgent = &ua
		}
		entry.OccurredAt = time.Now()

		statusCode := c.Writer.Status()

		// Async persistence (non-blocking)
		safego.Go("audit-write", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if auditRepo != nil {
				if err := auditRepo.CreateEntry(ctx, entry); err != nil {
					slog.Error("Failed to write audit entry", "error", err, "action", entry.Action)
					return
				}
				telemetry.AuditEntriesWrittenTotal.WithLabelValues(string(entry.Category), string(entry.Severity)).Inc()
			}

			if shipper != nil {
				if err := shipper.Ship(ctx, entry, statusCode); err != nil {
					slog.Error("Failed to ship audit entry", "error", err, "action", entry.Action)
				}
			}
		})
	}
}

func entryFromContext(c *gin.Context) *auditlog.Entry {
	v, exists := c.Get("audit_entry")
	if !exists {
		return nil
	}
	entry, ok := v.(*auditlog.Entry)
	if !ok {
		return nil
	}
	return entry
}

// deriveEntry builds a generic audit entry from the route for mutations the
// handlers did not describe themselves. Unauthenticated or unrecognized routes
// yield nil and are not recorded.
func deriveEntry(c *gin.Context) *auditlog.Entry {
	var action auditlog.Action
	switch c.Request.Method {
	case "POST":
		action = auditlog.ActionCreate
	case "PUT", "PATCH":
		action = auditlog.ActionUpdate
	case "DELETE":
		action = auditlog.ActionDelete
	default:
		return nil
	}

	entityType, ok := entityFromPath(c.Request.URL.Path)
	if !ok {
		return nil
	}

	severity := auditlog.SeverityLow
	if action == auditlog.ActionDelete {
		severity = auditlog.SeverityHigh
	}
	category := auditlog.CategoryDataChange
	if entityType == auditlog.EntityUser {
		category = auditlog.CategorySecurity
		severity = auditlog.SeverityMedium
	}

	var entityID *string
	if id := c.Param("id"); id != "" {
		entityID = &id
	}

	return &auditlog.Entry{
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Category:    category,
		Severity:    severity,
		Description: c.Request.Method + " " + c.FullPath(),
	}
}

func entityFromPath(path string) (auditlog.EntityType, bool) {
	switch {
	case strings.Contains(path, "/parks"):
		return auditlog.EntityPark, true
	case strings.Contains(path, "/species"):
		return auditlog.EntitySpecies, true
	case strings.Contains(path, "/articles"):
		return auditlog.EntityArticle, true
	case strings.Contains(path, "/announcements"):
		return auditlog.EntityAnnouncement, true
	case strings.Contains(path, "/assessments"):
		return auditlog.EntityAssessment, true
	case strings.Contains(path, "/users"):
		return auditlog.EntityUser, true
	}
	return "", false
}
