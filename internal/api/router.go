// Package api wires together all HTTP routes for the Taman Kehati portal.
//
// Route grouping philosophy:
//   - Public routes (/api/v1/parks, /species, /articles, /announcements) are
//     unauthenticated and serve only published content to the visitor portal.
//   - Admin routes (/api/v1/admin/...) always require authentication; mutating
//     routes additionally require a writer role, review routes an approver
//     role, and account management a super admin. Every mutation passes
//     through the audit middleware.
package api

import (
	"context"
	"database/sql"
	"io"
	"log"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/taman-kehati/taman-kehati/internal/api/admin"
	"github.com/taman-kehati/taman-kehati/internal/api/public"
	"github.com/taman-kehati/taman-kehati/internal/audit"
	"github.com/taman-kehati/taman-kehati/internal/config"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/jobs"
	"github.com/taman-kehati/taman-kehati/internal/middleware"
	"github.com/taman-kehati/taman-kehati/internal/storage"

	// Import storage backends to register them
	_ "github.com/taman-kehati/taman-kehati/internal/storage/local"
	_ "github.com/taman-kehati/taman-kehati/internal/storage/s3"
)

// BackgroundServices holds references to background jobs and resources that must
// be stopped during graceful shutdown. The caller (cmd/server) is responsible for
// calling Shutdown() when the process receives a termination signal.
type BackgroundServices struct {
	announcementExpiry *jobs.AnnouncementExpiry
	auditRetention     *jobs.AuditRetention
	auditShipper       audit.Shipper
	rateLimiters       []*middleware.RateLimiter
}

// Shutdown stops all background goroutines. It should be called after the HTTP
// server has been shut down so that in-flight requests are drained first.
func (bg *BackgroundServices) Shutdown() {
	slog.Info("stopping background services")
	if bg.announcementExpiry != nil {
		bg.announcementExpiry.Stop()
	}
	if bg.auditRetention != nil {
		bg.auditRetention.Stop()
	}
	if bg.auditShipper != nil {
		if err := bg.auditShipper.Close(); err != nil {
			slog.Error("failed to close audit shipper", "error", err)
		}
	}
	for _, rl := range bg.rateLimiters {
		rl.Stop()
	}
	slog.Info("all background services stopped")
}

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, *BackgroundServices) {
	router := gin.New()

	// Initialize media storage backend
	storageBackend, err := storage.NewStorage(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	log.Printf("Initialized media storage backend: %s", cfg.Media.DefaultBackend)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	auditRepo := repositories.NewAuditRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)

	// Wrap *sql.DB with sqlx for the dashboard stats handler
	sqlxDB := sqlx.NewDb(db, "postgres")

	// Background jobs
	announcementExpiry := jobs.NewAnnouncementExpiry(announcementRepo, 0)
	go announcementExpiry.Start(context.Background())
	log.Println("Announcement expiry sweep started")

	auditRetention := jobs.NewAuditRetention(auditRepo, cfg.Audit.RetentionDays, 0)
	go auditRetention.Start(context.Background())

	// External audit shippers (webhook/file), if configured
	var auditShipper audit.Shipper
	if len(cfg.Audit.Shippers) > 0 {
		ms, err := audit.NewMultiShipper(cfg.Audit.Shippers)
		if err != nil {
			log.Fatalf("Failed to initialize audit shippers: %v", err)
		}
		auditShipper = ms
	}

	// Rate limiters
	generalRateLimiter := middleware.NewRateLimiter(middleware.PortalRateLimitConfig(cfg.Security.RateLimiting))
	authRateLimiter := middleware.NewRateLimiter(middleware.LoginRateLimitConfig())
	uploadRateLimiter := middleware.NewRateLimiter(middleware.MediaUploadRateLimitConfig())

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(LoggerMiddleware(cfg))
	router.Use(CORSMiddleware(cfg))
	router.Use(middleware.SecurityHeadersMiddleware(middleware.APISecurityHeadersConfig()))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	// Readiness check endpoint (includes storage backend probe)
	router.GET("/ready", readinessHandler(db, storageBackend))

	// API version
	router.GET("/version", versionHandler())

	// Media file serving for the local backend with serve_directly enabled.
	// The route-level header policy lets the frontend embed images cross-origin.
	if cfg.Media.DefaultBackend == "local" && cfg.Media.Local.ServeDirectly {
		router.GET("/media/*filepath",
			middleware.SecurityHeadersMiddleware(middleware.MediaSecurityHeadersConfig()),
			serveMediaHandler(storageBackend))
	}

	apiV1 := router.Group("/api/v1")
	apiV1.Use(middleware.RateLimitMiddleware(generalRateLimiter))
	{
		// Public portal endpoints
		apiV1.GET("/parks", public.ListParksHandler(db))
		apiV1.GET("/parks/:slug", public.GetParkHandler(db))
		apiV1.GET("/species", public.ListSpeciesHandler(db))
		apiV1.GET("/articles", public.ListArticlesHandler(db))
		apiV1.GET("/articles/:slug", public.GetArticleHandler(db))
		apiV1.GET("/announcements", public.ListAnnouncementsHandler(db))

		// Login is rate-limited more aggressively and sits outside the
		// authenticated group.
		authHandlers := admin.NewAuthHandlers(cfg, db)
		authGroup := apiV1.Group("/auth")
		authGroup.Use(middleware.RateLimitMiddleware(authRateLimiter))
		authGroup.Use(middleware.AuditMiddlewareWithShipper(auditRepo, auditShipper, &cfg.Audit))
		{
			authGroup.POST("/login", authHandlers.LoginHandler())
		}

		// Authenticated admin endpoints
		adminGroup := apiV1.Group("/admin")
		adminGroup.Use(middleware.AuthMiddleware(userRepo))
		adminGroup.Use(middleware.AuditMiddlewareWithShipper(auditRepo, auditShipper, &cfg.Audit))
		{
			adminGroup.GET("/auth/me", authHandlers.MeHandler())
			adminGroup.POST("/auth/change-password", authHandlers.ChangePasswordHandler())

			// Dashboard
			statsHandler := admin.NewStatsHandler(sqlxDB)
			adminGroup.GET("/stats/dashboard", statsHandler.GetDashboardStats)

			// Regions (reference data; writes are super admin only)
			regionHandlers := admin.NewRegionHandlers(db)
			adminGroup.GET("/regions", regionHandlers.ListRegionsHandler())
			adminGroup.GET("/regions/:id", regionHandlers.GetRegionHandler())
			adminGroup.POST("/regions", middleware.RequireUserManagement(), regionHandlers.CreateRegionHandler())

			// Parks
			parkHandlers := admin.NewParkHandlers(db)
			adminGroup.GET("/parks", parkHandlers.ListParksHandler())
			adminGroup.GET("/parks/:id", parkHandlers.GetParkHandler())
			adminGroup.POST("/parks", middleware.RequireWrite(), parkHandlers.CreateParkHandler())
			adminGroup.PUT("/parks/:id", middleware.RequireWrite(), parkHandlers.UpdateParkHandler())
			adminGroup.DELETE("/parks/:id", middleware.RequireWrite(), parkHandlers.DeleteParkHandler())

			// Species registry
			speciesHandlers := admin.NewSpeciesHandlers(db)
			adminGroup.GET("/species", speciesHandlers.ListSpeciesHandler())
			adminGroup.GET("/species/:id", speciesHandlers.GetSpeciesHandler())
			adminGroup.POST("/species", middleware.RequireWrite(), speciesHandlers.CreateSpeciesHandler())
			adminGroup.PUT("/species/:id", middleware.RequireWrite(), speciesHandlers.UpdateSpeciesHandler())
			adminGroup.DELETE("/species/:id", middleware.RequireWrite(), speciesHandlers.DeleteSpeciesHandler())

			// Articles
			articleHandlers := admin.NewArticleHandlers(db)
			adminGroup.GET("/articles", articleHandlers.ListArticlesHandler())
			adminGroup.GET("/articles/:id", articleHandlers.GetArticleHandler())
			adminGroup.POST("/articles", middleware.RequireWrite(), articleHandlers.CreateArticleHandler())
			adminGroup.PUT("/articles/:id", middleware.RequireWrite(), articleHandlers.UpdateArticleHandler())
			adminGroup.DELETE("/articles/:id", middleware.RequireWrite(), articleHandlers.DeleteArticleHandler())

			// Announcements
			announcementHandlers := admin.NewAnnouncementHandlers(db)
			adminGroup.GET("/announcements", announcementHandlers.ListAnnouncementsHandler())
			adminGroup.GET("/announcements/:id", announcementHandlers.GetAnnouncementHandler())
			adminGroup.POST("/announcements", middleware.RequireWrite(), announcementHandlers.CreateAnnouncementHandler())
			adminGroup.PUT("/announcements/:id", middleware.RequireWrite(), announcementHandlers.UpdateAnnouncementHandler())
			adminGroup.DELETE("/announcements/:id", middleware.RequireWrite(), announcementHandlers.DeleteAnnouncementHandler())

			// Biodiversity assessments. Approve and reject require an
			// approver role; submit only needs write access.
			assessmentHandlers := admin.NewAssessmentHandlers(db)
			adminGroup.GET("/assessments", assessmentHandlers.ListAssessmentsHandler())
			adminGroup.GET("/assessments/:id", assessmentHandlers.GetAssessmentHandler())
			adminGroup.POST("/assessments", middleware.RequireWrite(), assessmentHandlers.CreateAssessmentHandler())
			adminGroup.PUT("/assessments/:id", middleware.RequireWrite(), assessmentHandlers.UpdateAssessmentHandler())
			adminGroup.POST("/assessments/:id/submit", middleware.RequireWrite(), assessmentHandlers.SubmitAssessmentHandler())
			adminGroup.POST("/assessments/:id/approve", middleware.RequireApprover(), assessmentHandlers.ApproveAssessmentHandler())
			adminGroup.POST("/assessments/:id/reject", middleware.RequireApprover(), assessmentHandlers.RejectAssessmentHandler())
			adminGroup.POST("/assessments/:id/reopen", middleware.RequireWrite(), assessmentHandlers.ReopenAssessmentHandler())
			adminGroup.DELETE("/assessments/:id", middleware.RequireWrite(), assessmentHandlers.DeleteAssessmentHandler())

			// Audit trail
			auditLogHandlers := admin.NewAuditLogHandlers(db)
			adminGroup.GET("/audit-logs", auditLogHandlers.ListAuditLogsHandler())
			adminGroup.GET("/audit-logs/summary", auditLogHandlers.AuditLogSummaryHandler())
			adminGroup.GET("/audit-logs/export", auditLogHandlers.ExportAuditLogsHandler())
			adminGroup.GET("/audit-logs/:id", auditLogHandlers.GetAuditLogHandler())

			// Media uploads
			mediaHandlers := admin.NewMediaHandlers(storageBackend)
			mediaGroup := adminGroup.Group("/media")
			mediaGroup.Use(middleware.RateLimitMiddleware(uploadRateLimiter))
			mediaGroup.Use(middleware.RequireWrite())
			{
				mediaGroup.POST("", mediaHandlers.UploadMediaHandler())
				mediaGroup.DELETE("", mediaHandlers.DeleteMediaHandler())
			}

			// Account management (super admin only)
			userHandlers := admin.NewUserHandlers(db)
			usersGroup := adminGroup.Group("/users")
			usersGroup.Use(middleware.RequireUserManagement())
			{
				usersGroup.GET("", userHandlers.ListUsersHandler())
				usersGroup.GET("/:id", userHandlers.GetUserHandler())
				usersGroup.POST("", userHandlers.CreateUserHandler())
				usersGroup.PUT("/:id", userHandlers.UpdateUserHandler())
				usersGroup.POST("/:id/reset-password", userHandlers.ResetPasswordHandler())
				usersGroup.DELETE("/:id", userHandlers.DeleteUserHandler())
			}
		}
	}

	bg := &BackgroundServices{
		announcementExpiry: announcementExpiry,
		auditRetention:     auditRetention,
		auditShipper:       auditShipper,
		rateLimiters:       []*middleware.RateLimiter{generalRateLimiter, authRateLimiter, uploadRateLimiter},
	}

	return router, bg
}

// @Summary      Health check
// @Description  Returns the health status of the service, including database connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "status: healthy, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "status: unhealthy, error: database connection failed"
// @Router       /health [get]
// healthCheckHandler returns the health status of the service
func healthCheckHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  "database connection failed",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      Readiness check
// @Description  Returns whether the service is ready to accept traffic. Checks database and media storage connectivity.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "ready: true, time: RFC3339 timestamp"
// @Failure      503  {object}  map[string]interface{}  "ready: false, error: dependency not ready"
// @Router       /ready [get]
// readinessHandler returns the readiness status of the service.
// Unlike the liveness probe (/health), this also checks the storage backend so
// that a Kubernetes readiness gate fails when media uploads would error.
func readinessHandler(db *sql.DB, storageBackend storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := gin.H{}

		if err := db.Ping(); err != nil {
			checks["database"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "database not ready",
			})
			return
		}
		checks["database"] = "healthy"

		// Probe the storage backend with a known-absent sentinel path.
		// Exists() exercises authentication and network connectivity without
		// creating any state.
		if _, err := storageBackend.Exists(c.Request.Context(), ".readiness-probe"); err != nil {
			checks["storage"] = "unhealthy"
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"checks": checks,
				"error":  "storage backend not ready",
			})
			return
		}
		checks["storage"] = "healthy"

		c.JSON(http.StatusOK, gin.H{
			"ready":  true,
			"checks": checks,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// @Summary      API version
// @Description  Returns the current API version.
// @Tags         System
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "version, api_version"
// @Router       /version [get]
// versionHandler returns the API version
func versionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":     "0.1.0",
			"api_version": "v1",
		})
	}
}

// serveMediaHandler streams files from the local storage backend. Content type
// is inferred from the extension by the http package.
func serveMediaHandler(storageBackend storage.Storage) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Param("filepath"), "/")

		reader, err := storageBackend.Download(c.Request.Context(), path)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
			return
		}
		defer reader.Close()

		c.Status(http.StatusOK)
		if _, err := io.Copy(c.Writer, reader); err != nil {
			slog.Error("failed to stream media file", "path", path, "error", err)
		}
	}
}

// LoggerMiddleware provides structured logging
func LoggerMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		if cfg.Logging.Format == "json" {
			logJSON(c, latency, path, query)
		} else {
			logText(c, latency, path, query)
		}
	}
}

// logJSON logs a request as a JSON-structured slog record.
func logJSON(c *gin.Context, latency time.Duration, path, query string) {
	requestID, _ := c.Get(middleware.RequestIDKey)
	slog.LogAttrs(
		c.Request.Context(),
		slog.LevelInfo,
		"http request",
		slog.String("method", c.Request.Method),
		slog.String("path", path),
		slog.String("query", query),
		slog.Int("status", c.Writer.Status()),
		slog.Int("size", c.Writer.Size()),
		slog.Duration("latency", latency),
		slog.String("ip", c.ClientIP()),
		slog.String("request_id", toString(requestID)),
		slog.String("user_agent", c.Request.UserAgent()),
	)
}

// logText logs a request as a human-readable slog text record.
func logText(c *gin.Context, latency time.Duration, path, query string) {
	// reuse the same structured output; slog will emit text format when the
	// global handler is a TextHandler (configured in telemetry.SetupLogger).
	logJSON(c, latency, path, query)
}

func toString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// CORSMiddleware handles CORS
func CORSMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")

		allowed := false
		for _, allowedOrigin := range cfg.Security.CORS.AllowedOrigins {
			if allowedOrigin == "*" || allowedOrigin == origin {
				allowed = true
				break
			}
		}

		if allowed {
			if origin == "" {
				c.Header("Access-Control-Allow-Origin", "*")
			} else {
				c.Header("Access-Control-Allow-Origin", origin)
			}
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
			c.Header("Access-Control-Max-Age", "3600")
		}

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
