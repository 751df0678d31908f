// stats.go implements handlers for aggregating and serving dashboard statistics.
package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/taman-kehati/taman-kehati/internal/middleware"
)

// StatsHandler handles stats-related API requests
type StatsHandler struct {
	db *sqlx.DB
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(database *sqlx.DB) *StatsHandler {
	return &StatsHandler{
		db: database,
	}
}

// DashboardStats represents the response for dashboard statistics
type DashboardStats struct {
	Parks         ParkStats       `json:"parks"`
	Species       SpeciesStats    `json:"species"`
	Articles      ArticleStats    `json:"articles"`
	Announcements int64           `json:"announcements_active"`
	Users         int64           `json:"users"`
	Assessments   AssessmentStats `json:"assessments"`
	AuditsToday   int64           `json:"audit_entries_today"`
}

// ParkStats represents park-specific statistics
type ParkStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// SpeciesStats represents species registry statistics
type SpeciesStats struct {
	Total      int64 `json:"total"`
	Flora      int64 `json:"flora"`
	Fauna      int64 `json:"fauna"`
	Endemic    int64 `json:"endemic"`
	Threatened int64 `json:"threatened"` // CR, EN, or VU
}

// ArticleStats represents editorial content statistics
type ArticleStats struct {
	Total     int64 `json:"total"`
	Published int64 `json:"published"`
}

// BandCount is the number of approved assessments in a single band.
type BandCount struct {
	Band  string `json:"band"`
	Count int64  `json:"count"`
}

// AssessmentStats represents assessment workflow statistics
type AssessmentStats struct {
	Total         int64       `json:"total"`
	Draft         int64       `json:"draft"`
	PendingReview int64       `json:"pending_review"`
	Approved      int64       `json:"approved"`
	ByBand        []BandCount `json:"by_band"`
}

// @Summary      Get dashboard statistics
// @Description  Returns aggregated counts for the admin dashboard: parks, species registry breakdowns, editorial content, assessment workflow states, and today's audit volume. Regional admins see numbers scoped to their own region.
// @Tags         Stats
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  DashboardStats
// @Failure      401  {object}  map[string]interface{}  "Unauthorized"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/admin/stats/dashboard [get]
// GetDashboardStats returns dashboard statistics using a single database round-trip
// for the core counts. An empty region argument disables region scoping.
func (h *StatsHandler) GetDashboardStats(c *gin.Context) {
	ctx := c.Request.Context()

	region := ""
	if role, ok := middleware.CallerRole(c); ok && role.RegionScoped() {
		region = middleware.CallerRegionID(c)
	}

	// Core counts — single round-trip. Every subquery repeats the region
	// predicate so one parameter scopes the whole dashboard.
	query := `
		SELECT
			(SELECT COUNT(*) FROM parks WHERE $1 = '' OR region_id = $1) AS park_count,
			(SELECT COUNT(*) FROM parks WHERE published = TRUE AND ($1 = '' OR region_id = $1)) AS park_published,
			(SELECT COUNT(*) FROM species s JOIN parks p ON p.id = s.park_id WHERE $1 = '' OR p.region_id = $1) AS species_count,
			(SELECT COUNT(*) FROM species s JOIN parks p ON p.id = s.park_id WHERE s.kingdom = 'flora' AND ($1 = '' OR p.region_id = $1)) AS flora_count,
			(SELECT COUNT(*) FROM species s JOIN parks p ON p.id = s.park_id WHERE s.kingdom = 'fauna' AND ($1 = '' OR p.region_id = $1)) AS fauna_count,
			(SELECT COUNT(*) FROM species s JOIN parks p ON p.id = s.park_id WHERE s.endemic = TRUE AND ($1 = '' OR p.region_id = $1)) AS endemic_count,
			(SELECT COUNT(*) FROM species s JOIN parks p ON p.id = s.park_id WHERE s.iucn_status IN ('CR','EN','VU') AND ($1 = '' OR p.region_id = $1)) AS threatened_count,
			(SELECT COUNT(*) FROM articles) AS article_count,
			(SELECT COUNT(*) FROM articles WHERE published = TRUE) AS article_published,
			(SELECT COUNT(*) FROM announcements WHERE active = TRUE) AS announcement_active,
			(SELECT COUNT(*) FROM users) AS user_count,
			(SELECT COUNT(*) FROM biodiversity_assessments a JOIN parks p ON p.id = a.park_id WHERE $1 = '' OR p.region_id = $1) AS assessment_count,
			(SELECT COUNT(*) FROM biodiversity_assessments a JOIN parks p ON p.id = a.park_id WHERE a.status = 'draft' AND ($1 = '' OR p.region_id = $1)) AS assessment_draft,
			(SELECT COUNT(*) FROM biodiversity_assessments a JOIN parks p ON p.id = a.park_id WHERE a.status = 'pending' AND ($1 = '' OR p.region_id = $1)) AS assessment_pending,
			(SELECT COUNT(*) FROM biodiversity_assessments a JOIN parks p ON p.id = a.park_id WHERE a.status = 'approved' AND ($1 = '' OR p.region_id = $1)) AS assessment_approved,
			(SELECT COUNT(*) FROM audit_logs WHERE occurred_at >= CURRENT_DATE) AS audits_today
	`

	var stats DashboardStats

	err := h.db.QueryRowContext(ctx, query, region).Scan(
		&stats.Parks.Total,
		&stats.Parks.Published,
		&stats.Species.Total,
		&stats.Species.Flora,
		&stats.Species.Fauna,
		&stats.Species.Endemic,
		&stats.Species.Threatened,
		&stats.Articles.Total,
		&stats.Articles.Published,
		&stats.Announcements,
		&stats.Users,
		&stats.Assessments.Total,
		&stats.Assessments.Draft,
		&stats.Assessments.PendingReview,
		&stats.Assessments.Approved,
		&stats.AuditsToday,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard statistics"})
		return
	}

	// Band distribution of approved assessments — optional, falls back to empty.
	stats.Assessments.ByBand = []BandCount{}
	if bandRows, bandErr := h.db.QueryContext(ctx, `
		SELECT a.band, COUNT(*) AS count
		FROM biodiversity_assessments a
		JOIN parks p ON p.id = a.park_id
		WHERE a.status = 'approved' AND ($1 = '' OR p.region_id = $1)
		GROUP BY a.band
		ORDER BY count DESC
	`, region); bandErr == nil {
		defer bandRows.Close()
		for bandRows.Next() {
			var entry BandCount
			if scanErr := bandRows.Scan(&entry.Band, &entry.Count); scanErr == nil {
				stats.Assessments.ByBand = append(stats.Assessments.ByBand, entry)
			}
		}
	}

	c.JSON(http.StatusOK, stats)
}
