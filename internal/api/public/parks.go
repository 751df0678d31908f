// Package public implements the unauthenticated read-only handlers serving the
// visitor-facing portal. Only published content is exposed here; everything
// else lives behind the authenticated admin API.
//
// parks.go implements the park directory and detail endpoints.
package public

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
)

// pageParams reads page/limit query values with the portal's defaults.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

// @Summary      List published parks
// @Description  List conservation parks visible on the public portal, optionally filtered by region or a name search.
// @Tags         Parks
// @Produce      json
// @Param        region_id  query  string  false  "Filter by region"
// @Param        search     query  string  false  "Search in name and description"
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Results per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "parks: [], pagination: {}"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/parks [get]
// ListParksHandler handles the public park directory
func ListParksHandler(db *sql.DB) gin.HandlerFunc {
	parkRepo := repositories.NewParkRepository(db)

	return func(c *gin.Context) {
		page, limit := pageParams(c)

		published := true
		filters := repositories.ParkFilters{Published: &published}
		if regionID := c.Query("region_id"); regionID != "" {
			filters.RegionID = &regionID
		}
		if search := c.Query("search"); search != "" {
			filters.Search = &search
		}

		parks, total, err := parkRepo.ListParks(c.Request.Context(), filters, limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list parks",
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
			"data":       parks,
			"pagination": pageInfo,
		})
	}
}

// @Summary      Get a park by slug
// @Description  Returns a published park with its species counts and the latest approved biodiversity assessment.
// @Tags         Parks
// @Produce      json
// @Param        slug  path  string  true  "Park slug"
// @Success      200  {object}  map[string]interface{}  "park, flora_count, fauna_count, latest_assessment"
// @Failure      404  {object}  map[string]interface{}  "Park not found or not published"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/parks/{slug} [get]
// GetParkHandler handles the public park detail page
func GetParkHandler(db *sql.DB) gin.HandlerFunc {
	parkRepo := repositories.NewParkRepository(db)
	speciesRepo := repositories.NewSpeciesRepository(db)
	assessmentRepo := repositories.NewAssessmentRepository(db)

	return func(c *gin.Context) {
		park, err := parkRepo.GetParkBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve park",
			})
			return
		}

		// Unpublished parks read as missing to the public.
		if park == nil || !park.Published {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Park not found",
			})
			return
		}

		flora, fauna, err := speciesRepo.CountByKingdom(c.Request.Context(), park.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to count species",
			})
			return
		}

		// Latest approved assessment, if any. Drafts and pending reviews are
		// internal and never surface here.
		approved := models.AssessmentStatusApproved
		filters := repositories.AssessmentFilters{ParkID: &park.ID, Status: &approved}
		assessments, _, err := assessmentRepo.ListAssessments(c.Request.Context(), filters, 1, 0)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve assessment",
			})
			return
		}
		var latest *models.Assessment
		if len(assessments) > 0 {
			latest = assessments[0]
		}

		c.JSON(http.StatusOK, gin.H{
			"park":              park,
			"flora_count":       flora,
			"fauna_count":       fauna,
			"latest_assessment": latest,
		})
	}
}
