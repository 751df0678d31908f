// regions.go implements handlers for the administrative region reference
// data. Regions change rarely and are not paginated.
package admin

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
)

// RegionHandlers handles region reference endpoints
type RegionHandlers struct {
	db         *sql.DB
	regionRepo *repositories.RegionRepository
}

// NewRegionHandlers creates a new RegionHandlers instance
func NewRegionHandlers(db *sql.DB) *RegionHandlers {
	return &RegionHandlers{
		db:         db,
		regionRepo: repositories.NewRegionRepository(db),
	}
}

// RegionRequest is the payload for creating a region
type RegionRequest struct {
	Code     string `json:"code" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Province string `json:"province" binding:"required"`
}

// ListRegionsHandler lists all regions
// GET /api/v1/admin/regions
func (h *RegionHandlers) ListRegionsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		regions, err := h.regionRepo.ListRegions(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list regions",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"regions": regions})
	}
}

// GetRegionHandler retrieves a region by ID
// GET /api/v1/admin/regions/:id
func (h *RegionHandlers) GetRegionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		region, err := h.regionRepo.GetRegionByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve region",
			})
			return
		}

		if region == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Region not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"region": region})
	}
}

// CreateRegionHandler creates a new region
// POST /api/v1/admin/regions
func (h *RegionHandlers) CreateRegionHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		region := &models.Region{
			Code:     req.Code,
			Name:     req.Name,
			Province: req.Province,
		}

		if err := h.regionRepo.CreateRegion(c.Request.Context(), region); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create region",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"region": region})
	}
}
