// parks.go implements handlers for park CRUD operations. Regional admins may
// only manage parks inside their own region; super admins are unscoped.
package admin

import (
	"database/sql"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/middleware"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
	"github.com/taman-kehati/taman-kehati/internal/validation"
)

// ParkHandlers handles park management endpoints
type ParkHandlers struct {
	db       *sql.DB
	parkRepo *repositories.ParkRepository
}

// NewParkHandlers creates a new ParkHandlers instance
func NewParkHandlers(db *sql.DB) *ParkHandlers {
	return &ParkHandlers{
		db:       db,
		parkRepo: repositories.NewParkRepository(db),
	}
}

// ParkRequest is the payload for creating or updating a park
type ParkRequest struct {
	Slug            string   `json:"slug" binding:"required"`
	Name            string   `json:"name" binding:"required"`
	RegionID        string   `json:"region_id" binding:"required"`
	Address         string   `json:"address"`
	Description     string   `json:"description"`
	AreaHectares    *float64 `json:"area_hectares"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	EstablishedYear *int     `json:"established_year"`
	ManagingAgency  string   `json:"managing_agency"`
	CoverImageURL   string   `json:"cover_image_url"`
	Published       bool     `json:"published"`
}

func (r *ParkRequest) validate() error {
	if err := validation.ValidateSlug(r.Slug); err != nil {
		return err
	}
	if r.Latitude != nil || r.Longitude != nil {
		lat, lng := 0.0, 0.0
		if r.Latitude != nil {
			lat = *r.Latitude
		}
		if r.Longitude != nil {
			lng = *r.Longitude
		}
		if err := validation.ValidateCoordinates(lat, lng); err != nil {
			return err
		}
	}
	return nil
}

// regionAllowed reports whether the caller may manage a park in the region.
func regionAllowed(c *gin.Context, regionID string) bool {
	role, ok := middleware.CallerRole(c)
	if !ok {
		return false
	}
	if !role.RegionScoped() {
		return true
	}
	return middleware.CallerRegionID(c) == regionID
}

// parsePageParams reads page/limit query values with the portal's defaults.
func parsePageParams(c *gin.Context) (page, limit int) {
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

// ListParksHandler lists parks with optional filters and pagination
// GET /api/v1/admin/parks?page=1&limit=20&region_id=...&published=...&search=...
func (h *ParkHandlers) ListParksHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		filters := repositories.ParkFilters{}
		if regionID := c.Query("region_id"); regionID != "" {
			filters.RegionID = &regionID
		}
		if pub := c.Query("published"); pub != "" {
			published := pub == "true"
			filters.Published = &published
		}
		if search := c.Query("search"); search != "" {
			filters.Search = &search
		}

		// Regional admins only see their own region regardless of the filter.
		if role, ok := middleware.CallerRole(c); ok && role.RegionScoped() {
			region := middleware.CallerRegionID(c)
			filters.RegionID = &region
		}

		parks, total, err := h.parkRepo.ListParks(c.Request.Context(), filters, limit, (page-1)*limit)
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

// GetParkHandler retrieves a park by ID
// GET /api/v1/admin/parks/:id
func (h *ParkHandlers) GetParkHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		park, err := h.parkRepo.GetParkByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve park",
			})
			return
		}

		if park == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Park not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"park": park})
	}
}

// CreateParkHandler creates a new park
// POST /api/v1/admin/parks
func (h *ParkHandlers) CreateParkHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if err := req.validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		if !regionAllowed(c, req.RegionID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Resource is outside your region",
			})
			return
		}

		existing, err := h.parkRepo.GetParkBySlug(c.Request.Context(), req.Slug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check slug",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "A park with this slug already exists",
			})
			return
		}

		park := &models.Park{
			Slug:            req.Slug,
			Name:            req.Name,
			RegionID:        req.RegionID,
			Address:         req.Address,
			Description:     req.Description,
			AreaHectares:    req.AreaHectares,
			Latitude:        req.Latitude,
			Longitude:       req.Longitude,
			EstablishedYear: req.EstablishedYear,
			ManagingAgency:  req.ManagingAgency,
			CoverImageURL:   req.CoverImageURL,
			Published:       req.Published,
		}

		if err := h.parkRepo.CreatePark(c.Request.Context(), park); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create park",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"park": park})
	}
}

// UpdateParkHandler updates an existing park
// PUT /api/v1/admin/parks/:id
func (h *ParkHandlers) UpdateParkHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ParkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if err := req.validate(); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		park, err := h.parkRepo.GetParkByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve park",
			})
			return
		}
		if park == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Park not found",
			})
			return
		}

		// Both the park's current region and the requested one must be in scope
		// so a regional admin cannot move a park out of (or into) their region.
		if !regionAllowed(c, park.RegionID) || !regionAllowed(c, req.RegionID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Resource is outside your region",
			})
			return
		}

		park.Slug = req.Slug
		park.Name = req.Name
		park.RegionID = req.RegionID
		park.Address = req.Address
		park.Description = req.Description
		park.AreaHectares = req.AreaHectares
		park.Latitude = req.Latitude
		park.Longitude = req.Longitude
		park.EstablishedYear = req.EstablishedYear
		park.ManagingAgency = req.ManagingAgency
		park.CoverImageURL = req.CoverImageURL
		park.Published = req.Published

		if err := h.parkRepo.UpdatePark(c.Request.Context(), park); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update park",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"park": park})
	}
}

// DeleteParkHandler deletes a park and its dependent records
// DELETE /api/v1/admin/parks/:id
func (h *ParkHandlers) DeleteParkHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		park, err := h.parkRepo.GetParkByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve park",
			})
			return
		}
		if park == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Park not found",
			})
			return
		}

		if !regionAllowed(c, park.RegionID) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Resource is outside your region",
			})
			return
		}

		if err := h.parkRepo.DeletePark(c.Request.Context(), park.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete park",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Park deleted"})
	}
}
