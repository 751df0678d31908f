// species.go implements handlers for the flora and fauna registry. Species
// records always belong to a park, so region scoping is checked against the
// owning park's region.
package admin

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
)

// SpeciesHandlers handles species management endpoints
type SpeciesHandlers struct {
	db          *sql.DB
	speciesRepo *repositories.SpeciesRepository
	parkRepo    *repositories.ParkRepository
}

// NewSpeciesHandlers creates a new SpeciesHandlers instance
func NewSpeciesHandlers(db *sql.DB) *SpeciesHandlers {
	return &SpeciesHandlers{
		db:          db,
		speciesRepo: repositories.NewSpeciesRepository(db),
		parkRepo:    repositories.NewParkRepository(db),
	}
}

// SpeciesRequest is the payload for creating or updating a species record
type SpeciesRequest struct {
	ParkID         string `json:"park_id" binding:"required"`
	Kingdom        string `json:"kingdom" binding:"required"`
	ScientificName string `json:"scientific_name" binding:"required"`
	LocalName      string `json:"local_name"`
	Family         string `json:"family"`
	IUCNStatus     string `json:"iucn_status"`
	Endemic        bool   `json:"endemic"`
	Description    string `json:"description"`
	ImageURL       string `json:"image_url"`
}

func (r *SpeciesRequest) validate() string {
	if r.Kingdom != models.KingdomFlora && r.Kingdom != models.KingdomFauna {
		return "Kingdom must be 'flora' or 'fauna'"
	}
	if r.IUCNStatus == "" {
		r.IUCNStatus = "NE"
	}
	if !models.ValidIUCNStatuses[r.IUCNStatus] {
		return "Unknown IUCN status code"
	}
	return ""
}

// parkInScope loads the park and checks the caller's region against it.
// It writes the error response itself and returns false when the request
// should not proceed.
func (h *SpeciesHandlers) parkInScope(c *gin.Context, parkID string) bool {
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

// ListSpeciesHandler lists species with optional filters and pagination
// GET /api/v1/admin/species?park_id=...&kingdom=...&iucn_status=...&endemic=...&search=...
func (h *SpeciesHandlers) ListSpeciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		filters := repositories.SpeciesFilters{}
		if parkID := c.Query("park_id"); parkID != "" {
			filters.ParkID = &parkID
		}
		if kingdom := c.Query("kingdom"); kingdom != "" {
			filters.Kingdom = &kingdom
		}
		if status := c.Query("iucn_status"); status != "" {
			filters.IUCNStatus = &status
		}
		if endemic := c.Query("endemic"); endemic != "" {
			val := endemic == "true"
			filters.Endemic = &val
		}
		if search := c.Query("search"); search != "" {
			filters.Search = &search
		}

		species, total, err := h.speciesRepo.ListSpecies(c.Request.Context(), filters, limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list species",
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
			"data":       species,
			"pagination": pageInfo,
		})
	}
}

// GetSpeciesHandler retrieves a species record by ID
// GET /api/v1/admin/species/:id
func (h *SpeciesHandlers) GetSpeciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sp, err := h.speciesRepo.GetSpeciesByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve species",
			})
			return
		}

		if sp == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Species not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"species": sp})
	}
}

// CreateSpeciesHandler registers a new species to a park
// POST /api/v1/admin/species
func (h *SpeciesHandlers) CreateSpeciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SpeciesRequest
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

		if !h.parkInScope(c, req.ParkID) {
			return
		}

		sp := &models.Species{
			ParkID:         req.ParkID,
			Kingdom:        req.Kingdom,
			ScientificName: req.ScientificName,
			LocalName:      req.LocalName,
			Family:         req.Family,
			IUCNStatus:     req.IUCNStatus,
			Endemic:        req.Endemic,
			Description:    req.Description,
			ImageURL:       req.ImageURL,
		}

		if err := h.speciesRepo.CreateSpecies(c.Request.Context(), sp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create species",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"species": sp})
	}
}

// UpdateSpeciesHandler updates an existing species record
// PUT /api/v1/admin/species/:id
func (h *SpeciesHandlers) UpdateSpeciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SpeciesRequest
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

		sp, err := h.speciesRepo.GetSpeciesByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve species",
			})
			return
		}
		if sp == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Species not found",
			})
			return
		}

		// Check both the current and the requested park so a record cannot be
		// moved across a region boundary by a regional admin.
		if !h.parkInScope(c, sp.ParkID) {
			return
		}
		if req.ParkID != sp.ParkID && !h.parkInScope(c, req.ParkID) {
			return
		}

		sp.ParkID = req.ParkID
		sp.Kingdom = req.Kingdom
		sp.ScientificName = req.ScientificName
		sp.LocalName = req.LocalName
		sp.Family = req.Family
		sp.IUCNStatus = req.IUCNStatus
		sp.Endemic = req.Endemic
		sp.Description = req.Description
		sp.ImageURL = req.ImageURL

		if err := h.speciesRepo.UpdateSpecies(c.Request.Context(), sp); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update species",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"species": sp})
	}
}

// DeleteSpeciesHandler removes a species record
// DELETE /api/v1/admin/species/:id
func (h *SpeciesHandlers) DeleteSpeciesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sp, err := h.speciesRepo.GetSpeciesByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve species",
			})
			return
		}
		if sp == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Species not found",
			})
			return
		}

		if !h.parkInScope(c, sp.ParkID) {
			return
		}

		if err := h.speciesRepo.DeleteSpecies(c.Request.Context(), sp.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete species",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Species deleted"})
	}
}
