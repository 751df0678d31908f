// species.go implements the public species registry browse endpoint.
package public

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
)

// @Summary      Browse species
// @Description  Browse flora and fauna records across published parks, filtered by kingdom, conservation status, endemism, or a name search.
// @Tags         Species
// @Produce      json
// @Param        park_id      query  string  false  "Filter by park"
// @Param        kingdom      query  string  false  "flora or fauna"
// @Param        iucn_status  query  string  false  "IUCN Red List code (e.g. EN, VU)"
// @Param        endemic      query  bool    false  "Only endemic species"
// @Param        search       query  string  false  "Search in scientific and local names"
// @Param        page         query  int     false  "Page number (default 1)"
// @Param        limit        query  int     false  "Results per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "species: [], pagination: {}"
// @Failure      400  {object}  map[string]interface{}  "Invalid filter value"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/species [get]
// ListSpeciesHandler handles the public species browse endpoint
func ListSpeciesHandler(db *sql.DB) gin.HandlerFunc {
	speciesRepo := repositories.NewSpeciesRepository(db)

	return func(c *gin.Context) {
		page, limit := pageParams(c)

		filters := repositories.SpeciesFilters{}
		if parkID := c.Query("park_id"); parkID != "" {
			filters.ParkID = &parkID
		}
		if kingdom := c.Query("kingdom"); kingdom != "" {
			if kingdom != models.KingdomFlora && kingdom != models.KingdomFauna {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Kingdom must be 'flora' or 'fauna'",
				})
				return
			}
			filters.Kingdom = &kingdom
		}
		if status := c.Query("iucn_status"); status != "" {
			if !models.ValidIUCNStatuses[status] {
				c.JSON(http.StatusBadRequest, gin.H{
					"error": "Unknown IUCN status code",
				})
				return
			}
			filters.IUCNStatus = &status
		}
		if endemic := c.Query("endemic"); endemic != "" {
			val := endemic == "true"
			filters.Endemic = &val
		}
		if search := c.Query("search"); search != "" {
			filters.Search = &search
		}

		species, total, err := speciesRepo.ListSpecies(c.Request.Context(), filters, limit, (page-1)*limit)
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
