// announcements.go implements the public announcement banner endpoint.
package public

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
)

// @Summary      List current announcements
// @Description  Returns active public announcements whose display window covers the current time.
// @Tags         Announcements
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "announcements: []"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/announcements [get]
// ListAnnouncementsHandler handles the public announcement feed
func ListAnnouncementsHandler(db *sql.DB) gin.HandlerFunc {
	announcementRepo := repositories.NewAnnouncementRepository(db)

	return func(c *gin.Context) {
		announcements, err := announcementRepo.ListVisibleAnnouncements(
			c.Request.Context(), models.AudiencePublic, time.Now())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list announcements",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"announcements": announcements})
	}
}
