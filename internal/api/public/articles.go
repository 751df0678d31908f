// articles.go implements the public editorial content endpoints.
package public

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
)

// @Summary      List published articles
// @Description  List published articles, newest first, optionally filtered by park or a title search.
// @Tags         Articles
// @Produce      json
// @Param        park_id  query  string  false  "Filter by related park"
// @Param        search   query  string  false  "Search in title and summary"
// @Param        page     query  int     false  "Page number (default 1)"
// @Param        limit    query  int     false  "Results per page (default 20, max 100)"
// @Success      200  {object}  map[string]interface{}  "articles: [], pagination: {}"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/articles [get]
// ListArticlesHandler handles the public article listing
func ListArticlesHandler(db *sql.DB) gin.HandlerFunc {
	articleRepo := repositories.NewArticleRepository(db)

	return func(c *gin.Context) {
		page, limit := pageParams(c)

		published := true
		filters := repositories.ArticleFilters{Published: &published}
		if parkID := c.Query("park_id"); parkID != "" {
			filters.ParkID = &parkID
		}
		if search := c.Query("search"); search != "" {
			filters.Search = &search
		}

		articles, total, err := articleRepo.ListArticles(c.Request.Context(), filters, limit, (page-1)*limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to list articles",
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
			"data":       articles,
			"pagination": pageInfo,
		})
	}
}

// @Summary      Get an article by slug
// @Description  Returns a single published article.
// @Tags         Articles
// @Produce      json
// @Param        slug  path  string  true  "Article slug"
// @Success      200  {object}  map[string]interface{}  "article"
// @Failure      404  {object}  map[string]interface{}  "Article not found or not published"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/articles/{slug} [get]
// GetArticleHandler handles the public article detail page
func GetArticleHandler(db *sql.DB) gin.HandlerFunc {
	articleRepo := repositories.NewArticleRepository(db)

	return func(c *gin.Context) {
		article, err := articleRepo.GetArticleBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve article",
			})
			return
		}

		if article == nil || !article.Published {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Article not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"article": article})
	}
}
