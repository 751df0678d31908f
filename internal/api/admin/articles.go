// articles.go implements handlers for editorial article management.
package admin

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/db/models"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
	"github.com/taman-kehati/taman-kehati/internal/pagination"
	"github.com/taman-kehati/taman-kehati/internal/validation"
)

// ArticleHandlers handles article management endpoints
type ArticleHandlers struct {
	db          *sql.DB
	articleRepo *repositories.ArticleRepository
}

// NewArticleHandlers creates a new ArticleHandlers instance
func NewArticleHandlers(db *sql.DB) *ArticleHandlers {
	return &ArticleHandlers{
		db:          db,
		articleRepo: repositories.NewArticleRepository(db),
	}
}

// ArticleRequest is the payload for creating or updating an article
type ArticleRequest struct {
	Slug          string  `json:"slug" binding:"required"`
	Title         string  `json:"title" binding:"required"`
	Summary       string  `json:"summary"`
	Body          string  `json:"body" binding:"required"`
	ParkID        *string `json:"park_id"`
	CoverImageURL string  `json:"cover_image_url"`
	Published     bool    `json:"published"`
}

// ListArticlesHandler lists articles with optional filters and pagination
// GET /api/v1/admin/articles?park_id=...&published=...&search=...
func (h *ArticleHandlers) ListArticlesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit := parsePageParams(c)

		filters := repositories.ArticleFilters{}
		if parkID := c.Query("park_id"); parkID != "" {
			filters.ParkID = &parkID
		}
		if pub := c.Query("published"); pub != "" {
			published := pub == "true"
			filters.Published = &published
		}
		if search := c.Query("search"); search != "" {
			filters.Search = &search
		}

		articles, total, err := h.articleRepo.ListArticles(c.Request.Context(), filters, limit, (page-1)*limit)
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

// GetArticleHandler retrieves an article by ID
// GET /api/v1/admin/articles/:id
func (h *ArticleHandlers) GetArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		article, err := h.articleRepo.GetArticleByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve article",
			})
			return
		}

		if article == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Article not found",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"article": article})
	}
}

// CreateArticleHandler creates a new article with the caller as author
// POST /api/v1/admin/articles
func (h *ArticleHandlers) CreateArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if err := validation.ValidateSlug(req.Slug); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		existing, err := h.articleRepo.GetArticleBySlug(c.Request.Context(), req.Slug)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to check slug",
			})
			return
		}
		if existing != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error": "An article with this slug already exists",
			})
			return
		}

		article := &models.Article{
			Slug:          req.Slug,
			Title:         req.Title,
			Summary:       req.Summary,
			Body:          req.Body,
			ParkID:        req.ParkID,
			CoverImageURL: req.CoverImageURL,
			Published:     req.Published,
		}
		if authorID := c.GetString("user_id"); authorID != "" {
			article.AuthorID = &authorID
		}
		if req.Published {
			now := time.Now()
			article.PublishedAt = &now
		}

		if err := h.articleRepo.CreateArticle(c.Request.Context(), article); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to create article",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"article": article})
	}
}

// UpdateArticleHandler updates an existing article
// PUT /api/v1/admin/articles/:id
func (h *ArticleHandlers) UpdateArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request body",
			})
			return
		}

		if err := validation.ValidateSlug(req.Slug); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": err.Error(),
			})
			return
		}

		article, err := h.articleRepo.GetArticleByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve article",
			})
			return
		}
		if article == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Article not found",
			})
			return
		}

		// Stamp the publish time on the draft -> published transition only.
		if req.Published && !article.Published {
			now := time.Now()
			article.PublishedAt = &now
		}

		article.Slug = req.Slug
		article.Title = req.Title
		article.Summary = req.Summary
		article.Body = req.Body
		article.ParkID = req.ParkID
		article.CoverImageURL = req.CoverImageURL
		article.Published = req.Published

		if err := h.articleRepo.UpdateArticle(c.Request.Context(), article); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to update article",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"article": article})
	}
}

// DeleteArticleHandler deletes an article
// DELETE /api/v1/admin/articles/:id
func (h *ArticleHandlers) DeleteArticleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		article, err := h.articleRepo.GetArticleByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to retrieve article",
			})
			return
		}
		if article == nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Article not found",
			})
			return
		}

		if err := h.articleRepo.DeleteArticle(c.Request.Context(), article.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete article",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Article deleted"})
	}
}
