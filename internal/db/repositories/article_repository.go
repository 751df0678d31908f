// article_repository.go implements ArticleRepository, providing database queries
// for editorial articles on the public portal.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// ArticleRepository handles article database operations
type ArticleRepository struct {
	db *sql.DB
}

// NewArticleRepository creates a new ArticleRepository
func NewArticleRepository(db *sql.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// ArticleFilters contains filters for querying articles
type ArticleFilters struct {
	ParkID    *string
	Published *bool
	Search    *string
}

const articleColumns = `a.id, a.slug, a.title, a.summary, a.body, a.author_id, a.park_id,
		a.cover_image_url, a.published, a.published_at, a.created_at, a.updated_at, u.full_name`

// CreateArticle creates a new article
func (r *ArticleRepository) CreateArticle(ctx context.Context, article *models.Article) error {
	article.ID = uuid.New().String()
	article.CreatedAt = time.Now()
	article.UpdatedAt = time.Now()

	query := `
		INSERT INTO articles (id, slug, title, summary, body, author_id, park_id, cover_image_url,
			published, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.Slug,
		article.Title,
		article.Summary,
		article.Body,
		article.AuthorID,
		article.ParkID,
		article.CoverImageURL,
		article.Published,
		article.PublishedAt,
		article.CreatedAt,
		article.UpdatedAt,
	)

	return err
}

// GetArticleByID retrieves an article by ID
func (r *ArticleRepository) GetArticleByID(ctx context.Context, articleID string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.id = $1
	`, articleColumns)

	return r.scanArticle(r.db.QueryRowContext(ctx, query, articleID))
}

// GetArticleBySlug retrieves an article by its URL slug
func (r *ArticleRepository) GetArticleBySlug(ctx context.Context, slug string) (*models.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE a.slug = $1
	`, articleColumns)

	return r.scanArticle(r.db.QueryRowContext(ctx, query, slug))
}

// ListArticles retrieves articles with optional filters and pagination
func (r *ArticleRepository) ListArticles(ctx context.Context, filters ArticleFilters, limit, offset int) ([]*models.Article, int, error) {
	countQuery := `SELECT COUNT(*) FROM articles a WHERE 1=1`
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		LEFT JOIN users u ON u.id = a.author_id
		WHERE 1=1
	`, articleColumns)

	args := make([]interface{}, 0)
	paramIndex := 1

	if filters.ParkID != nil {
		countQuery += fmt.Sprintf(` AND a.park_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.park_id = $%d`, paramIndex)
		args = append(args, *filters.ParkID)
		paramIndex++
	}

	if filters.Published != nil {
		countQuery += fmt.Sprintf(` AND a.published = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.published = $%d`, paramIndex)
		args = append(args, *filters.Published)
		paramIndex++
	}

	if filters.Search != nil {
		countQuery += fmt.Sprintf(` AND (a.title ILIKE $%d OR a.summary ILIKE $%d)`, paramIndex, paramIndex)
		query += fmt.Sprintf(` AND (a.title ILIKE $%d OR a.summary ILIKE $%d)`, paramIndex, paramIndex)
		args = append(args, "%"+*filters.Search+"%")
		paramIndex++
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	articles := make([]*models.Article, 0)
	for rows.Next() {
		article := &models.Article{}
		err := rows.Scan(
			&article.ID,
			&article.Slug,
			&article.Title,
			&article.Summary,
			&article.Body,
			&article.AuthorID,
			&article.ParkID,
			&article.CoverImageURL,
			&article.Published,
			&article.PublishedAt,
			&article.CreatedAt,
			&article.UpdatedAt,
			&article.AuthorName,
		)
		if err != nil {
			return nil, 0, err
		}
		articles = append(articles, article)
	}

	return articles, total, rows.Err()
}

// UpdateArticle updates an article's fields
func (r *ArticleRepository) UpdateArticle(ctx context.Context, article *models.Article) error {
	article.UpdatedAt = time.Now()

	query := `
		UPDATE articles
		SET slug = $2, title = $3, summary = $4, body = $5, park_id = $6, cover_image_url = $7,
			published = $8, published_at = $9, updated_at = $10
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		article.ID,
		article.Slug,
		article.Title,
		article.Summary,
		article.Body,
		article.ParkID,
		article.CoverImageURL,
		article.Published,
		article.PublishedAt,
		article.UpdatedAt,
	)

	return err
}

// DeleteArticle deletes an article
func (r *ArticleRepository) DeleteArticle(ctx context.Context, articleID string) error {
	query := `DELETE FROM articles WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, articleID)
	return err
}

func (r *ArticleRepository) scanArticle(row *sql.Row) (*models.Article, error) {
	article := &models.Article{}
	err := row.Scan(
		&article.ID,
		&article.Slug,
		&article.Title,
		&article.Summary,
		&article.Body,
		&article.AuthorID,
		&article.ParkID,
		&article.CoverImageURL,
		&article.Published,
		&article.PublishedAt,
		&article.CreatedAt,
		&article.UpdatedAt,
		&article.AuthorName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return article, nil
}
