// park_repository.go implements ParkRepository, providing database queries for
// conservation parks including filtered listings and dashboard summaries.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// ParkRepository handles park database operations
type ParkRepository struct {
	db *sql.DB
}

// NewParkRepository creates a new ParkRepository
func NewParkRepository(db *sql.DB) *ParkRepository {
	return &ParkRepository{db: db}
}

// ParkFilters contains filters for querying parks
type ParkFilters struct {
	RegionID  *string
	Published *bool
	Search    *string
}

const parkColumns = `p.id, p.slug, p.name, p.region_id, p.address, p.description, p.area_hectares,
		p.latitude, p.longitude, p.established_year, p.managing_agency, p.cover_image_url,
		p.published, p.created_at, p.updated_at, r.name`

// CreatePark creates a new park
func (r *ParkRepository) CreatePark(ctx context.Context, park *models.Park) error {
	park.ID = uuid.New().String()
	park.CreatedAt = time.Now()
	park.UpdatedAt = time.Now()

	query := `
		INSERT INTO parks (id, slug, name, region_id, address, description, area_hectares, latitude, longitude,
			established_year, managing_agency, cover_image_url, published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.ExecContext(ctx, query,
		park.ID,
		park.Slug,
		park.Name,
		park.RegionID,
		park.Address,
		park.Description,
		park.AreaHectares,
		park.Latitude,
		park.Longitude,
		park.EstablishedYear,
		park.ManagingAgency,
		park.CoverImageURL,
		park.Published,
		park.CreatedAt,
		park.UpdatedAt,
	)

	return err
}

// GetParkByID retrieves a park by ID
func (r *ParkRepository) GetParkByID(ctx context.Context, parkID string) (*models.Park, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM parks p
		JOIN regions r ON r.id = p.region_id
		WHERE p.id = $1
	`, parkColumns)

	return r.scanPark(r.db.QueryRowContext(ctx, query, parkID))
}

// GetParkBySlug retrieves a park by its URL slug
func (r *ParkRepository) GetParkBySlug(ctx context.Context, slug string) (*models.Park, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM parks p
		JOIN regions r ON r.id = p.region_id
		WHERE p.slug = $1
	`, parkColumns)

	return r.scanPark(r.db.QueryRowContext(ctx, query, slug))
}

// ListParks retrieves parks with optional filters and pagination
func (r *ParkRepository) ListParks(ctx context.Context, filters ParkFilters, limit, offset int) ([]*models.Park, int, error) {
	countQuery := `SELECT COUNT(*) FROM parks p WHERE 1=1`
	query := fmt.Sprintf(`
		SELECT %s
		FROM parks p
		JOIN regions r ON r.id = p.region_id
		WHERE 1=1
	`, parkColumns)

	args := make([]interface{}, 0)
	paramIndex := 1

	if filters.RegionID != nil {
		countQuery += fmt.Sprintf(` AND p.region_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND p.region_id = $%d`, paramIndex)
		args = append(args, *filters.RegionID)
		paramIndex++
	}

	if filters.Published != nil {
		countQuery += fmt.Sprintf(` AND p.published = $%d`, paramIndex)
		query += fmt.Sprintf(` AND p.published = $%d`, paramIndex)
		args = append(args, *filters.Published)
		paramIndex++
	}

	if filters.Search != nil {
		countQuery += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d)`, paramIndex, paramIndex)
		query += fmt.Sprintf(` AND (p.name ILIKE $%d OR p.description ILIKE $%d)`, paramIndex, paramIndex)
		args = append(args, "%"+*filters.Search+"%")
		paramIndex++
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY p.created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	parks := make([]*models.Park, 0)
	for rows.Next() {
		park := &models.Park{}
		err := rows.Scan(
			&park.ID,
			&park.Slug,
			&park.Name,
			&park.RegionID,
			&park.Address,
			&park.Description,
			&park.AreaHectares,
			&park.Latitude,
			&park.Longitude,
			&park.EstablishedYear,
			&park.ManagingAgency,
			&park.CoverImageURL,
			&park.Published,
			&park.CreatedAt,
			&park.UpdatedAt,
			&park.RegionName,
		)
		if err != nil {
			return nil, 0, err
		}
		parks = append(parks, park)
	}

	return parks, total, rows.Err()
}

// UpdatePark updates a park's fields
func (r *ParkRepository) UpdatePark(ctx context.Context, park *models.Park) error {
	park.UpdatedAt = time.Now()

	query := `
		UPDATE parks
		SET slug = $2, name = $3, region_id = $4, address = $5, description = $6, area_hectares = $7,
			latitude = $8, longitude = $9, established_year = $10, managing_agency = $11,
			cover_image_url = $12, published = $13, updated_at = $14
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		park.ID,
		park.Slug,
		park.Name,
		park.RegionID,
		park.Address,
		park.Description,
		park.AreaHectares,
		park.Latitude,
		park.Longitude,
		park.EstablishedYear,
		park.ManagingAgency,
		park.CoverImageURL,
		park.Published,
		park.UpdatedAt,
	)

	return err
}

// DeletePark deletes a park and its dependent records
func (r *ParkRepository) DeletePark(ctx context.Context, parkID string) error {
	query := `DELETE FROM parks WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, parkID)
	return err
}

func (r *ParkRepository) scanPark(row *sql.Row) (*models.Park, error) {
	park := &models.Park{}
	err := row.Scan(
		&park.ID,
		&park.Slug,
		&park.Name,
		&park.RegionID,
		&park.Address,
		&park.Description,
		&park.AreaHectares,
		&park.Latitude,
		&park.Longitude,
		&park.EstablishedYear,
		&park.ManagingAgency,
		&park.CoverImageURL,
		&park.Published,
		&park.CreatedAt,
		&park.UpdatedAt,
		&park.RegionName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return park, nil
}
