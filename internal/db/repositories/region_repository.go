// region_repository.go implements RegionRepository, providing database queries
// for the administrative regions that parks and regional admins are scoped to.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// RegionRepository handles region database operations
type RegionRepository struct {
	db *sql.DB
}

// NewRegionRepository creates a new RegionRepository
func NewRegionRepository(db *sql.DB) *RegionRepository {
	return &RegionRepository{db: db}
}

// CreateRegion creates a new region
func (r *RegionRepository) CreateRegion(ctx context.Context, region *models.Region) error {
	region.ID = uuid.New().String()
	region.CreatedAt = time.Now()
	region.UpdatedAt = time.Now()

	query := `
		INSERT INTO regions (id, code, name, province, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		region.ID,
		region.Code,
		region.Name,
		region.Province,
		region.CreatedAt,
		region.UpdatedAt,
	)

	return err
}

// GetRegionByID retrieves a region by ID
func (r *RegionRepository) GetRegionByID(ctx context.Context, regionID string) (*models.Region, error) {
	query := `
		SELECT id, code, name, province, created_at, updated_at
		FROM regions
		WHERE id = $1
	`

	region := &models.Region{}
	err := r.db.QueryRowContext(ctx, query, regionID).Scan(
		&region.ID,
		&region.Code,
		&region.Name,
		&region.Province,
		&region.CreatedAt,
		&region.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return region, nil
}

// ListRegions retrieves all regions ordered by name
func (r *RegionRepository) ListRegions(ctx context.Context) ([]*models.Region, error) {
	query := `
		SELECT id, code, name, province, created_at, updated_at
		FROM regions
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regions := make([]*models.Region, 0)
	for rows.Next() {
		region := &models.Region{}
		err := rows.Scan(
			&region.ID,
			&region.Code,
			&region.Name,
			&region.Province,
			&region.CreatedAt,
			&region.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		regions = append(regions, region)
	}

	return regions, rows.Err()
}
