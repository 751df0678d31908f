// species_repository.go implements SpeciesRepository, providing database queries
// for the flora and fauna registry including per-kingdom counts used by the
// dashboard and assessment views.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// SpeciesRepository handles species database operations
type SpeciesRepository struct {
	db *sql.DB
}

// NewSpeciesRepository creates a new SpeciesRepository
func NewSpeciesRepository(db *sql.DB) *SpeciesRepository {
	return &SpeciesRepository{db: db}
}

// SpeciesFilters contains filters for querying the species registry
type SpeciesFilters struct {
	ParkID     *string
	Kingdom    *string
	IUCNStatus *string
	Endemic    *bool
	Search     *string
}

// CreateSpecies creates a new species record
func (r *SpeciesRepository) CreateSpecies(ctx context.Context, sp *models.Species) error {
	sp.ID = uuid.New().String()
	sp.CreatedAt = time.Now()
	sp.UpdatedAt = time.Now()

	query := `
		INSERT INTO species (id, park_id, kingdom, scientific_name, local_name, family, iucn_status,
			endemic, description, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		sp.ID,
		sp.ParkID,
		sp.Kingdom,
		sp.ScientificName,
		sp.LocalName,
		sp.Family,
		sp.IUCNStatus,
		sp.Endemic,
		sp.Description,
		sp.ImageURL,
		sp.CreatedAt,
		sp.UpdatedAt,
	)

	return err
}

// GetSpeciesByID retrieves a species record by ID
func (r *SpeciesRepository) GetSpeciesByID(ctx context.Context, speciesID string) (*models.Species, error) {
	query := `
		SELECT s.id, s.park_id, s.kingdom, s.scientific_name, s.local_name, s.family, s.iucn_status,
			s.endemic, s.description, s.image_url, s.created_at, s.updated_at, p.name
		FROM species s
		JOIN parks p ON p.id = s.park_id
		WHERE s.id = $1
	`

	sp := &models.Species{}
	err := r.db.QueryRowContext(ctx, query, speciesID).Scan(
		&sp.ID,
		&sp.ParkID,
		&sp.Kingdom,
		&sp.ScientificName,
		&sp.LocalName,
		&sp.Family,
		&sp.IUCNStatus,
		&sp.Endemic,
		&sp.Description,
		&sp.ImageURL,
		&sp.CreatedAt,
		&sp.UpdatedAt,
		&sp.ParkName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return sp, nil
}

// ListSpecies retrieves species records with optional filters and pagination
func (r *SpeciesRepository) ListSpecies(ctx context.Context, filters SpeciesFilters, limit, offset int) ([]*models.Species, int, error) {
	countQuery := `SELECT COUNT(*) FROM species s WHERE 1=1`
	query := `
		SELECT s.id, s.park_id, s.kingdom, s.scientific_name, s.local_name, s.family, s.iucn_status,
			s.endemic, s.description, s.image_url, s.created_at, s.updated_at, p.name
		FROM species s
		JOIN parks p ON p.id = s.park_id
		WHERE 1=1
	`

	args := make([]interface{}, 0)
	paramIndex := 1

	if filters.ParkID != nil {
		countQuery += fmt.Sprintf(` AND s.park_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND s.park_id = $%d`, paramIndex)
		args = append(args, *filters.ParkID)
		paramIndex++
	}

	if filters.Kingdom != nil {
		countQuery += fmt.Sprintf(` AND s.kingdom = $%d`, paramIndex)
		query += fmt.Sprintf(` AND s.kingdom = $%d`, paramIndex)
		args = append(args, *filters.Kingdom)
		paramIndex++
	}

	if filters.IUCNStatus != nil {
		countQuery += fmt.Sprintf(` AND s.iucn_status = $%d`, paramIndex)
		query += fmt.Sprintf(` AND s.iucn_status = $%d`, paramIndex)
		args = append(args, *filters.IUCNStatus)
		paramIndex++
	}

	if filters.Endemic != nil {
		countQuery += fmt.Sprintf(` AND s.endemic = $%d`, paramIndex)
		query += fmt.Sprintf(` AND s.endemic = $%d`, paramIndex)
		args = append(args, *filters.Endemic)
		paramIndex++
	}

	if filters.Search != nil {
		countQuery += fmt.Sprintf(` AND (s.scientific_name ILIKE $%d OR s.local_name ILIKE $%d)`, paramIndex, paramIndex)
		query += fmt.Sprintf(` AND (s.scientific_name ILIKE $%d OR s.local_name ILIKE $%d)`, paramIndex, paramIndex)
		args = append(args, "%"+*filters.Search+"%")
		paramIndex++
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY s.scientific_name ASC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	species := make([]*models.Species, 0)
	for rows.Next() {
		sp := &models.Species{}
		err := rows.Scan(
			&sp.ID,
			&sp.ParkID,
			&sp.Kingdom,
			&sp.ScientificName,
			&sp.LocalName,
			&sp.Family,
			&sp.IUCNStatus,
			&sp.Endemic,
			&sp.Description,
			&sp.ImageURL,
			&sp.CreatedAt,
			&sp.UpdatedAt,
			&sp.ParkName,
		)
		if err != nil {
			return nil, 0, err
		}
		species = append(species, sp)
	}

	return species, total, rows.Err()
}

// CountByKingdom returns the number of species records per kingdom for a park
func (r *SpeciesRepository) CountByKingdom(ctx context.Context, parkID string) (flora int, fauna int, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE kingdom = 'flora'),
			COUNT(*) FILTER (WHERE kingdom = 'fauna')
		FROM species
		WHERE park_id = $1
	`

	err = r.db.QueryRowContext(ctx, query, parkID).Scan(&flora, &fauna)
	return flora, fauna, err
}

// UpdateSpecies updates a species record
func (r *SpeciesRepository) UpdateSpecies(ctx context.Context, sp *models.Species) error {
	sp.UpdatedAt = time.Now()

	query := `
		UPDATE species
		SET kingdom = $2, scientific_name = $3, local_name = $4, family = $5, iucn_status = $6,
			endemic = $7, description = $8, image_url = $9, updated_at = $10
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		sp.ID,
		sp.Kingdom,
		sp.ScientificName,
		sp.LocalName,
		sp.Family,
		sp.IUCNStatus,
		sp.Endemic,
		sp.Description,
		sp.ImageURL,
		sp.UpdatedAt,
	)

	return err
}

// DeleteSpecies deletes a species record
func (r *SpeciesRepository) DeleteSpecies(ctx context.Context, speciesID string) error {
	query := `DELETE FROM species WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, speciesID)
	return err
}
