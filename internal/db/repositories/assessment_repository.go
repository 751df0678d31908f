// assessment_repository.go implements AssessmentRepository, providing database
// queries for yearly biodiversity assessments and their review workflow.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// AssessmentRepository handles biodiversity assessment database operations
type AssessmentRepository struct {
	db *sql.DB
}

// NewAssessmentRepository creates a new AssessmentRepository
func NewAssessmentRepository(db *sql.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// AssessmentFilters contains filters for querying assessments
type AssessmentFilters struct {
	ParkID   *string
	RegionID *string
	Status   *string
	Year     *int
}

const assessmentColumns = `a.id, a.park_id, a.assessment_year, a.flora_score, a.fauna_score, a.ecosystem_score,
		a.overall_score, a.band, a.status, a.notes, a.assessed_by, a.reviewed_by, a.reviewed_at,
		a.created_at, a.updated_at, p.name, u.full_name`

// CreateAssessment creates a new assessment
func (r *AssessmentRepository) CreateAssessment(ctx context.Context, a *models.Assessment) error {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	query := `
		INSERT INTO biodiversity_assessments (id, park_id, assessment_year, flora_score, fauna_score,
			ecosystem_score, overall_score, band, status, notes, assessed_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.ParkID,
		a.AssessmentYear,
		a.FloraScore,
		a.FaunaScore,
		a.EcosystemScore,
		a.OverallScore,
		a.Band,
		a.Status,
		a.Notes,
		a.AssessedBy,
		a.CreatedAt,
		a.UpdatedAt,
	)

	return err
}

// GetAssessmentByID retrieves an assessment by ID
func (r *AssessmentRepository) GetAssessmentByID(ctx context.Context, assessmentID string) (*models.Assessment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM biodiversity_assessments a
		JOIN parks p ON p.id = a.park_id
		LEFT JOIN users u ON u.id = a.assessed_by
		WHERE a.id = $1
	`, assessmentColumns)

	return r.scanAssessment(r.db.QueryRowContext(ctx, query, assessmentID))
}

// GetAssessmentByParkYear retrieves a park's assessment for a specific year
func (r *AssessmentRepository) GetAssessmentByParkYear(ctx context.Context, parkID string, year int) (*models.Assessment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM biodiversity_assessments a
		JOIN parks p ON p.id = a.park_id
		LEFT JOIN users u ON u.id = a.assessed_by
		WHERE a.park_id = $1 AND a.assessment_year = $2
	`, assessmentColumns)

	return r.scanAssessment(r.db.QueryRowContext(ctx, query, parkID, year))
}

// ListAssessments retrieves assessments with optional filters and pagination
func (r *AssessmentRepository) ListAssessments(ctx context.Context, filters AssessmentFilters, limit, offset int) ([]*models.Assessment, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM biodiversity_assessments a
		JOIN parks p ON p.id = a.park_id
		WHERE 1=1`
	query := fmt.Sprintf(`
		SELECT %s
		FROM biodiversity_assessments a
		JOIN parks p ON p.id = a.park_id
		LEFT JOIN users u ON u.id = a.assessed_by
		WHERE 1=1
	`, assessmentColumns)

	args := make([]interface{}, 0)
	paramIndex := 1

	if filters.ParkID != nil {
		countQuery += fmt.Sprintf(` AND a.park_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.park_id = $%d`, paramIndex)
		args = append(args, *filters.ParkID)
		paramIndex++
	}

	if filters.RegionID != nil {
		countQuery += fmt.Sprintf(` AND p.region_id = $%d`, paramIndex)
		query += fmt.Sprintf(` AND p.region_id = $%d`, paramIndex)
		args = append(args, *filters.RegionID)
		paramIndex++
	}

	if filters.Status != nil {
		countQuery += fmt.Sprintf(` AND a.status = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.status = $%d`, paramIndex)
		args = append(args, *filters.Status)
		paramIndex++
	}

	if filters.Year != nil {
		countQuery += fmt.Sprintf(` AND a.assessment_year = $%d`, paramIndex)
		query += fmt.Sprintf(` AND a.assessment_year = $%d`, paramIndex)
		args = append(args, *filters.Year)
		paramIndex++
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY a.assessment_year DESC, a.created_at DESC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	assessments := make([]*models.Assessment, 0)
	for rows.Next() {
		a := &models.Assessment{}
		err := rows.Scan(
			&a.ID,
			&a.ParkID,
			&a.AssessmentYear,
			&a.FloraScore,
			&a.FaunaScore,
			&a.EcosystemScore,
			&a.OverallScore,
			&a.Band,
			&a.Status,
			&a.Notes,
			&a.AssessedBy,
			&a.ReviewedBy,
			&a.ReviewedAt,
			&a.CreatedAt,
			&a.UpdatedAt,
			&a.ParkName,
			&a.AssessedByName,
		)
		if err != nil {
			return nil, 0, err
		}
		assessments = append(assessments, a)
	}

	return assessments, total, rows.Err()
}

// UpdateAssessment updates an assessment's scores and notes. Only draft
// assessments are editable; the caller enforces that.
func (r *AssessmentRepository) UpdateAssessment(ctx context.Context, a *models.Assessment) error {
	a.UpdatedAt = time.Now()

	query := `
		UPDATE biodiversity_assessments
		SET flora_score = $2, fauna_score = $3, ecosystem_score = $4, overall_score = $5,
			band = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.FloraScore,
		a.FaunaScore,
		a.EcosystemScore,
		a.OverallScore,
		a.Band,
		a.Notes,
		a.UpdatedAt,
	)

	return err
}

// UpdateAssessmentStatus transitions an assessment's workflow status,
// recording the reviewer for approve/reject transitions
func (r *AssessmentRepository) UpdateAssessmentStatus(ctx context.Context, assessmentID, status string, reviewedBy *string) error {
	now := time.Now()

	if status == models.AssessmentStatusApproved || status == models.AssessmentStatusRejected {
		query := `
			UPDATE biodiversity_assessments
			SET status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4
			WHERE id = $1
		`
		_, err := r.db.ExecContext(ctx, query, assessmentID, status, reviewedBy, now)
		return err
	}

	query := `
		UPDATE biodiversity_assessments
		SET status = $2, updated_at = $3
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, assessmentID, status, now)
	return err
}

// DeleteAssessment deletes an assessment
func (r *AssessmentRepository) DeleteAssessment(ctx context.Context, assessmentID string) error {
	query := `DELETE FROM biodiversity_assessments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, assessmentID)
	return err
}

func (r *AssessmentRepository) scanAssessment(row *sql.Row) (*models.Assessment, error) {
	a := &models.Assessment{}
	err := row.Scan(
		&a.ID,
		&a.ParkID,
		&a.AssessmentYear,
		&a.FloraScore,
		&a.FaunaScore,
		&a.EcosystemScore,
		&a.OverallScore,
		&a.Band,
		&a.Status,
		&a.Notes,
		&a.AssessedBy,
		&a.ReviewedBy,
		&a.ReviewedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
		&a.ParkName,
		&a.AssessedByName,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return a, nil
}
