// announcement_repository.go implements AnnouncementRepository, providing
// database queries for time-windowed portal announcements.
package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// AnnouncementRepository handles announcement database operations
type AnnouncementRepository struct {
	db *sql.DB
}

// NewAnnouncementRepository creates a new AnnouncementRepository
func NewAnnouncementRepository(db *sql.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// CreateAnnouncement creates a new announcement
func (r *AnnouncementRepository) CreateAnnouncement(ctx context.Context, a *models.Announcement) error {
	a.ID = uuid.New().String()
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()

	query := `
		INSERT INTO announcements (id, title, body, audience, starts_at, ends_at, active, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Body,
		a.Audience,
		a.StartsAt,
		a.EndsAt,
		a.Active,
		a.CreatedBy,
		a.CreatedAt,
		a.UpdatedAt,
	)

	return err
}

// GetAnnouncementByID retrieves an announcement by ID
func (r *AnnouncementRepository) GetAnnouncementByID(ctx context.Context, announcementID string) (*models.Announcement, error) {
	query := `
		SELECT id, title, body, audience, starts_at, ends_at, active, created_by, created_at, updated_at
		FROM announcements
		WHERE id = $1
	`

	a := &models.Announcement{}
	err := r.db.QueryRowContext(ctx, query, announcementID).Scan(
		&a.ID,
		&a.Title,
		&a.Body,
		&a.Audience,
		&a.StartsAt,
		&a.EndsAt,
		&a.Active,
		&a.CreatedBy,
		&a.CreatedAt,
		&a.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return a, nil
}

// ListAnnouncements retrieves all announcements with pagination (admin view)
func (r *AnnouncementRepository) ListAnnouncements(ctx context.Context, limit, offset int) ([]*models.Announcement, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM announcements`).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, title, body, audience, starts_at, ends_at, active, created_by, created_at, updated_at
		FROM announcements
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	announcements, err := scanAnnouncements(rows)
	if err != nil {
		return nil, 0, err
	}

	return announcements, total, rows.Err()
}

// ListVisibleAnnouncements retrieves active announcements whose display window
// contains the given instant, for the given audience
func (r *AnnouncementRepository) ListVisibleAnnouncements(ctx context.Context, audience string, now time.Time) ([]*models.Announcement, error) {
	query := `
		SELECT id, title, body, audience, starts_at, ends_at, active, created_by, created_at, updated_at
		FROM announcements
		WHERE active = TRUE
			AND audience = $1
			AND (starts_at IS NULL OR starts_at <= $2)
			AND (ends_at IS NULL OR ends_at >= $2)
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, audience, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	announcements, err := scanAnnouncements(rows)
	if err != nil {
		return nil, err
	}

	return announcements, rows.Err()
}

// DeactivateExpired marks announcements whose window has passed as inactive.
// Returns the number of announcements deactivated.
func (r *AnnouncementRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE announcements
		SET active = FALSE, updated_at = $1
		WHERE active = TRUE AND ends_at IS NOT NULL AND ends_at < $1
	`

	result, err := r.db.ExecContext(ctx, query, now)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// UpdateAnnouncement updates an announcement's fields
func (r *AnnouncementRepository) UpdateAnnouncement(ctx context.Context, a *models.Announcement) error {
	a.UpdatedAt = time.Now()

	query := `
		UPDATE announcements
		SET title = $2, body = $3, audience = $4, starts_at = $5, ends_at = $6, active = $7, updated_at = $8
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Title,
		a.Body,
		a.Audience,
		a.StartsAt,
		a.EndsAt,
		a.Active,
		a.UpdatedAt,
	)

	return err
}

// DeleteAnnouncement deletes an announcement
func (r *AnnouncementRepository) DeleteAnnouncement(ctx context.Context, announcementID string) error {
	query := `DELETE FROM announcements WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, announcementID)
	return err
}

func scanAnnouncements(rows *sql.Rows) ([]*models.Announcement, error) {
	announcements := make([]*models.Announcement, 0)
	for rows.Next() {
		a := &models.Announcement{}
		err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Body,
			&a.Audience,
			&a.StartsAt,
			&a.EndsAt,
			&a.Active,
			&a.CreatedBy,
			&a.CreatedAt,
			&a.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		announcements = append(announcements, a)
	}
	return announcements, nil
}
