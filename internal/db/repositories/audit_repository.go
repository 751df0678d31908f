// audit_repository.go implements AuditRepository, providing database queries for
// writing and retrieving audit log entries. List queries take a prebuilt
// predicate set so the same filter logic drives both SQL and in-memory
// evaluation.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/taman-kehati/taman-kehati/internal/auditlog"
)

// AuditRepository handles audit log database operations
type AuditRepository struct {
	db *sql.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *sql.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

const auditColumns = `id, actor_id, actor_name, actor_role, actor_region_id, action, entity_type, entity_id,
		before_snapshot, after_snapshot, ip_address, user_agent, description, category, severity, occurred_at`

// CreateEntry persists a new audit log entry
func (r *AuditRepository) CreateEntry(ctx context.Context, e *auditlog.Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	query := fmt.Sprintf(`
		INSERT INTO audit_logs (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, auditColumns)

	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.ActorID,
		e.ActorName,
		e.ActorRole,
		e.ActorRegionID,
		e.Action,
		e.EntityType,
		e.EntityID,
		[]byte(e.Before),
		[]byte(e.After),
		e.IPAddress,
		e.UserAgent,
		e.Description,
		e.Category,
		e.Severity,
		e.OccurredAt,
	)

	return err
}

// ListEntries retrieves audit entries matching the predicate set, newest first,
// with pagination. The predicate fragment is appended to WHERE 1=1 so an empty
// set returns everything the caller may see.
func (r *AuditRepository) ListEntries(ctx context.Context, filters auditlog.PredicateSet, limit, offset int) ([]*auditlog.Entry, int, error) {
	fragment, args := filters.SQL(1)

	countQuery := `SELECT COUNT(*) FROM audit_logs WHERE 1=1` + fragment
	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_logs
		WHERE 1=1
	`, auditColumns) + fragment

	var total int
	err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	paramIndex := len(args) + 1
	query += fmt.Sprintf(` ORDER BY occurred_at DESC, id ASC LIMIT $%d OFFSET $%d`, paramIndex, paramIndex+1)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]*auditlog.Entry, 0)
	for rows.Next() {
		e := &auditlog.Entry{}
		var before, after []byte

		err := rows.Scan(
			&e.ID,
			&e.ActorID,
			&e.ActorName,
			&e.ActorRole,
			&e.ActorRegionID,
			&e.Action,
			&e.EntityType,
			&e.EntityID,
			&before,
			&after,
			&e.IPAddress,
			&e.UserAgent,
			&e.Description,
			&e.Category,
			&e.Severity,
			&e.OccurredAt,
		)
		if err != nil {
			return nil, 0, err
		}

		e.Before = before
		e.After = after
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}

// GetEntry retrieves a single audit log entry by ID
func (r *AuditRepository) GetEntry(ctx context.Context, entryID string) (*auditlog.Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM audit_logs
		WHERE id = $1
	`, auditColumns)

	e := &auditlog.Entry{}
	var before, after []byte

	err := r.db.QueryRowContext(ctx, query, entryID).Scan(
		&e.ID,
		&e.ActorID,
		&e.ActorName,
		&e.ActorRole,
		&e.ActorRegionID,
		&e.Action,
		&e.EntityType,
		&e.EntityID,
		&before,
		&after,
		&e.IPAddress,
		&e.UserAgent,
		&e.Description,
		&e.Category,
		&e.Severity,
		&e.OccurredAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	e.Before = before
	e.After = after
	return e, nil
}

// Summarize computes summary statistics over the entries matching the predicate
// set, in a single round trip
func (r *AuditRepository) Summarize(ctx context.Context, filters auditlog.PredicateSet, now time.Time) (*auditlog.SummaryStats, error) {
	fragment, args := filters.SQL(1)
	paramIndex := len(args) + 1

	// Bound "today" on both sides so a future-dated entry does not count.
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	nextMidnight := midnight.Add(24 * time.Hour)

	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE severity = 'critical'),
			COUNT(*) FILTER (WHERE occurred_at >= $%d AND occurred_at < $%d),
			COUNT(DISTINCT actor_id) FILTER (WHERE actor_id IS NOT NULL)
		FROM audit_logs
		WHERE 1=1%s
	`, paramIndex, paramIndex+1, fragment)
	args = append(args, midnight, nextMidnight)

	stats := &auditlog.SummaryStats{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&stats.Total,
		&stats.CriticalEvents,
		&stats.TodayEvents,
		&stats.DistinctActors,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// DeleteEntriesBefore removes audit entries older than the cutoff. Used by the
// retention job. Returns the number of entries deleted.
func (r *AuditRepository) DeleteEntriesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM audit_logs WHERE occurred_at < $1`

	result, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
