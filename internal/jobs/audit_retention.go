// audit_retention.go implements the AuditRetention background job, which prunes
// audit entries older than the configured retention period. A retention of zero
// disables pruning entirely, which is the safe default: audit records are only
// ever deleted when an operator has explicitly decided how long to keep them.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
)

// AuditRetention periodically deletes audit entries past the retention period.
type AuditRetention struct {
	auditRepo     *repositories.AuditRepository
	retentionDays int
	interval      time.Duration
	stopChan      chan struct{}
}

// NewAuditRetention creates a new AuditRetention job.
// retentionDays <= 0 disables pruning; interval defaults to 24h.
func NewAuditRetention(auditRepo *repositories.AuditRepository, retentionDays int, interval time.Duration) *AuditRetention {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &AuditRetention{
		auditRepo:     auditRepo,
		retentionDays: retentionDays,
		interval:      interval,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the background pruning loop.
// The loop exits when ctx is cancelled or Stop() is called.
func (j *AuditRetention) Start(ctx context.Context) {
	if j.retentionDays <= 0 {
		log.Println("Audit retention job: disabled (retention_days not set)")
		return
	}

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Printf("Audit retention job started (retention: %d days, interval: %v)", j.retentionDays, j.interval)

	j.runPrune(ctx)

	for {
		select {
		case <-ticker.C:
			j.runPrune(ctx)
		case <-j.stopChan:
			log.Println("Audit retention job stopped")
			return
		case <-ctx.Done():
			log.Println("Audit retention job context cancelled")
			return
		}
	}
}

// Stop signals the background loop to exit.
func (j *AuditRetention) Stop() {
	close(j.stopChan)
}

func (j *AuditRetention) runPrune(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)

	deleted, err := j.auditRepo.DeleteEntriesBefore(ctx, cutoff)
	if err != nil {
		log.Printf("Audit retention job: prune failed: %v", err)
		return
	}

	if deleted > 0 {
		log.Printf("Audit retention job: pruned %d audit entries older than %s", deleted, cutoff.Format("2006-01-02"))
	}
}
