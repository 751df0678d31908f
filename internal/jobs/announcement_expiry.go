// announcement_expiry.go implements the AnnouncementExpiry background job, which
// periodically deactivates announcements whose display window has passed. The
// public listing already filters by window, so this job only keeps the admin
// view honest and lets the dashboard count active announcements cheaply.
package jobs

import (
	"context"
	"log"
	"time"

	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
)

// AnnouncementExpiry periodically deactivates announcements past their window.
type AnnouncementExpiry struct {
	announcementRepo *repositories.AnnouncementRepository
	interval         time.Duration
	stopChan         chan struct{}
}

// NewAnnouncementExpiry creates a new AnnouncementExpiry job.
// interval controls how often the sweep runs (default 1h).
func NewAnnouncementExpiry(announcementRepo *repositories.AnnouncementRepository, interval time.Duration) *AnnouncementExpiry {
	if interval <= 0 {
		interval = time.Hour
	}
	return &AnnouncementExpiry{
		announcementRepo: announcementRepo,
		interval:         interval,
		stopChan:         make(chan struct{}),
	}
}

// Start begins the background sweep loop.
// It runs an initial sweep immediately, then repeats on the configured interval.
// The loop exits when ctx is cancelled or Stop() is called.
func (j *AnnouncementExpiry) Start(ctx context.Context) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	log.Printf("Announcement expiry job started (interval: %v)", j.interval)

	// Run once immediately on startup
	j.runSweep(ctx)

	for {
		select {
		case <-ticker.C:
			j.runSweep(ctx)
		case <-j.stopChan:
			log.Println("Announcement expiry job stopped")
			return
		case <-ctx.Done():
			log.Println("Announcement expiry job context cancelled")
			return
		}
	}
}

// Stop signals the background loop to exit.
func (j *AnnouncementExpiry) Stop() {
	close(j.stopChan)
}

func (j *AnnouncementExpiry) runSweep(ctx context.Context) {
	deactivated, err := j.announcementRepo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		log.Printf("Announcement expiry job: sweep failed: %v", err)
		return
	}

	if deactivated > 0 {
		log.Printf("Announcement expiry job: deactivated %d expired announcement(s)", deactivated)
	}
}
