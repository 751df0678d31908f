package jobs

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/taman-kehati/taman-kehati/internal/db/repositories"
)

func TestAnnouncementExpiry_SweepsOnStart(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("UPDATE announcements").
		WillReturnResult(sqlmock.NewResult(0, 3))

	job := NewAnnouncementExpiry(repositories.NewAnnouncementRepository(db), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	// The initial sweep runs synchronously before the ticker loop; give it a
	// moment, then stop.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAnnouncementExpiry_StopExitsLoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("UPDATE announcements").
		WillReturnResult(sqlmock.NewResult(0, 0))

	job := NewAnnouncementExpiry(repositories.NewAnnouncementRepository(db), time.Hour)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	job.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not stop")
	}
}

func TestAuditRetention_DisabledWithoutRetention(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	job := NewAuditRetention(repositories.NewAuditRepository(db), 0, time.Hour)

	done := make(chan struct{})
	go func() {
		job.Start(context.Background())
		close(done)
	}()

	// Start returns immediately when retention is disabled.
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("job should return immediately when disabled")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no DB calls expected: %v", err)
	}
}

func TestAuditRetention_PrunesOldEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	mock.ExpectExec("DELETE FROM audit_logs").
		WillReturnResult(sqlmock.NewResult(0, 10))

	job := NewAuditRetention(repositories.NewAuditRepository(db), 180, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mock.ExpectationsWereMet() == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	<-done

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
