package repositories

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/taman-kehati/taman-kehati/internal/db/models"
)

// ---------------------------------------------------------------------------
// Column definitions
// ---------------------------------------------------------------------------

var parkCols = []string{
	"id", "slug", "name", "region_id", "address", "description", "area_hectares",
	"latitude", "longitude", "established_year", "managing_agency", "cover_image_url",
	"published", "created_at", "updated_at", "region_name",
}

// ---------------------------------------------------------------------------
// Row builders
// ---------------------------------------------------------------------------

func sampleParkRow() *sqlmock.Rows {
	return sqlmock.NewRows(parkCols).
		AddRow("park-1", "kebun-raya-cibodas", "Kebun Raya Cibodas", "reg-jabar",
			"Cipanas, Cianjur", "Botanical garden on the slopes of Gunung Gede",
			84.99, -6.74, 107.01, 1852, "BRIN", "", true, time.Now(), time.Now(), "Jawa Barat")
}

func newParkRepo(t *testing.T) (*ParkRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewParkRepository(db), mock
}

// ---------------------------------------------------------------------------
// CreatePark
// ---------------------------------------------------------------------------

func TestCreatePark_Success(t *testing.T) {
	repo, mock := newParkRepo(t)
	mock.ExpectExec("INSERT INTO parks").
		WillReturnResult(sqlmock.NewResult(1, 1))

	park := &models.Park{
		Slug:     "taman-kehati-sentul",
		Name:     "Taman Kehati Sentul",
		RegionID: "reg-jabar",
	}
	if err := repo.CreatePark(context.Background(), park); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if park.ID == "" {
		t.Error("expected generated park ID")
	}
}

// ---------------------------------------------------------------------------
// GetParkBySlug
// ---------------------------------------------------------------------------

func TestGetParkBySlug_Found(t *testing.T) {
	repo, mock := newParkRepo(t)
	mock.ExpectQuery("SELECT .+ FROM parks").
		WithArgs("kebun-raya-cibodas").
		WillReturnRows(sampleParkRow())

	park, err := repo.GetParkBySlug(context.Background(), "kebun-raya-cibodas")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if park == nil {
		t.Fatal("expected park, got nil")
	}
	if park.Name != "Kebun Raya Cibodas" {
		t.Errorf("unexpected name: %s", park.Name)
	}
	if park.RegionName == nil || *park.RegionName != "Jawa Barat" {
		t.Error("expected joined region name")
	}
}

func TestGetParkBySlug_NotFound(t *testing.T) {
	repo, mock := newParkRepo(t)
	mock.ExpectQuery("SELECT .+ FROM parks").
		WithArgs("nonexistent").
		WillReturnRows(sqlmock.NewRows(parkCols))

	park, err := repo.GetParkBySlug(context.Background(), "nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if park != nil {
		t.Error("expected nil for missing park")
	}
}

// ---------------------------------------------------------------------------
// ListParks
// ---------------------------------------------------------------------------

func TestListParks_RegionFilter(t *testing.T) {
	repo, mock := newParkRepo(t)
	region := "reg-jabar"

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(region).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM parks").
		WithArgs(region, 20, 0).
		WillReturnRows(sampleParkRow())

	parks, total, err := repo.ListParks(context.Background(), ParkFilters{RegionID: &region}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if len(parks) != 1 {
		t.Fatalf("expected 1 park, got %d", len(parks))
	}
}

func TestListParks_SearchUsesSingleArg(t *testing.T) {
	repo, mock := newParkRepo(t)
	search := "cibodas"

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("%cibodas%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT .+ FROM parks").
		WithArgs("%cibodas%", 20, 0).
		WillReturnRows(sampleParkRow())

	_, _, err := repo.ListParks(context.Background(), ParkFilters{Search: &search}, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
