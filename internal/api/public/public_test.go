package public

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var parkSQLCols = []string{
	"id", "slug", "name", "region_id", "address", "description", "area_hectares",
	"latitude", "longitude", "established_year", "managing_agency", "cover_image_url",
	"published", "created_at", "updated_at", "name",
}

var announcementSQLCols = []string{
	"id", "title", "body", "audience", "starts_at", "ends_at", "active",
	"created_by", "created_at", "updated_at",
}

func parkRow(published bool) *sqlmock.Rows {
	return sqlmock.NewRows(parkSQLCols).
		AddRow("park-1", "kebun-raya-bogor", "Kebun Raya Bogor", "reg-jabar", "", "", nil,
			nil, nil, nil, "BRIN", "", published, time.Now(), time.Now(), "Jawa Barat")
}

func newPublicDB(t *testing.T) (*sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	r := gin.New()
	r.GET("/parks", ListParksHandler(db))
	r.GET("/parks/:slug", GetParkHandler(db))
	r.GET("/species", ListSpeciesHandler(db))
	r.GET("/articles", ListArticlesHandler(db))
	r.GET("/announcements", ListAnnouncementsHandler(db))

	return &mock, r
}

func TestGetParkHandler_UnpublishedReadsAsMissing(t *testing.T) {
	mockPtr, r := newPublicDB(t)
	mock := *mockPtr

	mock.ExpectQuery("SELECT (.+) FROM parks").
		WillReturnRows(parkRow(false))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/parks/kebun-raya-bogor", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetParkHandler_IncludesCountsAndLatestAssessment(t *testing.T) {
	mockPtr, r := newPublicDB(t)
	mock := *mockPtr

	mock.ExpectQuery("SELECT (.+) FROM parks").
		WillReturnRows(parkRow(true))
	mock.ExpectQuery("SELECT (.+) FROM species").
		WillReturnRows(sqlmock.NewRows([]string{"flora", "fauna"}).AddRow(12, 7))
	// Count then page query for the approved-assessment lookup.
	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery("SELECT (.+) FROM biodiversity_assessments").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/parks/kebun-raya-bogor", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &resp)
	if got := resp["flora_count"].(float64); got != 12 {
		t.Errorf("flora_count = %v, want 12", got)
	}
	if got := resp["fauna_count"].(float64); got != 7 {
		t.Errorf("fauna_count = %v, want 7", got)
	}
	if resp["latest_assessment"] != nil {
		t.Errorf("latest_assessment = %v, want null", resp["latest_assessment"])
	}
}

func TestListParksHandler_AlwaysFiltersPublished(t *testing.T) {
	mockPtr, r := newPublicDB(t)
	mock := *mockPtr

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM parks").
		WithArgs(true, 20, 0).
		WillReturnRows(parkRow(true))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/parks", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListSpeciesHandler_RejectsUnknownKingdom(t *testing.T) {
	_, r := newPublicDB(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/species?kingdom=fungi", nil))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListAnnouncementsHandler_PublicAudienceOnly(t *testing.T) {
	mockPtr, r := newPublicDB(t)
	mock := *mockPtr

	mock.ExpectQuery("SELECT (.+) FROM announcements").
		WithArgs("public", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(announcementSQLCols).
			AddRow("ann-1", "Pendaftaran dibuka", "...", "public", nil, nil, true,
				nil, time.Now(), time.Now()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/announcements", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
