package admin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"

	"github.com/taman-kehati/taman-kehati/internal/auth"
)

func newParkRouter(t *testing.T, role auth.Role, regionID string) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewParkHandlers(db)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("role", role)
		c.Set("region_id", regionID)
		c.Next()
	})
	r.GET("/parks", h.ListParksHandler())
	r.GET("/parks/:id", h.GetParkHandler())
	r.POST("/parks", h.CreateParkHandler())
	r.PUT("/parks/:id", h.UpdateParkHandler())
	r.DELETE("/parks/:id", h.DeleteParkHandler())

	return mock, r
}

func emptyParkRows() *sqlmock.Rows {
	return sqlmock.NewRows(parkSQLCols)
}

func TestListParksHandler_RegionalAdminScopedToOwnRegion(t *testing.T) {
	mock, r := newParkRouter(t, auth.RoleRegionalAdmin, "reg-jabar")

	// The region filter must carry the caller's region even though the
	// request asked for a different one.
	mock.ExpectQuery("SELECT COUNT").
		WithArgs("reg-jabar").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM parks").
		WithArgs("reg-jabar", 20, 0).
		WillReturnRows(sampleParkRow("reg-jabar"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/parks?region_id=reg-jatim", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateParkHandler_Success(t *testing.T) {
	mock, r := newParkRouter(t, auth.RoleSuperAdmin, "")

	mock.ExpectQuery("SELECT (.+) FROM parks").
		WillReturnRows(emptyParkRows())
	mock.ExpectExec("INSERT INTO parks").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := jsonBody(map[string]interface{}{
		"slug":      "kebun-raya-bogor",
		"name":      "Kebun Raya Bogor",
		"region_id": "reg-jabar",
		"latitude":  -6.5977,
		"longitude": 106.7997,
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/parks", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateParkHandler_InvalidSlug(t *testing.T) {
	_, r := newParkRouter(t, auth.RoleSuperAdmin, "")

	body := jsonBody(map[string]interface{}{
		"slug":      "Not A Slug!",
		"name":      "Kebun Raya Bogor",
		"region_id": "reg-jabar",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/parks", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateParkHandler_InvalidCoordinates(t *testing.T) {
	_, r := newParkRouter(t, auth.RoleSuperAdmin, "")

	body := jsonBody(map[string]interface{}{
		"slug":      "kebun-raya-bogor",
		"name":      "Kebun Raya Bogor",
		"region_id": "reg-jabar",
		"latitude":  95.0,
		"longitude": 106.7997,
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/parks", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestCreateParkHandler_OutsideRegionForbidden(t *testing.T) {
	_, r := newParkRouter(t, auth.RoleRegionalAdmin, "reg-jatim")

	body := jsonBody(map[string]interface{}{
		"slug":      "kebun-raya-bogor",
		"name":      "Kebun Raya Bogor",
		"region_id": "reg-jabar",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/parks", body))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestCreateParkHandler_DuplicateSlugConflicts(t *testing.T) {
	mock, r := newParkRouter(t, auth.RoleSuperAdmin, "")

	mock.ExpectQuery("SELECT (.+) FROM parks").
		WillReturnRows(sampleParkRow("reg-jabar"))

	body := jsonBody(map[string]interface{}{
		"slug":      "kebun-raya-bogor",
		"name":      "Kebun Raya Bogor",
		"region_id": "reg-jabar",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/parks", body))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestUpdateParkHandler_CannotMoveAcrossRegions(t *testing.T) {
	mock, r := newParkRouter(t, auth.RoleRegionalAdmin, "reg-jabar")

	// Existing park is in the caller's region, but the update targets another.
	mock.ExpectQuery("SELECT (.+) FROM parks").
		WillReturnRows(sampleParkRow("reg-jabar"))

	body := jsonBody(map[string]interface{}{
		"slug":      "kebun-raya-bogor",
		"name":      "Kebun Raya Bogor",
		"region_id": "reg-jatim",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/parks/park-1", body))

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestDeleteParkHandler_NotFound(t *testing.T) {
	mock, r := newParkRouter(t, auth.RoleSuperAdmin, "")

	mock.ExpectQuery("SELECT (.+) FROM parks").
		WillReturnRows(emptyParkRows())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/parks/missing", nil))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}
