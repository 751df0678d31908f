package admin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
)

func sampleUserRow(id, role string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(userSQLCols).AddRow(
		id, "budi@tamankehati.go.id", "$2a$10$hash", "Budi Santoso", role,
		"reg-jabar", true, nil, now, now, "Jawa Barat",
	)
}

func newUserRouter(t *testing.T, callerID string) (sqlmock.Sqlmock, *gin.Engine) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	h := NewUserHandlers(db)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", callerID)
		c.Next()
	})
	r.GET("/users", h.ListUsersHandler())
	r.GET("/users/:id", h.GetUserHandler())
	r.POST("/users", h.CreateUserHandler())
	r.PUT("/users/:id", h.UpdateUserHandler())
	r.POST("/users/:id/reset-password", h.ResetPasswordHandler())
	r.DELETE("/users/:id", h.DeleteUserHandler())

	return mock, r
}

func TestListUsersHandler_ReturnsDataAndPagination(t *testing.T) {
	mock, r := newUserRouter(t, "admin-1")

	mock.ExpectQuery("SELECT COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs(20, 0).
		WillReturnRows(sampleUserRow("user-2", "viewer"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/users", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Data       []json.RawMessage `json:"data"`
		Pagination struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("len(data) = %d, want 1", len(resp.Data))
	}
	if resp.Pagination.Total != 1 {
		t.Errorf("pagination.total = %d, want 1", resp.Pagination.Total)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUserHandler_Success(t *testing.T) {
	mock, r := newUserRouter(t, "admin-1")

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("siti@tamankehati.go.id").
		WillReturnRows(sqlmock.NewRows(userSQLCols))
	mock.ExpectExec("INSERT INTO users").
		WillReturnResult(sqlmock.NewResult(1, 1))

	body := jsonBody(map[string]interface{}{
		"email":     "siti@tamankehati.go.id",
		"password":  "sangat-rahasia-10",
		"full_name": "Siti Rahayu",
		"role":      "regional_admin",
		"region_id": "reg-jatim",
		"active":    true,
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users", body))

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateUserHandler_RegionalAdminRequiresRegion(t *testing.T) {
	_, r := newUserRouter(t, "admin-1")

	body := jsonBody(map[string]interface{}{
		"email":     "siti@tamankehati.go.id",
		"password":  "sangat-rahasia-10",
		"full_name": "Siti Rahayu",
		"role":      "regional_admin",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestCreateUserHandler_UnknownRole(t *testing.T) {
	_, r := newUserRouter(t, "admin-1")

	body := jsonBody(map[string]interface{}{
		"email":     "siti@tamankehati.go.id",
		"password":  "sangat-rahasia-10",
		"full_name": "Siti Rahayu",
		"role":      "national_admin",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestCreateUserHandler_DuplicateEmailConflicts(t *testing.T) {
	mock, r := newUserRouter(t, "admin-1")

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("budi@tamankehati.go.id").
		WillReturnRows(sampleUserRow("user-2", "viewer"))

	body := jsonBody(map[string]interface{}{
		"email":     "budi@tamankehati.go.id",
		"password":  "sangat-rahasia-10",
		"full_name": "Budi Santoso",
		"role":      "viewer",
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users", body))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateUserHandler_CannotDemoteSelf(t *testing.T) {
	mock, r := newUserRouter(t, "admin-1")

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("admin-1").
		WillReturnRows(sampleUserRow("admin-1", "super_admin"))

	body := jsonBody(map[string]interface{}{
		"email":     "budi@tamankehati.go.id",
		"full_name": "Budi Santoso",
		"role":      "viewer",
		"active":    true,
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("PUT", "/users/admin-1", body))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestResetPasswordHandler_TooShortRejected(t *testing.T) {
	_, r := newUserRouter(t, "admin-1")

	body := jsonBody(map[string]interface{}{"new_password": "short"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/users/user-2/reset-password", body))

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400: %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserHandler_CannotDeleteSelf(t *testing.T) {
	mock, r := newUserRouter(t, "admin-1")

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("admin-1").
		WillReturnRows(sampleUserRow("admin-1", "super_admin"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/users/admin-1", nil))

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409: %s", w.Code, w.Body.String())
	}
}

func TestDeleteUserHandler_Success(t *testing.T) {
	mock, r := newUserRouter(t, "admin-1")

	mock.ExpectQuery("SELECT (.+) FROM users").
		WithArgs("user-2").
		WillReturnRows(sampleUserRow("user-2", "viewer"))
	mock.ExpectExec("DELETE FROM users").
		WithArgs("user-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("DELETE", "/users/user-2", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
