package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/crm-billing/internal/db"
	"github.com/diewo77/crm-billing/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupRouterTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.CatalogProduct{}, &models.SavedDocument{}, &models.SavedDocumentLine{}, &models.ActivityLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	db.Seed(conn)
	return conn
}

func TestHealthEndpoints(t *testing.T) {
	handler := New(setupRouterTestDB(t))
	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("%s expected 200 got %d", path, w.Code)
		}
	}
}

func TestRequestIDHeader(t *testing.T) {
	handler := New(setupRouterTestDB(t))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	handler := New(setupRouterTestDB(t))
	for _, path := range []string{"/catalog", "/quotes", "/invoices", "/invoices/generate"} {
		method := http.MethodGet
		if strings.HasSuffix(path, "/generate") {
			method = http.MethodPost
		}
		req := httptest.NewRequest(method, path, nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s expected 401 got %d", path, w.Code)
		}
	}
}

func TestSignupThenBrowseCatalog(t *testing.T) {
	handler := New(setupRouterTestDB(t))

	signup := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"u@test","password":"secret"}`))
	signup.Header.Set("Content-Type", "application/json")
	sw := httptest.NewRecorder()
	handler.ServeHTTP(sw, signup)
	if sw.Code != http.StatusCreated {
		t.Fatalf("signup expected 201 got %d body=%s", sw.Code, sw.Body.String())
	}
	cookies := sw.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatalf("signup set no cookies")
	}

	list := httptest.NewRequest(http.MethodGet, "/catalog", nil)
	for _, c := range cookies {
		list.AddCookie(c)
	}
	lw := httptest.NewRecorder()
	handler.ServeHTTP(lw, list)
	if lw.Code != http.StatusOK {
		t.Fatalf("catalog expected 200 got %d body=%s", lw.Code, lw.Body.String())
	}
	var resp struct {
		Items []models.CatalogProduct `json:"items"`
		Total int                     `json:"total"`
	}
	if err := json.Unmarshal(lw.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total == 0 {
		t.Fatalf("expected seeded catalog, got %+v", resp)
	}

	find := httptest.NewRequest(http.MethodGet, "/catalog/search?q=vitrine", nil)
	for _, c := range cookies {
		find.AddCookie(c)
	}
	fw := httptest.NewRecorder()
	handler.ServeHTTP(fw, find)
	if fw.Code != http.StatusOK {
		t.Fatalf("search expected 200 got %d", fw.Code)
	}
}
