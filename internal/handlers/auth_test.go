package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/diewo77/crm-billing/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSignupAndLogin(t *testing.T) {
	db := setupAuthTestDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	// Signup
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"a@b.c","password":"secret","name":"A"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusCreated {
		t.Fatalf("signup expected 201 got %d body=%s", w.Code, w.Body.String())
	}
	cookieSet := false
	for _, c := range w.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			cookieSet = true
		}
	}
	if !cookieSet {
		t.Fatalf("signup did not set session cookie")
	}

	// Duplicate email rejected
	dupReq := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"a@b.c","password":"other"}`))
	dupReq.Header.Set("Content-Type", "application/json")
	dupW := httptest.NewRecorder()
	mux.ServeHTTP(dupW, dupReq)
	if dupW.Code != http.StatusConflict {
		t.Fatalf("duplicate signup expected 409 got %d", dupW.Code)
	}

	// Wrong password
	badReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"wrong"}`))
	badReq.Header.Set("Content-Type", "application/json")
	badW := httptest.NewRecorder()
	mux.ServeHTTP(badW, badReq)
	if badW.Code != http.StatusUnauthorized {
		t.Fatalf("bad login expected 401 got %d", badW.Code)
	}

	// Correct credentials
	loginReq := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"a@b.c","password":"secret"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginW := httptest.NewRecorder()
	mux.ServeHTTP(loginW, loginReq)
	if loginW.Code != http.StatusOK {
		t.Fatalf("login expected 200 got %d body=%s", loginW.Code, loginW.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(loginW.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["email"] != "a@b.c" {
		t.Fatalf("unexpected login response: %+v", resp)
	}
}

func TestSignupValidation(t *testing.T) {
	db := setupAuthTestDB(t)
	h := NewAuthHandler(db)
	mux := http.NewServeMux()
	h.Register(mux)

	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(`{"email":"","password":""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", w.Code)
	}
	var resp struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Details["email"] == "" || resp.Details["password"] == "" {
		t.Fatalf("expected both violations, got %+v", resp.Details)
	}
}
