package server

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/diewo77/crm-billing/auth"
	"github.com/diewo77/crm-billing/httpx"
	"github.com/diewo77/crm-billing/internal/document"
	"github.com/diewo77/crm-billing/internal/handlers"
	"github.com/diewo77/crm-billing/internal/middleware"
	"github.com/diewo77/crm-billing/internal/models"
	"github.com/diewo77/crm-billing/internal/notify"
	"github.com/diewo77/crm-billing/internal/services"
	"github.com/diewo77/crm-billing/internal/store"

	"gorm.io/gorm"
)

// New constructs the root http.Handler with all routes and middlewares applied.
func New(db *gorm.DB) http.Handler {
	mux := http.NewServeMux()

	// Configure a user verifier so RequireAuth can ensure the user still exists.
	auth.SetUserVerifier(func(_ context.Context, uid uint) bool {
		var count int64
		if err := db.Model(&models.User{}).Where("id = ?", uid).Limit(1).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		// Lightweight DB check, no detailed errors in the body
		if err := db.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth endpoints
	authHandler := handlers.NewAuthHandler(db)
	authHandler.Register(mux)

	// Catalog endpoints (read-only)
	ch := handlers.NewCatalogHandler(db)
	mux.Handle("/catalog", auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.MethodNotAllowed(w, "GET")
			return
		}
		ch.List(w, r)
	}))))
	mux.Handle("/catalog/search", auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.MethodNotAllowed(w, "GET")
			return
		}
		ch.Find(w, r)
	}))))

	// Quote and invoice pipelines share the handler; only the kind differs.
	st := store.NewDocumentStore(db)
	svc := services.NewDocumentService(st, notify.LogNotifier{})
	registerDocumentRoutes(mux, "/quotes", handlers.NewDocumentHandler(db, svc, st, document.KindQuote))
	registerDocumentRoutes(mux, "/invoices", handlers.NewDocumentHandler(db, svc, st, document.KindInvoice))

	return middleware.RequestID(withRecover(withLogging(mux)))
}

func registerDocumentRoutes(mux *http.ServeMux, prefix string, h *handlers.DocumentHandler) {
	mux.Handle(prefix, auth.Middleware(auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			httpx.MethodNotAllowed(w, "GET")
			return
		}
		h.List(w, r)
	}))))
	mux.Handle(prefix+"/generate", auth.Middleware(auth.RequireAuth(http.HandlerFunc(h.Generate))))
	mux.Handle(prefix+"/save", auth.Middleware(auth.RequireAuth(h.Save(false))))
	mux.Handle(prefix+"/send", auth.Middleware(auth.RequireAuth(h.Save(true))))
}

// Simple middleware logging & recovery kept private to this package to avoid duplication.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s rid=%s", r.Method, r.URL.Path, time.Since(start), middleware.RequestIDFrom(r))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
