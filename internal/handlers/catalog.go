package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/crm-billing/httpx"
	"github.com/diewo77/crm-billing/internal/models"
	"github.com/diewo77/crm-billing/internal/search"

	"gorm.io/gorm"
)

// CatalogHandler exposes the read-only product catalog and the free-text
// search over it.
type CatalogHandler struct {
	DB     *gorm.DB
	Search *search.ProductSearch
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{DB: db, Search: search.NewProductSearch(db)}
}

// List: GET /catalog
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 200 {
			limit = n
		}
	}
	var products []models.CatalogProduct
	if err := h.DB.Order("id asc").Limit(limit).Find(&products).Error; err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_catalog", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

// Find: GET /catalog/search?q=...
func (h *CatalogHandler) Find(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, _ = strconv.Atoi(v)
	}
	matches, err := h.Search.ByName(r.Context(), q, limit)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "search_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": matches, "total": len(matches)})
}
