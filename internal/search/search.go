package search

import (
	"context"
	"regexp"
	"strings"

	"github.com/diewo77/crm-billing/internal/catalog"
	"github.com/diewo77/crm-billing/internal/models"

	"gorm.io/gorm"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9 \-_À-ÿ]`)

// ProductSearch answers free-text name queries against the catalog. A match
// selected from the results is added to a cart exactly like a catalog pick.
type ProductSearch struct {
	DB *gorm.DB
}

func NewProductSearch(db *gorm.DB) *ProductSearch { return &ProductSearch{DB: db} }

// ByName returns catalog products whose name contains the query substring,
// case-insensitive. Empty or fully-stripped queries return no matches.
func (s *ProductSearch) ByName(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	safe := unsafeChars.ReplaceAllString(strings.TrimSpace(query), "")
	if safe == "" {
		return nil, nil
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	like := "%" + strings.ToLower(safe) + "%"
	var rows []models.CatalogProduct
	if err := s.DB.WithContext(ctx).Where("lower(name) LIKE ?", like).Order("id asc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Product{ID: r.ID, Name: r.Name, UnitPrice: r.UnitPrice})
	}
	return out, nil
}
