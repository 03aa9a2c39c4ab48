package models

import "time"

// CatalogProduct is one entry of the static product catalog. The billing core
// only ever reads it; rows come from seeding or migrations.
type CatalogProduct struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
