package models

import "time"

// SavedDocument is the immutable snapshot of a validated quote or invoice.
// The primary key is minted by the lifecycle from the save timestamp, not by
// the database.
type SavedDocument struct {
	ID            int64               `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Kind          string              `gorm:"not null;index" json:"kind"` // quote, invoice
	Status        string              `gorm:"not null" json:"status"`
	ClientName    string              `json:"client_name"`
	ClientEmail   string              `json:"client_email,omitempty"`
	ClientAddress string              `json:"client_address"`
	PaymentMethod string              `gorm:"not null" json:"payment_method"`
	SendLater     bool                `json:"send_later"`
	Terms         string              `gorm:"not null;default:'none'" json:"terms"`
	CreationDate  time.Time           `json:"creation_date"`
	DueDate       time.Time           `json:"due_date"`
	TotalAmount   float64             `gorm:"not null" json:"total_amount"`
	Lines         []SavedDocumentLine `gorm:"foreignKey:DocumentID" json:"lines"`
	CreatedAt     time.Time           `json:"-"`
	UpdatedAt     time.Time           `json:"-"`
}

// SavedDocumentLine is one persisted priced row. LineNo keeps the id the line
// had inside the document (insertion order), independent of the catalog id.
type SavedDocumentLine struct {
	ID              uint    `gorm:"primaryKey" json:"-"`
	DocumentID      int64   `gorm:"not null;index" json:"-"`
	LineNo          int     `gorm:"not null" json:"id"`
	Name            string  `gorm:"not null" json:"name"`
	Quantity        int     `gorm:"not null" json:"quantity"`
	UnitPrice       float64 `gorm:"not null" json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	TaxPercent      float64 `json:"tax_percent"`
	Total           float64 `gorm:"not null" json:"total"`
}
