package store

import (
	"context"
	"fmt"

	"github.com/diewo77/crm-billing/internal/document"
	"github.com/diewo77/crm-billing/internal/models"

	"gorm.io/gorm"
)

// Saver is the persistence collaborator: it accepts one finalized document
// snapshot as a unit and reports success or failure. No partial updates.
type Saver interface {
	Save(ctx context.Context, doc *document.Document, userID uint, action string) error
}

// DocumentStore persists finalized documents through GORM.
type DocumentStore struct {
	DB *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore { return &DocumentStore{DB: db} }

// Save writes the snapshot header, its lines, and an activity log entry in a
// single transaction.
func (s *DocumentStore) Save(ctx context.Context, doc *document.Document, userID uint, action string) error {
	rec := toRecord(doc)
	entityType := "Quote"
	if doc.Kind == document.KindInvoice {
		entityType = "Invoice"
	}
	logEntry := models.ActivityLog{
		UserID:     userID,
		EntityType: entityType,
		EntityID:   doc.ID,
		Action:     action,
		Detail:     fmt.Sprintf("%s %d saved, total %.2f", entityType, doc.ID, doc.TotalAmount),
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&rec).Error; err != nil {
			return err
		}
		if err := tx.Create(&logEntry).Error; err != nil {
			return err
		}
		return nil
	})
}

// List returns saved documents of one kind, newest first.
func (s *DocumentStore) List(ctx context.Context, kind document.Kind, limit, offset int) ([]models.SavedDocument, int64, error) {
	var total int64
	if err := s.DB.WithContext(ctx).Model(&models.SavedDocument{}).Where("kind = ?", string(kind)).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var docs []models.SavedDocument
	if err := s.DB.WithContext(ctx).Where("kind = ?", string(kind)).Preload("Lines").Order("id desc").Limit(limit).Offset(offset).Find(&docs).Error; err != nil {
		return nil, 0, err
	}
	return docs, total, nil
}

// Get loads one saved document with its lines.
func (s *DocumentStore) Get(ctx context.Context, id int64) (*models.SavedDocument, error) {
	var doc models.SavedDocument
	if err := s.DB.WithContext(ctx).Preload("Lines").First(&doc, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &doc, nil
}

func toRecord(doc *document.Document) models.SavedDocument {
	rec := models.SavedDocument{
		ID:            doc.ID,
		Kind:          string(doc.Kind),
		Status:        string(doc.Status),
		ClientName:    doc.Client.Name,
		ClientEmail:   doc.Client.Email,
		ClientAddress: doc.Client.Address,
		PaymentMethod: string(doc.PaymentMethod),
		SendLater:     doc.SendLater,
		Terms:         string(doc.Terms),
		CreationDate:  doc.CreationDate,
		DueDate:       doc.DueDate,
		TotalAmount:   doc.TotalAmount,
	}
	for _, l := range doc.Lines {
		rec.Lines = append(rec.Lines, models.SavedDocumentLine{
			LineNo:          l.ID,
			Name:            l.Name,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			TaxPercent:      l.TaxPercent,
			Total:           l.Total,
		})
	}
	return rec
}
