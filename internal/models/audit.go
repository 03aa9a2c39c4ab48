package models

import "time"

// ActivityLog records one save or send of a document, for the activity feed.
type ActivityLog struct {
	ID         uint   `gorm:"primaryKey"`
	UserID     uint   // who triggered the action, 0 when unknown
	EntityType string // "Quote" or "Invoice"
	EntityID   int64  // saved document id
	Action     string // "save", "send"
	Detail     string // short human-readable summary
	CreatedAt  time.Time
}
