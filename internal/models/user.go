package models

import "time"

// User of the billing surface. Password holds a bcrypt hash.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Email     string `gorm:"not null;uniqueIndex"`
	Password  string `gorm:"not null" json:"-"`
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
