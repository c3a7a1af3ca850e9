package models

import "time"

// Category groups transactions. Title is the natural key and is unique.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:64;uniqueIndex;not null" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Transactions []Transaction `gorm:"foreignKey:CategoryID" json:"-"`
}
