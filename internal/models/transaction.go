package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is either income or outcome.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeOutcome TransactionType = "outcome"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeOutcome
}

// Transaction is a single income or outcome record.
// CategoryID is nullable: an imported row whose category could not be
// resolved is stored without one.
type Transaction struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Title      string          `gorm:"size:255;not null" json:"title"`
	Type       TransactionType `gorm:"size:16;index;not null" json:"type"`
	Value      decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"value"`
	CategoryID *uint           `gorm:"index" json:"category_id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Category *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"category,omitempty"`
}
