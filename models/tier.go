package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SubscriptionTier is one Chef's Choice curated-box tier.
type SubscriptionTier struct {
	ID           int64           `json:"id" gorm:"primaryKey"`
	Name         string          `json:"name" gorm:"size:255"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	ItemsPerBox  int             `json:"items_per_box"`
	Description  string          `json:"description" gorm:"size:1024"`
	Active       bool            `json:"active"`
	DisplayOrder int             `json:"display_order"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
