package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuProduct struct {
	ID                int64           `json:"id" gorm:"primaryKey"`
	Name              string          `json:"name" gorm:"size:255"`
	Description       string          `json:"description" gorm:"size:1024"`
	SKU               string          `json:"sku" gorm:"size:64;index"`
	Price             decimal.Decimal `json:"price" gorm:"type:decimal(10,2)"`
	Inventory         int             `json:"inventory"`
	CategoryID        int64           `json:"category_id" gorm:"index"`
	Active            bool            `json:"active"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	Featured          bool            `json:"featured"`
	ImageURL          string          `json:"image_url" gorm:"size:512"`
	Deleted           bool            `json:"deleted"` // soft delete, kept until publish folds it in
	UpdatedAt         time.Time       `json:"updated_at"`
}

// LowStock reports whether inventory has fallen to the alert threshold.
func (p *MenuProduct) LowStock() bool {
	return p.LowStockThreshold > 0 && p.Inventory <= p.LowStockThreshold
}

type MenuCategory struct {
	ID           int64  `json:"id" gorm:"primaryKey"`
	Name         string `json:"name" gorm:"size:255"`
	Icon         string `json:"icon" gorm:"size:64"`
	DisplayOrder int    `json:"display_order"`
	Active       bool   `json:"active"`
}
