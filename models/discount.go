package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Discount kind
type DiscountKind string

const (
	Percentage DiscountKind = "percentage" // percent off the order total
	Fixed      DiscountKind = "fixed"      // fixed amount off the order total
)

// Derived lifecycle status. Never stored; recomputed on every read.
type DiscountStatus string

const (
	StatusActive    DiscountStatus = "active"
	StatusScheduled DiscountStatus = "scheduled"
	StatusExpired   DiscountStatus = "expired"
	StatusDisabled  DiscountStatus = "disabled"
)

type Discount struct {
	ID               int64           `json:"id" gorm:"primaryKey"`
	Code             string          `json:"code" gorm:"uniqueIndex;size:64"` // stored uppercase
	Kind             DiscountKind    `json:"kind" gorm:"size:20"`
	Value            decimal.Decimal `json:"value" gorm:"type:decimal(10,2)"`
	MinOrderAmount   decimal.Decimal `json:"min_order_amount" gorm:"type:decimal(10,2)"` // zero = no minimum
	MaxDiscount      decimal.Decimal `json:"max_discount" gorm:"type:decimal(10,2)"`     // cap for percentage kind, zero = uncapped
	UsageLimit       int             `json:"usage_limit"`        // 0 = unlimited
	UsageCount       int             `json:"usage_count"`
	PerCustomerLimit int             `json:"per_customer_limit"` // 0 = unlimited
	StartDate        time.Time       `json:"start_date"`
	EndDate          *time.Time      `json:"end_date"`
	Disabled         bool            `json:"disabled"` // manual override, wins over dates and usage
	CategoryScope    datatypes.JSON  `json:"category_scope"` // []int64 category ids, empty = everything
	ProductScope     datatypes.JSON  `json:"product_scope"`  // []int64 product ids, empty = everything
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Status DiscountStatus `json:"status" gorm:"-"` // filled from Derive on reads
}

// Derive computes the lifecycle status at the given instant.
func (d *Discount) Derive(now time.Time) DiscountStatus {
	if d.Disabled {
		return StatusDisabled
	}
	if d.EndDate != nil && now.After(*d.EndDate) {
		return StatusExpired
	}
	if now.Before(d.StartDate) {
		return StatusScheduled
	}
	if d.UsageLimit > 0 && d.UsageCount >= d.UsageLimit {
		return StatusExpired
	}
	return StatusActive
}

// Amount computes the discount taken off the given total. Percentage
// discounts are capped by MaxDiscount when set; fixed discounts never
// exceed the total.
func (d *Discount) Amount(total decimal.Decimal) decimal.Decimal {
	switch d.Kind {
	case Percentage:
		amount := total.Mul(d.Value).Div(decimal.NewFromInt(100))
		if d.MaxDiscount.IsPositive() && amount.GreaterThan(d.MaxDiscount) {
			return d.MaxDiscount
		}
		return amount
	case Fixed:
		if d.Value.GreaterThan(total) {
			return total
		}
		return d.Value
	}
	return decimal.Zero
}

// CategoryIDs decodes the category allow-list. Nil means no restriction.
func (d *Discount) CategoryIDs() []int64 {
	return decodeScope(d.CategoryScope)
}

// ProductIDs decodes the product allow-list. Nil means no restriction.
func (d *Discount) ProductIDs() []int64 {
	return decodeScope(d.ProductScope)
}

func decodeScope(raw datatypes.JSON) []int64 {
	if len(raw) == 0 {
		return nil
	}
	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil
	}
	if len(ids) == 0 {
		return nil
	}
	return ids
}

// Redemption records one consumed usage slot at order confirmation.
type Redemption struct {
	ID         string    `json:"id" gorm:"primaryKey;size:36"`
	DiscountID int64     `json:"discount_id" gorm:"index"`
	CustomerID string    `json:"customer_id" gorm:"size:64;index"`
	OrderRef   string    `json:"order_ref" gorm:"size:64"`
	CreatedAt  time.Time `json:"created_at"`
}
