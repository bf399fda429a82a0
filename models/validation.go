package models

import "github.com/shopspring/decimal"

// Business-rule rejection codes. These are data returned to the caller,
// not system faults.
type RejectionCode string

const (
	CodeNotFound     RejectionCode = "not_found"
	CodeInactive     RejectionCode = "inactive" // disabled, scheduled and expired all report as inactive
	CodeBelowMinimum RejectionCode = "below_minimum"
)

// ValidationResult is what the checkout collaborator gets back from a
// code validation. Read-only: validating never consumes a usage slot.
type ValidationResult struct {
	Valid    bool            `json:"valid"`
	Discount *Discount       `json:"discount,omitempty"`
	Amount   decimal.Decimal `json:"amount"`
	Error    RejectionCode   `json:"error,omitempty"`
}

// CartLine is one order line as seen by the pricing quote.
type CartLine struct {
	ProductID  int64           `json:"product_id"`
	CategoryID int64           `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Qty        int             `json:"qty"`
}

// Quote is the priced order the checkout renders.
type Quote struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Total    decimal.Decimal `json:"total"`
	Applied  *Discount       `json:"applied,omitempty"`
	Error    RejectionCode   `json:"error,omitempty"`
}
