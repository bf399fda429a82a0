package services

import (
	"context"

	"dispensary_admin/models"

	"github.com/shopspring/decimal"
)

// PricingService prices an order for checkout. It owns the one place
// where cart lines exist, so discount category/product allow-lists are
// enforced here rather than in ValidateCode.
type PricingService struct {
	discounts *DiscountService
}

func NewPricingService(discounts *DiscountService) *PricingService {
	return &PricingService{discounts: discounts}
}

// Quote totals the cart and applies an optional discount code. Scoped
// discounts only count lines whose product or category ids appear in the
// allow-lists; percentage discounts apply to the eligible subtotal and
// fixed discounts cap at it.
func (s *PricingService) Quote(ctx context.Context, lines []models.CartLine, code string) (models.Quote, error) {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
	}
	quote := models.Quote{Subtotal: subtotal, Total: subtotal}
	if code == "" {
		return quote, nil
	}

	result, err := s.discounts.ValidateCode(ctx, code, subtotal)
	if err != nil {
		return models.Quote{}, err
	}
	if !result.Valid {
		quote.Error = result.Error
		return quote, nil
	}

	discount := result.Discount
	eligible := eligibleSubtotal(lines, discount)
	amount := discount.Amount(eligible)
	quote.Discount = amount
	quote.Total = subtotal.Sub(amount)
	quote.Applied = discount
	return quote, nil
}

func eligibleSubtotal(lines []models.CartLine, discount *models.Discount) decimal.Decimal {
	productIDs := discount.ProductIDs()
	categoryIDs := discount.CategoryIDs()
	if productIDs == nil && categoryIDs == nil {
		total := decimal.Zero
		for _, line := range lines {
			total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		}
		return total
	}

	products := make(map[int64]bool, len(productIDs))
	for _, id := range productIDs {
		products[id] = true
	}
	categories := make(map[int64]bool, len(categoryIDs))
	for _, id := range categoryIDs {
		categories[id] = true
	}

	total := decimal.Zero
	for _, line := range lines {
		if products[line.ProductID] || categories[line.CategoryID] {
			total = total.Add(line.Price.Mul(decimal.NewFromInt(int64(line.Qty))))
		}
	}
	return total
}
