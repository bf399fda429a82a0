package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"dispensary_admin/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrUsageExhausted = errors.New("discount usage limit reached")

type DiscountService struct {
	db *gorm.DB
}

func NewDiscountService(db *gorm.DB) *DiscountService {
	return &DiscountService{db: db}
}

func (s *DiscountService) CreateDiscount(ctx context.Context, discount *models.Discount) error {
	if discount.EndDate != nil && discount.StartDate.After(*discount.EndDate) {
		return errors.New("start date cannot be after end date")
	}

	discount.Code = strings.ToUpper(strings.TrimSpace(discount.Code))
	if discount.Code == "" {
		return errors.New("code is required")
	}
	discount.UsageCount = 0
	discount.CreatedAt = time.Now()
	discount.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Create(discount).Error; err != nil {
		return err
	}
	discount.Status = discount.Derive(time.Now())
	return nil
}

func (s *DiscountService) UpdateDiscount(ctx context.Context, id int64, discount *models.Discount) error {
	existing := &models.Discount{}
	if err := s.db.WithContext(ctx).First(existing, id).Error; err != nil {
		return err
	}

	if discount.EndDate != nil && discount.StartDate.After(*discount.EndDate) {
		return errors.New("start date cannot be after end date")
	}

	// Merge the editable fields onto the stored record. Usage count and
	// the disabled override are owned by Redeem and SetDisabled.
	existing.Code = strings.ToUpper(strings.TrimSpace(discount.Code))
	existing.Kind = discount.Kind
	existing.Value = discount.Value
	existing.MinOrderAmount = discount.MinOrderAmount
	existing.MaxDiscount = discount.MaxDiscount
	existing.UsageLimit = discount.UsageLimit
	existing.PerCustomerLimit = discount.PerCustomerLimit
	existing.StartDate = discount.StartDate
	existing.EndDate = discount.EndDate
	existing.CategoryScope = discount.CategoryScope
	existing.ProductScope = discount.ProductScope
	existing.UpdatedAt = time.Now()

	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return err
	}
	*discount = *existing
	discount.Status = discount.Derive(time.Now())
	return nil
}

func (s *DiscountService) DeleteDiscount(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&models.Discount{}, id).Error
}

func (s *DiscountService) GetDiscount(ctx context.Context, id int64) (*models.Discount, error) {
	discount := &models.Discount{}
	if err := s.db.WithContext(ctx).First(discount, id).Error; err != nil {
		return nil, err
	}
	discount.Status = discount.Derive(time.Now())
	return discount, nil
}

func (s *DiscountService) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	var discounts []models.Discount
	if err := s.db.WithContext(ctx).Order("created_at").Find(&discounts).Error; err != nil {
		return nil, err
	}
	now := time.Now()
	for i := range discounts {
		discounts[i].Status = discounts[i].Derive(now)
	}
	return discounts, nil
}

// SetDisabled flips the manual override, the only status an operator can
// set directly.
func (s *DiscountService) SetDisabled(ctx context.Context, id int64, disabled bool) error {
	discount := &models.Discount{}
	if err := s.db.WithContext(ctx).First(discount, id).Error; err != nil {
		return err
	}
	return s.db.WithContext(ctx).Model(discount).
		Updates(map[string]interface{}{"disabled": disabled, "updated_at": time.Now()}).Error
}

// ValidateCode checks a submitted code against an order total. Read-only:
// the usage slot is consumed by Redeem once the order is confirmed, so an
// abandoned checkout never burns a use.
func (s *DiscountService) ValidateCode(ctx context.Context, code string, orderTotal decimal.Decimal) (models.ValidationResult, error) {
	discount := &models.Discount{}
	err := s.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(discount).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ValidationResult{Error: models.CodeNotFound}, nil
		}
		return models.ValidationResult{}, err
	}

	discount.Status = discount.Derive(time.Now())
	if discount.Status != models.StatusActive {
		return models.ValidationResult{Error: models.CodeInactive}, nil
	}
	if discount.MinOrderAmount.IsPositive() && orderTotal.LessThan(discount.MinOrderAmount) {
		return models.ValidationResult{Error: models.CodeBelowMinimum}, nil
	}

	return models.ValidationResult{
		Valid:    true,
		Discount: discount,
		Amount:   discount.Amount(orderTotal),
	}, nil
}

// Redeem consumes one usage slot at order confirmation. The increment
// runs in a transaction that re-reads the current count, so concurrent
// confirmations cannot push a discount past its limit.
func (s *DiscountService) Redeem(ctx context.Context, discountID int64, customerID, orderRef string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		discount := &models.Discount{}
		if err := tx.First(discount, discountID).Error; err != nil {
			return err
		}
		if discount.UsageLimit > 0 && discount.UsageCount >= discount.UsageLimit {
			return ErrUsageExhausted
		}
		if err := tx.Model(discount).
			Update("usage_count", discount.UsageCount+1).Error; err != nil {
			return err
		}
		return tx.Create(&models.Redemption{
			ID:         uuid.NewString(),
			DiscountID: discountID,
			CustomerID: customerID,
			OrderRef:   orderRef,
			CreatedAt:  time.Now(),
		}).Error
	})
}
