package services

import (
	"context"
	"time"

	"dispensary_admin/models"

	"gorm.io/gorm"
)

// TierService manages the Chef's Choice subscription tiers.
type TierService struct {
	db *gorm.DB
}

func NewTierService(db *gorm.DB) *TierService {
	return &TierService{db: db}
}

func (s *TierService) CreateTier(ctx context.Context, tier *models.SubscriptionTier) error {
	tier.CreatedAt = time.Now()
	tier.UpdatedAt = time.Now()
	return s.db.WithContext(ctx).Create(tier).Error
}

func (s *TierService) UpdateTier(ctx context.Context, id int64, tier *models.SubscriptionTier) error {
	existing := &models.SubscriptionTier{}
	if err := s.db.WithContext(ctx).First(existing, id).Error; err != nil {
		return err
	}
	existing.Name = tier.Name
	existing.Price = tier.Price
	existing.ItemsPerBox = tier.ItemsPerBox
	existing.Description = tier.Description
	existing.Active = tier.Active
	existing.DisplayOrder = tier.DisplayOrder
	existing.UpdatedAt = time.Now()
	if err := s.db.WithContext(ctx).Save(existing).Error; err != nil {
		return err
	}
	*tier = *existing
	return nil
}

func (s *TierService) DeleteTier(ctx context.Context, id int64) error {
	return s.db.WithContext(ctx).Delete(&models.SubscriptionTier{}, id).Error
}

func (s *TierService) ListTiers(ctx context.Context) ([]models.SubscriptionTier, error) {
	var tiers []models.SubscriptionTier
	err := s.db.WithContext(ctx).Order("display_order").Find(&tiers).Error
	return tiers, err
}

// ActiveTiers is the storefront-facing listing.
func (s *TierService) ActiveTiers(ctx context.Context) ([]models.SubscriptionTier, error) {
	var tiers []models.SubscriptionTier
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("display_order").Find(&tiers).Error
	return tiers, err
}
