package services

import (
	"context"
	"testing"
	"time"

	"dispensary_admin/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Discount{},
		&models.Redemption{},
		&models.MenuProduct{},
		&models.MenuCategory{},
		&models.PendingChange{},
		&models.PublishLogEntry{},
		&models.MenuSnapshot{},
		&models.SubscriptionTier{},
	); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}

	return db
}

func activeWindow() (time.Time, *time.Time) {
	start := time.Now().Add(-time.Hour)
	end := time.Now().Add(24 * time.Hour)
	return start, &end
}

func TestCreateDiscountNormalizesCode(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:      "  welcome10 ",
		Kind:      models.Percentage,
		Value:     decimal.NewFromInt(10),
		StartDate: start,
		EndDate:   end,
	}

	err := service.CreateDiscount(context.Background(), discount)
	assert.NoError(t, err)
	assert.NotZero(t, discount.ID)
	assert.Equal(t, "WELCOME10", discount.Code)
	assert.Equal(t, models.StatusActive, discount.Status)
}

func TestCreateDiscountRejectsInvertedWindow(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	end := time.Now().Add(-time.Hour)
	discount := &models.Discount{
		Code:      "BAD",
		Kind:      models.Fixed,
		Value:     decimal.NewFromInt(5),
		StartDate: time.Now(),
		EndDate:   &end,
	}

	err := service.CreateDiscount(context.Background(), discount)
	assert.Error(t, err)
}

func TestValidateCodeCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:      "WELCOME10",
		Kind:      models.Percentage,
		Value:     decimal.NewFromInt(10),
		StartDate: start,
		EndDate:   end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))

	for _, code := range []string{"welcome10", "WELCOME10", "Welcome10"} {
		result, err := service.ValidateCode(context.Background(), code, decimal.NewFromInt(100))
		assert.NoError(t, err)
		assert.True(t, result.Valid, "code %q should match", code)
		assert.Equal(t, discount.ID, result.Discount.ID)
	}
}

func TestValidateCodeNotFound(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	result, err := service.ValidateCode(context.Background(), "NOPE", decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.CodeNotFound, result.Error)
}

func TestValidateCodeInactiveUniformly(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	// Disabled, scheduled, expired and usage-exhausted all report the
	// same rejection; the caller is not told which.
	discounts := []*models.Discount{
		{Code: "DISABLED", Kind: models.Fixed, Value: decimal.NewFromInt(5), StartDate: start, EndDate: end, Disabled: true},
		{Code: "SCHEDULED", Kind: models.Fixed, Value: decimal.NewFromInt(5), StartDate: future},
		{Code: "EXPIRED", Kind: models.Fixed, Value: decimal.NewFromInt(5), StartDate: start.Add(-time.Hour), EndDate: &past},
		{Code: "USEDUP", Kind: models.Fixed, Value: decimal.NewFromInt(5), StartDate: start, EndDate: end, UsageLimit: 3},
	}
	for _, d := range discounts {
		assert.NoError(t, service.CreateDiscount(context.Background(), d))
	}
	// CreateDiscount resets usage, so exhaust USEDUP through the store.
	assert.NoError(t, db.Model(&models.Discount{}).
		Where("code = ?", "USEDUP").Update("usage_count", 3).Error)

	for _, code := range []string{"DISABLED", "SCHEDULED", "EXPIRED", "USEDUP"} {
		result, err := service.ValidateCode(context.Background(), code, decimal.NewFromInt(500))
		assert.NoError(t, err)
		assert.False(t, result.Valid, "code %q", code)
		assert.Equal(t, models.CodeInactive, result.Error, "code %q", code)
	}
}

func TestValidateCodeBelowMinimum(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:           "BIGSPENDER",
		Kind:           models.Percentage,
		Value:          decimal.NewFromInt(15),
		MinOrderAmount: decimal.NewFromInt(100),
		StartDate:      start,
		EndDate:        end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))

	result, err := service.ValidateCode(context.Background(), "BIGSPENDER", decimal.NewFromInt(99))
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.CodeBelowMinimum, result.Error)

	result, err = service.ValidateCode(context.Background(), "BIGSPENDER", decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestValidateCodeFlower20(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:           "FLOWER20",
		Kind:           models.Fixed,
		Value:          decimal.NewFromInt(20),
		MinOrderAmount: decimal.NewFromInt(100),
		UsageLimit:     50,
		StartDate:      start,
		EndDate:        end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))
	assert.NoError(t, db.Model(&models.Discount{}).
		Where("code = ?", "FLOWER20").Update("usage_count", 12).Error)

	result, err := service.ValidateCode(context.Background(), "flower20", decimal.NewFromInt(150))
	assert.NoError(t, err)
	assert.True(t, result.Valid)
	assert.Equal(t, discount.ID, result.Discount.ID)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(20)), "got %s", result.Amount)

	result, err = service.ValidateCode(context.Background(), "FLOWER20", decimal.NewFromInt(80))
	assert.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, models.CodeBelowMinimum, result.Error)
}

func TestValidateCodeIsReadOnly(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:       "READONLY",
		Kind:       models.Fixed,
		Value:      decimal.NewFromInt(5),
		UsageLimit: 10,
		StartDate:  start,
		EndDate:    end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))

	for i := 0; i < 5; i++ {
		_, err := service.ValidateCode(context.Background(), "READONLY", decimal.NewFromInt(50))
		assert.NoError(t, err)
	}

	stored, err := service.GetDiscount(context.Background(), discount.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, stored.UsageCount)
}

func TestRedeemIncrementsAndStopsAtLimit(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:       "TWICE",
		Kind:       models.Fixed,
		Value:      decimal.NewFromInt(5),
		UsageLimit: 2,
		StartDate:  start,
		EndDate:    end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))

	assert.NoError(t, service.Redeem(context.Background(), discount.ID, "cust-1", "order-1"))
	assert.NoError(t, service.Redeem(context.Background(), discount.ID, "cust-2", "order-2"))

	err := service.Redeem(context.Background(), discount.ID, "cust-3", "order-3")
	assert.ErrorIs(t, err, ErrUsageExhausted)

	stored, err := service.GetDiscount(context.Background(), discount.ID)
	assert.NoError(t, err)
	assert.Equal(t, 2, stored.UsageCount)
	assert.Equal(t, models.StatusExpired, stored.Status)

	var redemptions int64
	db.Model(&models.Redemption{}).Where("discount_id = ?", discount.ID).Count(&redemptions)
	assert.Equal(t, int64(2), redemptions)
}

func TestSetDisabledOverride(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:      "TOGGLE",
		Kind:      models.Percentage,
		Value:     decimal.NewFromInt(10),
		StartDate: start,
		EndDate:   end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))

	assert.NoError(t, service.SetDisabled(context.Background(), discount.ID, true))
	stored, err := service.GetDiscount(context.Background(), discount.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusDisabled, stored.Status)

	result, err := service.ValidateCode(context.Background(), "TOGGLE", decimal.NewFromInt(100))
	assert.NoError(t, err)
	assert.Equal(t, models.CodeInactive, result.Error)

	assert.NoError(t, service.SetDisabled(context.Background(), discount.ID, false))
	stored, err = service.GetDiscount(context.Background(), discount.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status)
}

func TestUpdateDiscountRederivesStatus(t *testing.T) {
	db := setupTestDB(t)
	service := NewDiscountService(db)

	start, end := activeWindow()
	discount := &models.Discount{
		Code:      "SHIFTY",
		Kind:      models.Fixed,
		Value:     decimal.NewFromInt(5),
		StartDate: start,
		EndDate:   end,
	}
	assert.NoError(t, service.CreateDiscount(context.Background(), discount))
	assert.Equal(t, models.StatusActive, discount.Status)

	// Push the window into the future; the returned record must reflect
	// the re-derived status, never a stale one.
	edit := *discount
	edit.StartDate = time.Now().Add(time.Hour)
	edit.EndDate = nil
	assert.NoError(t, service.UpdateDiscount(context.Background(), discount.ID, &edit))
	assert.Equal(t, models.StatusScheduled, edit.Status)
}
