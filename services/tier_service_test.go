package services

import (
	"context"
	"testing"

	"dispensary_admin/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTierCRUDAndOrdering(t *testing.T) {
	db := setupTestDB(t)
	service := NewTierService(db)

	tiers := []*models.SubscriptionTier{
		{Name: "Connoisseur", Price: decimal.NewFromInt(149), ItemsPerBox: 6, Active: true, DisplayOrder: 3},
		{Name: "Starter", Price: decimal.NewFromInt(49), ItemsPerBox: 2, Active: true, DisplayOrder: 1},
		{Name: "Classic", Price: decimal.NewFromInt(89), ItemsPerBox: 4, Active: false, DisplayOrder: 2},
	}
	for _, tier := range tiers {
		assert.NoError(t, service.CreateTier(context.Background(), tier))
	}

	listed, err := service.ListTiers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, listed, 3)
	assert.Equal(t, "Starter", listed[0].Name)
	assert.Equal(t, "Classic", listed[1].Name)
	assert.Equal(t, "Connoisseur", listed[2].Name)

	active, err := service.ActiveTiers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, active, 2)
	assert.Equal(t, "Starter", active[0].Name)

	edit := *tiers[2]
	edit.Active = true
	assert.NoError(t, service.UpdateTier(context.Background(), tiers[2].ID, &edit))
	active, err = service.ActiveTiers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, active, 3)

	assert.NoError(t, service.DeleteTier(context.Background(), tiers[0].ID))
	listed, err = service.ListTiers(context.Background())
	assert.NoError(t, err)
	assert.Len(t, listed, 2)
}
