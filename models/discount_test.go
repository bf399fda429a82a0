package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDeriveManualDisableWins(t *testing.T) {
	now := time.Now()
	past := now.Add(-48 * time.Hour)
	future := now.Add(48 * time.Hour)

	// Disabled wins no matter what the dates or usage say.
	cases := []Discount{
		{Disabled: true, StartDate: past, EndDate: &future},
		{Disabled: true, StartDate: future},                // not yet started
		{Disabled: true, StartDate: past, EndDate: &past},  // already lapsed
		{Disabled: true, StartDate: past, UsageLimit: 5, UsageCount: 5},
	}
	for _, d := range cases {
		assert.Equal(t, StatusDisabled, d.Derive(now))
	}
}

func TestDeriveEndDateBeatsRemainingUsage(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	d := Discount{
		StartDate:  now.Add(-48 * time.Hour),
		EndDate:    &past,
		UsageLimit: 100,
		UsageCount: 3,
	}
	assert.Equal(t, StatusExpired, d.Derive(now))
}

func TestDeriveScheduledBeforeStart(t *testing.T) {
	now := time.Now()
	d := Discount{StartDate: now.Add(time.Hour)}
	assert.Equal(t, StatusScheduled, d.Derive(now))
}

func TestDeriveUsageLimitExhaustion(t *testing.T) {
	now := time.Now()
	d := Discount{StartDate: now.Add(-time.Hour), UsageLimit: 50, UsageCount: 50}
	assert.Equal(t, StatusExpired, d.Derive(now))

	d.UsageCount = 49
	assert.Equal(t, StatusActive, d.Derive(now))

	d.UsageLimit = 0 // unlimited
	d.UsageCount = 10000
	assert.Equal(t, StatusActive, d.Derive(now))
}

func TestPercentageAmountCapped(t *testing.T) {
	d := Discount{
		Kind:        Percentage,
		Value:       decimal.NewFromInt(25),
		MaxDiscount: decimal.NewFromInt(50),
	}
	amount := d.Amount(decimal.NewFromInt(1000))
	assert.True(t, amount.Equal(decimal.NewFromInt(50)), "got %s", amount)

	d.MaxDiscount = decimal.Zero // uncapped
	amount = d.Amount(decimal.NewFromInt(1000))
	assert.True(t, amount.Equal(decimal.NewFromInt(250)), "got %s", amount)
}

func TestFixedAmountNeverExceedsTotal(t *testing.T) {
	d := Discount{Kind: Fixed, Value: decimal.NewFromInt(20)}
	amount := d.Amount(decimal.NewFromFloat(15.00))
	assert.True(t, amount.Equal(decimal.NewFromFloat(15.00)), "got %s", amount)

	amount = d.Amount(decimal.NewFromInt(150))
	assert.True(t, amount.Equal(decimal.NewFromInt(20)), "got %s", amount)
}
