package pricing_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/pricing"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func TestRangeContains_Limites(t *testing.T) {
	assert.True(t, pricing.RangeContains(d("10"), dp("20"), d("10")))
	assert.True(t, pricing.RangeContains(d("10"), dp("20"), d("20")))
	assert.False(t, pricing.RangeContains(d("10"), dp("20"), d("9")))
	assert.False(t, pricing.RangeContains(d("10"), dp("20"), d("21")))

	assert.True(t, pricing.RangeContains(d("10"), nil, d("10")))
	assert.True(t, pricing.RangeContains(d("10"), nil, d("1000000")))
	assert.False(t, pricing.RangeContains(d("10"), nil, d("9.99")))
}

func TestRangesOverlap(t *testing.T) {
	assert.True(t, pricing.RangesOverlap(d("1"), dp("10"), d("10"), dp("20")))
	assert.False(t, pricing.RangesOverlap(d("1"), dp("9"), d("10"), dp("20")))
	assert.True(t, pricing.RangesOverlap(d("1"), nil, d("500"), dp("600")))
	assert.False(t, pricing.RangesOverlap(d("50"), nil, d("1"), dp("49")))
}

func TestLowestTierPrice_GanaElMasBarato(t *testing.T) {
	tiers := []entity.BracketTier{
		{ID: "std", MinQuantity: d("1"), MaxQuantity: dp("50"), Price: d("10.00"), PriceTier: entity.PriceTierRegular, Active: true},
		{ID: "promo", MinQuantity: d("1"), MaxQuantity: dp("50"), Price: d("9.50"), PriceTier: entity.PriceTierRegular, Active: true},
		{ID: "inactivo", MinQuantity: d("1"), MaxQuantity: dp("50"), Price: d("1.00"), PriceTier: entity.PriceTierRegular, Active: false},
		{ID: "mayorista", MinQuantity: d("1"), MaxQuantity: dp("50"), Price: d("5.00"), PriceTier: entity.PriceTierWholesale, Active: true},
	}

	got, ok := pricing.LowestTierPrice(tiers, entity.PriceTierRegular, d("10"))
	require.True(t, ok)
	assert.Equal(t, "promo", got.ID)
	assert.True(t, got.Price.Equal(d("9.50")))

	_, ok = pricing.LowestTierPrice(tiers, entity.PriceTierWalkIn, d("10"))
	assert.False(t, ok)

	_, ok = pricing.LowestTierPrice(tiers, entity.PriceTierRegular, d("51"))
	assert.False(t, ok)
}

func TestPickOverride_MasRecienteGana(t *testing.T) {
	overrides := []entity.CustomerPriceOverride{
		{ID: "viejo", MinQuantity: d("1"), Price: d("8.00"), Active: true, EffectiveFrom: now.AddDate(0, -1, 0), CreatedAt: now.AddDate(0, -1, 0)},
		{ID: "nuevo", MinQuantity: d("1"), MaxQuantity: dp("10"), Price: d("7.50"), Active: true, EffectiveFrom: now.AddDate(0, 0, -1), CreatedAt: now.AddDate(0, 0, -1)},
		{ID: "futuro", MinQuantity: d("1"), Price: d("1.00"), Active: true, EffectiveFrom: now.AddDate(0, 0, 1), CreatedAt: now},
		{ID: "inactivo", MinQuantity: d("1"), Price: d("1.00"), Active: false, EffectiveFrom: now.AddDate(-1, 0, 0), CreatedAt: now},
	}

	got, ok := pricing.PickOverride(overrides, d("5"), now)
	require.True(t, ok)
	assert.Equal(t, "nuevo", got.ID)

	got, ok = pricing.PickOverride(overrides, d("11"), now)
	require.True(t, ok)
	assert.Equal(t, "viejo", got.ID)

	expired := now.AddDate(0, 0, -2)
	_, ok = pricing.PickOverride([]entity.CustomerPriceOverride{
		{ID: "vencido", MinQuantity: d("1"), Price: d("1"), Active: true, EffectiveFrom: now.AddDate(0, -1, 0), EffectiveTo: &expired},
	}, d("5"), now)
	assert.False(t, ok)
}

func TestPickFlatPrice_VigenteMasReciente(t *testing.T) {
	ended := now.AddDate(0, 0, -10)
	prices := []entity.ProductPrice{
		{ID: "p-2025", RegularPrice: d("12"), EffectiveFrom: now.AddDate(-1, 0, 0)},
		{ID: "p-2026", RegularPrice: d("13"), EffectiveFrom: now.AddDate(0, -1, 0)},
		{ID: "cerrado", RegularPrice: d("99"), EffectiveFrom: now.AddDate(0, 0, -20), EffectiveTo: &ended},
		{ID: "futuro", RegularPrice: d("15"), EffectiveFrom: now.AddDate(0, 1, 0)},
	}

	got, ok := pricing.PickFlatPrice(prices, now)
	require.True(t, ok)
	assert.Equal(t, "p-2026", got.ID)

	_, ok = pricing.PickFlatPrice(nil, now)
	assert.False(t, ok)
}

func TestValidateTiers(t *testing.T) {
	valid := entity.BracketTier{MinQuantity: d("1"), MaxQuantity: dp("10"), Price: d("5"), PriceTier: entity.PriceTierRegular}
	require.NoError(t, pricing.ValidateTiers([]entity.BracketTier{valid}))

	cases := map[string]entity.BracketTier{
		"tiers[0].max_quantity": {MinQuantity: d("10"), MaxQuantity: dp("10"), Price: d("5"), PriceTier: entity.PriceTierRegular},
		"tiers[0].price":        {MinQuantity: d("1"), Price: d("-0.01"), PriceTier: entity.PriceTierRegular},
		"tiers[0].price_tier":   {MinQuantity: d("1"), Price: d("5"), PriceTier: "vip"},
		"tiers[0].min_quantity": {MinQuantity: d("-1"), Price: d("5"), PriceTier: entity.PriceTierWalkIn},
	}
	for field, tier := range cases {
		err := pricing.ValidateTiers([]entity.BracketTier{tier})
		require.ErrorIs(t, err, domain.ErrInvalidInput, field)
		var vErr *domain.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, field, vErr.Field)
	}

	assert.ErrorIs(t, pricing.ValidateTiers(nil), domain.ErrInvalidInput)
}

func TestValidateOverride(t *testing.T) {
	o := entity.CustomerPriceOverride{CustomerID: "c1", ProductID: "p1", MinQuantity: d("1"), Price: d("8"), EffectiveFrom: now}
	require.NoError(t, pricing.ValidateOverride(o))

	bad := o
	bad.MaxQuantity = dp("0.5")
	assert.ErrorIs(t, pricing.ValidateOverride(bad), domain.ErrInvalidInput)

	before := now.AddDate(0, 0, -1)
	bad = o
	bad.EffectiveTo = &before
	assert.ErrorIs(t, pricing.ValidateOverride(bad), domain.ErrInvalidInput)
}
