package pricing_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/application/pricing"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTablaCrear_RechazaTramosMalFormados(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		tier  entity.BracketTier
		field string
	}{
		{"max igual a min", tier("10", dp("10"), "5", entity.PriceTierRegular), "tiers[0].max_quantity"},
		{"max menor a min", tier("10", dp("3"), "5", entity.PriceTierRegular), "tiers[0].max_quantity"},
		{"precio negativo", tier("1", nil, "-0.01", entity.PriceTierRegular), "tiers[0].price"},
		{"categoría desconocida", tier("1", nil, "5", "vip"), "tiers[0].price_tier"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.brackets.Create(ctx, pricing.BracketInput{ProductID: p, Name: "x", Tiers: []entity.BracketTier{tc.tier}})
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve), "err %v", err)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	list, err := f.brackets.List(ctx, p)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = f.brackets.Create(ctx, pricing.BracketInput{ProductID: "no-existe", Name: "x", Tiers: []entity.BracketTier{tier("1", nil, "5", entity.PriceTierRegular)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTablaActivar_SeleccionaSoloUna(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t)
	ctx := context.Background()

	first := f.activeBracket(t, p, tier("1", nil, "10", entity.PriceTierRegular))
	second, err := f.brackets.Create(ctx, pricing.BracketInput{ProductID: p, Name: "Promo", Tiers: []entity.BracketTier{tier("1", nil, "8", entity.PriceTierRegular)}})
	require.NoError(t, err)
	assert.False(t, second.Selected)

	_, err = f.brackets.Activate(ctx, second.ID, "admin")
	require.NoError(t, err)

	list, err := f.brackets.List(ctx, p)
	require.NoError(t, err)
	selected := 0
	for _, b := range list {
		if b.Selected {
			selected++
			assert.Equal(t, second.ID, b.ID)
		}
		if b.ID == first.ID {
			assert.False(t, b.Selected)
		}
	}
	assert.Equal(t, 1, selected)
	assert.True(t, f.product(t, p).UseBracketPricing)
	assert.True(t, f.resolve(t, p, "1", entity.PriceTierRegular, "").Price.Equal(d("8")))

	_, err = f.brackets.Activate(ctx, "no-existe", "admin")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTablaDesactivar_LimpiaSeleccionYBandera(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t)
	b := f.activeBracket(t, p, tier("1", nil, "10", entity.PriceTierRegular))

	require.NoError(t, f.brackets.DeactivateBracketPricing(context.Background(), p, "admin"))

	got, err := f.brackets.Get(context.Background(), b.ID)
	require.NoError(t, err)
	assert.False(t, got.Selected)
	assert.False(t, f.product(t, p).UseBracketPricing)
	assert.Equal(t, pricing.PriceSourceNone, f.resolve(t, p, "1", entity.PriceTierRegular, "").Source)
}

func TestTablaClonarYActualizar(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t)
	ctx := context.Background()
	src := f.activeBracket(t, p, tier("1", dp("9"), "10", entity.PriceTierRegular), tier("10", nil, "9", entity.PriceTierRegular))

	clone, err := f.brackets.Clone(ctx, src.ID, "", "admin")
	require.NoError(t, err)
	assert.NotEqual(t, src.ID, clone.ID)
	assert.Equal(t, "Lista (copia)", clone.Name)
	assert.False(t, clone.Selected)
	require.Len(t, clone.Tiers, 2)
	for i := range clone.Tiers {
		assert.NotEqual(t, src.Tiers[i].ID, clone.Tiers[i].ID)
		assert.Equal(t, clone.ID, clone.Tiers[i].BracketID)
		assert.True(t, clone.Tiers[i].Price.Equal(src.Tiers[i].Price))
	}

	in := pricing.BracketInputFromUpdate("admin2", dto.UpdateBracketRequest{
		Name:  "Lista 2025",
		Tiers: []dto.BracketTierRequest{{MinQuantity: d("1"), Price: d("7.25"), PriceTier: entity.PriceTierRegular}},
	})
	updated, err := f.brackets.Update(ctx, src.ID, in)
	require.NoError(t, err)
	assert.True(t, updated.Selected)
	require.Len(t, updated.Tiers, 1)
	assert.True(t, updated.Tiers[0].Active)
	assert.Equal(t, "admin2", updated.UpdatedBy)
	assert.True(t, f.resolve(t, p, "50", entity.PriceTierRegular, "").Price.Equal(d("7.25")))

	_, err = f.brackets.Update(ctx, src.ID, pricing.BracketInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrecioEspecialCrear_DesactivaTraslapados(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t)
	c := f.seedCustomer(t, true)
	ctx := context.Background()

	low, _, err := f.overrides.Create(ctx, pricing.OverrideInput{CustomerID: c, ProductID: p, MinQuantity: d("1"), MaxQuantity: dp("10"), Price: d("8")})
	require.NoError(t, err)
	high, _, err := f.overrides.Create(ctx, pricing.OverrideInput{CustomerID: c, ProductID: p, MinQuantity: d("11"), Price: d("7")})
	require.NoError(t, err)

	mid, deactivated, err := f.overrides.Create(ctx, pricing.OverrideInput{CustomerID: c, ProductID: p, MinQuantity: d("10"), MaxQuantity: dp("11"), Price: d("7.5")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{low.ID, high.ID}, deactivated)

	list, err := f.overrides.ListByCustomer(ctx, c)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for _, o := range list {
		assert.Equal(t, o.ID == mid.ID, o.Active, "override %s", o.ID)
	}

	require.NoError(t, f.overrides.Deactivate(ctx, mid.ID))
	assert.Equal(t, pricing.PriceSourceNone, f.resolve(t, p, "10", entity.PriceTierRegular, c).Source)
	assert.ErrorIs(t, f.overrides.Deactivate(ctx, "no-existe"), domain.ErrNotFound)
}

func TestPrecioEspecialCrear_Validaciones(t *testing.T) {
	f := newFixture(t, true)
	p := f.seedProduct(t)
	c := f.seedCustomer(t, true)
	ctx := context.Background()

	_, _, err := f.overrides.Create(ctx, pricing.OverrideInput{CustomerID: c, ProductID: p, MinQuantity: d("5"), MaxQuantity: dp("5"), Price: d("1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = f.overrides.Create(ctx, pricing.OverrideInput{CustomerID: c, ProductID: p, MinQuantity: d("1"), Price: d("-1")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, _, err = f.overrides.Create(ctx, pricing.OverrideInput{CustomerID: "nadie", ProductID: p, MinQuantity: d("1"), Price: d("1")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
