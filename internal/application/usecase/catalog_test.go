package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/application/usecase"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductUseCase_CrearYConsultar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.New())

	out, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)
	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "UND", out.UnitMeasure, "unidad por defecto")
	assert.False(t, out.UseBracketPricing)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "TOR-001", got.SKU)

	missing, err := uc.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductUseCase_SKUDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.New())

	_, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestProductUseCase_Precios(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.New())
	p, err := uc.Create(ctx, dto.CreateProductRequest{SKU: "TOR-001", Name: "Tornillo"})
	require.NoError(t, err)

	older := time.Now().Add(-48 * time.Hour)
	_, err = uc.AddPrice(ctx, p.ID, dto.CreateProductPriceRequest{
		RegularPrice: decimal.NewFromInt(10), WholesalePrice: decimal.NewFromInt(8), WalkInPrice: decimal.NewFromInt(12),
		EffectiveFrom: &older,
	})
	require.NoError(t, err)
	latest, err := uc.AddPrice(ctx, p.ID, dto.CreateProductPriceRequest{
		RegularPrice: decimal.NewFromInt(11), WholesalePrice: decimal.NewFromInt(9), WalkInPrice: decimal.NewFromInt(13),
	})
	require.NoError(t, err)

	list, err := uc.ListPrices(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, latest.ID, list[0].ID, "el más reciente primero")

	_, err = uc.AddPrice(ctx, p.ID, dto.CreateProductPriceRequest{RegularPrice: decimal.NewFromInt(-1)})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "regular_price", verr.Field)

	_, err = uc.AddPrice(ctx, "no-existe", dto.CreateProductPriceRequest{RegularPrice: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerUseCase_CrearYConsultar(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewCustomerUseCase(memory.New())

	out, err := uc.Create(ctx, dto.CreateCustomerRequest{Name: "Ferretería Central", TaxID: "900123456", IsValued: true})
	require.NoError(t, err)
	assert.True(t, out.IsValued)

	got, err := uc.GetByID(ctx, out.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "900123456", got.TaxID)

	missing, err := uc.GetByID(ctx, "no-existe")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
