package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// ProductUseCase alta de productos y de sus precios planos. Costo y saldo se manejan vía lotes.
type ProductUseCase struct {
	txRunner inventory.TxRunner
	now      func() time.Time
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(txRunner inventory.TxRunner) *ProductUseCase {
	return &ProductUseCase{txRunner: txRunner, now: time.Now}
}

// Create crea un nuevo producto sin tabla de tramos activa.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if in.UnitMeasure == "" {
		in.UnitMeasure = "UND"
	}
	now := uc.now()
	product := &entity.Product{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		UnitMeasure: in.UnitMeasure,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		return store.Products().Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		product, err = store.Products().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// AddPrice registra un precio plano vigente desde EffectiveFrom (ahora si se omite).
func (uc *ProductUseCase) AddPrice(ctx context.Context, productID string, in dto.CreateProductPriceRequest) (*dto.ProductPriceResponse, error) {
	for field, v := range map[string]decimal.Decimal{
		"regular_price":   in.RegularPrice,
		"wholesale_price": in.WholesalePrice,
		"walk_in_price":   in.WalkInPrice,
	} {
		if v.IsNegative() {
			return nil, domain.NewValidationError(field, "no puede ser negativo")
		}
	}
	now := uc.now()
	from := now
	if in.EffectiveFrom != nil {
		from = *in.EffectiveFrom
	}
	if in.EffectiveTo != nil && in.EffectiveTo.Before(from) {
		return nil, domain.NewValidationError("effective_to", "debe ser posterior a effective_from")
	}
	price := &entity.ProductPrice{
		ID:             uuid.New().String(),
		ProductID:      productID,
		RegularPrice:   in.RegularPrice,
		WholesalePrice: in.WholesalePrice,
		WalkInPrice:    in.WalkInPrice,
		EffectiveFrom:  from,
		EffectiveTo:    in.EffectiveTo,
		CreatedAt:      now,
	}
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		p, err := store.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		return store.ProductPrices().Create(ctx, price)
	})
	if err != nil {
		return nil, err
	}
	return toProductPriceResponse(price), nil
}

// ListPrices historial de precios planos del producto, el más reciente primero.
func (uc *ProductUseCase) ListPrices(ctx context.Context, productID string) ([]dto.ProductPriceResponse, error) {
	var list []entity.ProductPrice
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		p, err := store.Products().GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrNotFound
		}
		list, err = store.ProductPrices().ListByProduct(ctx, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductPriceResponse, 0, len(list))
	for i := range list {
		out = append(out, *toProductPriceResponse(&list[i]))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		SKU:               p.SKU,
		Name:              p.Name,
		UnitMeasure:       p.UnitMeasure,
		UseBracketPricing: p.UseBracketPricing,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toProductPriceResponse(p *entity.ProductPrice) *dto.ProductPriceResponse {
	return &dto.ProductPriceResponse{
		ID:             p.ID,
		ProductID:      p.ProductID,
		RegularPrice:   p.RegularPrice,
		WholesalePrice: p.WholesalePrice,
		WalkInPrice:    p.WalkInPrice,
		EffectiveFrom:  p.EffectiveFrom,
		EffectiveTo:    p.EffectiveTo,
	}
}
