package repository

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	SetUseBracketPricing(ctx context.Context, productID string, enabled bool) error
}

// ProductPriceRepository define el puerto para los precios planos por vigencia.
type ProductPriceRepository interface {
	Create(ctx context.Context, price *entity.ProductPrice) error
	ListByProduct(ctx context.Context, productID string) ([]entity.ProductPrice, error)
}
