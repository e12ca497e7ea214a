package repository

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// BracketRepository define el puerto para tablas de precios por cantidad y sus tramos.
type BracketRepository interface {
	// Create inserta la cabecera y todos sus tramos.
	Create(ctx context.Context, bracket *entity.PriceBracket) error
	// Update actualiza la cabecera y reemplaza los tramos.
	Update(ctx context.Context, bracket *entity.PriceBracket) error
	GetByID(ctx context.Context, id string) (*entity.PriceBracket, error)
	// GetSelected tabla seleccionada del producto con sus tramos; nil si ninguna.
	GetSelected(ctx context.Context, productID string) (*entity.PriceBracket, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.PriceBracket, error)
	DeselectAllForProduct(ctx context.Context, productID, actorID string) error
	Select(ctx context.Context, bracketID, actorID string) error
}

// CustomerPriceOverrideRepository define el puerto para precios especiales por cliente.
type CustomerPriceOverrideRepository interface {
	Create(ctx context.Context, override *entity.CustomerPriceOverride) error
	GetByID(ctx context.Context, id string) (*entity.CustomerPriceOverride, error)
	ListActive(ctx context.Context, customerID, productID string) ([]entity.CustomerPriceOverride, error)
	ListByCustomer(ctx context.Context, customerID string) ([]entity.CustomerPriceOverride, error)
	Deactivate(ctx context.Context, id string) error
}
