package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas (cabecera + líneas).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta con sus líneas; nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	MarkCancelled(ctx context.Context, id, actorID string, at time.Time) error
}

// TransferRepository define el puerto de persistencia para traslados entre bodegas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.StockTransfer) error
	GetByID(ctx context.Context, id string) (*entity.StockTransfer, error)
	MarkCancelled(ctx context.Context, id, actorID string, at time.Time) error
}
