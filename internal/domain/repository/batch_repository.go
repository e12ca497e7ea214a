package repository

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes de compra (PurchaseBatch).
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.PurchaseBatch) error
	// ListOpenForUpdate lotes con consumed < received, por fecha de recepción ascendente, bloqueados.
	ListOpenForUpdate(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error)
	// ListConsumedForUpdate lotes con consumed > 0, por fecha de recepción descendente, bloqueados.
	ListConsumedForUpdate(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error)
	// GetLatest último lote recibido del producto (consumido o no). nil si no hay.
	GetLatest(ctx context.Context, productID string) (*entity.PurchaseBatch, error)
	UpdateConsumption(ctx context.Context, batch *entity.PurchaseBatch) error
	ListOpen(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error)
}
