package repository

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// InventoryRecordRepository define el puerto para el saldo agregado por producto.
type InventoryRecordRepository interface {
	// Get devuelve nil si el producto aún no tiene registro.
	Get(ctx context.Context, productID string) (*entity.InventoryRecord, error)
	// EnsureForUpdate crea el registro en cero si no existe y bloquea la fila (SELECT FOR UPDATE).
	EnsureForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error)
	Update(ctx context.Context, record *entity.InventoryRecord) error
}
