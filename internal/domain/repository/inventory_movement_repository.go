package repository

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// InventoryMovementRepository define el puerto de persistencia para el kardex.
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error)
}
