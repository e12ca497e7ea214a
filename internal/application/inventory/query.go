package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockView saldo de un producto y sus lotes abiertos (FIFO ascendente).
type StockView struct {
	Record      entity.InventoryRecord
	OpenBatches []*entity.PurchaseBatch
}

// StockQueryUseCase lecturas de saldo y kardex.
type StockQueryUseCase struct {
	txRunner TxRunner
}

// NewStockQueryUseCase construye el caso de uso.
func NewStockQueryUseCase(txRunner TxRunner) *StockQueryUseCase {
	return &StockQueryUseCase{txRunner: txRunner}
}

// GetStock devuelve el saldo (en cero si el producto nunca tuvo movimientos) y sus lotes abiertos.
func (uc *StockQueryUseCase) GetStock(ctx context.Context, productID string) (*StockView, error) {
	var view *StockView
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		if err := ensureProduct(ctx, store, productID); err != nil {
			return err
		}
		record, err := store.Inventory().Get(ctx, productID)
		if err != nil {
			return fmt.Errorf("get inventory record: %w", err)
		}
		if record == nil {
			record = &entity.InventoryRecord{ProductID: productID, Quantity: decimal.Zero, AverageCost: decimal.Zero}
		}
		batches, err := store.Batches().ListOpen(ctx, productID)
		if err != nil {
			return fmt.Errorf("list open batches: %w", err)
		}
		view = &StockView{Record: *record, OpenBatches: batches}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// ListMovements página del kardex del producto, más reciente primero.
func (uc *StockQueryUseCase) ListMovements(ctx context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	var list []*entity.InventoryMovement
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		list, err = store.Movements().ListByProduct(ctx, productID, limit, offset)
		return err
	})
	return list, err
}
