package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// TransferUseCase traslados de mercancía a otra bodega, costeados con FIFO y reversibles.
type TransferUseCase struct {
	txRunner  TxRunner
	allocator *BatchCostAllocator
	log       *logger.Logger
	now       func() time.Time
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(txRunner TxRunner, allocator *BatchCostAllocator, log *logger.Logger) *TransferUseCase {
	return &TransferUseCase{txRunner: txRunner, allocator: allocator, log: logger.OrNop(log), now: time.Now}
}

// TransferInput datos de un traslado.
type TransferInput struct {
	ProductID     string
	Quantity      decimal.Decimal
	FromWarehouse string
	ToWarehouse   string
	ActorID       string
}

// Transfer asigna costo FIFO a la cantidad trasladada, descuenta el saldo y registra TRANSFER_OUT.
func (uc *TransferUseCase) Transfer(ctx context.Context, input TransferInput) (*entity.StockTransfer, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if input.FromWarehouse == "" || input.ToWarehouse == "" {
		return nil, domain.NewValidationError("warehouse", "origen y destino son obligatorios")
	}
	if input.FromWarehouse == input.ToWarehouse {
		return nil, domain.NewValidationError("to_warehouse", "debe ser distinta de la bodega origen")
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}

	now := uc.now()
	var transfer *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		if err := ensureProduct(ctx, store, input.ProductID); err != nil {
			return err
		}
		alloc, err := uc.allocator.Allocate(ctx, store, input.ProductID, input.Quantity)
		if err != nil {
			return err
		}
		transfer = &entity.StockTransfer{
			ID:            uuid.New().String(),
			ProductID:     input.ProductID,
			FromWarehouse: input.FromWarehouse,
			ToWarehouse:   input.ToWarehouse,
			Quantity:      input.Quantity,
			UnitCost:      alloc.UnitCost,
			TotalCost:     alloc.TotalCost,
			Degraded:      alloc.Degraded(),
			Status:        entity.TransferStatusCompleted,
			CreatedBy:     input.ActorID,
			CreatedAt:     now,
		}
		if err := store.Transfers().Create(ctx, transfer); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}
		return store.Movements().Create(ctx, &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: transfer.ID,
			ProductID:     input.ProductID,
			Type:          entity.MovementTypeTRANSFEROUT,
			Quantity:      input.Quantity.Neg(),
			UnitCost:      alloc.UnitCost,
			TotalCost:     alloc.TotalCost.Neg(),
			Degraded:      alloc.Degraded(),
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     input.ActorID,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", transfer.ID).
		Str("product_id", transfer.ProductID).
		Str("from", transfer.FromWarehouse).
		Str("to", transfer.ToWarehouse).
		Msg("traslado registrado")
	return transfer, nil
}

// Cancel revierte la asignación del traslado y lo marca cancelado. Cancelar dos veces es ErrConflict.
func (uc *TransferUseCase) Cancel(ctx context.Context, transferID, actorID string) (*entity.StockTransfer, error) {
	if transferID == "" {
		return nil, domain.NewValidationError("id", "es obligatorio")
	}
	now := uc.now()
	var transfer *entity.StockTransfer
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		t, err := store.Transfers().GetByID(ctx, transferID)
		if err != nil {
			return fmt.Errorf("get transfer: %w", err)
		}
		if t == nil {
			return fmt.Errorf("%w: traslado %s", domain.ErrNotFound, transferID)
		}
		if t.Status == entity.TransferStatusCancelled {
			return fmt.Errorf("%w: el traslado ya fue cancelado", domain.ErrConflict)
		}
		if _, err := uc.allocator.Reverse(ctx, store, t.ProductID, t.Quantity); err != nil {
			return err
		}
		if err := store.Transfers().MarkCancelled(ctx, t.ID, actorID, now); err != nil {
			return fmt.Errorf("cancel transfer: %w", err)
		}
		t.Status = entity.TransferStatusCancelled
		t.CancelledBy = actorID
		t.CancelledAt = &now
		transfer = t
		return store.Movements().Create(ctx, &entity.InventoryMovement{
			ID:            uuid.New().String(),
			TransactionID: t.ID,
			ProductID:     t.ProductID,
			Type:          entity.MovementTypeTRANSFERCANCEL,
			Quantity:      t.Quantity,
			UnitCost:      t.UnitCost,
			TotalCost:     t.TotalCost,
			Date:          now,
			CreatedAt:     now,
			CreatedBy:     actorID,
		})
	})
	if err != nil {
		return nil, err
	}
	return transfer, nil
}
