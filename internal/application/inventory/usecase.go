package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/inventory"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// RegisterMovementUseCase registra entradas y ajustes de inventario de forma transaccional,
// con bloqueo de fila del saldo (SELECT FOR UPDATE) y Commit/Rollback.
type RegisterMovementUseCase struct {
	txRunner  TxRunner
	allocator *BatchCostAllocator
	log       *logger.Logger
	now       func() time.Time
}

// NewRegisterMovementUseCase construye el caso de uso.
func NewRegisterMovementUseCase(txRunner TxRunner, allocator *BatchCostAllocator, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{
		txRunner:  txRunner,
		allocator: allocator,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// ReceiveInput entrada de mercancía. ReceivedAt nil = ahora.
type ReceiveInput struct {
	ProductID  string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal
	ReceivedAt *time.Time
	Reference  string
	ActorID    string
}

// ReceiveResult lote creado y saldo resultante.
type ReceiveResult struct {
	Batch  entity.PurchaseBatch
	Record entity.InventoryRecord
}

// Receive crea un lote, suma la cantidad al saldo y recalcula el costo promedio ponderado.
func (uc *RegisterMovementUseCase) Receive(ctx context.Context, input ReceiveInput) (*ReceiveResult, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if !input.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if input.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}

	now := uc.now()
	receivedAt := now
	if input.ReceivedAt != nil && !input.ReceivedAt.IsZero() {
		receivedAt = *input.ReceivedAt
	}

	var result *ReceiveResult
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		if err := ensureProduct(ctx, store, input.ProductID); err != nil {
			return err
		}
		batch, record, err := receiveInTx(ctx, store, stockEntry{
			productID:  input.ProductID,
			quantity:   input.Quantity,
			unitCost:   input.UnitCost,
			receivedAt: receivedAt,
			reference:  input.Reference,
			actorID:    input.ActorID,
			movType:    entity.MovementTypeRECEIPT,
		}, now)
		if err != nil {
			return err
		}
		result = &ReceiveResult{Batch: *batch, Record: *record}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("product_id", input.ProductID).
		Str("batch_id", result.Batch.ID).
		Str("quantity", input.Quantity.String()).
		Msg("entrada de inventario registrada")
	return result, nil
}

// AdjustInput ajuste manual. Quantity positiva entra como lote; negativa sale por FIFO.
// UnitCost solo aplica a ajustes positivos; nil = costo promedio actual.
type AdjustInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  *decimal.Decimal
	Reason    string
	ActorID   string
}

// AdjustResult efecto del ajuste sobre el saldo.
type AdjustResult struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	TotalCost decimal.Decimal
	Degraded  bool
	Record    entity.InventoryRecord
}

// Adjust aplica un ajuste manual: positivo como entrada, negativo como salida FIFO.
func (uc *RegisterMovementUseCase) Adjust(ctx context.Context, input AdjustInput) (*AdjustResult, error) {
	if input.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if input.Quantity.IsZero() {
		return nil, domain.NewValidationError("quantity", "no puede ser cero")
	}
	if input.UnitCost != nil && input.UnitCost.LessThan(decimal.Zero) {
		return nil, domain.NewValidationError("unit_cost", "no puede ser negativo")
	}

	now := uc.now()
	var result *AdjustResult
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		if err := ensureProduct(ctx, store, input.ProductID); err != nil {
			return err
		}
		if input.Quantity.GreaterThan(decimal.Zero) {
			res, err := uc.adjustIn(ctx, store, input, now)
			result = res
			return err
		}
		res, err := uc.adjustOut(ctx, store, input, now)
		result = res
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// adjustIn: lote de ajuste al costo indicado o al promedio vigente.
func (uc *RegisterMovementUseCase) adjustIn(ctx context.Context, store repository.Store, input AdjustInput, now time.Time) (*AdjustResult, error) {
	record, err := store.Inventory().EnsureForUpdate(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("lock inventory record: %w", err)
	}
	cost := record.AverageCost
	if input.UnitCost != nil {
		cost = *input.UnitCost
	}
	_, updated, err := receiveInTx(ctx, store, stockEntry{
		productID:  input.ProductID,
		quantity:   input.Quantity,
		unitCost:   cost,
		receivedAt: now,
		reference:  input.Reason,
		actorID:    input.ActorID,
		movType:    entity.MovementTypeADJUSTMENT,
	}, now)
	if err != nil {
		return nil, err
	}
	return &AdjustResult{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		UnitCost:  cost,
		TotalCost: input.Quantity.Mul(cost),
		Record:    *updated,
	}, nil
}

// adjustOut: salida FIFO por la magnitud del ajuste.
func (uc *RegisterMovementUseCase) adjustOut(ctx context.Context, store repository.Store, input AdjustInput, now time.Time) (*AdjustResult, error) {
	qty := input.Quantity.Neg()
	alloc, err := uc.allocator.Allocate(ctx, store, input.ProductID, qty)
	if err != nil {
		return nil, err
	}
	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: uuid.New().String(),
		ProductID:     input.ProductID,
		Type:          entity.MovementTypeADJUSTMENT,
		Quantity:      input.Quantity,
		UnitCost:      alloc.UnitCost,
		TotalCost:     alloc.TotalCost.Neg(),
		Degraded:      alloc.Degraded(),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     input.ActorID,
	}
	if err := store.Movements().Create(ctx, mov); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}
	record, err := store.Inventory().Get(ctx, input.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &AdjustResult{
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		UnitCost:  alloc.UnitCost,
		TotalCost: alloc.TotalCost,
		Degraded:  alloc.Degraded(),
		Record:    *record,
	}, nil
}

type stockEntry struct {
	productID  string
	quantity   decimal.Decimal
	unitCost   decimal.Decimal
	receivedAt time.Time
	reference  string
	actorID    string
	movType    string
}

// receiveInTx: bloquea el saldo (EnsureForUpdate), CostCalculator, crea el lote, suma cantidad, guarda movimiento.
func receiveInTx(ctx context.Context, store repository.Store, in stockEntry, now time.Time) (*entity.PurchaseBatch, *entity.InventoryRecord, error) {
	record, err := store.Inventory().EnsureForUpdate(ctx, in.productID)
	if err != nil {
		return nil, nil, fmt.Errorf("lock inventory record: %w", err)
	}

	batch := &entity.PurchaseBatch{
		ID:               uuid.New().String(),
		ProductID:        in.productID,
		Reference:        in.reference,
		ReceivedQuantity: in.quantity,
		ConsumedQuantity: decimal.Zero,
		UnitCost:         in.unitCost,
		ReceivedAt:       in.receivedAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := store.Batches().Create(ctx, batch); err != nil {
		return nil, nil, fmt.Errorf("create batch: %w", err)
	}

	record.AverageCost = inventory.CostCalculator(record.Quantity, record.AverageCost, in.quantity, in.unitCost)
	record.Quantity = record.Quantity.Add(in.quantity)
	record.UpdatedAt = now
	if err := store.Inventory().Update(ctx, record); err != nil {
		return nil, nil, fmt.Errorf("update inventory record: %w", err)
	}

	mov := &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: batch.ID,
		ProductID:     in.productID,
		Type:          in.movType,
		Quantity:      in.quantity,
		UnitCost:      in.unitCost,
		TotalCost:     in.quantity.Mul(in.unitCost),
		Date:          in.receivedAt,
		CreatedAt:     now,
		CreatedBy:     in.actorID,
	}
	if err := store.Movements().Create(ctx, mov); err != nil {
		return nil, nil, fmt.Errorf("create movement: %w", err)
	}
	return batch, record, nil
}

func ensureProduct(ctx context.Context, store repository.Store, productID string) error {
	product, err := store.Products().GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}
