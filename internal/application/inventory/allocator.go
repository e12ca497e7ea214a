package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/inventory"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/jhoicas/erp-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// AllocationStatus resultado de costear una salida.
type AllocationStatus string

const (
	// AllocationExact toda la cantidad se costeó contra lotes reales.
	AllocationExact AllocationStatus = "exact"
	// AllocationDegraded parte de la cantidad no tenía lote y se costeó al costo de respaldo.
	AllocationDegraded AllocationStatus = "degraded"
)

// costScale decimales del costo unitario en resultados; los totales no se redondean.
const costScale = 4

// AllocationResult costo FIFO de una salida y los lotes tocados.
type AllocationResult struct {
	ProductID        string
	Quantity         decimal.Decimal
	UnitCost         decimal.Decimal
	TotalCost        decimal.Decimal
	Status           AllocationStatus
	Shortfall        decimal.Decimal
	FallbackUnitCost decimal.Decimal
	Consumptions     []inventory.Consumption
}

// Degraded indica si hubo descuadre entre el saldo y los lotes.
func (r *AllocationResult) Degraded() bool {
	return r.Status == AllocationDegraded
}

// ReversalResult devolución de una cantidad a los lotes.
type ReversalResult struct {
	ProductID    string
	Quantity     decimal.Decimal
	Restored     decimal.Decimal
	Unrestored   decimal.Decimal
	RestoredCost decimal.Decimal
	Restorations []inventory.Consumption
}

// BatchCostAllocator costea salidas con FIFO sobre los lotes de compra y las revierte.
// No abre transacciones: opera sobre el Store que recibe, que debe estar atado a la tx del caller.
type BatchCostAllocator struct {
	log     *logger.Logger
	metrics *metrics.InventoryMetrics
	now     func() time.Time
}

// NewBatchCostAllocator construye el asignador. log y m pueden ser nil.
func NewBatchCostAllocator(log *logger.Logger, m *metrics.InventoryMetrics) *BatchCostAllocator {
	return &BatchCostAllocator{log: logger.OrNop(log), metrics: m, now: time.Now}
}

// Allocate bloquea el saldo del producto (creándolo en cero si no existe), verifica disponibilidad,
// consume lotes del más antiguo al más reciente y descuenta quantity del saldo.
// Si los lotes no alcanzan, el faltante se costea al costo del último lote recibido y el
// resultado queda AllocationDegraded.
func (a *BatchCostAllocator) Allocate(ctx context.Context, store repository.Store, productID string, quantity decimal.Decimal) (*AllocationResult, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}

	record, err := store.Inventory().EnsureForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lock inventory record: %w", err)
	}
	if record.Quantity.LessThan(quantity) {
		return nil, fmt.Errorf("%w: producto %s disponible %s, solicitado %s",
			domain.ErrInsufficientInventory, productID, record.Quantity.String(), quantity.String())
	}

	batches, err := store.Batches().ListOpenForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list open batches: %w", err)
	}
	plan := inventory.PlanFIFO(batches, quantity)

	result := &AllocationResult{
		ProductID:        productID,
		Quantity:         quantity,
		Status:           AllocationExact,
		TotalCost:        plan.TotalCost,
		Shortfall:        plan.Shortfall,
		FallbackUnitCost: decimal.Zero,
		Consumptions:     plan.Consumptions,
	}

	if plan.Shortfall.GreaterThan(decimal.Zero) {
		fallback, err := a.fallbackUnitCost(ctx, store, productID, record.AverageCost)
		if err != nil {
			return nil, err
		}
		result.Status = AllocationDegraded
		result.FallbackUnitCost = fallback
		result.TotalCost = result.TotalCost.Add(plan.Shortfall.Mul(fallback))

		a.log.Warn().
			Str("product_id", productID).
			Str("requested", quantity.String()).
			Str("shortfall", plan.Shortfall.String()).
			Str("fallback_unit_cost", fallback.String()).
			Msg("descuadre entre saldo y lotes: faltante costeado con el último lote")
		a.metrics.IncLedgerDrift(metrics.DriftAllocate, plan.Shortfall.InexactFloat64())
	}

	for _, b := range inventory.ApplyFIFO(batches, plan) {
		if err := store.Batches().UpdateConsumption(ctx, b); err != nil {
			return nil, fmt.Errorf("update batch %s: %w", b.ID, err)
		}
	}

	record.Quantity = record.Quantity.Sub(quantity)
	record.UpdatedAt = a.now()
	if err := store.Inventory().Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update inventory record: %w", err)
	}

	result.UnitCost = unitCost(result.TotalCost, quantity)
	a.metrics.ObserveAllocation(string(result.Status), quantity.InexactFloat64())
	return result, nil
}

// fallbackUnitCost costo del lote recibido más recientemente (consumido o no); sin lotes, el promedio del saldo.
func (a *BatchCostAllocator) fallbackUnitCost(ctx context.Context, store repository.Store, productID string, average decimal.Decimal) (decimal.Decimal, error) {
	latest, err := store.Batches().GetLatest(ctx, productID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get latest batch: %w", err)
	}
	if latest == nil {
		return average, nil
	}
	return latest.UnitCost, nil
}

// Reverse devuelve quantity a los lotes consumidos del más reciente al más antiguo y suma quantity al saldo.
// El saldo es la autoridad: si los lotes no tienen consumo suficiente se suma igual y se registra el descuadre.
func (a *BatchCostAllocator) Reverse(ctx context.Context, store repository.Store, productID string, quantity decimal.Decimal) (*ReversalResult, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}

	record, err := store.Inventory().EnsureForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("lock inventory record: %w", err)
	}
	batches, err := store.Batches().ListConsumedForUpdate(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list consumed batches: %w", err)
	}

	plan := inventory.PlanReversal(batches, quantity)
	for _, b := range inventory.ApplyReversal(batches, plan) {
		if err := store.Batches().UpdateConsumption(ctx, b); err != nil {
			return nil, fmt.Errorf("update batch %s: %w", b.ID, err)
		}
	}

	restoredCost := decimal.Zero
	for _, r := range plan.Restorations {
		restoredCost = restoredCost.Add(r.Quantity.Mul(r.UnitCost))
	}

	if plan.Unrestored.GreaterThan(decimal.Zero) {
		a.log.Warn().
			Str("product_id", productID).
			Str("requested", quantity.String()).
			Str("unrestored", plan.Unrestored.String()).
			Msg("reverso sin consumo suficiente en lotes")
		a.metrics.IncLedgerDrift(metrics.DriftReverse, plan.Unrestored.InexactFloat64())
	}

	record.Quantity = record.Quantity.Add(quantity)
	record.UpdatedAt = a.now()
	if err := store.Inventory().Update(ctx, record); err != nil {
		return nil, fmt.Errorf("update inventory record: %w", err)
	}

	return &ReversalResult{
		ProductID:    productID,
		Quantity:     quantity,
		Restored:     plan.Restored,
		Unrestored:   plan.Unrestored,
		RestoredCost: restoredCost,
		Restorations: plan.Restorations,
	}, nil
}

func unitCost(total, quantity decimal.Decimal) decimal.Decimal {
	if quantity.IsZero() {
		return decimal.Zero
	}
	return total.Div(quantity).Round(costScale)
}
