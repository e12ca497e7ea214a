package inventory

import (
	"sort"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Consumption cantidad tomada (o restaurada) de un lote a su costo unitario.
type Consumption struct {
	BatchID  string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// FIFOPlan resultado de planear una salida sobre los lotes abiertos.
// Shortfall > 0 indica que los lotes no alcanzan para la cantidad pedida (descuadre del ledger).
type FIFOPlan struct {
	Consumptions []Consumption
	Allocated    decimal.Decimal
	TotalCost    decimal.Decimal
	Shortfall    decimal.Decimal
}

// PlanFIFO recorre los lotes del más antiguo al más reciente tomando min(restante del lote, pendiente).
// No modifica los lotes; ApplyFIFO aplica el plan.
func PlanFIFO(batches []*entity.PurchaseBatch, quantity decimal.Decimal) FIFOPlan {
	ordered := make([]*entity.PurchaseBatch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ReceivedAt.Equal(ordered[j].ReceivedAt) {
			return ordered[i].ReceivedAt.Before(ordered[j].ReceivedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	plan := FIFOPlan{TotalCost: decimal.Zero, Allocated: decimal.Zero}
	pending := quantity
	for _, b := range ordered {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		available := b.Remaining()
		if !available.GreaterThan(decimal.Zero) {
			continue
		}
		taken := decimal.Min(available, pending)
		plan.Consumptions = append(plan.Consumptions, Consumption{BatchID: b.ID, Quantity: taken, UnitCost: b.UnitCost})
		plan.TotalCost = plan.TotalCost.Add(taken.Mul(b.UnitCost))
		plan.Allocated = plan.Allocated.Add(taken)
		pending = pending.Sub(taken)
	}
	if pending.GreaterThan(decimal.Zero) {
		plan.Shortfall = pending
	} else {
		plan.Shortfall = decimal.Zero
	}
	return plan
}

// ApplyFIFO incrementa lo consumido de cada lote según el plan y devuelve los lotes modificados.
func ApplyFIFO(batches []*entity.PurchaseBatch, plan FIFOPlan) []*entity.PurchaseBatch {
	byID := make(map[string]*entity.PurchaseBatch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}
	touched := make([]*entity.PurchaseBatch, 0, len(plan.Consumptions))
	for _, c := range plan.Consumptions {
		b, ok := byID[c.BatchID]
		if !ok {
			continue
		}
		b.Consume(c.Quantity)
		touched = append(touched, b)
	}
	return touched
}

// ReversalPlan resultado de planear la devolución de una cantidad a los lotes consumidos.
// Unrestored > 0 indica que los lotes no tenían consumo suficiente para devolver.
type ReversalPlan struct {
	Restorations []Consumption
	Restored     decimal.Decimal
	Unrestored   decimal.Decimal
}

// PlanReversal recorre los lotes consumidos del más reciente al más antiguo (FIFO inverso).
// Aproxima el deshacer exacto: con salidas intercaladas puede restaurar un lote distinto al cobrado.
func PlanReversal(batches []*entity.PurchaseBatch, quantity decimal.Decimal) ReversalPlan {
	ordered := make([]*entity.PurchaseBatch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].ReceivedAt.Equal(ordered[j].ReceivedAt) {
			return ordered[i].ReceivedAt.After(ordered[j].ReceivedAt)
		}
		return ordered[i].ID > ordered[j].ID
	})

	plan := ReversalPlan{Restored: decimal.Zero}
	pending := quantity
	for _, b := range ordered {
		if !pending.GreaterThan(decimal.Zero) {
			break
		}
		if !b.ConsumedQuantity.GreaterThan(decimal.Zero) {
			continue
		}
		restored := decimal.Min(b.ConsumedQuantity, pending)
		plan.Restorations = append(plan.Restorations, Consumption{BatchID: b.ID, Quantity: restored, UnitCost: b.UnitCost})
		plan.Restored = plan.Restored.Add(restored)
		pending = pending.Sub(restored)
	}
	if pending.GreaterThan(decimal.Zero) {
		plan.Unrestored = pending
	} else {
		plan.Unrestored = decimal.Zero
	}
	return plan
}

// ApplyReversal descuenta lo consumido de cada lote según el plan y devuelve los lotes modificados.
func ApplyReversal(batches []*entity.PurchaseBatch, plan ReversalPlan) []*entity.PurchaseBatch {
	byID := make(map[string]*entity.PurchaseBatch, len(batches))
	for _, b := range batches {
		byID[b.ID] = b
	}
	touched := make([]*entity.PurchaseBatch, 0, len(plan.Restorations))
	for _, r := range plan.Restorations {
		b, ok := byID[r.BatchID]
		if !ok {
			continue
		}
		b.Restore(r.Quantity)
		touched = append(touched, b)
	}
	return touched
}
