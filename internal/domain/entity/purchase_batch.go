package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseBatch representa una línea de mercancía recibida; es la unidad de costeo FIFO.
// Invariante: 0 <= ConsumedQuantity <= ReceivedQuantity y FullyConsumed == (Consumed == Received).
type PurchaseBatch struct {
	ID               string
	ProductID        string
	Reference        string // compra, ajuste, etc.
	ReceivedQuantity decimal.Decimal
	ConsumedQuantity decimal.Decimal
	UnitCost         decimal.Decimal
	FullyConsumed    bool
	ReceivedAt       time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Remaining devuelve la cantidad aún no consumida del lote.
func (b *PurchaseBatch) Remaining() decimal.Decimal {
	return b.ReceivedQuantity.Sub(b.ConsumedQuantity)
}

// Consume suma qty a lo consumido sin exceder lo recibido y devuelve lo efectivamente tomado.
func (b *PurchaseBatch) Consume(qty decimal.Decimal) decimal.Decimal {
	taken := decimal.Min(qty, b.Remaining())
	if taken.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	b.ConsumedQuantity = b.ConsumedQuantity.Add(taken)
	b.FullyConsumed = b.ConsumedQuantity.Equal(b.ReceivedQuantity)
	return taken
}

// Restore descuenta qty de lo consumido sin bajar de cero y devuelve lo efectivamente restaurado.
func (b *PurchaseBatch) Restore(qty decimal.Decimal) decimal.Decimal {
	restored := decimal.Min(qty, b.ConsumedQuantity)
	if restored.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	b.ConsumedQuantity = b.ConsumedQuantity.Sub(restored)
	b.FullyConsumed = b.ConsumedQuantity.Equal(b.ReceivedQuantity)
	return restored
}
