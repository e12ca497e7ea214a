package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de venta.
const (
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
)

// Sale cabecera de venta.
type Sale struct {
	ID          string
	CustomerID  string // vacío = venta de mostrador
	PriceTier   string
	Status      string
	TotalAmount decimal.Decimal
	TotalCost   decimal.Decimal
	GrossProfit decimal.Decimal
	Items       []SaleItem
	CreatedBy   string
	CreatedAt   time.Time
	CancelledBy string
	CancelledAt *time.Time
}

// SaleItem línea de venta con precio resuelto y costo FIFO.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal
	PriceSource string
	Degraded    bool
}
