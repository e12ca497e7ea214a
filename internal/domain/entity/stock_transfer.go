package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de traslado.
const (
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// StockTransfer salida de inventario hacia otra bodega, costeada con FIFO.
type StockTransfer struct {
	ID            string
	ProductID     string
	FromWarehouse string
	ToWarehouse   string
	Quantity      decimal.Decimal
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Degraded      bool
	Status        string
	CreatedBy     string
	CreatedAt     time.Time
	CancelledBy   string
	CancelledAt   *time.Time
}
