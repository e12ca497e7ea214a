package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryRecord es el saldo agregado de un producto: cantidad disponible y costo promedio.
type InventoryRecord struct {
	ProductID   string
	Quantity    decimal.Decimal
	AverageCost decimal.Decimal
	UpdatedAt   time.Time
}
