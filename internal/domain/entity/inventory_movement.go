package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de inventario.
const (
	MovementTypeRECEIPT        = "RECEIPT"         // entrada por compra
	MovementTypeADJUSTMENT     = "ADJUSTMENT"      // ajuste manual
	MovementTypeSALE           = "SALE"            // salida por venta
	MovementTypeSALECANCEL     = "SALE_CANCEL"     // reverso de venta
	MovementTypeTRANSFEROUT    = "TRANSFER_OUT"    // traslado a otra bodega
	MovementTypeTRANSFERCANCEL = "TRANSFER_CANCEL" // reverso de traslado
)

// InventoryMovement registro del kardex: cada cambio de cantidad con su costo.
type InventoryMovement struct {
	ID            string
	TransactionID string          // venta, traslado o lote que originó el movimiento
	ProductID     string
	Type          string
	Quantity      decimal.Decimal // positivo entrada, negativo salida
	UnitCost      decimal.Decimal
	TotalCost     decimal.Decimal
	Degraded      bool // costo calculado con lote de respaldo (descuadre del ledger)
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
}
