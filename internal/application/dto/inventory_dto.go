package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest body para POST /api/inventory/receipts.
type ReceiveStockRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	ReceivedAt *time.Time      `json:"received_at,omitempty"`
	Reference  string          `json:"reference,omitempty" validate:"max=120"`
}

// AdjustStockRequest body para POST /api/inventory/adjustments.
// Quantity positiva entra como lote nuevo; negativa sale por FIFO.
type AdjustStockRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reason    string           `json:"reason" validate:"required,max=200"`
}

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	ProductID     string          `json:"product_id" validate:"required,uuid"`
	Quantity      decimal.Decimal `json:"quantity"`
	FromWarehouse string          `json:"from_warehouse" validate:"required"`
	ToWarehouse   string          `json:"to_warehouse" validate:"required,nefield=FromWarehouse"`
}

// BatchDTO lote de compra en respuestas.
type BatchDTO struct {
	ID               string          `json:"id"`
	Reference        string          `json:"reference,omitempty"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
	ConsumedQuantity decimal.Decimal `json:"consumed_quantity"`
	Remaining        decimal.Decimal `json:"remaining"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	FullyConsumed    bool            `json:"fully_consumed"`
	ReceivedAt       time.Time       `json:"received_at"`
}

// StockResponse saldo de un producto con sus lotes abiertos.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
	OpenBatches []BatchDTO      `json:"open_batches"`
	UpdatedAt   time.Time       `json:"updated_at,omitempty"`
}

// ReceiptResponse resultado de una entrada de mercancía.
type ReceiptResponse struct {
	Batch       BatchDTO        `json:"batch"`
	OnHand      decimal.Decimal `json:"on_hand"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// AllocationDTO costo FIFO de una salida.
type AllocationDTO struct {
	Quantity         decimal.Decimal `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Status           string          `json:"status"`
	Shortfall        decimal.Decimal `json:"shortfall"`
	FallbackUnitCost decimal.Decimal `json:"fallback_unit_cost,omitempty"`
}

// AdjustmentResponse resultado de un ajuste manual.
type AdjustmentResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	TotalCost decimal.Decimal `json:"total_cost"`
	Degraded  bool            `json:"degraded"`
	OnHand    decimal.Decimal `json:"on_hand"`
}

// TransferResponse traslado entre bodegas.
type TransferResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	FromWarehouse string          `json:"from_warehouse"`
	ToWarehouse   string          `json:"to_warehouse"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Degraded      bool            `json:"degraded"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	CancelledAt   *time.Time      `json:"cancelled_at,omitempty"`
}

// MovementDTO línea del kardex.
type MovementDTO struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitCost      decimal.Decimal `json:"unit_cost"`
	TotalCost     decimal.Decimal `json:"total_cost"`
	Degraded      bool            `json:"degraded"`
	Date          time.Time       `json:"date"`
	CreatedBy     string          `json:"created_by"`
}

// MovementListResponse página del kardex.
type MovementListResponse struct {
	Items []MovementDTO `json:"items"`
	Page  PageResponse  `json:"page"`
}
