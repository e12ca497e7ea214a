package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest línea de venta. UnitPrice vacío = se resuelve con la tabla de precios.
type SaleItemRequest struct {
	ProductID string           `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
}

// RegisterSaleRequest body para POST /api/sales.
type RegisterSaleRequest struct {
	CustomerID string            `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	PriceTier  string            `json:"price_tier" validate:"required,oneof=regular wholesale walk_in"`
	Items      []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SaleItemResponse línea de venta con precio y costo.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	PriceSource string          `json:"price_source"`
	Degraded    bool            `json:"degraded"`
}

// SaleResponse venta registrada.
type SaleResponse struct {
	ID          string             `json:"id"`
	CustomerID  string             `json:"customer_id,omitempty"`
	PriceTier   string             `json:"price_tier"`
	Status      string             `json:"status"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	TotalCost   decimal.Decimal    `json:"total_cost"`
	GrossProfit decimal.Decimal    `json:"gross_profit"`
	Items       []SaleItemResponse `json:"items"`
	CreatedBy   string             `json:"created_by"`
	CreatedAt   time.Time          `json:"created_at"`
	CancelledAt *time.Time         `json:"cancelled_at,omitempty"`
}
