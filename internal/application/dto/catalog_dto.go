package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU         string `json:"sku" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=255"`
	UnitMeasure string `json:"unit_measure,omitempty" validate:"max=32"`
}

// ProductResponse producto en respuestas.
type ProductResponse struct {
	ID                string    `json:"id"`
	SKU               string    `json:"sku"`
	Name              string    `json:"name"`
	UnitMeasure       string    `json:"unit_measure"`
	UseBracketPricing bool      `json:"use_bracket_pricing"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateProductPriceRequest body para POST /api/products/:id/prices.
type CreateProductPriceRequest struct {
	RegularPrice   decimal.Decimal `json:"regular_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	WalkInPrice    decimal.Decimal `json:"walk_in_price"`
	EffectiveFrom  *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo    *time.Time      `json:"effective_to,omitempty"`
}

// ProductPriceResponse precio plano en respuestas.
type ProductPriceResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	RegularPrice   decimal.Decimal `json:"regular_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	WalkInPrice    decimal.Decimal `json:"walk_in_price"`
	EffectiveFrom  time.Time       `json:"effective_from"`
	EffectiveTo    *time.Time      `json:"effective_to,omitempty"`
}

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Name     string `json:"name" validate:"required,max=255"`
	TaxID    string `json:"tax_id" validate:"required,max=32"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string `json:"phone,omitempty" validate:"max=32"`
	IsValued bool   `json:"is_valued"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsValued  bool      `json:"is_valued"`
	CreatedAt time.Time `json:"created_at"`
}
