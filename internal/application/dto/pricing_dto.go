package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ResolvePriceQuery parámetros de GET /api/pricing/resolve.
type ResolvePriceQuery struct {
	ProductID  string `query:"product_id" json:"product_id" validate:"required,uuid"`
	Quantity   string `query:"quantity" json:"quantity" validate:"required"`
	PriceTier  string `query:"price_tier" json:"price_tier" validate:"required,oneof=regular wholesale walk_in"`
	CustomerID string `query:"customer_id" json:"customer_id" validate:"omitempty,uuid"`
}

// PriceResponse precio resuelto para una cantidad.
type PriceResponse struct {
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	PriceTier  string          `json:"price_tier"`
	Price      decimal.Decimal `json:"price"`
	Found      bool            `json:"found"`
	Source     string          `json:"source"`
	BracketID  string          `json:"bracket_id,omitempty"`
	TierID     string          `json:"tier_id,omitempty"`
	OverrideID string          `json:"override_id,omitempty"`
	TierLabel  string          `json:"tier_label,omitempty"`
}

// QuoteLineRequest línea de una cotización.
type QuoteLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// QuoteRequest body para POST /api/pricing/quote.
type QuoteRequest struct {
	CustomerID string             `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	PriceTier  string             `json:"price_tier" validate:"required,oneof=regular wholesale walk_in"`
	Items      []QuoteLineRequest `json:"items" validate:"required,min=1,dive"`
}

// QuoteLineResponse precio y total de una línea cotizada.
type QuoteLineResponse struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	Source    string          `json:"source"`
	Found     bool            `json:"found"`
}

// QuoteResponse cotización completa.
type QuoteResponse struct {
	PriceTier string              `json:"price_tier"`
	Lines     []QuoteLineResponse `json:"lines"`
	Total     decimal.Decimal     `json:"total"`
	Complete  bool                `json:"complete"` // false si alguna línea quedó sin precio
}

// BracketTierRequest tramo en creación/edición de tabla.
type BracketTierRequest struct {
	MinQuantity decimal.Decimal  `json:"min_quantity"`
	MaxQuantity *decimal.Decimal `json:"max_quantity,omitempty"`
	Price       decimal.Decimal  `json:"price"`
	PriceTier   string           `json:"price_tier" validate:"required"`
	Active      *bool            `json:"active,omitempty"`
	Label       string           `json:"label,omitempty" validate:"max=80"`
}

// CreateBracketRequest body para POST /api/pricing/brackets.
type CreateBracketRequest struct {
	ProductID     string               `json:"product_id" validate:"required,uuid"`
	Name          string               `json:"name" validate:"required,max=120"`
	EffectiveFrom *time.Time           `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time           `json:"effective_to,omitempty"`
	Tiers         []BracketTierRequest `json:"tiers" validate:"required,min=1,dive"`
}

// UpdateBracketRequest body para PUT /api/pricing/brackets/:id. Reemplaza los tramos.
type UpdateBracketRequest struct {
	Name          string               `json:"name" validate:"required,max=120"`
	EffectiveFrom *time.Time           `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time           `json:"effective_to,omitempty"`
	Tiers         []BracketTierRequest `json:"tiers" validate:"required,min=1,dive"`
}

// CloneBracketRequest body opcional para POST /api/pricing/brackets/:id/clone.
type CloneBracketRequest struct {
	Name string `json:"name,omitempty" validate:"max=120"`
}

// BracketTierResponse tramo persistido.
type BracketTierResponse struct {
	ID          string           `json:"id"`
	MinQuantity decimal.Decimal  `json:"min_quantity"`
	MaxQuantity *decimal.Decimal `json:"max_quantity"`
	Price       decimal.Decimal  `json:"price"`
	PriceTier   string           `json:"price_tier"`
	Active      bool             `json:"active"`
	Label       string           `json:"label,omitempty"`
}

// BracketResponse tabla de precios con sus tramos.
type BracketResponse struct {
	ID            string                `json:"id"`
	ProductID     string                `json:"product_id"`
	Name          string                `json:"name"`
	EffectiveFrom time.Time             `json:"effective_from"`
	EffectiveTo   *time.Time            `json:"effective_to"`
	Selected      bool                  `json:"selected"`
	Tiers         []BracketTierResponse `json:"tiers"`
	CreatedBy     string                `json:"created_by,omitempty"`
	UpdatedBy     string                `json:"updated_by,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// CreateOverrideRequest body para POST /api/pricing/overrides.
type CreateOverrideRequest struct {
	CustomerID    string           `json:"customer_id" validate:"required,uuid"`
	ProductID     string           `json:"product_id" validate:"required,uuid"`
	MinQuantity   decimal.Decimal  `json:"min_quantity"`
	MaxQuantity   *decimal.Decimal `json:"max_quantity,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	EffectiveFrom *time.Time       `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time       `json:"effective_to,omitempty"`
}

// OverrideResponse precio especial de cliente.
type OverrideResponse struct {
	ID            string           `json:"id"`
	CustomerID    string           `json:"customer_id"`
	ProductID     string           `json:"product_id"`
	MinQuantity   decimal.Decimal  `json:"min_quantity"`
	MaxQuantity   *decimal.Decimal `json:"max_quantity"`
	Price         decimal.Decimal  `json:"price"`
	Active        bool             `json:"active"`
	EffectiveFrom time.Time        `json:"effective_from"`
	EffectiveTo   *time.Time       `json:"effective_to"`
	CreatedAt     time.Time        `json:"created_at"`
}

// CreateOverrideResponse override creado y los que quedaron desactivados por solaparse.
type CreateOverrideResponse struct {
	Override    OverrideResponse `json:"override"`
	Deactivated []string         `json:"deactivated"`
}
