package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de precio (segmento de cliente), ortogonales al rango de cantidades.
const (
	PriceTierRegular   = "regular"
	PriceTierWholesale = "wholesale"
	PriceTierWalkIn    = "walk_in"
)

// IsValidPriceTier indica si tier pertenece al conjunto enumerado.
func IsValidPriceTier(tier string) bool {
	switch tier {
	case PriceTierRegular, PriceTierWholesale, PriceTierWalkIn:
		return true
	}
	return false
}

// PriceBracket tabla de precios por cantidad de un producto. A lo sumo una seleccionada por producto.
type PriceBracket struct {
	ID            string
	ProductID     string
	Name          string
	EffectiveFrom time.Time
	EffectiveTo   *time.Time // nil = sin fecha de fin
	Selected      bool
	Tiers         []BracketTier
	CreatedBy     string
	UpdatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEffectiveAt indica si t cae dentro de [EffectiveFrom, EffectiveTo].
func (b *PriceBracket) IsEffectiveAt(t time.Time) bool {
	if t.Before(b.EffectiveFrom) {
		return false
	}
	return b.EffectiveTo == nil || !t.After(*b.EffectiveTo)
}

// BracketTier una fila de la tabla: rango [MinQuantity, MaxQuantity] + precio para una categoría.
type BracketTier struct {
	ID          string
	BracketID   string
	MinQuantity decimal.Decimal
	MaxQuantity *decimal.Decimal // nil = sin tope
	Price       decimal.Decimal
	PriceTier   string
	Active      bool
	Label       string
}
