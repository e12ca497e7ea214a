package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU. UseBracketPricing activa la resolución por tramos.
type Product struct {
	ID                string
	SKU               string // código único
	Name              string
	UnitMeasure       string
	UseBracketPricing bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ProductPrice registro de precio plano (tradicional) con vigencia.
type ProductPrice struct {
	ID             string
	ProductID      string
	RegularPrice   decimal.Decimal
	WholesalePrice decimal.Decimal
	WalkInPrice    decimal.Decimal
	EffectiveFrom  time.Time
	EffectiveTo    *time.Time
	CreatedAt      time.Time
}

// IsEffectiveAt indica si t cae dentro de la vigencia del precio.
func (p *ProductPrice) IsEffectiveAt(t time.Time) bool {
	if t.Before(p.EffectiveFrom) {
		return false
	}
	return p.EffectiveTo == nil || !t.After(*p.EffectiveTo)
}

// PriceFor devuelve el campo de precio que corresponde a la categoría.
func (p *ProductPrice) PriceFor(tier string) (decimal.Decimal, bool) {
	switch tier {
	case PriceTierRegular:
		return p.RegularPrice, true
	case PriceTierWholesale:
		return p.WholesalePrice, true
	case PriceTierWalkIn:
		return p.WalkInPrice, true
	}
	return decimal.Zero, false
}
