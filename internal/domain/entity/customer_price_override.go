package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CustomerPriceOverride precio fijo de un cliente para un producto en un rango de cantidades.
type CustomerPriceOverride struct {
	ID            string
	CustomerID    string
	ProductID     string
	MinQuantity   decimal.Decimal
	MaxQuantity   *decimal.Decimal
	Price         decimal.Decimal
	Active        bool
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsEffectiveAt indica si t cae dentro de la vigencia del override.
func (o *CustomerPriceOverride) IsEffectiveAt(t time.Time) bool {
	if t.Before(o.EffectiveFrom) {
		return false
	}
	return o.EffectiveTo == nil || !t.After(*o.EffectiveTo)
}
