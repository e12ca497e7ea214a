// Package pricing contiene las reglas puras de resolución de precios por tramos y por cliente.
package pricing

import (
	"sort"
	"time"

	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// RangeContains aplica la regla de rango inclusiva: min <= q AND (max IS NULL OR max >= q).
func RangeContains(min decimal.Decimal, max *decimal.Decimal, q decimal.Decimal) bool {
	if q.LessThan(min) {
		return false
	}
	return max == nil || max.GreaterThanOrEqual(q)
}

// RangesOverlap indica si dos rangos inclusivos (max nil = sin tope) comparten al menos un punto.
func RangesOverlap(aMin decimal.Decimal, aMax *decimal.Decimal, bMin decimal.Decimal, bMax *decimal.Decimal) bool {
	if aMax != nil && aMax.LessThan(bMin) {
		return false
	}
	if bMax != nil && bMax.LessThan(aMin) {
		return false
	}
	return true
}

// LowestTierPrice devuelve, entre los tramos activos de la categoría cuyo rango contiene q,
// el de menor precio. Empates: se conserva el primero en el orden recibido.
func LowestTierPrice(tiers []entity.BracketTier, priceTier string, q decimal.Decimal) (entity.BracketTier, bool) {
	var best entity.BracketTier
	found := false
	for _, t := range tiers {
		if !t.Active || t.PriceTier != priceTier {
			continue
		}
		if !RangeContains(t.MinQuantity, t.MaxQuantity, q) {
			continue
		}
		if !found || t.Price.LessThan(best.Price) {
			best = t
			found = true
		}
	}
	return best, found
}

// PickOverride elige el override activo y vigente en now cuyo rango contiene q.
// Si quedan varios solapados gana el creado más recientemente (desempate por ID mayor).
func PickOverride(overrides []entity.CustomerPriceOverride, q decimal.Decimal, now time.Time) (entity.CustomerPriceOverride, bool) {
	matches := make([]entity.CustomerPriceOverride, 0, len(overrides))
	for _, o := range overrides {
		if !o.Active || !o.IsEffectiveAt(now) {
			continue
		}
		if !RangeContains(o.MinQuantity, o.MaxQuantity, q) {
			continue
		}
		matches = append(matches, o)
	}
	if len(matches) == 0 {
		return entity.CustomerPriceOverride{}, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		if !matches[i].CreatedAt.Equal(matches[j].CreatedAt) {
			return matches[i].CreatedAt.After(matches[j].CreatedAt)
		}
		return matches[i].ID > matches[j].ID
	})
	return matches[0], true
}

// PickFlatPrice elige el registro de precio vigente en now; gana el EffectiveFrom más reciente.
func PickFlatPrice(prices []entity.ProductPrice, now time.Time) (entity.ProductPrice, bool) {
	var best entity.ProductPrice
	found := false
	for _, p := range prices {
		if !p.IsEffectiveAt(now) {
			continue
		}
		if !found || p.EffectiveFrom.After(best.EffectiveFrom) ||
			(p.EffectiveFrom.Equal(best.EffectiveFrom) && p.CreatedAt.After(best.CreatedAt)) {
			best = p
			found = true
		}
	}
	return best, found
}
