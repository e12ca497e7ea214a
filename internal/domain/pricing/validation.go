package pricing

import (
	"fmt"
	"time"

	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateTiers valida la forma de cada tramo antes de cualquier escritura.
func ValidateTiers(tiers []entity.BracketTier) error {
	if len(tiers) == 0 {
		return domain.NewValidationError("tiers", "se requiere al menos un tramo")
	}
	for i, t := range tiers {
		field := fmt.Sprintf("tiers[%d]", i)
		if err := validateRange(field, t.MinQuantity, t.MaxQuantity); err != nil {
			return err
		}
		if t.Price.LessThan(decimal.Zero) {
			return domain.NewValidationError(field+".price", "no puede ser negativo")
		}
		if !entity.IsValidPriceTier(t.PriceTier) {
			return domain.NewValidationError(field+".price_tier", "debe ser regular, wholesale o walk_in")
		}
	}
	return nil
}

// ValidateOverride valida rango, precio y vigencia de un override de cliente.
func ValidateOverride(o entity.CustomerPriceOverride) error {
	if o.CustomerID == "" {
		return domain.NewValidationError("customer_id", "es requerido")
	}
	if o.ProductID == "" {
		return domain.NewValidationError("product_id", "es requerido")
	}
	if err := validateRange("", o.MinQuantity, o.MaxQuantity); err != nil {
		return err
	}
	if o.Price.LessThan(decimal.Zero) {
		return domain.NewValidationError("price", "no puede ser negativo")
	}
	return ValidateEffectiveRange(o.EffectiveFrom, o.EffectiveTo)
}

// ValidateEffectiveRange rechaza vigencias cuya fecha final es anterior a la inicial.
func ValidateEffectiveRange(from time.Time, to *time.Time) error {
	if to != nil && to.Before(from) {
		return domain.NewValidationError("effective_to", "debe ser posterior a effective_from")
	}
	return nil
}

func validateRange(prefix string, min decimal.Decimal, max *decimal.Decimal) error {
	field := func(name string) string {
		if prefix == "" {
			return name
		}
		return prefix + "." + name
	}
	if min.LessThan(decimal.Zero) {
		return domain.NewValidationError(field("min_quantity"), "no puede ser negativo")
	}
	if max != nil && max.LessThanOrEqual(min) {
		return domain.NewValidationError(field("max_quantity"), "debe ser mayor que min_quantity")
	}
	return nil
}
