// Package pricing resuelve precios de venta (override de cliente, tabla por cantidad, precio plano)
// y administra tablas de precios y precios especiales.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/pricing"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/jhoicas/erp-backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

// PriceSource nivel de la resolución que produjo el precio.
type PriceSource string

const (
	PriceSourceOverride PriceSource = "override"
	PriceSourceBracket  PriceSource = "bracket"
	PriceSourceFlat     PriceSource = "flat"
	// PriceSourceNone ningún nivel tenía precio; Price es cero y Found false.
	PriceSourceNone PriceSource = "none"
)

// ResolveInput datos de una consulta de precio. CustomerID vacío = sin cliente.
type ResolveInput struct {
	ProductID  string
	Quantity   decimal.Decimal
	PriceTier  string
	CustomerID string
}

// PriceResult precio unitario resuelto y su origen.
type PriceResult struct {
	ProductID  string
	Quantity   decimal.Decimal
	PriceTier  string
	Price      decimal.Decimal
	Source     PriceSource
	Found      bool
	OverrideID string
	BracketID  string
	TierID     string
	TierLabel  string
	PriceID    string
}

// BracketPriceResolver resuelve el precio unitario en orden: override de cliente valioso,
// tabla seleccionada y vigente (menor precio entre tramos que coinciden), precio plano vigente.
type BracketPriceResolver struct {
	txRunner   TxRunner
	valuedOnly bool
	log        *logger.Logger
	metrics    *metrics.InventoryMetrics
	now        func() time.Time
}

// NewBracketPriceResolver construye el resolvedor. Con valuedOnly los overrides solo aplican
// a clientes marcados como valiosos.
func NewBracketPriceResolver(txRunner TxRunner, valuedOnly bool, log *logger.Logger, m *metrics.InventoryMetrics) *BracketPriceResolver {
	return &BracketPriceResolver{
		txRunner:   txRunner,
		valuedOnly: valuedOnly,
		log:        logger.OrNop(log),
		metrics:    m,
		now:        time.Now,
	}
}

// ResolvePrice resuelve en su propia transacción de solo lectura.
func (r *BracketPriceResolver) ResolvePrice(ctx context.Context, in ResolveInput) (*PriceResult, error) {
	var res *PriceResult
	err := r.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		res, err = r.Resolve(ctx, store, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Resolve resuelve sobre el Store del caller (misma transacción que la venta).
// Nunca falla por ausencia de precio: devuelve PriceSourceNone.
func (r *BracketPriceResolver) Resolve(ctx context.Context, store repository.Store, in ResolveInput) (*PriceResult, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.NewValidationError("quantity", "debe ser mayor que cero")
	}
	if !entity.IsValidPriceTier(in.PriceTier) {
		return nil, domain.NewValidationError("price_tier", "debe ser regular, wholesale o walk_in")
	}

	product, err := store.Products().GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
	}

	now := r.now()
	res := &PriceResult{ProductID: in.ProductID, Quantity: in.Quantity, PriceTier: in.PriceTier}

	if in.CustomerID != "" {
		found, err := r.fromOverride(ctx, store, in, now, res)
		if err != nil {
			return nil, err
		}
		if found {
			return r.done(res), nil
		}
	}

	if product.UseBracketPricing {
		found, err := r.fromBracket(ctx, store, in, now, res)
		if err != nil {
			return nil, err
		}
		if found {
			return r.done(res), nil
		}
	}

	prices, err := store.ProductPrices().ListByProduct(ctx, in.ProductID)
	if err != nil {
		return nil, fmt.Errorf("list product prices: %w", err)
	}
	if flat, ok := pricing.PickFlatPrice(prices, now); ok {
		if price, ok := flat.PriceFor(in.PriceTier); ok {
			res.Price = price
			res.Source = PriceSourceFlat
			res.Found = true
			res.PriceID = flat.ID
			return r.done(res), nil
		}
	}

	res.Price = decimal.Zero
	res.Source = PriceSourceNone
	r.log.Debug().
		Str("product_id", in.ProductID).
		Str("quantity", in.Quantity.String()).
		Str("price_tier", in.PriceTier).
		Msg("sin precio aplicable")
	return r.done(res), nil
}

func (r *BracketPriceResolver) fromOverride(ctx context.Context, store repository.Store, in ResolveInput, now time.Time, res *PriceResult) (bool, error) {
	customer, err := store.Customers().GetByID(ctx, in.CustomerID)
	if err != nil {
		return false, fmt.Errorf("get customer: %w", err)
	}
	if customer == nil {
		return false, fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
	}
	if r.valuedOnly && !customer.IsValued {
		return false, nil
	}
	overrides, err := store.Overrides().ListActive(ctx, in.CustomerID, in.ProductID)
	if err != nil {
		return false, fmt.Errorf("list overrides: %w", err)
	}
	o, ok := pricing.PickOverride(overrides, in.Quantity, now)
	if !ok {
		return false, nil
	}
	res.Price = o.Price
	res.Source = PriceSourceOverride
	res.Found = true
	res.OverrideID = o.ID
	return true, nil
}

func (r *BracketPriceResolver) fromBracket(ctx context.Context, store repository.Store, in ResolveInput, now time.Time, res *PriceResult) (bool, error) {
	bracket, err := store.Brackets().GetSelected(ctx, in.ProductID)
	if err != nil {
		return false, fmt.Errorf("get selected bracket: %w", err)
	}
	if bracket == nil || !bracket.IsEffectiveAt(now) {
		return false, nil
	}
	tier, ok := pricing.LowestTierPrice(bracket.Tiers, in.PriceTier, in.Quantity)
	if !ok {
		return false, nil
	}
	res.Price = tier.Price
	res.Source = PriceSourceBracket
	res.Found = true
	res.BracketID = bracket.ID
	res.TierID = tier.ID
	res.TierLabel = tier.Label
	return true, nil
}

func (r *BracketPriceResolver) done(res *PriceResult) *PriceResult {
	r.metrics.IncPriceResolution(string(res.Source))
	return res
}

// QuoteLine línea a cotizar.
type QuoteLine struct {
	ProductID string
	Quantity  decimal.Decimal
}

// QuoteInput canasta a cotizar con una misma categoría y cliente.
type QuoteInput struct {
	CustomerID string
	PriceTier  string
	Lines      []QuoteLine
}

// QuotedLine precio resuelto y total de una línea.
type QuotedLine struct {
	PriceResult
	LineTotal decimal.Decimal
}

// Quote resultado de cotizar. Complete es false si alguna línea quedó sin precio.
type Quote struct {
	PriceTier string
	Lines     []QuotedLine
	Total     decimal.Decimal
	Complete  bool
}

// Quote resuelve cada línea de la canasta en una sola transacción de lectura.
func (r *BracketPriceResolver) Quote(ctx context.Context, in QuoteInput) (*Quote, error) {
	if len(in.Lines) == 0 {
		return nil, domain.NewValidationError("items", "se requiere al menos una línea")
	}
	q := &Quote{PriceTier: in.PriceTier, Total: decimal.Zero, Complete: true}
	err := r.txRunner.Run(ctx, func(store repository.Store) error {
		for i, line := range in.Lines {
			res, err := r.Resolve(ctx, store, ResolveInput{
				ProductID:  line.ProductID,
				Quantity:   line.Quantity,
				PriceTier:  in.PriceTier,
				CustomerID: in.CustomerID,
			})
			if err != nil {
				return prefixField(err, fmt.Sprintf("items[%d]", i))
			}
			total := res.Price.Mul(line.Quantity)
			q.Lines = append(q.Lines, QuotedLine{PriceResult: *res, LineTotal: total})
			q.Total = q.Total.Add(total)
			if !res.Found {
				q.Complete = false
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return q, nil
}

// prefixField antepone la ruta de la línea al campo de un ValidationError.
func prefixField(err error, prefix string) error {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	return domain.NewValidationError(prefix+"."+ve.Field, ve.Reason)
}
