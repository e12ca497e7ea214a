package pricing

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ResolveFromQuery adapta los parámetros de GET /api/pricing/resolve.
func (r *BracketPriceResolver) ResolveFromQuery(ctx context.Context, q dto.ResolvePriceQuery) (*dto.PriceResponse, error) {
	qty, err := decimal.NewFromString(q.Quantity)
	if err != nil {
		return nil, domain.NewValidationError("quantity", "debe ser numérico")
	}
	res, err := r.ResolvePrice(ctx, ResolveInput{
		ProductID:  q.ProductID,
		Quantity:   qty,
		PriceTier:  q.PriceTier,
		CustomerID: q.CustomerID,
	})
	if err != nil {
		return nil, err
	}
	out := toPriceResponse(res)
	return &out, nil
}

// QuoteFromRequest adapta dto.QuoteRequest a Quote.
func (r *BracketPriceResolver) QuoteFromRequest(ctx context.Context, in dto.QuoteRequest) (*dto.QuoteResponse, error) {
	lines := make([]QuoteLine, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, QuoteLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	q, err := r.Quote(ctx, QuoteInput{CustomerID: in.CustomerID, PriceTier: in.PriceTier, Lines: lines})
	if err != nil {
		return nil, err
	}
	out := &dto.QuoteResponse{PriceTier: q.PriceTier, Total: q.Total, Complete: q.Complete, Lines: make([]dto.QuoteLineResponse, 0, len(q.Lines))}
	for _, l := range q.Lines {
		out.Lines = append(out.Lines, dto.QuoteLineResponse{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.Price,
			LineTotal: l.LineTotal,
			Source:    string(l.Source),
			Found:     l.Found,
		})
	}
	return out, nil
}

func toPriceResponse(res *PriceResult) dto.PriceResponse {
	return dto.PriceResponse{
		ProductID:  res.ProductID,
		Quantity:   res.Quantity,
		PriceTier:  res.PriceTier,
		Price:      res.Price,
		Found:      res.Found,
		Source:     string(res.Source),
		BracketID:  res.BracketID,
		TierID:     res.TierID,
		OverrideID: res.OverrideID,
		TierLabel:  res.TierLabel,
	}
}

// BracketInputFromCreate adapta dto.CreateBracketRequest.
func BracketInputFromCreate(userID string, in dto.CreateBracketRequest) BracketInput {
	return BracketInput{
		ProductID:     in.ProductID,
		Name:          in.Name,
		EffectiveFrom: in.EffectiveFrom,
		EffectiveTo:   in.EffectiveTo,
		Tiers:         tiersFromRequest(in.Tiers),
		ActorID:       userID,
	}
}

// BracketInputFromUpdate adapta dto.UpdateBracketRequest.
func BracketInputFromUpdate(userID string, in dto.UpdateBracketRequest) BracketInput {
	return BracketInput{
		Name:          in.Name,
		EffectiveFrom: in.EffectiveFrom,
		EffectiveTo:   in.EffectiveTo,
		Tiers:         tiersFromRequest(in.Tiers),
		ActorID:       userID,
	}
}

func tiersFromRequest(in []dto.BracketTierRequest) []entity.BracketTier {
	tiers := make([]entity.BracketTier, 0, len(in))
	for _, t := range in {
		active := true
		if t.Active != nil {
			active = *t.Active
		}
		tiers = append(tiers, entity.BracketTier{
			MinQuantity: t.MinQuantity,
			MaxQuantity: t.MaxQuantity,
			Price:       t.Price,
			PriceTier:   t.PriceTier,
			Active:      active,
			Label:       t.Label,
		})
	}
	return tiers
}

// ToBracketResponse convierte una tabla a su representación HTTP.
func ToBracketResponse(b *entity.PriceBracket) dto.BracketResponse {
	out := dto.BracketResponse{
		ID:            b.ID,
		ProductID:     b.ProductID,
		Name:          b.Name,
		EffectiveFrom: b.EffectiveFrom,
		EffectiveTo:   b.EffectiveTo,
		Selected:      b.Selected,
		Tiers:         make([]dto.BracketTierResponse, 0, len(b.Tiers)),
		CreatedBy:     b.CreatedBy,
		UpdatedBy:     b.UpdatedBy,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
	for _, t := range b.Tiers {
		out.Tiers = append(out.Tiers, dto.BracketTierResponse{
			ID:          t.ID,
			MinQuantity: t.MinQuantity,
			MaxQuantity: t.MaxQuantity,
			Price:       t.Price,
			PriceTier:   t.PriceTier,
			Active:      t.Active,
			Label:       t.Label,
		})
	}
	return out
}

// OverrideInputFromRequest adapta dto.CreateOverrideRequest.
func OverrideInputFromRequest(userID string, in dto.CreateOverrideRequest) OverrideInput {
	return OverrideInput{
		CustomerID:    in.CustomerID,
		ProductID:     in.ProductID,
		MinQuantity:   in.MinQuantity,
		MaxQuantity:   in.MaxQuantity,
		Price:         in.Price,
		EffectiveFrom: in.EffectiveFrom,
		EffectiveTo:   in.EffectiveTo,
		ActorID:       userID,
	}
}

// ToOverrideResponse convierte un override a su representación HTTP.
func ToOverrideResponse(o *entity.CustomerPriceOverride) dto.OverrideResponse {
	return dto.OverrideResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		ProductID:     o.ProductID,
		MinQuantity:   o.MinQuantity,
		MaxQuantity:   o.MaxQuantity,
		Price:         o.Price,
		Active:        o.Active,
		EffectiveFrom: o.EffectiveFrom,
		EffectiveTo:   o.EffectiveTo,
		CreatedAt:     o.CreatedAt,
	}
}
