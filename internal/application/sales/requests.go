package sales

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// RegisterFromRequest adapta dto.RegisterSaleRequest a Register.
func (uc *SaleUseCase) RegisterFromRequest(ctx context.Context, userID string, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	items := make([]ItemInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, ItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	sale, err := uc.Register(ctx, RegisterInput{
		CustomerID: in.CustomerID,
		PriceTier:  in.PriceTier,
		Items:      items,
		ActorID:    userID,
	})
	if err != nil {
		return nil, err
	}
	return ToSaleResponse(sale), nil
}

// ToSaleResponse convierte una venta a su representación HTTP.
func ToSaleResponse(s *entity.Sale) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:          s.ID,
		CustomerID:  s.CustomerID,
		PriceTier:   s.PriceTier,
		Status:      s.Status,
		TotalAmount: s.TotalAmount,
		TotalCost:   s.TotalCost,
		GrossProfit: s.GrossProfit,
		Items:       make([]dto.SaleItemResponse, 0, len(s.Items)),
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
		CancelledAt: s.CancelledAt,
	}
	for _, it := range s.Items {
		out.Items = append(out.Items, dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			UnitCost:    it.UnitCost,
			TotalCost:   it.TotalCost,
			PriceSource: it.PriceSource,
			Degraded:    it.Degraded,
		})
	}
	return out
}
