package inventory

import (
	"context"

	"github.com/jhoicas/erp-backend/internal/application/dto"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
)

// Adaptadores de los requests HTTP a los casos de uso de inventario.

// ReceiveFromRequest adapta dto.ReceiveStockRequest a Receive.
func (uc *RegisterMovementUseCase) ReceiveFromRequest(ctx context.Context, userID string, in dto.ReceiveStockRequest) (*dto.ReceiptResponse, error) {
	res, err := uc.Receive(ctx, ReceiveInput{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		UnitCost:   in.UnitCost,
		ReceivedAt: in.ReceivedAt,
		Reference:  in.Reference,
		ActorID:    userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.ReceiptResponse{
		Batch:       ToBatchDTO(&res.Batch),
		OnHand:      res.Record.Quantity,
		AverageCost: res.Record.AverageCost.Round(costScale),
	}, nil
}

// AdjustFromRequest adapta dto.AdjustStockRequest a Adjust.
func (uc *RegisterMovementUseCase) AdjustFromRequest(ctx context.Context, userID string, in dto.AdjustStockRequest) (*dto.AdjustmentResponse, error) {
	res, err := uc.Adjust(ctx, AdjustInput{
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reason:    in.Reason,
		ActorID:   userID,
	})
	if err != nil {
		return nil, err
	}
	return &dto.AdjustmentResponse{
		ProductID: res.ProductID,
		Quantity:  res.Quantity,
		UnitCost:  res.UnitCost,
		TotalCost: res.TotalCost,
		Degraded:  res.Degraded,
		OnHand:    res.Record.Quantity,
	}, nil
}

// TransferFromRequest adapta dto.TransferRequest a Transfer.
func (uc *TransferUseCase) TransferFromRequest(ctx context.Context, userID string, in dto.TransferRequest) (*dto.TransferResponse, error) {
	t, err := uc.Transfer(ctx, TransferInput{
		ProductID:     in.ProductID,
		Quantity:      in.Quantity,
		FromWarehouse: in.FromWarehouse,
		ToWarehouse:   in.ToWarehouse,
		ActorID:       userID,
	})
	if err != nil {
		return nil, err
	}
	return ToTransferResponse(t), nil
}

// ToBatchDTO convierte un lote a su representación HTTP.
func ToBatchDTO(b *entity.PurchaseBatch) dto.BatchDTO {
	return dto.BatchDTO{
		ID:               b.ID,
		Reference:        b.Reference,
		ReceivedQuantity: b.ReceivedQuantity,
		ConsumedQuantity: b.ConsumedQuantity,
		Remaining:        b.Remaining(),
		UnitCost:         b.UnitCost,
		FullyConsumed:    b.FullyConsumed,
		ReceivedAt:       b.ReceivedAt,
	}
}

// ToStockResponse convierte la vista de saldo a su representación HTTP.
func ToStockResponse(v *StockView) *dto.StockResponse {
	out := &dto.StockResponse{
		ProductID:   v.Record.ProductID,
		Quantity:    v.Record.Quantity,
		AverageCost: v.Record.AverageCost.Round(costScale),
		OpenBatches: make([]dto.BatchDTO, 0, len(v.OpenBatches)),
		UpdatedAt:   v.Record.UpdatedAt,
	}
	for _, b := range v.OpenBatches {
		out.OpenBatches = append(out.OpenBatches, ToBatchDTO(b))
	}
	return out
}

// ToTransferResponse convierte un traslado a su representación HTTP.
func ToTransferResponse(t *entity.StockTransfer) *dto.TransferResponse {
	return &dto.TransferResponse{
		ID:            t.ID,
		ProductID:     t.ProductID,
		FromWarehouse: t.FromWarehouse,
		ToWarehouse:   t.ToWarehouse,
		Quantity:      t.Quantity,
		UnitCost:      t.UnitCost,
		TotalCost:     t.TotalCost,
		Degraded:      t.Degraded,
		Status:        t.Status,
		CreatedAt:     t.CreatedAt,
		CancelledAt:   t.CancelledAt,
	}
}

// ToMovementDTOs convierte una página del kardex.
func ToMovementDTOs(list []*entity.InventoryMovement) []dto.MovementDTO {
	out := make([]dto.MovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.MovementDTO{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Degraded:      m.Degraded,
			Date:          m.Date,
			CreatedBy:     m.CreatedBy,
		})
	}
	return out
}
