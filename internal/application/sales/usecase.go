// Package sales registra y cancela ventas: precio por línea con el resolvedor de precios
// y costo FIFO con el asignador de lotes, todo en una transacción.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/application/pricing"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// PriceSourceManual precio digitado por el vendedor en la línea.
const PriceSourceManual = "manual"

// SaleUseCase registro y cancelación de ventas.
type SaleUseCase struct {
	txRunner  inventory.TxRunner
	resolver  *pricing.BracketPriceResolver
	allocator *inventory.BatchCostAllocator
	log       *logger.Logger
	now       func() time.Time
}

// NewSaleUseCase construye el caso de uso.
func NewSaleUseCase(txRunner inventory.TxRunner, resolver *pricing.BracketPriceResolver, allocator *inventory.BatchCostAllocator, log *logger.Logger) *SaleUseCase {
	return &SaleUseCase{
		txRunner:  txRunner,
		resolver:  resolver,
		allocator: allocator,
		log:       logger.OrNop(log),
		now:       time.Now,
	}
}

// ItemInput línea de venta. UnitPrice nil = se resuelve el precio.
type ItemInput struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitPrice *decimal.Decimal
}

// RegisterInput datos de una venta. CustomerID vacío = venta de mostrador.
type RegisterInput struct {
	CustomerID string
	PriceTier  string
	Items      []ItemInput
	ActorID    string
}

// Register resuelve precio, asigna costo FIFO y descuenta inventario por cada línea.
// Cualquier error (inventario insuficiente, producto inexistente) revierte la venta completa.
func (uc *SaleUseCase) Register(ctx context.Context, in RegisterInput) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "se requiere al menos una línea")
	}
	if !entity.IsValidPriceTier(in.PriceTier) {
		return nil, domain.NewValidationError("price_tier", "debe ser regular, wholesale o walk_in")
	}
	for i, it := range in.Items {
		if it.ProductID == "" {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].product_id", i), "es obligatorio")
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "debe ser mayor que cero")
		}
		if it.UnitPrice != nil && it.UnitPrice.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError(fmt.Sprintf("items[%d].unit_price", i), "no puede ser negativo")
		}
	}

	now := uc.now()
	sale := &entity.Sale{
		ID:          uuid.New().String(),
		CustomerID:  in.CustomerID,
		PriceTier:   in.PriceTier,
		Status:      entity.SaleStatusCompleted,
		TotalAmount: decimal.Zero,
		TotalCost:   decimal.Zero,
		CreatedBy:   in.ActorID,
		CreatedAt:   now,
	}

	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		for _, it := range in.Items {
			item, err := uc.registerItem(ctx, store, sale, it, now)
			if err != nil {
				return err
			}
			sale.Items = append(sale.Items, *item)
			sale.TotalAmount = sale.TotalAmount.Add(item.Subtotal)
			sale.TotalCost = sale.TotalCost.Add(item.TotalCost)
		}
		sale.GrossProfit = sale.TotalAmount.Sub(sale.TotalCost)
		if err := store.Sales().Create(ctx, sale); err != nil {
			return fmt.Errorf("create sale: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Int("items", len(sale.Items)).
		Str("total", sale.TotalAmount.String()).
		Msg("venta registrada")
	return sale, nil
}

func (uc *SaleUseCase) registerItem(ctx context.Context, store repository.Store, sale *entity.Sale, it ItemInput, now time.Time) (*entity.SaleItem, error) {
	// Con precio manual el resolvedor no corre: la existencia del producto se valida aquí.
	product, err := store.Products().GetByID(ctx, it.ProductID)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, it.ProductID)
	}

	item := &entity.SaleItem{
		ID:        uuid.New().String(),
		SaleID:    sale.ID,
		ProductID: it.ProductID,
		Quantity:  it.Quantity,
	}
	if it.UnitPrice != nil {
		item.UnitPrice = *it.UnitPrice
		item.PriceSource = PriceSourceManual
	} else {
		price, err := uc.resolver.Resolve(ctx, store, pricing.ResolveInput{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			PriceTier:  sale.PriceTier,
			CustomerID: sale.CustomerID,
		})
		if err != nil {
			return nil, err
		}
		item.UnitPrice = price.Price
		item.PriceSource = string(price.Source)
	}

	alloc, err := uc.allocator.Allocate(ctx, store, it.ProductID, it.Quantity)
	if err != nil {
		return nil, err
	}
	item.Subtotal = item.UnitPrice.Mul(it.Quantity)
	item.UnitCost = alloc.UnitCost
	item.TotalCost = alloc.TotalCost
	item.Degraded = alloc.Degraded()

	if err := store.Movements().Create(ctx, &entity.InventoryMovement{
		ID:            uuid.New().String(),
		TransactionID: sale.ID,
		ProductID:     it.ProductID,
		Type:          entity.MovementTypeSALE,
		Quantity:      it.Quantity.Neg(),
		UnitCost:      alloc.UnitCost,
		TotalCost:     alloc.TotalCost.Neg(),
		Degraded:      alloc.Degraded(),
		Date:          now,
		CreatedAt:     now,
		CreatedBy:     sale.CreatedBy,
	}); err != nil {
		return nil, fmt.Errorf("create movement: %w", err)
	}
	return item, nil
}

// Cancel revierte el costo de cada línea, devuelve el inventario y marca la venta cancelada.
func (uc *SaleUseCase) Cancel(ctx context.Context, saleID, actorID string) (*entity.Sale, error) {
	now := uc.now()
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		s, err := getSale(ctx, store, saleID)
		if err != nil {
			return err
		}
		if s.Status == entity.SaleStatusCancelled {
			return fmt.Errorf("%w: la venta ya fue cancelada", domain.ErrConflict)
		}
		for _, it := range s.Items {
			if _, err := uc.allocator.Reverse(ctx, store, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if err := store.Movements().Create(ctx, &entity.InventoryMovement{
				ID:            uuid.New().String(),
				TransactionID: s.ID,
				ProductID:     it.ProductID,
				Type:          entity.MovementTypeSALECANCEL,
				Quantity:      it.Quantity,
				UnitCost:      it.UnitCost,
				TotalCost:     it.TotalCost,
				Date:          now,
				CreatedAt:     now,
				CreatedBy:     actorID,
			}); err != nil {
				return fmt.Errorf("create movement: %w", err)
			}
		}
		if err := store.Sales().MarkCancelled(ctx, s.ID, actorID, now); err != nil {
			return fmt.Errorf("cancel sale: %w", err)
		}
		s.Status = entity.SaleStatusCancelled
		s.CancelledBy = actorID
		s.CancelledAt = &now
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("sale_id", sale.ID).Str("actor", actorID).Msg("venta cancelada")
	return sale, nil
}

// GetByID devuelve la venta con sus líneas.
func (uc *SaleUseCase) GetByID(ctx context.Context, saleID string) (*entity.Sale, error) {
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		sale, err = getSale(ctx, store, saleID)
		return err
	})
	return sale, err
}

func getSale(ctx context.Context, store repository.Store, id string) (*entity.Sale, error) {
	s, err := store.Sales().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if s == nil {
		return nil, fmt.Errorf("%w: venta %s", domain.ErrNotFound, id)
	}
	return s, nil
}
