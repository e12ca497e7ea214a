package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/pricing"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// OverrideAdminUseCase administración de precios especiales por cliente.
type OverrideAdminUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewOverrideAdminUseCase construye el caso de uso.
func NewOverrideAdminUseCase(txRunner TxRunner, log *logger.Logger) *OverrideAdminUseCase {
	return &OverrideAdminUseCase{txRunner: txRunner, log: logger.OrNop(log), now: time.Now}
}

// OverrideInput datos de un precio especial. EffectiveFrom nil = ahora.
type OverrideInput struct {
	CustomerID    string
	ProductID     string
	MinQuantity   decimal.Decimal
	MaxQuantity   *decimal.Decimal
	Price         decimal.Decimal
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	ActorID       string
}

// Create desactiva los overrides activos del mismo cliente y producto cuyo rango se solapa
// con el nuevo y luego lo inserta activo. Devuelve el nuevo y los IDs desactivados.
func (uc *OverrideAdminUseCase) Create(ctx context.Context, in OverrideInput) (*entity.CustomerPriceOverride, []string, error) {
	now := uc.now()
	from := now
	if in.EffectiveFrom != nil {
		from = *in.EffectiveFrom
	}
	o := &entity.CustomerPriceOverride{
		ID:            uuid.New().String(),
		CustomerID:    in.CustomerID,
		ProductID:     in.ProductID,
		MinQuantity:   in.MinQuantity,
		MaxQuantity:   in.MaxQuantity,
		Price:         in.Price,
		Active:        true,
		EffectiveFrom: from,
		EffectiveTo:   in.EffectiveTo,
		CreatedBy:     in.ActorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := pricing.ValidateOverride(*o); err != nil {
		return nil, nil, err
	}

	deactivated := []string{}
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		customer, err := store.Customers().GetByID(ctx, in.CustomerID)
		if err != nil {
			return fmt.Errorf("get customer: %w", err)
		}
		if customer == nil {
			return fmt.Errorf("%w: cliente %s", domain.ErrNotFound, in.CustomerID)
		}
		if err := ensureProduct(ctx, store, in.ProductID); err != nil {
			return err
		}
		active, err := store.Overrides().ListActive(ctx, in.CustomerID, in.ProductID)
		if err != nil {
			return fmt.Errorf("list overrides: %w", err)
		}
		for _, existing := range active {
			if !pricing.RangesOverlap(existing.MinQuantity, existing.MaxQuantity, o.MinQuantity, o.MaxQuantity) {
				continue
			}
			if err := store.Overrides().Deactivate(ctx, existing.ID); err != nil {
				return fmt.Errorf("deactivate override %s: %w", existing.ID, err)
			}
			deactivated = append(deactivated, existing.ID)
		}
		if err := store.Overrides().Create(ctx, o); err != nil {
			return fmt.Errorf("create override: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	uc.log.Info().
		Str("override_id", o.ID).
		Str("customer_id", o.CustomerID).
		Str("product_id", o.ProductID).
		Strs("deactivated", deactivated).
		Msg("precio especial creado")
	return o, deactivated, nil
}

// Deactivate desactiva un override.
func (uc *OverrideAdminUseCase) Deactivate(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(store repository.Store) error {
		o, err := store.Overrides().GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("get override: %w", err)
		}
		if o == nil {
			return fmt.Errorf("%w: precio especial %s", domain.ErrNotFound, id)
		}
		if !o.Active {
			return nil
		}
		return store.Overrides().Deactivate(ctx, id)
	})
}

// ListByCustomer overrides del cliente (activos e inactivos), más reciente primero.
func (uc *OverrideAdminUseCase) ListByCustomer(ctx context.Context, customerID string) ([]entity.CustomerPriceOverride, error) {
	if customerID == "" {
		return nil, domain.NewValidationError("customer_id", "es obligatorio")
	}
	var list []entity.CustomerPriceOverride
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		list, err = store.Overrides().ListByCustomer(ctx, customerID)
		return err
	})
	return list, err
}
