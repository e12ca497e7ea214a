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
)

// BracketAdminUseCase administración de tablas de precios por cantidad. Cada escritura es una transacción.
type BracketAdminUseCase struct {
	txRunner TxRunner
	log      *logger.Logger
	now      func() time.Time
}

// NewBracketAdminUseCase construye el caso de uso.
func NewBracketAdminUseCase(txRunner TxRunner, log *logger.Logger) *BracketAdminUseCase {
	return &BracketAdminUseCase{txRunner: txRunner, log: logger.OrNop(log), now: time.Now}
}

// BracketInput cabecera y tramos de una tabla. EffectiveFrom nil = ahora.
type BracketInput struct {
	ProductID     string
	Name          string
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	Tiers         []entity.BracketTier
	ActorID       string
}

// Create valida los tramos y crea la tabla sin seleccionar.
func (uc *BracketAdminUseCase) Create(ctx context.Context, in BracketInput) (*entity.PriceBracket, error) {
	if in.ProductID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	now := uc.now()
	bracket := &entity.PriceBracket{
		ID:        uuid.New().String(),
		ProductID: in.ProductID,
		Name:      in.Name,
		CreatedBy: in.ActorID,
		UpdatedBy: in.ActorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := applyBracketInput(bracket, in, now); err != nil {
		return nil, err
	}

	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		if err := ensureProduct(ctx, store, in.ProductID); err != nil {
			return err
		}
		if err := store.Brackets().Create(ctx, bracket); err != nil {
			return fmt.Errorf("create bracket: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("bracket_id", bracket.ID).Str("product_id", bracket.ProductID).Str("actor", in.ActorID).Msg("tabla de precios creada")
	return bracket, nil
}

// Update reemplaza nombre, vigencia y tramos. Conserva producto y selección.
func (uc *BracketAdminUseCase) Update(ctx context.Context, id string, in BracketInput) (*entity.PriceBracket, error) {
	now := uc.now()
	var bracket *entity.PriceBracket
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		b, err := getBracket(ctx, store, id)
		if err != nil {
			return err
		}
		if err := applyBracketInput(b, in, b.EffectiveFrom); err != nil {
			return err
		}
		b.UpdatedBy = in.ActorID
		b.UpdatedAt = now
		if err := store.Brackets().Update(ctx, b); err != nil {
			return fmt.Errorf("update bracket: %w", err)
		}
		bracket = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bracket, nil
}

// Clone copia la tabla y sus tramos con IDs nuevos, sin seleccionar.
func (uc *BracketAdminUseCase) Clone(ctx context.Context, id, name, actorID string) (*entity.PriceBracket, error) {
	now := uc.now()
	var clone *entity.PriceBracket
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		src, err := getBracket(ctx, store, id)
		if err != nil {
			return err
		}
		if name == "" {
			name = src.Name + " (copia)"
		}
		c := &entity.PriceBracket{
			ID:            uuid.New().String(),
			ProductID:     src.ProductID,
			Name:          name,
			EffectiveFrom: src.EffectiveFrom,
			EffectiveTo:   src.EffectiveTo,
			CreatedBy:     actorID,
			UpdatedBy:     actorID,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		for _, t := range src.Tiers {
			t.ID = uuid.New().String()
			t.BracketID = c.ID
			c.Tiers = append(c.Tiers, t)
		}
		if err := store.Brackets().Create(ctx, c); err != nil {
			return fmt.Errorf("clone bracket: %w", err)
		}
		clone = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return clone, nil
}

// Activate deselecciona todas las tablas del producto, selecciona id y activa
// la resolución por tramos del producto, en una sola transacción.
func (uc *BracketAdminUseCase) Activate(ctx context.Context, id, actorID string) (*entity.PriceBracket, error) {
	var bracket *entity.PriceBracket
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		b, err := getBracket(ctx, store, id)
		if err != nil {
			return err
		}
		if err := store.Brackets().DeselectAllForProduct(ctx, b.ProductID, actorID); err != nil {
			return fmt.Errorf("deselect brackets: %w", err)
		}
		if err := store.Brackets().Select(ctx, b.ID, actorID); err != nil {
			return fmt.Errorf("select bracket: %w", err)
		}
		if err := store.Products().SetUseBracketPricing(ctx, b.ProductID, true); err != nil {
			return fmt.Errorf("enable bracket pricing: %w", err)
		}
		b.Selected = true
		b.UpdatedBy = actorID
		bracket = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("bracket_id", bracket.ID).Str("product_id", bracket.ProductID).Str("actor", actorID).Msg("tabla de precios activada")
	return bracket, nil
}

// DeactivateBracketPricing deselecciona todas las tablas del producto y vuelve al precio plano.
func (uc *BracketAdminUseCase) DeactivateBracketPricing(ctx context.Context, productID, actorID string) error {
	return uc.txRunner.Run(ctx, func(store repository.Store) error {
		if err := ensureProduct(ctx, store, productID); err != nil {
			return err
		}
		if err := store.Brackets().DeselectAllForProduct(ctx, productID, actorID); err != nil {
			return fmt.Errorf("deselect brackets: %w", err)
		}
		if err := store.Products().SetUseBracketPricing(ctx, productID, false); err != nil {
			return fmt.Errorf("disable bracket pricing: %w", err)
		}
		return nil
	})
}

// Get devuelve la tabla con sus tramos.
func (uc *BracketAdminUseCase) Get(ctx context.Context, id string) (*entity.PriceBracket, error) {
	var bracket *entity.PriceBracket
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		bracket, err = getBracket(ctx, store, id)
		return err
	})
	return bracket, err
}

// List tablas del producto, más reciente primero.
func (uc *BracketAdminUseCase) List(ctx context.Context, productID string) ([]*entity.PriceBracket, error) {
	if productID == "" {
		return nil, domain.NewValidationError("product_id", "es obligatorio")
	}
	var list []*entity.PriceBracket
	err := uc.txRunner.Run(ctx, func(store repository.Store) error {
		var err error
		list, err = store.Brackets().ListByProduct(ctx, productID)
		return err
	})
	return list, err
}

// applyBracketInput valida y copia la entrada sobre la tabla, asignando IDs a los tramos.
func applyBracketInput(b *entity.PriceBracket, in BracketInput, defaultFrom time.Time) error {
	if in.Name == "" {
		return domain.NewValidationError("name", "es obligatorio")
	}
	if err := pricing.ValidateTiers(in.Tiers); err != nil {
		return err
	}
	from := defaultFrom
	if in.EffectiveFrom != nil {
		from = *in.EffectiveFrom
	}
	if err := pricing.ValidateEffectiveRange(from, in.EffectiveTo); err != nil {
		return err
	}
	b.Name = in.Name
	b.EffectiveFrom = from
	b.EffectiveTo = in.EffectiveTo
	b.Tiers = make([]entity.BracketTier, 0, len(in.Tiers))
	for _, t := range in.Tiers {
		t.ID = uuid.New().String()
		t.BracketID = b.ID
		b.Tiers = append(b.Tiers, t)
	}
	return nil
}

func getBracket(ctx context.Context, store repository.Store, id string) (*entity.PriceBracket, error) {
	b, err := store.Brackets().GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get bracket: %w", err)
	}
	if b == nil {
		return nil, fmt.Errorf("%w: tabla de precios %s", domain.ErrNotFound, id)
	}
	return b, nil
}

func ensureProduct(ctx context.Context, store repository.Store, productID string) error {
	p, err := store.Products().GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("get product: %w", err)
	}
	if p == nil {
		return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return nil
}
