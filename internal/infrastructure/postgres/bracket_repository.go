package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

var _ repository.BracketRepository = (*BracketRepo)(nil)

const bracketColumns = `id, product_id, name, effective_from, effective_to, is_selected, created_by, updated_by, created_at, updated_at`

// BracketRepo tablas de precios (price_brackets) y sus tramos (bracket_tiers).
type BracketRepo struct {
	q Querier
}

// NewBracketRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBracketRepository(q Querier) *BracketRepo {
	return &BracketRepo{q: q}
}

// Create inserta la cabecera y los tramos en un solo batch.
func (r *BracketRepo) Create(ctx context.Context, b *entity.PriceBracket) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO price_brackets (`+bracketColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.ProductID, b.Name, b.EffectiveFrom, b.EffectiveTo, b.Selected,
		nullString(b.CreatedBy), nullString(b.UpdatedBy), b.CreatedAt, b.UpdatedAt,
	)
	queueTiers(batch, b)
	if err := execBatch(ctx, r.q, batch); err != nil {
		return wrapWrite("create bracket", err)
	}
	return nil
}

// Update actualiza la cabecera y reemplaza todos los tramos.
func (r *BracketRepo) Update(ctx context.Context, b *entity.PriceBracket) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE price_brackets
		SET name = $2, effective_from = $3, effective_to = $4, is_selected = $5, updated_by = $6, updated_at = $7
		WHERE id = $1`,
		b.ID, b.Name, b.EffectiveFrom, b.EffectiveTo, b.Selected, nullString(b.UpdatedBy), b.UpdatedAt,
	)
	if err := expectOne("update bracket", tag, err); err != nil {
		return err
	}
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM bracket_tiers WHERE bracket_id = $1`, b.ID)
	queueTiers(batch, b)
	if err := execBatch(ctx, r.q, batch); err != nil {
		return wrapWrite("replace bracket tiers", err)
	}
	return nil
}

func queueTiers(batch *pgx.Batch, b *entity.PriceBracket) {
	for i, t := range b.Tiers {
		batch.Queue(`
			INSERT INTO bracket_tiers (id, bracket_id, min_quantity, max_quantity, price, price_tier, active, label, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			t.ID, b.ID, t.MinQuantity, t.MaxQuantity, t.Price, t.PriceTier, t.Active, t.Label, i,
		)
	}
}

// GetByID tabla con sus tramos; nil si no existe.
func (r *BracketRepo) GetByID(ctx context.Context, id string) (*entity.PriceBracket, error) {
	return r.getOne(ctx, `SELECT `+bracketColumns+` FROM price_brackets WHERE id = $1`, id)
}

// GetSelected tabla seleccionada del producto; nil si ninguna.
func (r *BracketRepo) GetSelected(ctx context.Context, productID string) (*entity.PriceBracket, error) {
	return r.getOne(ctx, `
		SELECT `+bracketColumns+`
		FROM price_brackets
		WHERE product_id = $1 AND is_selected
		ORDER BY updated_at DESC
		LIMIT 1`, productID)
}

func (r *BracketRepo) getOne(ctx context.Context, query, arg string) (*entity.PriceBracket, error) {
	b, err := scanBracket(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bracket: %w", err)
	}
	if err := r.loadTiers(ctx, []*entity.PriceBracket{b}); err != nil {
		return nil, err
	}
	return b, nil
}

// ListByProduct tablas del producto con sus tramos, más reciente primero.
func (r *BracketRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.PriceBracket, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+bracketColumns+`
		FROM price_brackets WHERE product_id = $1
		ORDER BY created_at DESC, id DESC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list brackets: %w", err)
	}
	defer rows.Close()
	var list []*entity.PriceBracket
	for rows.Next() {
		b, err := scanBracket(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bracket: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadTiers(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *BracketRepo) loadTiers(ctx context.Context, brackets []*entity.PriceBracket) error {
	if len(brackets) == 0 {
		return nil
	}
	byID := make(map[string]*entity.PriceBracket, len(brackets))
	ids := make([]string, 0, len(brackets))
	for _, b := range brackets {
		byID[b.ID] = b
		ids = append(ids, b.ID)
		b.Tiers = []entity.BracketTier{}
	}
	rows, err := r.q.Query(ctx, `
		SELECT id, bracket_id, min_quantity, max_quantity, price, price_tier, active, label
		FROM bracket_tiers WHERE bracket_id = ANY($1)
		ORDER BY bracket_id, position`, ids)
	if err != nil {
		return fmt.Errorf("list bracket tiers: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t entity.BracketTier
		if err := rows.Scan(&t.ID, &t.BracketID, &t.MinQuantity, &t.MaxQuantity, &t.Price, &t.PriceTier, &t.Active, &t.Label); err != nil {
			return fmt.Errorf("scan bracket tier: %w", err)
		}
		if b, ok := byID[t.BracketID]; ok {
			b.Tiers = append(b.Tiers, t)
		}
	}
	return rows.Err()
}

// DeselectAllForProduct quita la selección de todas las tablas del producto.
func (r *BracketRepo) DeselectAllForProduct(ctx context.Context, productID, actorID string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE price_brackets SET is_selected = false, updated_by = $2, updated_at = now()
		WHERE product_id = $1 AND is_selected`, productID, nullString(actorID))
	if err != nil {
		return fmt.Errorf("deselect brackets: %w", err)
	}
	return nil
}

// Select marca la tabla como seleccionada.
func (r *BracketRepo) Select(ctx context.Context, bracketID, actorID string) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE price_brackets SET is_selected = true, updated_by = $2, updated_at = now()
		WHERE id = $1`, bracketID, nullString(actorID))
	return expectOne("select bracket", tag, err)
}

func scanBracket(row pgx.Row) (*entity.PriceBracket, error) {
	var b entity.PriceBracket
	var createdBy, updatedBy *string
	err := row.Scan(&b.ID, &b.ProductID, &b.Name, &b.EffectiveFrom, &b.EffectiveTo, &b.Selected,
		&createdBy, &updatedBy, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	b.CreatedBy = derefString(createdBy)
	b.UpdatedBy = derefString(updatedBy)
	return &b, nil
}
