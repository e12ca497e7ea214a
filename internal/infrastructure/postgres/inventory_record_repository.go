package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

var _ repository.InventoryRecordRepository = (*InventoryRecordRepo)(nil)

// InventoryRecordRepo saldo por producto sobre PostgreSQL.
type InventoryRecordRepo struct {
	q Querier
}

// NewInventoryRecordRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryRecordRepository(q Querier) *InventoryRecordRepo {
	return &InventoryRecordRepo{q: q}
}

// Get obtiene el saldo; nil si el producto no tiene registro.
func (r *InventoryRecordRepo) Get(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	query := `SELECT product_id, quantity, average_cost, updated_at FROM inventory_records WHERE product_id = $1`
	var rec entity.InventoryRecord
	err := r.q.QueryRow(ctx, query, productID).Scan(&rec.ProductID, &rec.Quantity, &rec.AverageCost, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory record: %w", err)
	}
	return &rec, nil
}

// EnsureForUpdate crea el saldo en cero si no existe y bloquea la fila (SELECT FOR UPDATE).
func (r *InventoryRecordRepo) EnsureForUpdate(ctx context.Context, productID string) (*entity.InventoryRecord, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_records (product_id, quantity, average_cost, updated_at)
		VALUES ($1, 0, 0, now())
		ON CONFLICT (product_id) DO NOTHING`, productID)
	if err != nil {
		return nil, fmt.Errorf("ensure inventory record: %w", err)
	}
	query := `
		SELECT product_id, quantity, average_cost, updated_at
		FROM inventory_records WHERE product_id = $1
		FOR UPDATE`
	var rec entity.InventoryRecord
	if err := r.q.QueryRow(ctx, query, productID).Scan(&rec.ProductID, &rec.Quantity, &rec.AverageCost, &rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("lock inventory record: %w", err)
	}
	return &rec, nil
}

// Update persiste cantidad y costo promedio.
func (r *InventoryRecordRepo) Update(ctx context.Context, rec *entity.InventoryRecord) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_records SET quantity = $2, average_cost = $3, updated_at = $4
		WHERE product_id = $1`, rec.ProductID, rec.Quantity, rec.AverageCost, rec.UpdatedAt)
	return expectOne("update inventory record", tag, err)
}
