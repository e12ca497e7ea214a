package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

const batchColumns = `id, product_id, reference, received_quantity, consumed_quantity, unit_cost, fully_consumed, received_at, created_at, updated_at`

// BatchRepo lotes de compra sobre PostgreSQL (usable con pool o tx).
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

// Create inserta un lote.
func (r *BatchRepo) Create(ctx context.Context, b *entity.PurchaseBatch) error {
	query := `
		INSERT INTO purchase_batches (` + batchColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.Reference, b.ReceivedQuantity, b.ConsumedQuantity, b.UnitCost,
		b.FullyConsumed, b.ReceivedAt, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create batch", err)
	}
	return nil
}

// ListOpenForUpdate lotes con saldo, del más antiguo al más reciente, bloqueados hasta el fin de la tx.
func (r *BatchRepo) ListOpenForUpdate(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error) {
	return r.list(ctx, `
		SELECT `+batchColumns+`
		FROM purchase_batches
		WHERE product_id = $1 AND consumed_quantity < received_quantity
		ORDER BY received_at ASC, id ASC
		FOR UPDATE`, productID)
}

// ListOpen igual que ListOpenForUpdate sin bloquear (lecturas).
func (r *BatchRepo) ListOpen(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error) {
	return r.list(ctx, `
		SELECT `+batchColumns+`
		FROM purchase_batches
		WHERE product_id = $1 AND consumed_quantity < received_quantity
		ORDER BY received_at ASC, id ASC`, productID)
}

// ListConsumedForUpdate lotes con consumo, del más reciente al más antiguo, bloqueados.
func (r *BatchRepo) ListConsumedForUpdate(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error) {
	return r.list(ctx, `
		SELECT `+batchColumns+`
		FROM purchase_batches
		WHERE product_id = $1 AND consumed_quantity > 0
		ORDER BY received_at DESC, id DESC
		FOR UPDATE`, productID)
}

// GetLatest último lote recibido, consumido o no.
func (r *BatchRepo) GetLatest(ctx context.Context, productID string) (*entity.PurchaseBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM purchase_batches
		WHERE product_id = $1
		ORDER BY received_at DESC, id DESC
		LIMIT 1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, productID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest batch: %w", err)
	}
	return b, nil
}

// UpdateConsumption persiste consumed_quantity y fully_consumed.
func (r *BatchRepo) UpdateConsumption(ctx context.Context, b *entity.PurchaseBatch) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE purchase_batches
		SET consumed_quantity = $2, fully_consumed = $3, updated_at = now()
		WHERE id = $1`, b.ID, b.ConsumedQuantity, b.FullyConsumed)
	return expectOne("update batch consumption", tag, err)
}

func (r *BatchRepo) list(ctx context.Context, query, productID string) ([]*entity.PurchaseBatch, error) {
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan batch: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func scanBatch(row pgx.Row) (*entity.PurchaseBatch, error) {
	var b entity.PurchaseBatch
	err := row.Scan(
		&b.ID, &b.ProductID, &b.Reference, &b.ReceivedQuantity, &b.ConsumedQuantity, &b.UnitCost,
		&b.FullyConsumed, &b.ReceivedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
