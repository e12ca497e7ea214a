package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

var (
	_ repository.SaleRepository     = (*SaleRepo)(nil)
	_ repository.TransferRepository = (*TransferRepo)(nil)
)

// SaleRepo ventas (sales + sale_items).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y líneas en un solo batch.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO sales (id, customer_id, price_tier, status, total_amount, total_cost, gross_profit, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		s.ID, nullString(s.CustomerID), s.PriceTier, s.Status, s.TotalAmount, s.TotalCost, s.GrossProfit,
		nullString(s.CreatedBy), s.CreatedAt,
	)
	for i, it := range s.Items {
		batch.Queue(`
			INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal, unit_cost, total_cost, price_source, degraded, position)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
			it.ID, s.ID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.UnitCost, it.TotalCost,
			it.PriceSource, it.Degraded, i,
		)
	}
	if err := execBatch(ctx, r.q, batch); err != nil {
		return wrapWrite("create sale", err)
	}
	return nil
}

// GetByID venta con sus líneas; nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	var s entity.Sale
	var customerID, createdBy, cancelledBy *string
	err := r.q.QueryRow(ctx, `
		SELECT id, customer_id, price_tier, status, total_amount, total_cost, gross_profit,
		       created_by, created_at, cancelled_by, cancelled_at
		FROM sales WHERE id = $1`, id).Scan(
		&s.ID, &customerID, &s.PriceTier, &s.Status, &s.TotalAmount, &s.TotalCost, &s.GrossProfit,
		&createdBy, &s.CreatedAt, &cancelledBy, &s.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	s.CustomerID = derefString(customerID)
	s.CreatedBy = derefString(createdBy)
	s.CancelledBy = derefString(cancelledBy)

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, product_id, quantity, unit_price, subtotal, unit_cost, total_cost, price_source, degraded
		FROM sale_items WHERE sale_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.SaleItem
		if err := rows.Scan(&it.ID, &it.SaleID, &it.ProductID, &it.Quantity, &it.UnitPrice, &it.Subtotal,
			&it.UnitCost, &it.TotalCost, &it.PriceSource, &it.Degraded); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		s.Items = append(s.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &s, nil
}

// MarkCancelled pasa la venta a cancelada.
func (r *SaleRepo) MarkCancelled(ctx context.Context, id, actorID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE sales SET status = $2, cancelled_by = $3, cancelled_at = $4
		WHERE id = $1`, id, entity.SaleStatusCancelled, nullString(actorID), at)
	return expectOne("cancel sale", tag, err)
}

// TransferRepo traslados entre bodegas (stock_transfers).
type TransferRepo struct {
	q Querier
}

// NewTransferRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransferRepository(q Querier) *TransferRepo {
	return &TransferRepo{q: q}
}

// Create inserta un traslado.
func (r *TransferRepo) Create(ctx context.Context, t *entity.StockTransfer) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock_transfers (id, product_id, from_warehouse, to_warehouse, quantity, unit_cost, total_cost, degraded, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		t.ID, t.ProductID, t.FromWarehouse, t.ToWarehouse, t.Quantity, t.UnitCost, t.TotalCost, t.Degraded,
		t.Status, nullString(t.CreatedBy), t.CreatedAt,
	)
	if err != nil {
		return wrapWrite("create transfer", err)
	}
	return nil
}

// GetByID obtiene un traslado; nil si no existe.
func (r *TransferRepo) GetByID(ctx context.Context, id string) (*entity.StockTransfer, error) {
	var t entity.StockTransfer
	var createdBy, cancelledBy *string
	err := r.q.QueryRow(ctx, `
		SELECT id, product_id, from_warehouse, to_warehouse, quantity, unit_cost, total_cost, degraded, status,
		       created_by, created_at, cancelled_by, cancelled_at
		FROM stock_transfers WHERE id = $1`, id).Scan(
		&t.ID, &t.ProductID, &t.FromWarehouse, &t.ToWarehouse, &t.Quantity, &t.UnitCost, &t.TotalCost, &t.Degraded,
		&t.Status, &createdBy, &t.CreatedAt, &cancelledBy, &t.CancelledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transfer: %w", err)
	}
	t.CreatedBy = derefString(createdBy)
	t.CancelledBy = derefString(cancelledBy)
	return &t, nil
}

// MarkCancelled pasa el traslado a cancelado.
func (r *TransferRepo) MarkCancelled(ctx context.Context, id, actorID string, at time.Time) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE stock_transfers SET status = $2, cancelled_by = $3, cancelled_at = $4
		WHERE id = $1`, id, entity.TransferStatusCancelled, nullString(actorID), at)
	return expectOne("cancel transfer", tag, err)
}
