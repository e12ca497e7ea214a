package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

var _ repository.CustomerPriceOverrideRepository = (*CustomerPriceOverrideRepo)(nil)

const overrideColumns = `id, customer_id, product_id, min_quantity, max_quantity, price, active, effective_from, effective_to, created_by, created_at, updated_at`

// CustomerPriceOverrideRepo precios especiales por cliente (customer_price_overrides).
type CustomerPriceOverrideRepo struct {
	q Querier
}

// NewCustomerPriceOverrideRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerPriceOverrideRepository(q Querier) *CustomerPriceOverrideRepo {
	return &CustomerPriceOverrideRepo{q: q}
}

// Create inserta un override.
func (r *CustomerPriceOverrideRepo) Create(ctx context.Context, o *entity.CustomerPriceOverride) error {
	query := `
		INSERT INTO customer_price_overrides (` + overrideColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.CustomerID, o.ProductID, o.MinQuantity, o.MaxQuantity, o.Price, o.Active,
		o.EffectiveFrom, o.EffectiveTo, nullString(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return wrapWrite("create override", err)
	}
	return nil
}

// GetByID obtiene un override; nil si no existe.
func (r *CustomerPriceOverrideRepo) GetByID(ctx context.Context, id string) (*entity.CustomerPriceOverride, error) {
	o, err := scanOverride(r.q.QueryRow(ctx, `SELECT `+overrideColumns+` FROM customer_price_overrides WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get override: %w", err)
	}
	return o, nil
}

// ListActive overrides activos del par cliente/producto, el más reciente primero.
func (r *CustomerPriceOverrideRepo) ListActive(ctx context.Context, customerID, productID string) ([]entity.CustomerPriceOverride, error) {
	return r.list(ctx, `
		SELECT `+overrideColumns+`
		FROM customer_price_overrides
		WHERE customer_id = $1 AND product_id = $2 AND active
		ORDER BY created_at DESC, id DESC`, customerID, productID)
}

// ListByCustomer todos los overrides del cliente, activos o no.
func (r *CustomerPriceOverrideRepo) ListByCustomer(ctx context.Context, customerID string) ([]entity.CustomerPriceOverride, error) {
	return r.list(ctx, `
		SELECT `+overrideColumns+`
		FROM customer_price_overrides
		WHERE customer_id = $1
		ORDER BY created_at DESC, id DESC`, customerID)
}

// Deactivate marca el override como inactivo.
func (r *CustomerPriceOverrideRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `UPDATE customer_price_overrides SET active = false, updated_at = now() WHERE id = $1`, id)
	return expectOne("deactivate override", tag, err)
}

func (r *CustomerPriceOverrideRepo) list(ctx context.Context, query string, args ...any) ([]entity.CustomerPriceOverride, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list overrides: %w", err)
	}
	defer rows.Close()
	var list []entity.CustomerPriceOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, fmt.Errorf("scan override: %w", err)
		}
		list = append(list, *o)
	}
	return list, rows.Err()
}

func scanOverride(row pgx.Row) (*entity.CustomerPriceOverride, error) {
	var o entity.CustomerPriceOverride
	var createdBy *string
	err := row.Scan(&o.ID, &o.CustomerID, &o.ProductID, &o.MinQuantity, &o.MaxQuantity, &o.Price, &o.Active,
		&o.EffectiveFrom, &o.EffectiveTo, &createdBy, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.CreatedBy = derefString(createdBy)
	return &o, nil
}
