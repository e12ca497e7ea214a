package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
)

var (
	_ repository.ProductRepository      = (*ProductRepo)(nil)
	_ repository.ProductPriceRepository = (*ProductPriceRepo)(nil)
)

// ProductRepo implementación de ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, sku, name, unit_measure, use_bracket_pricing, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, p.ID, p.SKU, p.Name, p.UnitMeasure, p.UseBracketPricing, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return wrapWrite("create product", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, sku, name, unit_measure, use_bracket_pricing, created_at, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.SKU, &p.Name, &p.UnitMeasure, &p.UseBracketPricing, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// SetUseBracketPricing activa o desactiva la resolución por tramos del producto.
func (r *ProductRepo) SetUseBracketPricing(ctx context.Context, productID string, enabled bool) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET use_bracket_pricing = $2, updated_at = now() WHERE id = $1`, productID, enabled)
	return expectOne("set use_bracket_pricing", tag, err)
}

// ProductPriceRepo precios planos por vigencia.
type ProductPriceRepo struct {
	q Querier
}

// NewProductPriceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductPriceRepository(q Querier) *ProductPriceRepo {
	return &ProductPriceRepo{q: q}
}

// Create inserta un registro de precio.
func (r *ProductPriceRepo) Create(ctx context.Context, p *entity.ProductPrice) error {
	query := `
		INSERT INTO product_prices (id, product_id, regular_price, wholesale_price, walk_in_price, effective_from, effective_to, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, p.ID, p.ProductID, p.RegularPrice, p.WholesalePrice, p.WalkInPrice, p.EffectiveFrom, p.EffectiveTo, p.CreatedAt)
	if err != nil {
		return wrapWrite("create product price", err)
	}
	return nil
}

// ListByProduct registros de precio del producto, effective_from más reciente primero.
func (r *ProductPriceRepo) ListByProduct(ctx context.Context, productID string) ([]entity.ProductPrice, error) {
	query := `
		SELECT id, product_id, regular_price, wholesale_price, walk_in_price, effective_from, effective_to, created_at
		FROM product_prices WHERE product_id = $1
		ORDER BY effective_from DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product prices: %w", err)
	}
	defer rows.Close()
	var list []entity.ProductPrice
	for rows.Next() {
		var p entity.ProductPrice
		if err := rows.Scan(&p.ID, &p.ProductID, &p.RegularPrice, &p.WholesalePrice, &p.WalkInPrice, &p.EffectiveFrom, &p.EffectiveTo, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan product price: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
