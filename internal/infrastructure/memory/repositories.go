package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/shopspring/decimal"
)

type batchRepo struct{ st *state }

func (r batchRepo) Create(_ context.Context, b *entity.PurchaseBatch) error {
	if _, ok := r.st.batches[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.batches[b.ID] = *b
	return nil
}

func (r batchRepo) filter(productID string, keep func(entity.PurchaseBatch) bool) []*entity.PurchaseBatch {
	var list []*entity.PurchaseBatch
	for _, b := range r.st.batches {
		if b.ProductID != productID || !keep(b) {
			continue
		}
		cp := b
		list = append(list, &cp)
	}
	sortBatchesAsc(list)
	return list
}

func (r batchRepo) ListOpenForUpdate(_ context.Context, productID string) ([]*entity.PurchaseBatch, error) {
	return r.filter(productID, func(b entity.PurchaseBatch) bool {
		return b.ConsumedQuantity.LessThan(b.ReceivedQuantity)
	}), nil
}

func (r batchRepo) ListOpen(ctx context.Context, productID string) ([]*entity.PurchaseBatch, error) {
	return r.ListOpenForUpdate(ctx, productID)
}

func (r batchRepo) ListConsumedForUpdate(_ context.Context, productID string) ([]*entity.PurchaseBatch, error) {
	list := r.filter(productID, func(b entity.PurchaseBatch) bool {
		return b.ConsumedQuantity.GreaterThan(decimal.Zero)
	})
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (r batchRepo) GetLatest(_ context.Context, productID string) (*entity.PurchaseBatch, error) {
	list := r.filter(productID, func(entity.PurchaseBatch) bool { return true })
	if len(list) == 0 {
		return nil, nil
	}
	return list[len(list)-1], nil
}

func (r batchRepo) UpdateConsumption(_ context.Context, b *entity.PurchaseBatch) error {
	cur, ok := r.st.batches[b.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.ConsumedQuantity = b.ConsumedQuantity
	cur.FullyConsumed = b.FullyConsumed
	cur.UpdatedAt = time.Now()
	r.st.batches[b.ID] = cur
	return nil
}

type inventoryRepo struct{ st *state }

func (r inventoryRepo) Get(_ context.Context, productID string) (*entity.InventoryRecord, error) {
	rec, ok := r.st.inventory[productID]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

func (r inventoryRepo) EnsureForUpdate(_ context.Context, productID string) (*entity.InventoryRecord, error) {
	rec, ok := r.st.inventory[productID]
	if !ok {
		rec = entity.InventoryRecord{ProductID: productID, Quantity: decimal.Zero, AverageCost: decimal.Zero, UpdatedAt: time.Now()}
		r.st.inventory[productID] = rec
	}
	return &rec, nil
}

func (r inventoryRepo) Update(_ context.Context, rec *entity.InventoryRecord) error {
	if _, ok := r.st.inventory[rec.ProductID]; !ok {
		return domain.ErrNotFound
	}
	r.st.inventory[rec.ProductID] = *rec
	return nil
}

type productRepo struct{ st *state }

func (r productRepo) Create(_ context.Context, p *entity.Product) error {
	for _, existing := range r.st.products {
		if existing.ID == p.ID || (p.SKU != "" && existing.SKU == p.SKU) {
			return domain.ErrDuplicate
		}
	}
	r.st.products[p.ID] = *p
	return nil
}

func (r productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r productRepo) SetUseBracketPricing(_ context.Context, productID string, enabled bool) error {
	p, ok := r.st.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.UseBracketPricing = enabled
	p.UpdatedAt = time.Now()
	r.st.products[productID] = p
	return nil
}

type priceRepo struct{ st *state }

func (r priceRepo) Create(_ context.Context, p *entity.ProductPrice) error {
	r.st.prices[p.ID] = *p
	return nil
}

func (r priceRepo) ListByProduct(_ context.Context, productID string) ([]entity.ProductPrice, error) {
	var list []entity.ProductPrice
	for _, p := range r.st.prices {
		if p.ProductID == productID {
			list = append(list, p)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].EffectiveFrom.After(list[j].EffectiveFrom) })
	return list, nil
}

type customerRepo struct{ st *state }

func (r customerRepo) Create(_ context.Context, c *entity.Customer) error {
	if _, ok := r.st.customers[c.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.customers[c.ID] = *c
	return nil
}

func (r customerRepo) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	c, ok := r.st.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

type bracketRepo struct{ st *state }

func (r bracketRepo) Create(_ context.Context, b *entity.PriceBracket) error {
	if _, ok := r.st.brackets[b.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.brackets[b.ID] = copyBracket(*b)
	return nil
}

func (r bracketRepo) Update(_ context.Context, b *entity.PriceBracket) error {
	if _, ok := r.st.brackets[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.st.brackets[b.ID] = copyBracket(*b)
	return nil
}

func (r bracketRepo) GetByID(_ context.Context, id string) (*entity.PriceBracket, error) {
	b, ok := r.st.brackets[id]
	if !ok {
		return nil, nil
	}
	cp := copyBracket(b)
	return &cp, nil
}

func (r bracketRepo) GetSelected(_ context.Context, productID string) (*entity.PriceBracket, error) {
	for _, b := range r.st.brackets {
		if b.ProductID == productID && b.Selected {
			cp := copyBracket(b)
			return &cp, nil
		}
	}
	return nil, nil
}

func (r bracketRepo) ListByProduct(_ context.Context, productID string) ([]*entity.PriceBracket, error) {
	var list []*entity.PriceBracket
	for _, b := range r.st.brackets {
		if b.ProductID == productID {
			cp := copyBracket(b)
			list = append(list, &cp)
		}
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list, nil
}

func (r bracketRepo) DeselectAllForProduct(_ context.Context, productID, actorID string) error {
	for id, b := range r.st.brackets {
		if b.ProductID == productID && b.Selected {
			b.Selected = false
			b.UpdatedBy = actorID
			b.UpdatedAt = time.Now()
			r.st.brackets[id] = b
		}
	}
	return nil
}

func (r bracketRepo) Select(_ context.Context, bracketID, actorID string) error {
	b, ok := r.st.brackets[bracketID]
	if !ok {
		return domain.ErrNotFound
	}
	b.Selected = true
	b.UpdatedBy = actorID
	b.UpdatedAt = time.Now()
	r.st.brackets[bracketID] = b
	return nil
}

type overrideRepo struct{ st *state }

func (r overrideRepo) Create(_ context.Context, o *entity.CustomerPriceOverride) error {
	if _, ok := r.st.overrides[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.overrides[o.ID] = *o
	return nil
}

func (r overrideRepo) GetByID(_ context.Context, id string) (*entity.CustomerPriceOverride, error) {
	o, ok := r.st.overrides[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r overrideRepo) ListActive(_ context.Context, customerID, productID string) ([]entity.CustomerPriceOverride, error) {
	var list []entity.CustomerPriceOverride
	for _, o := range r.st.overrides {
		if o.CustomerID == customerID && o.ProductID == productID && o.Active {
			list = append(list, o)
		}
	}
	sortOverrides(list)
	return list, nil
}

func (r overrideRepo) ListByCustomer(_ context.Context, customerID string) ([]entity.CustomerPriceOverride, error) {
	var list []entity.CustomerPriceOverride
	for _, o := range r.st.overrides {
		if o.CustomerID == customerID {
			list = append(list, o)
		}
	}
	sortOverrides(list)
	return list, nil
}

func sortOverrides(list []entity.CustomerPriceOverride) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.After(list[j].CreatedAt)
		}
		return list[i].ID > list[j].ID
	})
}

func (r overrideRepo) Deactivate(_ context.Context, id string) error {
	o, ok := r.st.overrides[id]
	if !ok {
		return domain.ErrNotFound
	}
	o.Active = false
	o.UpdatedAt = time.Now()
	r.st.overrides[id] = o
	return nil
}

type saleRepo struct{ st *state }

func (r saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if _, ok := r.st.sales[s.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.sales[s.ID] = copySale(*s)
	return nil
}

func (r saleRepo) GetByID(_ context.Context, id string) (*entity.Sale, error) {
	s, ok := r.st.sales[id]
	if !ok {
		return nil, nil
	}
	cp := copySale(s)
	return &cp, nil
}

func (r saleRepo) MarkCancelled(_ context.Context, id, actorID string, at time.Time) error {
	s, ok := r.st.sales[id]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = entity.SaleStatusCancelled
	s.CancelledBy = actorID
	s.CancelledAt = &at
	r.st.sales[id] = s
	return nil
}

type transferRepo struct{ st *state }

func (r transferRepo) Create(_ context.Context, t *entity.StockTransfer) error {
	if _, ok := r.st.transfers[t.ID]; ok {
		return domain.ErrDuplicate
	}
	r.st.transfers[t.ID] = *t
	return nil
}

func (r transferRepo) GetByID(_ context.Context, id string) (*entity.StockTransfer, error) {
	t, ok := r.st.transfers[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r transferRepo) MarkCancelled(_ context.Context, id, actorID string, at time.Time) error {
	t, ok := r.st.transfers[id]
	if !ok {
		return domain.ErrNotFound
	}
	t.Status = entity.TransferStatusCancelled
	t.CancelledBy = actorID
	t.CancelledAt = &at
	r.st.transfers[id] = t
	return nil
}

type movementRepo struct{ st *state }

func (r movementRepo) Create(_ context.Context, m *entity.InventoryMovement) error {
	r.st.movements = append(r.st.movements, *m)
	return nil
}

func (r movementRepo) ListByProduct(_ context.Context, productID string, limit, offset int) ([]*entity.InventoryMovement, error) {
	var list []*entity.InventoryMovement
	for i := len(r.st.movements) - 1; i >= 0; i-- {
		if r.st.movements[i].ProductID == productID {
			m := r.st.movements[i]
			list = append(list, &m)
		}
	}
	if offset >= len(list) {
		return []*entity.InventoryMovement{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}
