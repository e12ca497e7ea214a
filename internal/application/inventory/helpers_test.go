package inventory_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/internal/infrastructure/memory"
	"github.com/jhoicas/erp-backend/pkg/logger"
	"github.com/jhoicas/erp-backend/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	db        *memory.DB
	reg       *prometheus.Registry
	logs      *bytes.Buffer
	allocator *inventory.BatchCostAllocator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := prometheus.NewRegistry()
	logs := &bytes.Buffer{}
	log := logger.New(logger.Config{Env: "test", Level: "debug", Out: logs})
	return &fixture{
		db:        memory.New(),
		reg:       reg,
		logs:      logs,
		allocator: inventory.NewBatchCostAllocator(log, metrics.NewInventoryMetrics(reg)),
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *fixture) run(t *testing.T, fn func(store repository.Store) error) {
	t.Helper()
	require.NoError(t, f.db.Run(context.Background(), fn))
}

func (f *fixture) seedProduct(t *testing.T) string {
	t.Helper()
	id := uuid.New().String()
	f.run(t, func(store repository.Store) error {
		return store.Products().Create(context.Background(), &entity.Product{
			ID: id, SKU: "SKU-" + id[:8], Name: "Producto " + id[:8], UnitMeasure: "94", CreatedAt: base, UpdatedAt: base,
		})
	})
	return id
}

// seedBatch crea un lote y suma su cantidad al saldo.
func (f *fixture) seedBatch(t *testing.T, productID, id, qty, cost string, at time.Time) {
	t.Helper()
	f.run(t, func(store repository.Store) error {
		ctx := context.Background()
		if err := store.Batches().Create(ctx, &entity.PurchaseBatch{
			ID: id, ProductID: productID, ReceivedQuantity: d(qty), ConsumedQuantity: decimal.Zero,
			UnitCost: d(cost), ReceivedAt: at, CreatedAt: at, UpdatedAt: at,
		}); err != nil {
			return err
		}
		rec, err := store.Inventory().EnsureForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		rec.Quantity = rec.Quantity.Add(d(qty))
		return store.Inventory().Update(ctx, rec)
	})
}

// setOnHand fuerza el saldo sin tocar lotes (simula descuadre).
func (f *fixture) setOnHand(t *testing.T, productID, qty, avg string) {
	t.Helper()
	f.run(t, func(store repository.Store) error {
		ctx := context.Background()
		rec, err := store.Inventory().EnsureForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		rec.Quantity = d(qty)
		rec.AverageCost = d(avg)
		return store.Inventory().Update(ctx, rec)
	})
}

func (f *fixture) record(t *testing.T, productID string) entity.InventoryRecord {
	t.Helper()
	var out entity.InventoryRecord
	f.run(t, func(store repository.Store) error {
		rec, err := store.Inventory().Get(context.Background(), productID)
		if err != nil {
			return err
		}
		require.NotNil(t, rec)
		out = *rec
		return nil
	})
	return out
}

func (f *fixture) batches(t *testing.T, productID string) map[string]entity.PurchaseBatch {
	t.Helper()
	out := map[string]entity.PurchaseBatch{}
	f.run(t, func(store repository.Store) error {
		ctx := context.Background()
		open, err := store.Batches().ListOpen(ctx, productID)
		if err != nil {
			return err
		}
		consumed, err := store.Batches().ListConsumedForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		for _, b := range append(open, consumed...) {
			out[b.ID] = *b
		}
		return nil
	})
	return out
}

func (f *fixture) allocate(t *testing.T, productID, qty string) (*inventory.AllocationResult, error) {
	t.Helper()
	var res *inventory.AllocationResult
	err := f.db.Run(context.Background(), func(store repository.Store) error {
		var err error
		res, err = f.allocator.Allocate(context.Background(), store, productID, d(qty))
		return err
	})
	return res, err
}

func (f *fixture) reverse(t *testing.T, productID, qty string) (*inventory.ReversalResult, error) {
	t.Helper()
	var res *inventory.ReversalResult
	err := f.db.Run(context.Background(), func(store repository.Store) error {
		var err error
		res, err = f.allocator.Reverse(context.Background(), store, productID, d(qty))
		return err
	})
	return res, err
}

func counterValue(t *testing.T, reg *prometheus.Registry, name, label, value string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
