//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/entity"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/jhoicas/erp-backend/internal/infrastructure/postgres"
	"github.com/jhoicas/erp-backend/pkg/config"
)

// Correr con: TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/
const lockNotAvailable = "55P03"

func newTestPool(t *testing.T, lockTimeoutMs int) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 4, LockTimeoutMs: lockTimeoutMs}, "erp-backend-test", nil)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool, nil))
	return pool
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// seedProduct crea un producto con saldo 100 repartido en dos lotes (60 @ 5 y 40 @ 6).
func seedProduct(t *testing.T, runner *postgres.TxRunner) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	now := time.Now().UTC()
	require.NoError(t, runner.Run(ctx, func(store repository.Store) error {
		if err := store.Products().Create(ctx, &entity.Product{
			ID: id, SKU: "IT-" + id[:8], Name: "Producto integración", UnitMeasure: "UND", CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		// Insertados en orden inverso: el orden debe salir de received_at.
		for _, b := range []struct {
			qty, cost string
			at        time.Time
		}{
			{"40", "6", now.Add(-time.Hour)},
			{"60", "5", now.Add(-2 * time.Hour)},
		} {
			if err := store.Batches().Create(ctx, &entity.PurchaseBatch{
				ID: uuid.New().String(), ProductID: id, Reference: "compra",
				ReceivedQuantity: d(b.qty), ConsumedQuantity: decimal.Zero, UnitCost: d(b.cost),
				ReceivedAt: b.at, CreatedAt: now, UpdatedAt: now,
			}); err != nil {
				return err
			}
		}
		rec, err := store.Inventory().EnsureForUpdate(ctx, id)
		if err != nil {
			return err
		}
		rec.Quantity = d("100")
		rec.AverageCost = d("5.4")
		rec.UpdatedAt = now
		return store.Inventory().Update(ctx, rec)
	}))
	return id
}

func TestEnsureForUpdate_CreaSaldoEnCeroUnaVez(t *testing.T) {
	runner := postgres.NewTxRunner(newTestPool(t, 300))
	ctx := context.Background()
	id := uuid.New().String()
	now := time.Now().UTC()

	require.NoError(t, runner.Run(ctx, func(store repository.Store) error {
		require.NoError(t, store.Products().Create(ctx, &entity.Product{ID: id, SKU: "IT-" + id[:8], Name: "Nuevo", UnitMeasure: "UND", CreatedAt: now, UpdatedAt: now}))

		first, err := store.Inventory().EnsureForUpdate(ctx, id)
		require.NoError(t, err)
		assert.True(t, first.Quantity.IsZero())

		first.Quantity = d("7")
		require.NoError(t, store.Inventory().Update(ctx, first))

		again, err := store.Inventory().EnsureForUpdate(ctx, id)
		require.NoError(t, err)
		assert.True(t, d("7").Equal(again.Quantity), "ON CONFLICT no pisa el saldo existente")
		return nil
	}))
}

func TestEnsureForUpdate_ProductoInexistenteFallaPorLlaveForanea(t *testing.T) {
	runner := postgres.NewTxRunner(newTestPool(t, 300))
	ctx := context.Background()

	err := runner.Run(ctx, func(store repository.Store) error {
		_, err := store.Inventory().EnsureForUpdate(ctx, uuid.New().String())
		return err
	})
	var pgErr *pgconn.PgError
	require.ErrorAs(t, err, &pgErr)
	assert.Equal(t, "23503", pgErr.Code)
}

func TestListOpenForUpdate_OrdenFIFOYSoloConSaldo(t *testing.T) {
	runner := postgres.NewTxRunner(newTestPool(t, 300))
	ctx := context.Background()
	id := seedProduct(t, runner)

	require.NoError(t, runner.Run(ctx, func(store repository.Store) error {
		open, err := store.Batches().ListOpenForUpdate(ctx, id)
		require.NoError(t, err)
		require.Len(t, open, 2)
		assert.True(t, d("5").Equal(open[0].UnitCost), "lote más antiguo primero")
		assert.True(t, d("6").Equal(open[1].UnitCost))

		open[0].ConsumedQuantity = open[0].ReceivedQuantity
		open[0].FullyConsumed = true
		return store.Batches().UpdateConsumption(ctx, open[0])
	}))

	require.NoError(t, runner.Run(ctx, func(store repository.Store) error {
		open, err := store.Batches().ListOpenForUpdate(ctx, id)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.True(t, d("6").Equal(open[0].UnitCost))

		consumed, err := store.Batches().ListConsumedForUpdate(ctx, id)
		require.NoError(t, err)
		require.Len(t, consumed, 1)
		assert.True(t, d("5").Equal(consumed[0].UnitCost))
		return nil
	}))
}

func TestForUpdate_SegundaTransaccionEsperaHastaLockTimeout(t *testing.T) {
	runner := postgres.NewTxRunner(newTestPool(t, 300))
	ctx := context.Background()
	id := seedProduct(t, runner)

	require.NoError(t, runner.Run(ctx, func(holder repository.Store) error {
		_, err := holder.Inventory().EnsureForUpdate(ctx, id)
		require.NoError(t, err)
		_, err = holder.Batches().ListOpenForUpdate(ctx, id)
		require.NoError(t, err)

		// Otra conexión del pool: debe chocar con los bloqueos de holder.
		for name, lock := range map[string]func(repository.Store) error{
			"saldo": func(s repository.Store) error { _, err := s.Inventory().EnsureForUpdate(ctx, id); return err },
			"lotes": func(s repository.Store) error { _, err := s.Batches().ListOpenForUpdate(ctx, id); return err },
		} {
			start := time.Now()
			err := runner.Run(ctx, lock)
			var pgErr *pgconn.PgError
			require.ErrorAs(t, err, &pgErr, name)
			assert.Equal(t, lockNotAvailable, pgErr.Code, name)
			assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond, name)
		}
		return nil
	}))

	// Liberados al confirmar holder.
	require.NoError(t, runner.Run(ctx, func(store repository.Store) error {
		_, err := store.Inventory().EnsureForUpdate(ctx, id)
		return err
	}))
}

func TestAllocate_VentasConcurrentesNoSobregiran(t *testing.T) {
	runner := postgres.NewTxRunner(newTestPool(t, 5000))
	ctx := context.Background()
	id := seedProduct(t, runner)
	allocator := inventory.NewBatchCostAllocator(nil, nil)

	results := make([]error, 2)
	var g errgroup.Group
	for i := range results {
		i := i
		g.Go(func() error {
			results[i] = runner.Run(ctx, func(store repository.Store) error {
				_, err := allocator.Allocate(ctx, store, id, d("70"))
				return err
			})
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, insufficient int
	for _, err := range results {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientInventory):
			insufficient++
		default:
			t.Fatalf("error inesperado: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, insufficient)

	require.NoError(t, runner.Run(ctx, func(store repository.Store) error {
		rec, err := store.Inventory().Get(ctx, id)
		require.NoError(t, err)
		assert.True(t, d("30").Equal(rec.Quantity))

		open, err := store.Batches().ListOpen(ctx, id)
		require.NoError(t, err)
		require.Len(t, open, 1)
		assert.True(t, d("30").Equal(open[0].Remaining()), "60 @ 5 agotado, 10 del lote @ 6")
		return nil
	}))
}
