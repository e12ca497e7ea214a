package inventory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jhoicas/erp-backend/internal/application/inventory"
	"github.com/jhoicas/erp-backend/internal/domain"
	"github.com/jhoicas/erp-backend/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocate_ConsumeLotesMasAntiguosPrimero(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "batch-a", "100", "5.00", base)
	f.seedBatch(t, p, "batch-b", "50", "6.00", base.Add(time.Hour))

	res, err := f.allocate(t, p, "120")
	require.NoError(t, err)

	assert.True(t, res.TotalCost.Equal(d("620")), "total %s", res.TotalCost)
	assert.True(t, res.UnitCost.Equal(d("5.1667")), "unit %s", res.UnitCost)
	assert.Equal(t, inventory.AllocationExact, res.Status)
	assert.False(t, res.Degraded())
	assert.True(t, res.Shortfall.IsZero())

	batches := f.batches(t, p)
	a, b := batches["batch-a"], batches["batch-b"]
	assert.True(t, a.FullyConsumed)
	assert.True(t, a.ConsumedQuantity.Equal(d("100")))
	assert.False(t, b.FullyConsumed)
	assert.True(t, b.ConsumedQuantity.Equal(d("20")))
	assert.True(t, f.record(t, p).Quantity.Equal(d("30")))
}

func TestAllocate_OrdenaPorFechaDeRecepcion(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	// insertados fuera de orden
	f.seedBatch(t, p, "b3", "10", "3", base.Add(2*time.Hour))
	f.seedBatch(t, p, "b1", "10", "1", base)
	f.seedBatch(t, p, "b2", "10", "2", base.Add(time.Hour))

	res, err := f.allocate(t, p, "14")
	require.NoError(t, err)

	// q1*c1 + k*c2 = 10*1 + 4*2
	assert.True(t, res.TotalCost.Equal(d("18")))
	require.Len(t, res.Consumptions, 2)
	assert.Equal(t, "b1", res.Consumptions[0].BatchID)
	assert.Equal(t, "b2", res.Consumptions[1].BatchID)
	assert.True(t, f.batches(t, p)["b3"].ConsumedQuantity.IsZero())
}

func TestAllocate_ConservaCantidades(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "7.5", "2", base)
	f.seedBatch(t, p, "b", "12", "3", base.Add(time.Minute))
	f.seedBatch(t, p, "c", "4", "4", base.Add(2*time.Minute))

	before := f.batches(t, p)
	recBefore := f.record(t, p)

	for _, q := range []string{"3", "8.25", "10"} {
		_, err := f.allocate(t, p, q)
		require.NoError(t, err)
	}

	after := f.batches(t, p)
	consumedDelta := decimal.Zero
	for id, b := range after {
		consumedDelta = consumedDelta.Add(b.ConsumedQuantity.Sub(before[id].ConsumedQuantity))
	}
	requested := d("21.25")
	assert.True(t, consumedDelta.Equal(requested), "consumido %s", consumedDelta)
	assert.True(t, recBefore.Quantity.Sub(f.record(t, p).Quantity).Equal(requested))
}

func TestAllocateYReverse_RestauraEstado(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "100", "5", base)
	f.seedBatch(t, p, "b", "50", "6", base.Add(time.Hour))
	_, err := f.allocate(t, p, "30")
	require.NoError(t, err)

	before := f.batches(t, p)
	recBefore := f.record(t, p)

	_, err = f.allocate(t, p, "95")
	require.NoError(t, err)
	rev, err := f.reverse(t, p, "95")
	require.NoError(t, err)
	assert.True(t, rev.Restored.Equal(d("95")))
	assert.True(t, rev.Unrestored.IsZero())

	after := f.batches(t, p)
	for id, b := range before {
		assert.True(t, after[id].ConsumedQuantity.Equal(b.ConsumedQuantity), "lote %s", id)
		assert.Equal(t, b.FullyConsumed, after[id].FullyConsumed, "lote %s", id)
	}
	assert.True(t, f.record(t, p).Quantity.Equal(recBefore.Quantity))
}

func TestAllocate_InventarioInsuficienteNoTocaFilas(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "10", "5", base)

	before := f.batches(t, p)
	_, err := f.allocate(t, p, "10.5")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInsufficientInventory))

	assert.Equal(t, before, f.batches(t, p))
	assert.True(t, f.record(t, p).Quantity.Equal(d("10")))
}

func TestAllocate_SinRegistroEsInsuficiente(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)

	_, err := f.allocate(t, p, "1")
	assert.ErrorIs(t, err, domain.ErrInsufficientInventory)
}

func TestAllocate_RechazaCantidadNoPositiva(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "10", "5", base)

	for _, q := range []string{"0", "-3"} {
		_, err := f.allocate(t, p, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, q)
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "quantity", ve.Field)
	}
}

func TestAllocate_FaltanteUsaCostoDelUltimoLote(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "60", "4", base)
	f.seedBatch(t, p, "b", "10", "7", base.Add(time.Hour))
	_, err := f.allocate(t, p, "10")
	require.NoError(t, err)
	// el saldo dice 100 pero los lotes abiertos solo suman 60
	f.setOnHand(t, p, "100", "4.5")

	res, err := f.allocate(t, p, "80")
	require.NoError(t, err)

	assert.Equal(t, inventory.AllocationDegraded, res.Status)
	assert.True(t, res.Degraded())
	assert.True(t, res.Shortfall.Equal(d("20")))
	assert.True(t, res.FallbackUnitCost.Equal(d("7")))
	// 50*4 + 10*7 + 20*7
	assert.True(t, res.TotalCost.Equal(d("410")), "total %s", res.TotalCost)
	assert.True(t, res.UnitCost.Equal(d("5.125")))
	assert.True(t, f.record(t, p).Quantity.Equal(d("20")))

	assert.Equal(t, float64(1), counterValue(t, f.reg, "inventory_ledger_drift_total", "direction", "allocate"))
	assert.Equal(t, float64(20), counterValue(t, f.reg, "inventory_ledger_drift_units_total", "direction", "allocate"))
	assert.Equal(t, float64(1), counterValue(t, f.reg, "inventory_allocations_total", "status", "degraded"))
	assert.Contains(t, f.logs.String(), `"shortfall":"20"`)
	assert.Contains(t, f.logs.String(), `"level":"warn"`)
}

func TestAllocate_FaltanteSinLotesUsaCostoPromedio(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.setOnHand(t, p, "10", "3")

	res, err := f.allocate(t, p, "4")
	require.NoError(t, err)
	assert.Equal(t, inventory.AllocationDegraded, res.Status)
	assert.True(t, res.TotalCost.Equal(d("12")))
	assert.True(t, res.UnitCost.Equal(d("3")))
	assert.Empty(t, res.Consumptions)
}

func TestReverse_MasDeLoConsumidoIgualSumaInventario(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "10", "5", base)
	_, err := f.allocate(t, p, "5")
	require.NoError(t, err)

	rev, err := f.reverse(t, p, "8")
	require.NoError(t, err)
	assert.True(t, rev.Restored.Equal(d("5")))
	assert.True(t, rev.Unrestored.Equal(d("3")))
	assert.True(t, rev.RestoredCost.Equal(d("25")))
	assert.True(t, f.record(t, p).Quantity.Equal(d("13")))
	assert.True(t, f.batches(t, p)["a"].ConsumedQuantity.IsZero())
	assert.Equal(t, float64(1), counterValue(t, f.reg, "inventory_ledger_drift_total", "direction", "reverse"))
}

func TestReverse_RecorreDelLoteMasReciente(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "10", "1", base)
	f.seedBatch(t, p, "b", "10", "2", base.Add(time.Hour))
	_, err := f.allocate(t, p, "15")
	require.NoError(t, err)

	rev, err := f.reverse(t, p, "7")
	require.NoError(t, err)
	require.Len(t, rev.Restorations, 2)
	assert.Equal(t, "b", rev.Restorations[0].BatchID)
	assert.True(t, rev.Restorations[0].Quantity.Equal(d("5")))
	assert.Equal(t, "a", rev.Restorations[1].BatchID)

	batches := f.batches(t, p)
	assert.True(t, batches["a"].ConsumedQuantity.Equal(d("8")))
	assert.False(t, batches["a"].FullyConsumed)
	assert.True(t, batches["b"].ConsumedQuantity.IsZero())
}

func TestAllocate_SeRevierteConLaTransaccion(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct(t)
	f.seedBatch(t, p, "a", "10", "5", base)

	boom := errors.New("falla posterior")
	err := f.db.Run(context.Background(), func(store repository.Store) error {
		if _, err := f.allocator.Allocate(context.Background(), store, p, d("6")); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.True(t, f.batches(t, p)["a"].ConsumedQuantity.IsZero())
	assert.True(t, f.record(t, p).Quantity.Equal(d("10")))
}
