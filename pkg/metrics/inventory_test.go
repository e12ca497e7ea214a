package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInventoryMetrics_ExportaContadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)

	m.ObserveAllocation("exact", 10)
	m.ObserveAllocation("degraded", 4)
	m.IncLedgerDrift(DriftAllocate, 4)
	m.IncPriceResolution("bracket")
	m.IncPriceResolution("")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := counterValue(mfs, "inventory_allocations_total", "status", "degraded")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = counterValue(mfs, "inventory_ledger_drift_units_total", "direction", DriftAllocate)
	require.NoError(t, err)
	assert.Equal(t, 4.0, got)

	got, err = counterValue(mfs, "pricing_resolutions_total", "source", "unknown")
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestInventoryMetrics_NilNoFalla(t *testing.T) {
	var m *InventoryMetrics
	assert.NotPanics(t, func() {
		m.ObserveAllocation("exact", 1)
		m.IncLedgerDrift(DriftReverse, 1)
		m.IncPriceResolution("flat")
	})
	assert.NotPanics(t, func() {
		NewInventoryMetrics(nil).IncLedgerDrift(DriftAllocate, 2)
	})
}

func counterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == label && l.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
		return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
	}
	return 0, fmt.Errorf("metric %q not found", name)
}
