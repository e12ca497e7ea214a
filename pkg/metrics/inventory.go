package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Direcciones de descuadre del ledger de lotes.
const (
	DriftAllocate = "allocate"
	DriftReverse  = "reverse"
)

// InventoryMetrics contadores del motor de costeo y de la resolución de precios.
// Un *InventoryMetrics nil (o sin registerer) es válido y no registra nada.
type InventoryMetrics struct {
	allocations  *prometheus.CounterVec
	ledgerDrift  *prometheus.CounterVec
	driftUnits   *prometheus.CounterVec
	resolutions  *prometheus.CounterVec
	allocatedQty prometheus.Histogram
}

// NewInventoryMetrics registra las métricas en el registerer indicado.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_allocations_total",
		Help: "FIFO allocations by outcome (exact or degraded).",
	}, []string{"status"})
	ledgerDrift := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_ledger_drift_total",
		Help: "Allocations or reversals where the batch ledger disagreed with the inventory record.",
	}, []string{"direction"})
	driftUnits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_ledger_drift_units_total",
		Help: "Units that could not be matched against purchase batches.",
	}, []string{"direction"})
	resolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pricing_resolutions_total",
		Help: "Price resolutions by winning source.",
	}, []string{"source"})
	allocatedQty := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_allocated_quantity",
		Help:    "Quantity requested per allocation.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 8),
	})
	reg.MustRegister(allocations, ledgerDrift, driftUnits, resolutions, allocatedQty)
	return &InventoryMetrics{
		allocations:  allocations,
		ledgerDrift:  ledgerDrift,
		driftUnits:   driftUnits,
		resolutions:  resolutions,
		allocatedQty: allocatedQty,
	}
}

// ObserveAllocation registra el resultado de una asignación y la cantidad pedida.
func (m *InventoryMetrics) ObserveAllocation(status string, quantity float64) {
	if m == nil || m.allocations == nil {
		return
	}
	m.allocations.WithLabelValues(normalizeLabel(status)).Inc()
	m.allocatedQty.Observe(quantity)
}

// IncLedgerDrift registra un descuadre y las unidades sin lote.
func (m *InventoryMetrics) IncLedgerDrift(direction string, units float64) {
	if m == nil || m.ledgerDrift == nil {
		return
	}
	m.ledgerDrift.WithLabelValues(normalizeLabel(direction)).Inc()
	m.driftUnits.WithLabelValues(normalizeLabel(direction)).Add(units)
}

// IncPriceResolution registra la fuente que resolvió un precio.
func (m *InventoryMetrics) IncPriceResolution(source string) {
	if m == nil || m.resolutions == nil {
		return
	}
	m.resolutions.WithLabelValues(normalizeLabel(source)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
