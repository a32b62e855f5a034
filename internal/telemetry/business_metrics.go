package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Stock lookup outcomes.
const (
	StockMatched    = "matched"
	StockUnmatched  = "unmatched"
	StockIncomplete = "incomplete"
	StockError      = "error"
)

// Upload attachment columns.
const (
	AttachByID         = "id"
	AttachByStorageKey = "storage_key"
	AttachMissed       = "none"
)

// BusinessMetrics holds configurator counters. A nil *BusinessMetrics is
// valid and records nothing, which keeps services usable in tests.
type BusinessMetrics struct {
	CartReconciled     *prometheus.CounterVec
	CartRejected       *prometheus.CounterVec
	StockLookups       *prometheus.CounterVec
	UploadsStored      prometheus.Counter
	UploadsAttached    *prometheus.CounterVec
	EditRestores       *prometheus.CounterVec
	CatalogFetchFailed *prometheus.CounterVec
	CartLineValue      prometheus.Histogram
}

// NewBusinessMetrics creates the collectors without registering them.
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "presswork"
	}

	return &BusinessMetrics{
		CartReconciled: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cart",
				Name:      "reconciled_total",
				Help:      "Add-to-cart reconciliations by mode (edit, merge, insert)",
			},
			[]string{"mode"},
		),
		CartRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "cart",
				Name:      "rejected_total",
				Help:      "Add-to-cart requests refused by error code",
			},
			[]string{"code"},
		),
		StockLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "stock",
				Name:      "lookups_total",
				Help:      "Stock resolutions by outcome",
			},
			[]string{"outcome"},
		),
		UploadsStored: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "uploads",
				Name:      "stored_total",
				Help:      "Design files written to storage",
			},
		),
		UploadsAttached: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "uploads",
				Name:      "attached_total",
				Help:      "Upload attachment attempts by matching column",
			},
			[]string{"column"},
		),
		EditRestores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "edit_payload",
				Name:      "restores_total",
				Help:      "Edit payload entries restored, by strategy (id or name)",
			},
			[]string{"strategy"},
		),
		CatalogFetchFailed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "catalog",
				Name:      "fetch_failures_total",
				Help:      "Catalog reads that degraded to an empty result",
			},
			[]string{"source"},
		),
		CartLineValue: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "cart",
				Name:      "line_value",
				Help:      "Total price of reconciled cart lines",
				Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
		),
	}
}

// Register adds every collector to reg.
func (m *BusinessMetrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.CartReconciled,
		m.CartRejected,
		m.StockLookups,
		m.UploadsStored,
		m.UploadsAttached,
		m.EditRestores,
		m.CatalogFetchFailed,
		m.CartLineValue,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *BusinessMetrics) Reconciled(mode string, total float64) {
	if m == nil {
		return
	}
	m.CartReconciled.WithLabelValues(mode).Inc()
	m.CartLineValue.Observe(total)
}

func (m *BusinessMetrics) Rejected(code string) {
	if m == nil {
		return
	}
	m.CartRejected.WithLabelValues(code).Inc()
}

func (m *BusinessMetrics) StockLookup(outcome string) {
	if m == nil {
		return
	}
	m.StockLookups.WithLabelValues(outcome).Inc()
}

func (m *BusinessMetrics) UploadStored() {
	if m == nil {
		return
	}
	m.UploadsStored.Inc()
}

func (m *BusinessMetrics) UploadAttached(column string) {
	if m == nil {
		return
	}
	m.UploadsAttached.WithLabelValues(column).Inc()
}

func (m *BusinessMetrics) EditRestored(strategy string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.EditRestores.WithLabelValues(strategy).Add(float64(n))
}

func (m *BusinessMetrics) CatalogFetchFailure(source string) {
	if m == nil {
		return
	}
	m.CatalogFetchFailed.WithLabelValues(source).Inc()
}
