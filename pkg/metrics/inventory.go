package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// InventoryMetrics tracks inventory mutations and the overview self-heal.
type InventoryMetrics struct {
	mutations       *prometheus.CounterVec
	pruned          prometheus.Counter
	pruneFailures   prometheus.Counter
	overviewLatency prometheus.Histogram
}

// NewInventoryMetrics registers the inventory collectors on reg. A nil
// registerer yields a no-op collector.
func NewInventoryMetrics(reg prometheus.Registerer) *InventoryMetrics {
	if reg == nil {
		return &InventoryMetrics{}
	}
	mutations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_mutations_total",
		Help: "Inventory mutations by operation and result.",
	}, []string{"op", "result"})
	pruned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_pruned_entries_total",
		Help: "Inventory entries removed because their catalog product no longer exists.",
	})
	pruneFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "inventory_prune_failures_total",
		Help: "Self-heal corrections that failed to persist.",
	})
	overviewLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "inventory_overview_duration_seconds",
		Help:    "Time spent computing a vendor inventory overview.",
		Buckets: prometheus.DefBuckets,
	})
	reg.MustRegister(mutations, pruned, pruneFailures, overviewLatency)
	return &InventoryMetrics{
		mutations:       mutations,
		pruned:          pruned,
		pruneFailures:   pruneFailures,
		overviewLatency: overviewLatency,
	}
}

// ObserveMutation counts one mutation attempt.
func (m *InventoryMetrics) ObserveMutation(op string, err error) {
	if m == nil || m.mutations == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.mutations.WithLabelValues(normalizeLabel(op), result).Inc()
}

// AddPruned counts entries removed by the self-heal.
func (m *InventoryMetrics) AddPruned(n int) {
	if m == nil || m.pruned == nil || n <= 0 {
		return
	}
	m.pruned.Add(float64(n))
}

// IncPruneFailure counts a self-heal that could not be saved.
func (m *InventoryMetrics) IncPruneFailure() {
	if m == nil || m.pruneFailures == nil {
		return
	}
	m.pruneFailures.Inc()
}

// ObserveOverview records overview latency.
func (m *InventoryMetrics) ObserveOverview(d time.Duration) {
	if m == nil || m.overviewLatency == nil {
		return
	}
	m.overviewLatency.Observe(d.Seconds())
}
