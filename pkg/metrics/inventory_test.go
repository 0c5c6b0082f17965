package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestInventoryMetricsCountsMutationsByResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)

	m.ObserveMutation("add_product", nil)
	m.ObserveMutation("add_product", nil)
	m.ObserveMutation("add_product", errors.New("boom"))

	mfs, err := reg.Gather()
	require.NoError(t, err)

	mf := findMetricFamily(mfs, "inventory_mutations_total")
	require.NotNil(t, mf)

	var ok, failed float64
	for _, metric := range mf.GetMetric() {
		switch {
		case matchesLabel(metric.GetLabel(), "result", ResultOK):
			ok = metric.GetCounter().GetValue()
		case matchesLabel(metric.GetLabel(), "result", ResultError):
			failed = metric.GetCounter().GetValue()
		}
	}
	require.Equal(t, float64(2), ok)
	require.Equal(t, float64(1), failed)
}

func TestInventoryMetricsPruneCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewInventoryMetrics(reg)

	m.AddPruned(3)
	m.AddPruned(0)
	m.IncPruneFailure()
	m.ObserveOverview(10 * time.Millisecond)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	pruned := findMetricFamily(mfs, "inventory_pruned_entries_total")
	require.NotNil(t, pruned)
	require.Equal(t, float64(3), pruned.GetMetric()[0].GetCounter().GetValue())

	failures := findMetricFamily(mfs, "inventory_prune_failures_total")
	require.NotNil(t, failures)
	require.Equal(t, float64(1), failures.GetMetric()[0].GetCounter().GetValue())

	latency := findMetricFamily(mfs, "inventory_overview_duration_seconds")
	require.NotNil(t, latency)
	require.Equal(t, uint64(1), latency.GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestInventoryMetricsNilSafe(t *testing.T) {
	var m *InventoryMetrics
	m.ObserveMutation("x", nil)
	m.AddPruned(1)
	m.IncPruneFailure()
	m.ObserveOverview(time.Second)
}
