package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogSyncMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCatalogSyncMetrics(reg)
	m.ObserveDuration("ticker", 250*time.Millisecond)
	m.IncSuccess("ticker")
	m.IncFailure("manual")
	m.SetItems(12)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "foodcart_catalog_sync_success_total", map[string]string{"trigger": "ticker"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "foodcart_catalog_sync_failure_total", map[string]string{"trigger": "manual"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	sum, err := fetchHistogramSum(mfs, "foodcart_catalog_sync_duration_seconds", map[string]string{"trigger": "ticker"})
	require.NoError(t, err)
	assert.Greater(t, sum, 0.0)

	mf := findMetricFamily(mfs, "foodcart_catalog_items")
	require.NotNil(t, mf)
	assert.Equal(t, 12.0, mf.GetMetric()[0].GetGauge().GetValue())
}

func TestEngineMetricsCountOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewEngineMetrics(reg)
	m.IncMutation("add_to_cart", "applied")
	m.IncMutation("add_to_cart", "applied")
	m.IncMutation("add_to_cart", "unavailable")
	m.IncPromo("invalid")
	m.IncSubmission("success")
	m.IncSave("")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "foodcart_cart_mutations_total", map[string]string{"op": "add_to_cart", "outcome": "applied"})
	require.NoError(t, err)
	assert.Equal(t, 2.0, got)

	got, err = fetchCounterValue(mfs, "foodcart_cart_mutations_total", map[string]string{"op": "add_to_cart", "outcome": "unavailable"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "foodcart_promo_validations_total", map[string]string{"outcome": "invalid"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "foodcart_order_submissions_total", map[string]string{"outcome": "success"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)

	got, err = fetchCounterValue(mfs, "foodcart_snapshot_saves_total", map[string]string{"outcome": "unknown"})
	require.NoError(t, err)
	assert.Equal(t, 1.0, got)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var engine *EngineMetrics
	engine.IncMutation("op", "outcome")
	engine.IncPromo("x")
	engine.IncSubmission("x")
	engine.IncSave("x")

	var sync *CatalogSyncMetrics
	sync.ObserveDuration("x", time.Second)
	sync.IncSuccess("x")
	sync.IncFailure("x")
	sync.SetItems(1)

	unregistered := NewEngineMetrics(nil)
	unregistered.IncMutation("op", "outcome")
	NewCatalogSyncMetrics(nil).IncSuccess("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
