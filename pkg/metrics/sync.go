package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogSyncMetrics records remote catalog refresh runs.
type CatalogSyncMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	items    prometheus.Gauge
}

// NewCatalogSyncMetrics registers the catalog sync metrics on the provided registerer.
func NewCatalogSyncMetrics(reg prometheus.Registerer) *CatalogSyncMetrics {
	if reg == nil {
		return &CatalogSyncMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "catalog_sync_duration_seconds",
		Help:      "Duration of remote catalog refreshes in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"trigger"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_sync_success_total",
		Help:      "Successful remote catalog refreshes.",
	}, []string{"trigger"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "catalog_sync_failure_total",
		Help:      "Failed remote catalog refreshes.",
	}, []string{"trigger"})
	items := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "catalog_items",
		Help:      "Items in the catalog after the last refresh.",
	})
	reg.MustRegister(duration, success, failure, items)
	return &CatalogSyncMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		items:    items,
	}
}

// ObserveDuration records how long a refresh took.
func (c *CatalogSyncMetrics) ObserveDuration(trigger string, duration time.Duration) {
	if c == nil || c.duration == nil {
		return
	}
	c.duration.WithLabelValues(normalizeLabel(trigger)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter.
func (c *CatalogSyncMetrics) IncSuccess(trigger string) {
	if c == nil || c.success == nil {
		return
	}
	c.success.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// IncFailure increments the failure counter.
func (c *CatalogSyncMetrics) IncFailure(trigger string) {
	if c == nil || c.failure == nil {
		return
	}
	c.failure.WithLabelValues(normalizeLabel(trigger)).Inc()
}

// SetItems records the catalog size.
func (c *CatalogSyncMetrics) SetItems(n int) {
	if c == nil || c.items == nil {
		return
	}
	c.items.Set(float64(n))
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
