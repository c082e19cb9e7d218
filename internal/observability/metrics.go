package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the dashboard server. All
// counters and histograms are registered via promauto with the default
// Prometheus registry.
type Metrics struct {
	// RequestsTotal counts dashboard HTTP requests, labeled by route and status.
	RequestsTotal *prometheus.CounterVec

	// RequestDuration observes dashboard request duration in seconds, labeled by route.
	RequestDuration *prometheus.HistogramVec

	// RequestsThrottled counts requests rejected by the rate limiter.
	RequestsThrottled prometheus.Counter

	// FilterOperations counts filter evaluations, labeled by whether the
	// spec was empty ("all") or restrictive ("filtered").
	FilterOperations *prometheus.CounterVec

	// SnapshotRecords reports the size of the loaded cleaned snapshot.
	SnapshotRecords prometheus.Gauge
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The namespace is used as a prefix for all metric names.
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of dashboard HTTP requests",
		}, []string{"route", "status"}),
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Dashboard HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		RequestsThrottled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_throttled_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}),
		FilterOperations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "filter_operations_total",
			Help:      "Total number of filter evaluations over the snapshot",
		}, []string{"kind"}),
		SnapshotRecords: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_records",
			Help:      "Number of records in the loaded cleaned snapshot",
		}),
	}
}
