// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Log metrics
	MutationsTotal *prometheus.CounterVec
	MutationErrors *prometheus.CounterVec
	TrackedRecords *prometheus.GaugeVec

	// Aggregation metrics
	AggregationsTotal   *prometheus.CounterVec
	AggregationDuration *prometheus.HistogramVec
	LogPagesServed      prometheus.Counter

	// History metrics
	SnapshotsRecorded     prometheus.Counter
	LastSnapshotTimestamp prometheus.Gauge

	// Live metrics
	LiveClients     prometheus.Gauge
	EventsBroadcast *prometheus.CounterVec

	// Dataset metrics
	ImportsTotal    prometheus.Counter
	ExportsTotal    prometheus.Counter
	RecordsImported prometheus.Counter

	// HTTP metrics
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponsesTotal  *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "airdrop_tracker"
	}

	return &Metrics{
		// Log metrics
		MutationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "log",
			Name:      "mutations_total",
			Help:      "Total number of committed mutations by entity and operation",
		}, []string{"entity", "op"}),
		MutationErrors: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "log",
			Name:      "mutation_errors_total",
			Help:      "Total number of rejected mutations by entity and operation",
		}, []string{"entity", "op"}),
		TrackedRecords: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "log",
			Name:      "tracked_records",
			Help:      "Current number of tracked records by entity",
		}, []string{"entity"}),

		// Aggregation metrics
		AggregationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "computations_total",
			Help:      "Total number of aggregation runs by view",
		}, []string{"view"}),
		AggregationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "computation_duration_seconds",
			Help:      "Aggregation run duration in seconds",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"view"}),
		LogPagesServed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "aggregate",
			Name:      "log_pages_served_total",
			Help:      "Total number of transaction log pages served",
		}),

		// History metrics
		SnapshotsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "snapshots_recorded_total",
			Help:      "Total number of stats snapshots recorded",
		}),
		LastSnapshotTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "last_snapshot_timestamp",
			Help:      "Unix timestamp of the last recorded stats snapshot",
		}),

		// Live metrics
		LiveClients: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "clients",
			Help:      "Current number of connected WebSocket clients",
		}),
		EventsBroadcast: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "live",
			Name:      "events_broadcast_total",
			Help:      "Total number of events broadcast to WebSocket clients by type",
		}, []string{"type"}),

		// Dataset metrics
		ImportsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "imports_total",
			Help:      "Total number of dataset imports",
		}),
		ExportsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "exports_total",
			Help:      "Total number of dataset exports",
		}),
		RecordsImported: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "records_imported_total",
			Help:      "Total number of records written by dataset imports",
		}),

		// HTTP metrics
		HTTPRequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		HTTPResponsesTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "responses_total",
			Help:      "Total number of HTTP responses by route and status code",
		}, []string{"route", "code"}),
	}
}

// Handler returns an HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// DefaultMetrics is the default metrics instance.
var DefaultMetrics = NewMetrics("")

// RecordMutation increments the committed mutation counter.
func RecordMutation(entity, op string) {
	DefaultMetrics.MutationsTotal.WithLabelValues(entity, op).Inc()
}

// RecordMutationError increments the rejected mutation counter.
func RecordMutationError(entity, op string) {
	DefaultMetrics.MutationErrors.WithLabelValues(entity, op).Inc()
}

// UpdateTrackedRecords updates the per-entity record count gauges.
func UpdateTrackedRecords(wallets, chains, transactions int) {
	DefaultMetrics.TrackedRecords.WithLabelValues("wallet").Set(float64(wallets))
	DefaultMetrics.TrackedRecords.WithLabelValues("chain").Set(float64(chains))
	DefaultMetrics.TrackedRecords.WithLabelValues("transaction").Set(float64(transactions))
}

// RecordAggregation records one aggregation run.
func RecordAggregation(view string, seconds float64) {
	DefaultMetrics.AggregationsTotal.WithLabelValues(view).Inc()
	DefaultMetrics.AggregationDuration.WithLabelValues(view).Observe(seconds)
}

// RecordPageServed increments the log pages served counter.
func RecordPageServed() {
	DefaultMetrics.LogPagesServed.Inc()
}

// RecordSnapshot records one stats snapshot.
func RecordSnapshot(takenAtUnixSeconds float64) {
	DefaultMetrics.SnapshotsRecorded.Inc()
	DefaultMetrics.LastSnapshotTimestamp.Set(takenAtUnixSeconds)
}

// UpdateLiveClients updates the connected WebSocket clients gauge.
func UpdateLiveClients(n int) {
	DefaultMetrics.LiveClients.Set(float64(n))
}

// RecordEventBroadcast increments the broadcast counter for one event type.
func RecordEventBroadcast(eventType string) {
	DefaultMetrics.EventsBroadcast.WithLabelValues(eventType).Inc()
}

// RecordImport records one dataset import and the records it wrote.
func RecordImport(recordsWritten int) {
	DefaultMetrics.ImportsTotal.Inc()
	DefaultMetrics.RecordsImported.Add(float64(recordsWritten))
}

// RecordExport increments the dataset export counter.
func RecordExport() {
	DefaultMetrics.ExportsTotal.Inc()
}

// RecordHTTPRequest records one served HTTP request.
func RecordHTTPRequest(route, method, code string, seconds float64) {
	DefaultMetrics.HTTPRequestDuration.WithLabelValues(route, method).Observe(seconds)
	DefaultMetrics.HTTPResponsesTotal.WithLabelValues(route, code).Inc()
}
