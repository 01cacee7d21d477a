package metrics

import (
	"strconv" // Status label
	"time"    // Request latency

	"github.com/prometheus/client_golang/prometheus" // Prometheus collectors
)

// Recorder receives ledger and HTTP observations. Implementations export
// them to a metrics backend.
type Recorder interface {
	RecordTransaction(txType, outcome string)
	ObserveRequest(method, route string, status int, duration time.Duration)
}

// NoOpRecorder is the default Recorder when metrics are disabled.
type NoOpRecorder struct{}

// RecordTransaction does nothing.
func (NoOpRecorder) RecordTransaction(txType, outcome string) {}

// ObserveRequest does nothing.
func (NoOpRecorder) ObserveRequest(method, route string, status int, duration time.Duration) {}

// PrometheusCollector implements Recorder for Prometheus.
type PrometheusCollector struct {
	transactions    *prometheus.CounterVec   // Transaction requests by type and outcome
	requestDuration *prometheus.HistogramVec // HTTP latency by route
	balance         prometheus.GaugeFunc     // Balance read at scrape time
}

// NewPrometheusCollector creates the ledger collectors. balance is called at
// scrape time so the gauge always reflects a consistent ledger read.
func NewPrometheusCollector(namespace string, balance func() float64) *PrometheusCollector {
	return &PrometheusCollector{
		transactions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transactions_total",
				Help:      "Total number of transaction requests per type and outcome",
			},
			[]string{"type", "outcome"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency per method, route and status",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		balance: prometheus.NewGaugeFunc(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "balance",
				Help:      "Current account balance",
			},
			balance,
		),
	}
}

// Register registers all collectors with the given registry.
func (pc *PrometheusCollector) Register(registry prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{pc.transactions, pc.requestDuration, pc.balance} {
		if err := registry.Register(c); err != nil {
			return err // Duplicate or conflicting registration
		}
	}
	return nil
}

// RecordTransaction counts a transaction request by type and outcome.
func (pc *PrometheusCollector) RecordTransaction(txType, outcome string) {
	pc.transactions.WithLabelValues(txType, outcome).Inc()
}

// ObserveRequest records the latency of one HTTP request.
func (pc *PrometheusCollector) ObserveRequest(method, route string, status int, duration time.Duration) {
	pc.requestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(duration.Seconds())
}
