package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector instruments ledger operations.
type Collector struct {
	registry            *prometheus.Registry
	operationsTotal     *prometheus.CounterVec
	operationsFailed    *prometheus.CounterVec
	operationDuration   prometheus.Histogram
	accountBalanceGauge *prometheus.GaugeVec
}

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()

	return &Collector{
		registry: registry,
		operationsTotal: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_total",
			Help: "Total number of completed ledger operations",
		}, []string{"operation"}),
		operationsFailed: promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
			Name: "ledger_operations_failed_total",
			Help: "Total number of failed ledger operations",
		}, []string{"operation"}),
		operationDuration: promauto.With(registry).NewHistogram(prometheus.HistogramOpts{
			Name:    "ledger_operation_duration_seconds",
			Help:    "Time taken to complete a ledger operation",
			Buckets: prometheus.DefBuckets,
		}),
		accountBalanceGauge: promauto.With(registry).NewGaugeVec(prometheus.GaugeOpts{
			Name: "account_balance",
			Help: "Current account balance",
		}, []string{"account_number"}),
	}
}

// RecordOperation records the outcome and latency of one ledger operation.
// Safe to call on a nil collector.
func (m *Collector) RecordOperation(operation string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if err != nil {
		m.operationsFailed.WithLabelValues(operation).Inc()
	} else {
		m.operationsTotal.WithLabelValues(operation).Inc()
	}
	m.operationDuration.Observe(duration.Seconds())
}

// UpdateAccountBalance publishes the latest balance for an account.
// Safe to call on a nil collector.
func (m *Collector) UpdateAccountBalance(accountNumber string, balance float64) {
	if m == nil {
		return
	}
	m.accountBalanceGauge.WithLabelValues(accountNumber).Set(balance)
}

// Handler returns the HTTP handler exposing the collector's registry.
func (m *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
