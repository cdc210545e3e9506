package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics collects Prometheus counters for store operations
type Metrics struct {
	operations *prometheus.CounterVec
}

// NewMetrics creates store metrics registered against the given registerer
func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		operations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "alacena_store_operations_total",
				Help: "Total number of store operations by collection, operation and status",
			},
			[]string{"collection", "operation", "status"},
		),
	}
}

// Observe records one store operation
func (m *Metrics) Observe(collection, operation, status string) {
	m.operations.WithLabelValues(collection, operation, status).Inc()
}
