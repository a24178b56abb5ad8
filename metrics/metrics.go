// Package metrics exposes layout and HTTP instrumentation through a private
// Prometheus registry.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// Simulation Metrics
	StepsTotal    prometheus.Counter
	StepDuration  prometheus.Histogram
	NodesTotal    prometheus.Gauge
	EdgesTotal    prometheus.Gauge
	KineticEnergy prometheus.Gauge
	SyncOpsTotal  *prometheus.CounterVec

	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initSimulationMetrics()
	r.initHTTPMetrics()

	return r
}

func (r *Registry) initSimulationMetrics() {
	r.StepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "forcegraph_steps_total",
			Help: "Total number of simulation steps",
		},
	)

	r.StepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "forcegraph_step_duration_seconds",
			Help:    "Simulation step duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
		},
	)

	r.NodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_nodes_total",
			Help: "Number of nodes in the simulation",
		},
	)

	r.EdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_edges_total",
			Help: "Number of edges in the simulation",
		},
	)

	r.KineticEnergy = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "forcegraph_kinetic_energy",
			Help: "Kinetic energy of the free nodes after the last step",
		},
	)

	r.SyncOpsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_sync_operations_total",
			Help: "Topology changes applied while reconciling with the source graph",
		},
		[]string{"operation"},
	)
}

func (r *Registry) initHTTPMetrics() {
	r.HTTPRequestsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "forcegraph_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	r.HTTPRequestDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "forcegraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
}

// RecordStep records one simulation step
func (r *Registry) RecordStep(duration time.Duration, energy float64) {
	r.StepsTotal.Inc()
	r.StepDuration.Observe(duration.Seconds())
	r.KineticEnergy.Set(energy)
}

// UpdateGraph sets the node and edge gauges
func (r *Registry) UpdateGraph(nodes, edges int) {
	r.NodesTotal.Set(float64(nodes))
	r.EdgesTotal.Set(float64(edges))
}

// RecordSync counts topology changes by operation ("add_node", "remove_edge", ...)
func (r *Registry) RecordSync(operation string, n int) {
	if n <= 0 {
		return
	}
	r.SyncOpsTotal.WithLabelValues(operation).Add(float64(n))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
