package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled turns metrics collection and the scrape route on.
	Enabled bool `mapstructure:"enabled" default:"true"`
	// Namespace prefixes every metric name.
	Namespace string `mapstructure:"namespace" default:"s3bridge"`
	// Path is the HTTP route serving the scrape endpoint.
	Path string `mapstructure:"path" default:"/metrics"`
}

// Metrics records bridge activity.
type Metrics struct {
	registry *prometheus.Registry

	operations    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
	clientBuilds  *prometheus.CounterVec
	cachedClients prometheus.Gauge
	inflight      prometheus.Gauge
}

// New creates the metrics set. It returns nil, nil when metrics are disabled.
func New(cfg Config) (*Metrics, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = "s3bridge"
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "operations_total",
			Help:      "Object operations by outcome.",
		}, []string{"operation", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: ns,
			Name:      "operation_duration_seconds",
			Help:      "Object operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "client_cache_lookups_total",
			Help:      "Client cache lookups by result.",
		}, []string{"result"}),
		clientBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns,
			Name:      "client_builds_total",
			Help:      "Storage client constructions by result.",
		}, []string{"result"}),
		cachedClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "cached_clients",
			Help:      "Number of cached storage clients.",
		}),
		inflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: ns,
			Name:      "bridge_inflight",
			Help:      "Operations currently running through the execution bridge.",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.operations, m.duration, m.cacheLookups, m.clientBuilds, m.cachedClients, m.inflight,
	} {
		if err := m.registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}

	return m, nil
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CacheLookup records a client cache lookup.
func (m *Metrics) CacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// ClientBuilt records a client construction attempt.
func (m *Metrics) ClientBuilt(err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.clientBuilds.WithLabelValues(result).Inc()
}

// SetCachedClients sets the cache size gauge.
func (m *Metrics) SetCachedClients(n int) {
	if m == nil {
		return
	}
	m.cachedClients.Set(float64(n))
}

// BridgeStarted marks an operation entering the bridge. The returned func marks it done.
func (m *Metrics) BridgeStarted() func() {
	if m == nil {
		return func() {}
	}
	m.inflight.Inc()
	return m.inflight.Dec
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
