package middleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/go-dux/dux/pkg/dux"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "dux").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for reduce duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// defaultMetricsConfig returns the default metrics configuration.
func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace:   "dux",
		Subsystem:   "",
		ConstLabels: nil,
		Buckets:     prometheus.DefBuckets,
		Registry:    prometheus.DefaultRegisterer,
	}
}

// reduceMetrics holds the collectors shared by all instrumented stores.
type reduceMetrics struct {
	reducesTotal   *prometheus.CounterVec
	reduceDuration *prometheus.HistogramVec
}

func initMetrics(config MetricsConfig) *reduceMetrics {
	factory := promauto.With(config.Registry)

	return &reduceMetrics{
		reducesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reduces_total",
			Help:        "Total number of reductions by store and outcome",
			ConstLabels: config.ConstLabels,
		}, []string{"store", "changed"}),

		reduceDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "reduce_duration_seconds",
			Help:        "Reduction duration in seconds, including notification",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"store"}),
	}
}

// Metrics creates reduce middleware that records Prometheus metrics.
//
// Metrics collected:
//   - dux_reduces_total: Counter of reductions by store and changed flag
//   - dux_reduce_duration_seconds: Histogram of reduce duration by store
//
// Example:
//
//	d := dux.NewDispatch(dux.WithMiddleware(
//	    middleware.Metrics[AppState](),
//	))
//
// Each call registers its own collectors; create the middleware once per
// registry and reuse it across dispatches.
func Metrics[S dux.Store[S]](opts ...MetricsOption) dux.Middleware[S] {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}

	m := initMetrics(config)
	store := dux.StoreName[S]()

	return func(next dux.ReduceFunc[S]) dux.ReduceFunc[S] {
		return func(mutation func(*S)) bool {
			start := time.Now()
			changed := next(mutation)
			m.reduceDuration.WithLabelValues(store).Observe(time.Since(start).Seconds())

			outcome := "false"
			if changed {
				outcome = "true"
			}
			m.reducesTotal.WithLabelValues(store, outcome).Inc()

			return changed
		}
	}
}
