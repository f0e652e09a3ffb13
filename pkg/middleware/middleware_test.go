package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/go-dux/dux/pkg/dux"
)

type Counter struct {
	N int
}

func (Counter) Init() Counter { return Counter{} }

// counterValue reads a labelled counter from a gathered registry.
func counterValue(t *testing.T, reg *prometheus.Registry, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
	metric:
		for _, m := range mf.GetMetric() {
			for k, v := range labels {
				if !hasLabel(m, k, v) {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, key, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == key && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func histogramCount(t *testing.T, reg *prometheus.Registry, name string) uint64 {
	t.Helper()

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		var total uint64
		for _, m := range mf.GetMetric() {
			total += m.GetHistogram().GetSampleCount()
		}
		return total
	}
	return 0
}

func TestMetricsMiddlewareCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()

	dux.WithScope(dux.NewScope(), func() {
		d := dux.NewDispatch(dux.WithMiddleware(
			Metrics[Counter](WithRegistry(reg)),
		))

		d.Reduce(func(c *Counter) { c.N++ })
		d.Reduce(func(c *Counter) { c.N++ })
		d.Reduce(func(c *Counter) {})
	})

	changed := counterValue(t, reg, "dux_reduces_total",
		map[string]string{"store": "Counter", "changed": "true"})
	if changed != 2 {
		t.Errorf("expected 2 changed reductions, got %v", changed)
	}

	unchanged := counterValue(t, reg, "dux_reduces_total",
		map[string]string{"store": "Counter", "changed": "false"})
	if unchanged != 1 {
		t.Errorf("expected 1 unchanged reduction, got %v", unchanged)
	}

	if n := histogramCount(t, reg, "dux_reduce_duration_seconds"); n != 3 {
		t.Errorf("expected 3 duration samples, got %d", n)
	}
}

func TestMetricsMiddlewareNamespaceOption(t *testing.T) {
	reg := prometheus.NewRegistry()

	dux.WithScope(dux.NewScope(), func() {
		d := dux.NewDispatch(dux.WithMiddleware(
			Metrics[Counter](WithRegistry(reg), WithNamespace("app")),
		))
		d.Reduce(func(c *Counter) { c.N++ })
	})

	got := counterValue(t, reg, "app_reduces_total",
		map[string]string{"store": "Counter", "changed": "true"})
	if got != 1 {
		t.Errorf("expected namespaced counter, got %v", got)
	}
}

func TestOpenTelemetryMiddlewarePassesThrough(t *testing.T) {
	// No tracer provider installed: spans are no-ops, but the reduce
	// result must flow through untouched.
	dux.WithScope(dux.NewScope(), func() {
		d := dux.NewDispatch(dux.WithMiddleware(
			OpenTelemetry[Counter](WithTracerName("test")),
		))

		if !d.Reduce(func(c *Counter) { c.N++ }) {
			t.Error("expected changed = true through tracing middleware")
		}
		if d.Reduce(func(c *Counter) {}) {
			t.Error("expected changed = false through tracing middleware")
		}
		if got := d.Get().N; got != 1 {
			t.Errorf("expected state 1, got %d", got)
		}
	})
}
