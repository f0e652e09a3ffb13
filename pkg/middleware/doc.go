// Package middleware provides observability middleware for dux
// dispatches.
//
// # Prometheus Metrics
//
// The metrics middleware records a counter of reductions (labelled by
// store and changed flag) and a histogram of reduce durations:
//
//	d := dux.NewDispatch(dux.WithMiddleware(
//	    middleware.Metrics[AppState](),
//	))
//
// Then expose metrics however the application prefers:
//
//	http.Handle("/metrics", promhttp.Handler())
//	go http.ListenAndServe(":9090", nil)
//
// # OpenTelemetry Tracing
//
// The tracing middleware creates a "dux.reduce" span per reduction:
//
//	d := dux.NewDispatch(dux.WithMiddleware(
//	    middleware.OpenTelemetry[AppState](
//	        middleware.WithTracerName("my-app"),
//	    ),
//	))
//
// Both middlewares see every Reduce, Set, and Apply issued through the
// Dispatch they are installed on; reductions made directly on the
// Context bypass them.
package middleware
