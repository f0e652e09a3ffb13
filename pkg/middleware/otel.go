package middleware

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-dux/dux/pkg/dux"
)

// Default tracer name for dux instrumentation.
const defaultTracerName = "dux"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "dux").
	TracerName string

	// AttributeExtractor extracts custom attributes from the
	// post-reduce state. Called once per traced reduction.
	AttributeExtractor func() []attribute.KeyValue

	// tracer is the resolved tracer instance.
	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func() []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// defaultOTelConfig returns the default OpenTelemetry configuration.
func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates reduce middleware that traces every reduction.
//
// The middleware creates a "dux.reduce" span per reduction carrying the
// store name and the changed flag. The tracer comes from the global
// OpenTelemetry tracer provider; configure it in main() before
// dispatching:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	d := dux.NewDispatch(dux.WithMiddleware(
//	    middleware.OpenTelemetry[AppState](),
//	))
func OpenTelemetry[S dux.Store[S]](opts ...OTelOption) dux.Middleware[S] {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	// Resolve tracer from global provider
	config.tracer = otel.Tracer(config.TracerName)

	store := dux.StoreName[S]()

	return func(next dux.ReduceFunc[S]) dux.ReduceFunc[S] {
		return func(mutation func(*S)) bool {
			_, span := config.tracer.Start(context.Background(), "dux.reduce",
				trace.WithAttributes(attribute.String("dux.store", store)),
			)

			changed := next(mutation)

			span.SetAttributes(attribute.Bool("dux.changed", changed))
			if config.AttributeExtractor != nil {
				span.SetAttributes(config.AttributeExtractor()...)
			}
			span.End()

			return changed
		}
	}
}
