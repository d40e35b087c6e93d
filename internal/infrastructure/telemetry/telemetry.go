// Package telemetry wires OpenTelemetry tracing, metrics and log export plus
// Pyroscope profiling. Every provider degrades to a no-op when disabled.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/solepos/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported as service.version on every signal
var ServiceVersion = "dev"

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// Providers bundles every telemetry provider started for the process
type Providers struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts the providers enabled in cfg. The profiler is started before
// span profiles are attached to the tracer.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Providers, error) {
	p := &Providers{}
	var err error

	if p.Tracer, err = NewTracerProvider(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if p.Meter, err = NewMeterProvider(ctx, cfg, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Logs, err = NewLoggerProvider(ctx, cfg, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Profiler, err = NewProfiler(cfg, logger); err != nil {
		_ = p.Shutdown(ctx)
		return nil, err
	}
	if p.Profiler.IsEnabled() {
		p.Tracer.EnableSpanProfiles()
	}
	return p, nil
}

// Shutdown flushes and stops every provider, returning all errors joined
func (p *Providers) Shutdown(ctx context.Context) error {
	var errs []error
	if p.Profiler != nil {
		errs = append(errs, p.Profiler.Stop())
	}
	if p.Logs != nil {
		errs = append(errs, p.Logs.Shutdown(ctx))
	}
	if p.Meter != nil {
		errs = append(errs, p.Meter.Shutdown(ctx))
	}
	if p.Tracer != nil {
		errs = append(errs, p.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
