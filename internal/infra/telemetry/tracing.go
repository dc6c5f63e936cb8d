// Package telemetry sets up OpenTelemetry tracing.
package telemetry

import (
	"context"
	"log/slog"
	"strings"

	"storefront/config"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

// Params holds dependencies for Tracing, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// Tracing holds the process tracer provider. Without an OTLP endpoint it is
// a no-op provider.
type Tracing struct {
	provider trace.TracerProvider
	enabled  bool
}

// New installs the global tracer provider. Exporter failures are logged and
// leave tracing disabled.
func New(params Params) *Tracing {
	cfg := params.Config
	logger := params.Logger

	if cfg.Tracing.Endpoint == "" {
		return Disabled()
	}

	sdkProvider, err := newProvider(context.Background(), cfg.Tracing.Endpoint, cfg.Env.ServiceName)
	if err != nil {
		logger.Warn("Tracing disabled, exporter init failed",
			slog.String("endpoint", cfg.Tracing.Endpoint),
			slog.Any("error", err),
		)

		return Disabled()
	}

	otel.SetTracerProvider(sdkProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := sdkProvider.Shutdown(ctx); err != nil {
				logger.Warn("Tracer provider shutdown failed", slog.Any("error", err))
			}

			return nil
		},
	})

	logger.Info("Tracing enabled", slog.String("endpoint", cfg.Tracing.Endpoint))

	return &Tracing{provider: sdkProvider, enabled: true}
}

// Disabled returns a tracer that records nothing.
func Disabled() *Tracing {
	return &Tracing{provider: noop.NewTracerProvider()}
}

func newProvider(ctx context.Context, endpoint, serviceName string) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithInsecure()}
	if strings.Contains(endpoint, "://") {
		opts = append(opts, otlptracegrpc.WithEndpointURL(endpoint))
	} else {
		opts = append(opts, otlptracegrpc.WithEndpoint(endpoint))
	}

	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	res := resource.NewSchemaless(attribute.String("service.name", serviceName))

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	), nil
}

func (t *Tracing) Enabled() bool {
	return t != nil && t.enabled
}

func (t *Tracing) TracerProvider() trace.TracerProvider {
	if t == nil {
		return noop.NewTracerProvider()
	}

	return t.provider
}
