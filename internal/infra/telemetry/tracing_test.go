package telemetry

import (
	"io"
	"log/slog"
	"testing"

	"storefront/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/fx/fxtest"
)

func TestNew_DisabledWithoutEndpoint(t *testing.T) {
	lc := fxtest.NewLifecycle(t)

	tr := New(Params{Lc: lc, Config: &config.Config{}, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	assert.False(t, tr.Enabled())
	assert.NotNil(t, tr.TracerProvider())
	lc.RequireStart().RequireStop()
}

func TestNew_EnabledWithEndpoint(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	cfg := &config.Config{}
	cfg.Env.ServiceName = "catalog-api"
	cfg.Tracing.Endpoint = "http://127.0.0.1:4317"

	tr := New(Params{Lc: lc, Config: cfg, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})

	// the gRPC exporter connects lazily, so an absent collector does not fail start-up
	assert.True(t, tr.Enabled())
	lc.RequireStart().RequireStop()
}

func TestTracing_NilSafe(t *testing.T) {
	var tr *Tracing

	assert.False(t, tr.Enabled())
	assert.NotNil(t, tr.TracerProvider())
}
