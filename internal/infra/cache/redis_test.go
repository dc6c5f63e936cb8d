package cache

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/infra/metrics"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

type snapshot struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis, *metrics.Metrics) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })

	m := metrics.New()

	return NewRedisCache(client, time.Second, discardLogger(), m), mr, m
}

func TestRedisCache_SetGet(t *testing.T) {
	c, mr, m := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "product:p-1", snapshot{ID: "p-1", Price: 2.5}, 30*time.Second)

	var got snapshot
	require.True(t, c.Get(ctx, "product:p-1", &got))
	assert.Equal(t, snapshot{ID: "p-1", Price: 2.5}, got)
	assert.Equal(t, 30*time.Second, mr.TTL("product:p-1"))

	var missing snapshot
	assert.False(t, c.Get(ctx, "product:p-2", &missing))

	expected := `
# HELP storefront_cache_lookups_total Cache lookups by result (hit or miss).
# TYPE storefront_cache_lookups_total counter
storefront_cache_lookups_total{result="hit"} 1
storefront_cache_lookups_total{result="miss"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "storefront_cache_lookups_total"))
}

func TestRedisCache_Expiry(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "search:foo", []string{"a"}, 15*time.Second)
	mr.FastForward(16 * time.Second)

	var got []string
	assert.False(t, c.Get(ctx, "search:foo", &got))
}

func TestRedisCache_Delete(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	c.Set(ctx, "product:p-1", snapshot{ID: "p-1"}, time.Minute)
	c.Delete(ctx, "product:p-1")

	assert.False(t, mr.Exists("product:p-1"))
}

func TestRedisCache_CorruptValueIsMiss(t *testing.T) {
	c, mr, m := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set("product:p-1", "{not json"))

	var got snapshot
	assert.False(t, c.Get(ctx, "product:p-1", &got))

	expected := `
# HELP storefront_infra_faults_total Absorbed faults of best-effort dependencies.
# TYPE storefront_infra_faults_total counter
storefront_infra_faults_total{component="cache",op="decode"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "storefront_infra_faults_total"))
}

func TestRedisCache_BackendDownNeverFails(t *testing.T) {
	c, mr, _ := newTestCache(t)
	ctx := context.Background()

	assert.True(t, c.Probe(ctx))
	mr.Close()

	var got snapshot
	assert.NotPanics(t, func() {
		c.Set(ctx, "product:p-1", snapshot{ID: "p-1"}, time.Minute)
		c.Delete(ctx, "product:p-1")
	})
	assert.False(t, c.Get(ctx, "product:p-1", &got))
	assert.False(t, c.Probe(ctx))
}

func TestRedisCache_UnencodableValueIsDropped(t *testing.T) {
	c, mr, _ := newTestCache(t)

	c.Set(context.Background(), "bad", func() {}, time.Minute)

	assert.False(t, mr.Exists("bad"))
}

func TestDisabled(t *testing.T) {
	var c Disabled
	ctx := context.Background()

	c.Set(ctx, "k", "v", time.Minute)
	c.Delete(ctx, "k")

	var got string
	assert.False(t, c.Get(ctx, "k", &got))
	assert.False(t, c.Probe(ctx))
}

func TestNew_SelectsImplementation(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name     string
		redis    *config.RedisConfig
		disabled bool
	}{
		{name: "unset", redis: nil, disabled: true},
		{name: "empty url", redis: &config.RedisConfig{}, disabled: true},
		{name: "malformed url", redis: &config.RedisConfig{URL: "mysql://nope"}, disabled: true},
		{name: "configured", redis: &config.RedisConfig{URL: "redis://" + mr.Addr() + "/0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lc := fxtest.NewLifecycle(t)
			cfg := &config.Config{Redis: tt.redis}

			c := New(Params{Lifecycle: lc, Config: cfg, Logger: discardLogger(), Metrics: metrics.New()})

			_, isDisabled := c.(Disabled)
			assert.Equal(t, tt.disabled, isDisabled)
			if !tt.disabled {
				assert.True(t, c.Probe(context.Background()))
			}
			lc.RequireStart().RequireStop()
		})
	}
}
