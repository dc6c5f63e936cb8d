// Package cache implements service.Cache on Redis. Every fault is absorbed:
// lookups miss and writes are dropped.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"storefront/config"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/service"
	"storefront/internal/errors"
	"storefront/internal/infra/metrics"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

const component = "cache"

// Params defines the required parameters
type Params struct {
	fx.In
	fx.Lifecycle

	Config  *config.Config
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// New returns the Redis cache when a URL is configured and the disabled
// cache otherwise. A malformed URL also yields the disabled cache.
func New(params Params) service.Cache {
	cfg := params.Config.Redis
	if cfg == nil || cfg.URL == "" {
		params.Logger.Info("Redis not configured, cache disabled")

		return Disabled{}
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		params.Logger.Warn("Invalid Redis URL, cache disabled", slog.Any("error", err))

		return Disabled{}
	}

	client := redis.NewClient(opts)
	params.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return errors.WithStack(client.Close())
		},
	})

	return NewRedisCache(client, cfg.Timeout, params.Logger, params.Metrics)
}

// RedisCache stores JSON values in Redis.
type RedisCache struct {
	client  redis.UniversalClient
	timeout time.Duration
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// NewRedisCache wraps client. Each call is bounded by timeout when it is positive.
func NewRedisCache(client redis.UniversalClient, timeout time.Duration, logger *slog.Logger, m *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:  client,
		timeout: timeout,
		logger:  logger,
		metrics: m,
	}
}

func (c *RedisCache) Get(ctx context.Context, key string, dst any) bool {
	hit, fault := c.get(ctx, key, dst)
	c.absorb(ctx, key, fault)
	c.metrics.CacheLookup(hit)

	return hit
}

func (c *RedisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) {
	c.absorb(ctx, key, c.set(ctx, key, value, ttl))
}

func (c *RedisCache) Delete(ctx context.Context, key string) {
	c.absorb(ctx, key, c.del(ctx, key))
}

func (c *RedisCache) Probe(ctx context.Context) bool {
	fault := c.ping(ctx)
	c.absorb(ctx, "", fault)

	return fault == nil
}

func (c *RedisCache) get(ctx context.Context, key string, dst any) (bool, *domainerrors.InfraFault) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, domainerrors.NewInfraFault(component, "get", err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return false, domainerrors.NewInfraFault(component, "decode", err)
	}

	return true, nil
}

func (c *RedisCache) set(ctx context.Context, key string, value any, ttl time.Duration) *domainerrors.InfraFault {
	raw, err := json.Marshal(value)
	if err != nil {
		return domainerrors.NewInfraFault(component, "encode", err)
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	return domainerrors.NewInfraFault(component, "set", c.client.Set(ctx, key, raw, ttl).Err())
}

func (c *RedisCache) del(ctx context.Context, key string) *domainerrors.InfraFault {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	return domainerrors.NewInfraFault(component, "delete", c.client.Del(ctx, key).Err())
}

func (c *RedisCache) ping(ctx context.Context) *domainerrors.InfraFault {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	return domainerrors.NewInfraFault(component, "ping", c.client.Ping(ctx).Err())
}

// absorb is the single place where cache faults are turned into a degraded outcome.
func (c *RedisCache) absorb(ctx context.Context, key string, fault *domainerrors.InfraFault) {
	if fault == nil {
		return
	}

	c.metrics.InfraFault(fault.Component, fault.Op)
	if c.logger != nil {
		c.logger.DebugContext(ctx, "Cache fault absorbed",
			slog.String("op", fault.Op),
			slog.String("key", key),
			slog.Any("error", fault.Err),
		)
	}
}

func (c *RedisCache) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.timeout)
}

// Disabled is the cache used when Redis is not configured.
type Disabled struct{}

func (Disabled) Get(context.Context, string, any) bool           { return false }
func (Disabled) Set(context.Context, string, any, time.Duration) {}
func (Disabled) Delete(context.Context, string)                  {}
func (Disabled) Probe(context.Context) bool                      { return false }
