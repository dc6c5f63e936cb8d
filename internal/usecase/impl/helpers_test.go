package impl

import (
	"io"
	"log/slog"
	"time"

	"storefront/config"
)

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Cache = config.CacheConfig{TTL: 30 * time.Second, SearchTTL: 15 * time.Second}
	cfg.PubSub.Topics = config.TopicsConfig{
		ProductUpdated: "events.catalog.product-updated",
		OrderCreated:   "events.orders.order-created",
	}

	return cfg
}
