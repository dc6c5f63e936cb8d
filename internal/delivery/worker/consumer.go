package worker

import (
	"context"
	"log/slog"
	"time"

	"storefront/config"
	"storefront/internal/delivery"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/lifecycle"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/pubsub"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	cdkpubsub "gocloud.dev/pubsub"
	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"
)

const defaultRetryDelay = 5 * time.Second

// ConsumerParams holds dependencies for the pull consumer
type ConsumerParams struct {
	fx.In

	Lc        fx.Lifecycle
	Cfg       *config.Config
	Logger    *slog.Logger
	IndexerUC usecase.IndexerUsecase
	Metrics   *metrics.Metrics
	Opener    pubsub.SubscriptionOpener `optional:"true"`
}

// consumer pulls both event topics and feeds every message to the indexer.
// Without a subscription opener it only logs a heartbeat.
type consumer struct {
	opener     pubsub.SubscriptionOpener
	indexerUC  usecase.IndexerUsecase
	metrics    *metrics.Metrics
	logger     *slog.Logger
	topics     []string
	retryDelay time.Duration

	stopCtx context.Context
	stop    context.CancelFunc
	done    chan struct{}
}

// NewConsumer creates the indexer consumer loop
func NewConsumer(params ConsumerParams) delivery.Delivery {
	c := newConsumer(params.Cfg, params.Opener, params.IndexerUC, params.Metrics, params.Logger)

	params.Lc.Append(fx.Hook{
		OnStop: c.shutdown,
	})

	return c
}

func newConsumer(
	cfg *config.Config,
	opener pubsub.SubscriptionOpener,
	indexerUC usecase.IndexerUsecase,
	m *metrics.Metrics,
	logger *slog.Logger,
) *consumer {
	stopCtx, stop := context.WithCancel(context.Background())

	retryDelay := cfg.Indexer.RetryDelay
	if retryDelay <= 0 {
		retryDelay = defaultRetryDelay
	}

	return &consumer{
		opener:     opener,
		indexerUC:  indexerUC,
		metrics:    m,
		logger:     logger,
		topics:     []string{cfg.PubSub.Topics.ProductUpdated, cfg.PubSub.Topics.OrderCreated},
		retryDelay: retryDelay,
		stopCtx:    stopCtx,
		stop:       stop,
		done:       make(chan struct{}),
	}
}

// Serve runs until shutdown. A failed session is retried after the retry
// delay, reopening every subscription.
func (c *consumer) Serve(ctx context.Context) error {
	defer close(c.done)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer context.AfterFunc(c.stopCtx, cancel)()

	if c.opener == nil {
		c.heartbeat(ctx)

		return nil
	}

	c.logger.Info("[Worker] Consumer started", slog.Any("topics", c.topics))

	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}

		c.logger.Warn("[Worker] Consumer session ended, retrying",
			slog.Any("error", err),
			slog.Duration("retry_delay", c.retryDelay),
		)

		if !c.wait(ctx) {
			return nil
		}
	}
}

func (c *consumer) heartbeat(ctx context.Context) {
	c.logger.Info("[Worker] No pull subscription configured, consumer idle")

	for c.wait(ctx) {
		c.logger.Info("[Worker] Heartbeat")
	}
}

// wait sleeps for the retry delay and reports whether the consumer should go on.
func (c *consumer) wait(ctx context.Context) bool {
	timer := time.NewTimer(c.retryDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// session opens one subscription per topic and receives until any of them fails.
func (c *consumer) session(ctx context.Context) error {
	subs := make([]*cdkpubsub.Subscription, 0, len(c.topics))
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), lifecycle.DefaultTimeout)
		defer shutdownCancel()

		for _, sub := range subs {
			if err := sub.Shutdown(shutdownCtx); err != nil {
				c.logger.Debug("[Worker] Subscription shutdown failed", slog.Any("error", err))
			}
		}
	}()

	for _, topic := range c.topics {
		sub, err := c.opener(ctx, topic)
		if err != nil {
			return errors.Wrapf(err, "open %s", topic)
		}
		subs = append(subs, sub)
	}

	// the first failure cancels gctx and stops the other receivers
	g, gctx := errgroup.WithContext(ctx)
	for i, sub := range subs {
		g.Go(func() error {
			return c.receive(gctx, c.topics[i], sub)
		})
	}

	return g.Wait()
}

func (c *consumer) receive(ctx context.Context, topic string, sub *cdkpubsub.Subscription) error {
	for {
		msg, err := sub.Receive(ctx)
		if err != nil {
			return errors.Wrapf(err, "receive %s", topic)
		}

		c.handle(ctx, topic, msg)
		msg.Ack()
	}
}

// handle never fails the session: every message is acked, failures included.
func (c *consumer) handle(ctx context.Context, topic string, msg *cdkpubsub.Message) {
	busMsg := &usecase.BusMessage{
		Topic:     topic,
		Key:       pubsub.MessageKey(msg),
		Body:      msg.Body,
		RequestID: pubsub.MessageRequestID(msg),
	}

	if busMsg.RequestID != "" {
		ctx = deliverycontext.WithRequestID(ctx, busMsg.RequestID)
	}

	outcome, err := c.indexerUC.HandleMessage(ctx, busMsg)
	c.metrics.MessageConsumed(topic, string(outcome))

	if err != nil {
		c.logger.Warn("[Worker] Message not indexed",
			slog.String("topic", topic),
			slog.String("outcome", string(outcome)),
			slog.Any("error", err),
		)
	}
}

func (c *consumer) shutdown(ctx context.Context) error {
	c.stop()

	select {
	case <-c.done:
		return nil
	case <-ctx.Done():
		return errors.WithStack(ctx.Err())
	}
}
