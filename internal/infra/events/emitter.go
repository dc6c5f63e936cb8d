package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/pubsub"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// Drop reasons reported in storefront_events_dropped_total.
const (
	dropQueueFull     = "queue_full"
	dropStopped       = "stopped"
	dropShutdown      = "shutdown"
	dropPublishFailed = "publish_failed"
	dropMarshal       = "marshal_failed"
	dropNoTopic       = "no_topic"
)

type job struct {
	event     entity.DomainEvent
	requestID string
}

// Params holds dependencies for Emitter, injected by Fx
type Params struct {
	fx.In

	Lc        fx.Lifecycle
	Config    *config.Config
	Logger    *slog.Logger
	Publisher service.EventPublisher
	Metrics   *metrics.Metrics
}

// Emitter publishes domain events from a bounded in-memory queue. Delivery
// is at most once: nothing is retried and nothing survives a restart.
type Emitter struct {
	publisher service.EventPublisher
	fallback  service.EventPublisher
	validator *SchemaValidator
	topics    config.TopicsConfig
	timeout   time.Duration
	logger    *slog.Logger
	metrics   *metrics.Metrics

	mu        sync.RWMutex
	stopped   bool
	queue     chan job
	abandoned atomic.Bool
	wg        sync.WaitGroup
}

// New creates the emitter and ties its workers to the application lifecycle.
func New(params Params) *Emitter {
	cfg := params.Config
	logger := params.Logger

	var validator *SchemaValidator
	if cfg.Events.ValidateSchema {
		v, err := NewSchemaValidator()
		if err != nil {
			logger.Warn("Avro schemas unavailable, validation disabled", slog.Any("error", err))
		} else {
			validator = v
		}
	}

	e := NewEmitter(params.Publisher, pubsub.NewLogPublisher(logger), validator, cfg, logger, params.Metrics)

	params.Lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			e.Start(cfg.Events.Workers)

			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Stop(ctx)
		},
	})

	return e
}

// NewEmitter builds an emitter that is not yet running. fallback receives
// events when publisher reports the bus as unavailable. validator may be nil.
func NewEmitter(
	publisher, fallback service.EventPublisher,
	validator *SchemaValidator,
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Emitter {
	return &Emitter{
		publisher: publisher,
		fallback:  fallback,
		validator: validator,
		topics:    cfg.PubSub.Topics,
		timeout:   cfg.Events.PublishTimeout,
		logger:    logger.With(slog.String("component", "emitter")),
		metrics:   m,
		queue:     make(chan job, cfg.Events.QueueSize),
	}
}

// Start launches n workers.
func (e *Emitter) Start(n int) {
	if n < 1 {
		n = 1
	}

	for range n {
		e.wg.Add(1)
		go e.work()
	}
}

// Emit queues event without blocking. The request id of ctx travels with it.
func (e *Emitter) Emit(ctx context.Context, event entity.DomainEvent) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.stopped {
		e.drop(ctx, event, dropStopped)

		return
	}

	select {
	case e.queue <- job{event: event, requestID: deliverycontext.GetRequestIDFromContext(ctx)}:
	default:
		e.drop(ctx, event, dropQueueFull)
	}
}

// Stop refuses new events and waits for the workers to drain the queue.
// Events still queued when ctx expires are dropped.
func (e *Emitter) Stop(ctx context.Context) error {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()

		return nil
	}
	e.stopped = true
	close(e.queue)
	e.mu.Unlock()

	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		e.logger.Info("Emitter drained")

		return nil
	case <-ctx.Done():
		e.abandoned.Store(true)
		e.logger.Warn("Emitter stop deadline reached, dropping queued events",
			slog.Int("remaining", len(e.queue)),
		)

		return errors.WithStack(ctx.Err())
	}
}

func (e *Emitter) work() {
	defer e.wg.Done()

	for j := range e.queue {
		if e.abandoned.Load() {
			e.drop(context.Background(), j.event, dropShutdown)

			continue
		}
		e.publish(j)
	}
}

func (e *Emitter) publish(j job) {
	ctx := context.Background()
	if j.requestID != "" {
		ctx = deliverycontext.WithRequestID(ctx, j.requestID)
	}
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	name := j.event.EventName()
	logger := e.logger.With(
		slog.String("event", name),
		slog.String("key", j.event.AggregateID()),
		slog.String("request_id", j.requestID),
	)

	if e.validator != nil {
		if err := e.validator.Validate(j.event); err != nil {
			logger.Warn("Event failed schema validation", slog.Any("error", err))
		}
	}

	topic := e.topicFor(name)
	if topic == "" {
		e.drop(ctx, j.event, dropNoTopic)

		return
	}

	payload, err := json.Marshal(j.event)
	if err != nil {
		logger.Error("Failed to encode event", slog.Any("error", err))
		e.drop(ctx, j.event, dropMarshal)

		return
	}

	msg := &service.EventMessage{
		RequestID: j.requestID,
		Topic:     topic,
		Key:       j.event.AggregateID(),
		Name:      name,
		Payload:   payload,
	}

	sink := sinkOf(e.publisher)
	err = e.publisher.Publish(ctx, msg)
	if errors.Is(err, service.ErrBusUnavailable) && e.fallback != nil {
		logger.Warn("Event bus unavailable, writing event to log", slog.Any("error", err))
		sink = sinkOf(e.fallback)
		err = e.fallback.Publish(ctx, msg)
	}
	if err != nil {
		logger.Warn("Failed to publish event", slog.Any("error", err))
		e.drop(ctx, j.event, dropPublishFailed)

		return
	}

	e.metrics.EventPublished(name, sink)
}

func (e *Emitter) topicFor(name string) string {
	switch name {
	case entity.EventProductUpdated:
		return e.topics.ProductUpdated
	case entity.EventOrderCreated:
		return e.topics.OrderCreated
	default:
		return ""
	}
}

func (e *Emitter) drop(ctx context.Context, event entity.DomainEvent, reason string) {
	if reason != dropPublishFailed {
		e.logger.WarnContext(ctx, "Event dropped",
			slog.String("event", event.EventName()),
			slog.String("key", event.AggregateID()),
			slog.String("reason", reason),
		)
	}
	e.metrics.EventDropped(event.EventName(), reason)
}

func sinkOf(p service.EventPublisher) string {
	if namer, ok := p.(pubsub.SinkNamer); ok {
		return namer.Sink()
	}

	return constants.PubSubProviderLog
}
