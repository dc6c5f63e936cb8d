package pubsub

import (
	"context"
	stderrors "errors"
	"log/slog"
	"maps"
	"sync"
	"time"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	cdkpubsub "gocloud.dev/pubsub"
	"gocloud.dev/pubsub/kafkapubsub"
)

const (
	// kafkaKeyName is the metadata entry carried as the Kafka message key.
	kafkaKeyName = "key"

	requestIDName = "request_id"

	// offsetOldest mirrors sarama.OffsetOldest: a new consumer group starts at the beginning.
	offsetOldest int64 = -2

	topicShutdownTimeout = 5 * time.Second
)

type topicOpener func(name string) (*cdkpubsub.Topic, error)

// topicPublisher sends to Go CDK topics, opened on first use and kept open.
// A topic that fails to open is retried on the next message.
type topicPublisher struct {
	sink   string
	open   topicOpener
	logger *slog.Logger

	mu     sync.Mutex
	topics map[string]*cdkpubsub.Topic
}

// NewKafkaPublisher creates a publisher for the given bootstrap brokers.
func NewKafkaPublisher(brokers []string, logger *slog.Logger) service.EventPublisher {
	cfg := kafkapubsub.MinimalConfig()

	return newTopicPublisher(constants.PubSubProviderKafka, func(name string) (*cdkpubsub.Topic, error) {
		return kafkapubsub.OpenTopic(brokers, cfg, name, &kafkapubsub.TopicOptions{KeyName: kafkaKeyName})
	}, logger)
}

func newTopicPublisher(sink string, open topicOpener, logger *slog.Logger) *topicPublisher {
	return &topicPublisher{
		sink:   sink,
		open:   open,
		logger: logger,
		topics: make(map[string]*cdkpubsub.Topic),
	}
}

func (p *topicPublisher) topic(name string) (*cdkpubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if t, ok := p.topics[name]; ok {
		return t, nil
	}

	t, err := p.open(name)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	p.topics[name] = t

	return t, nil
}

func (p *topicPublisher) Publish(ctx context.Context, msg *service.EventMessage) error {
	topic, err := p.topic(msg.Topic)
	if err != nil {
		return errors.Wrapf(service.ErrBusUnavailable, "open topic %s: %v", msg.Topic, err)
	}

	metadata := make(map[string]string, len(msg.Attributes)+2)
	maps.Copy(metadata, msg.Attributes)
	metadata[kafkaKeyName] = msg.Key
	if msg.RequestID != "" {
		metadata[requestIDName] = msg.RequestID
	}

	if err := topic.Send(ctx, &cdkpubsub.Message{
		Body:     msg.Payload,
		Metadata: metadata,
	}); err != nil {
		return errors.Wrapf(err, "send to %s", msg.Topic)
	}

	p.logger.DebugContext(ctx, "Event published",
		slog.String("sink", p.sink),
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
	)

	return nil
}

func (p *topicPublisher) Sink() string {
	return p.sink
}

// Close flushes and shuts down every open topic.
func (p *topicPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), topicShutdownTimeout)
	defer cancel()

	var errs []error
	for name, t := range p.topics {
		if err := t.Shutdown(ctx); err != nil {
			errs = append(errs, errors.Wrapf(err, "shutdown topic %s", name))
		}
		delete(p.topics, name)
	}

	return errors.WithStack(stderrors.Join(errs...))
}
