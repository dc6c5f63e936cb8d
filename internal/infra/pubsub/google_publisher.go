package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"sync"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"cloud.google.com/go/pubsub/v2"
	pubsubpb "cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"github.com/pkg/errors"
)

// googlePubSubPublisher implements EventPublisher using Google Cloud Pub/Sub.
// Each topic gets its own publisher, created after the topic is confirmed to exist.
type googlePubSubPublisher struct {
	client    *pubsub.Client
	projectID string
	logger    *slog.Logger

	mu         sync.Mutex
	publishers map[string]*pubsub.Publisher
}

// NewGooglePubSubPublisher creates a new Google Pub/Sub publisher
func NewGooglePubSubPublisher(ctx context.Context, projectID string, logger *slog.Logger) (service.EventPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	logger.Info("Google Pub/Sub publisher initialized",
		slog.String("project_id", projectID),
	)

	return &googlePubSubPublisher{
		client:     client,
		projectID:  projectID,
		logger:     logger,
		publishers: make(map[string]*pubsub.Publisher),
	}, nil
}

func (p *googlePubSubPublisher) publisher(ctx context.Context, topicID string) (*pubsub.Publisher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pub, ok := p.publishers[topicID]; ok {
		return pub, nil
	}

	topicPath := fmt.Sprintf("projects/%s/topics/%s", p.projectID, topicID)
	if _, err := p.client.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{
		Topic: topicPath,
	}); err != nil {
		return nil, errors.Wrapf(err, "failed to get topic %s", topicID)
	}

	pub := p.client.Publisher(topicID)
	p.publishers[topicID] = pub

	return pub, nil
}

// Publish sends msg to its topic and waits for the server acknowledgement.
func (p *googlePubSubPublisher) Publish(ctx context.Context, msg *service.EventMessage) error {
	pub, err := p.publisher(ctx, msg.Topic)
	if err != nil {
		return errors.Wrapf(service.ErrBusUnavailable, "%v", err)
	}

	// Attributes for filtering and tracing
	attributes := make(map[string]string, len(msg.Attributes)+4)
	maps.Copy(attributes, msg.Attributes)
	attributes["topic"] = msg.Topic
	attributes["event"] = msg.Name
	attributes["key"] = msg.Key
	if msg.RequestID != "" {
		attributes["request_id"] = msg.RequestID
	}

	result := pub.Publish(ctx, &pubsub.Message{
		Data:       msg.Payload,
		Attributes: attributes,
	})

	serverID, err := result.Get(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	p.logger.DebugContext(ctx, "[GooglePubSub] Event published",
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
		slog.String("server_id", serverID),
	)

	return nil
}

func (p *googlePubSubPublisher) Sink() string {
	return constants.PubSubProviderGoogle
}

// Close stops every topic publisher and releases the client
func (p *googlePubSubPublisher) Close() error {
	p.mu.Lock()
	for _, pub := range p.publishers {
		pub.Stop()
	}
	p.publishers = map[string]*pubsub.Publisher{}
	p.mu.Unlock()

	if p.client != nil {
		return errors.WithStack(p.client.Close())
	}

	return nil
}
