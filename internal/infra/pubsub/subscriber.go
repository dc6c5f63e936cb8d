package pubsub

import (
	"context"

	"storefront/config"

	"github.com/pkg/errors"
	cdkpubsub "gocloud.dev/pubsub"
	"gocloud.dev/pubsub/kafkapubsub"
)

// SubscriptionOpener opens a pull subscription on one topic.
type SubscriptionOpener func(ctx context.Context, topic string) (*cdkpubsub.Subscription, error)

// NewKafkaSubscriptionOpener returns an opener that joins the configured
// consumer group. New groups start from the oldest offset.
func NewKafkaSubscriptionOpener(cfg *config.Config) SubscriptionOpener {
	brokers := cfg.KafkaBrokers()
	group := cfg.PubSub.GroupID

	return func(_ context.Context, topic string) (*cdkpubsub.Subscription, error) {
		saramaCfg := kafkapubsub.MinimalConfig()
		saramaCfg.Consumer.Offsets.Initial = offsetOldest

		sub, err := kafkapubsub.OpenSubscription(brokers, saramaCfg, group, []string{topic}, &kafkapubsub.SubscriptionOptions{
			KeyName: kafkaKeyName,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "open subscription %s", topic)
		}

		return sub, nil
	}
}

// MessageKey returns the Kafka key carried in the message metadata.
func MessageKey(msg *cdkpubsub.Message) string {
	if msg == nil || msg.Metadata == nil {
		return ""
	}

	return msg.Metadata[kafkaKeyName]
}

// MessageRequestID returns the request id the publisher attached, if any.
func MessageRequestID(msg *cdkpubsub.Message) string {
	if msg == nil || msg.Metadata == nil {
		return ""
	}

	return msg.Metadata[requestIDName]
}
