package pubsub

import (
	"context"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// SinkNamer is implemented by publishers that report the sink they write to.
type SinkNamer interface {
	Sink() string
}

// PublisherParams holds dependencies for EventPublisher, injected by Fx
type PublisherParams struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// NewEventPublisher creates an EventPublisher based on configuration. An
// unknown provider is a configuration error; a provider that cannot be
// initialized falls back to the log publisher.
func NewEventPublisher(params PublisherParams) (service.EventPublisher, error) {
	cfg := params.Config.PubSub
	logger := params.Logger

	publisher, err := newPublisher(params.Ctx, params.Config, logger)
	if err != nil {
		if errors.Is(err, errUnknownProvider) {
			return nil, err
		}
		logger.Warn("Event bus init failed, falling back to log publisher",
			slog.String("provider", cfg.Provider),
			slog.Any("error", err),
		)
		publisher = NewLogPublisher(logger)
	}

	// Register lifecycle hook to close publisher on shutdown
	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing EventPublisher")

			return publisher.Close()
		},
	})

	return publisher, nil
}

var errUnknownProvider = errors.New("unknown pubsub provider")

func newPublisher(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.EventPublisher, error) {
	ps := cfg.PubSub

	switch ps.Provider {
	case "", constants.PubSubProviderLog:
		logger.Info("Event bus disabled, events go to the log")

		return NewLogPublisher(logger), nil

	case constants.PubSubProviderKafka:
		brokers := cfg.KafkaBrokers()
		if len(brokers) == 0 {
			return nil, errors.New("kafka bootstrap is required for kafka provider")
		}
		logger.Info("Using Kafka publisher", slog.Any("brokers", brokers))

		return NewKafkaPublisher(brokers, logger), nil

	case constants.PubSubProviderLocal:
		if ps.LocalEndpoint == "" {
			return nil, errors.New("local endpoint is required for local provider")
		}
		logger.Info("Using local HTTP publisher for Pub/Sub",
			slog.String("endpoint", ps.LocalEndpoint),
		)

		return NewLocalHTTPPublisher(ps.LocalEndpoint, logger), nil

	case constants.PubSubProviderGoogle:
		if ps.ProjectID == "" {
			return nil, errors.New("project ID is required for google provider")
		}
		logger.Info("Using Google Pub/Sub publisher",
			slog.String("project_id", ps.ProjectID),
		)

		return NewGooglePubSubPublisher(ctx, ps.ProjectID, logger)

	default:
		return nil, errors.Wrap(errUnknownProvider, ps.Provider)
	}
}
