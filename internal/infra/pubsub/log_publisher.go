package pubsub

import (
	"context"
	"log/slog"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"
)

// logPublisher writes events to the log. It is the sink when the bus is
// disabled or could not be reached.
type logPublisher struct {
	logger *slog.Logger
}

// NewLogPublisher creates the fallback publisher.
func NewLogPublisher(logger *slog.Logger) service.EventPublisher {
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(ctx context.Context, msg *service.EventMessage) error {
	p.logger.InfoContext(ctx, msg.Name+" (stdout)",
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
		slog.String("payload", string(msg.Payload)),
	)

	return nil
}

func (p *logPublisher) Sink() string {
	return constants.PubSubProviderLog
}

func (p *logPublisher) Close() error {
	return nil
}
