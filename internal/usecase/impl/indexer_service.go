package impl

import (
	"context"
	"encoding/json"
	"log/slog"

	"storefront/config"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

// productUpdatedMessage accepts both the event's "id" and the index's
// "product_id" naming.
type productUpdatedMessage struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	UpdatedAt   int64   `json:"updated_at"`
}

type indexerService struct {
	index    service.ProductIndex
	recorder usecase.FaultRecorder
	topics   config.TopicsConfig
	logger   *slog.Logger
}

// NewIndexerService creates the search projection of bus events
func NewIndexerService(
	index service.ProductIndex,
	recorder usecase.FaultRecorder,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.IndexerUsecase {
	return &indexerService{
		index:    index,
		recorder: recorder,
		topics:   cfg.PubSub.Topics,
		logger:   logger,
	}
}

// HandleMessage logs every message and upserts product updates into the
// search index, using updated_at as the external version.
func (s *indexerService) HandleMessage(ctx context.Context, msg *usecase.BusMessage) (usecase.IndexOutcome, error) {
	logger := s.logger.With(
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
	)
	if msg.RequestID != "" {
		logger = logger.With(slog.String("request_id", msg.RequestID))
	}
	logger.InfoContext(ctx, "Message received", slog.String("value", string(msg.Body)))

	if msg.Topic != s.topics.ProductUpdated {
		return usecase.OutcomeLogged, nil
	}

	var event productUpdatedMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		logger.WarnContext(ctx, "Invalid JSON payload", slog.Any("error", err))

		return usecase.OutcomeUndecoded, errors.Wrap(err, "decode product event")
	}

	id := event.ID
	if id == "" {
		id = event.ProductID
	}
	if id == "" {
		logger.WarnContext(ctx, "Missing product id in event")

		return usecase.OutcomeSkipped, nil
	}

	if err := s.index.EnsureIndex(ctx); err != nil {
		return s.indexFailure(ctx, logger, err)
	}

	doc := &service.ProductDocument{
		ProductID:   id,
		Name:        event.Name,
		Description: event.Description,
		Price:       event.Price,
		UpdatedAt:   event.UpdatedAt,
	}

	if err := s.index.Upsert(ctx, doc); err != nil {
		if errors.Is(err, service.ErrStaleDocument) {
			logger.InfoContext(ctx, "Stale product update ignored", slog.Int64("version", doc.UpdatedAt))

			return usecase.OutcomeStale, nil
		}

		return s.indexFailure(ctx, logger, err)
	}

	logger.InfoContext(ctx, "Product upserted",
		slog.String("product_id", id),
		slog.Int64("version", doc.UpdatedAt),
	)

	return usecase.OutcomeIndexed, nil
}

func (s *indexerService) indexFailure(ctx context.Context, logger *slog.Logger, err error) (usecase.IndexOutcome, error) {
	if errors.Is(err, service.ErrSearchDisabled) {
		return usecase.OutcomeSkipped, nil
	}

	if !absorbFault(ctx, logger, s.recorder, err) {
		logger.WarnContext(ctx, "Search index write failed", slog.Any("error", err))
	}

	return usecase.OutcomeFailed, err
}
