package handler

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/pubsub"
	"storefront/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/fx"
	"google.golang.org/api/idtoken"
)

// PushHandler handles Pub/Sub push deliveries for the indexer
type PushHandler struct {
	verifyPushAuth bool
	topics         config.TopicsConfig
	logger         *slog.Logger
	indexerUC      usecase.IndexerUsecase
	metrics        *metrics.Metrics
}

// PushHandlerParams holds dependencies for the PushHandler
type PushHandlerParams struct {
	fx.In

	Config    *config.Config
	Logger    *slog.Logger
	IndexerUC usecase.IndexerUsecase
	Metrics   *metrics.Metrics
}

// NewPushHandler creates a new Pub/Sub push handler
func NewPushHandler(params PushHandlerParams) *PushHandler {
	// Google signs push requests; the local simulator does not
	verifyPushAuth := params.Config.PubSub.Provider == constants.PubSubProviderGoogle &&
		params.Config.Env.Env != constants.EnvDevelop

	return &PushHandler{
		verifyPushAuth: verifyPushAuth,
		topics:         params.Config.PubSub.Topics,
		logger:         params.Logger,
		indexerUC:      params.IndexerUC,
		metrics:        params.Metrics,
	}
}

// HandlePush handles incoming Pub/Sub push messages. Index write failures
// answer 503 so the push subscription redelivers; everything else is acked.
func (h *PushHandler) HandlePush(c echo.Context) error {
	ctx := c.Request().Context()

	if h.verifyPushAuth {
		if err := verifyPubSubToken(c.Request()); err != nil {
			h.logger.Warn("[Worker] Invalid Pub/Sub token", slog.Any("error", err))

			return c.NoContent(http.StatusUnauthorized)
		}
	}

	var pushMsg pubsub.PushMessage
	if err := c.Bind(&pushMsg); err != nil {
		h.logger.Error("[Worker] Failed to parse push message", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	data, err := pushMsg.DecodeData()
	if err != nil {
		h.logger.Error("[Worker] Failed to decode message data", slog.Any("error", err))

		return c.NoContent(http.StatusBadRequest)
	}

	attributes := pushMsg.Message.Attributes
	requestID := h.extractRequestID(ctx, attributes)
	reqLogger := h.logger.With(slog.String("request_id", requestID))
	ctx = deliverycontext.WithRequestID(ctx, requestID)
	ctx = deliverycontext.WithLogger(ctx, reqLogger)

	msg := &usecase.BusMessage{
		Topic:     h.topicOf(attributes),
		Key:       attributes["key"],
		Body:      data,
		RequestID: requestID,
	}

	outcome, err := h.indexerUC.HandleMessage(ctx, msg)
	h.metrics.MessageConsumed(msg.Topic, string(outcome))

	if err != nil && outcome == usecase.OutcomeFailed {
		reqLogger.Error("[Worker] Failed to index message",
			slog.String("message_id", pushMsg.Message.MessageID),
			slog.Any("error", err),
		)

		return c.NoContent(http.StatusServiceUnavailable)
	}

	return c.NoContent(http.StatusOK)
}

// topicOf resolves the topic of a pushed message, falling back to the event
// name for publishers that do not set the topic attribute.
func (h *PushHandler) topicOf(attributes map[string]string) string {
	if topic := attributes["topic"]; topic != "" {
		return topic
	}

	switch attributes["event"] {
	case entity.EventProductUpdated:
		return h.topics.ProductUpdated
	case entity.EventOrderCreated:
		return h.topics.OrderCreated
	default:
		return ""
	}
}

// extractRequestID extracts request_id from message attributes, the
// X-Request-Id header, or generates a new one
func (h *PushHandler) extractRequestID(ctx context.Context, attributes map[string]string) string {
	if requestID := attributes["request_id"]; requestID != "" {
		return requestID
	}

	if requestID := deliverycontext.GetRequestIDFromContext(ctx); requestID != "" {
		return requestID
	}

	return uuid.New().String()
}

// verifyPubSubToken verifies the JWT token from Google Pub/Sub push requests
// Reference: https://cloud.google.com/pubsub/docs/push#authenticating_standard_push_requests
func verifyPubSubToken(req *http.Request) error {
	authHeader := req.Header.Get("Authorization")
	if authHeader == "" {
		return errors.New("missing authorization header")
	}

	const bearerPrefix = "Bearer "
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return errors.New("invalid authorization header format")
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)

	// The audience is the URL of this endpoint
	scheme := "https"
	if req.TLS == nil {
		scheme = "http"
	}
	audience := fmt.Sprintf("%s://%s%s", scheme, req.Host, req.URL.Path)

	payload, err := idtoken.Validate(req.Context(), token, audience)
	if err != nil {
		return errors.Wrap(err, "failed to validate token")
	}

	if payload.Issuer != "accounts.google.com" && payload.Issuer != "https://accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", payload.Issuer)
	}

	if emailVerified, ok := payload.Claims["email_verified"].(bool); ok && !emailVerified {
		return errors.New("email not verified")
	}

	return nil
}
