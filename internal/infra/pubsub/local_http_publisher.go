package pubsub

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const localSubscription = "projects/local/subscriptions/indexer-sub"

// localHTTPPublisher implements EventPublisher by sending HTTP POST requests
// to a local endpoint, simulating Pub/Sub push behavior for development
type localHTTPPublisher struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// PushMessage is the envelope Google Pub/Sub uses when pushing to HTTP endpoints.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// DecodeData returns the base64 decoded message body.
func (m *PushMessage) DecodeData() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(m.Message.Data)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return data, nil
}

// NewPushMessage wraps msg in a push envelope.
func NewPushMessage(msg *service.EventMessage, now time.Time) *PushMessage {
	push := &PushMessage{Subscription: localSubscription}
	push.Message.Data = base64.StdEncoding.EncodeToString(msg.Payload)
	push.Message.MessageID = uuid.NewString()
	push.Message.PublishTime = now.UTC().Format(time.RFC3339)

	attributes := make(map[string]string, len(msg.Attributes)+4)
	maps.Copy(attributes, msg.Attributes)
	attributes["topic"] = msg.Topic
	attributes["event"] = msg.Name
	attributes["key"] = msg.Key
	if msg.RequestID != "" {
		attributes["request_id"] = msg.RequestID
	}
	push.Message.Attributes = attributes

	return push
}

// NewLocalHTTPPublisher creates a new local HTTP publisher for development
func NewLocalHTTPPublisher(endpoint string, logger *slog.Logger) service.EventPublisher {
	return &localHTTPPublisher{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Publish posts the push envelope to the local endpoint. An unreachable
// endpoint is reported as ErrBusUnavailable.
func (p *localHTTPPublisher) Publish(ctx context.Context, msg *service.EventMessage) error {
	body, err := json.Marshal(NewPushMessage(msg, time.Now()))
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Add X-Request-Id header for tracing
	if msg.RequestID != "" {
		req.Header.Set("X-Request-Id", msg.RequestID)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(service.ErrBusUnavailable, "%v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("worker returned non-success status: %d", resp.StatusCode)
	}

	p.logger.DebugContext(ctx, "[LocalPubSub] Event published",
		slog.String("endpoint", p.endpoint),
		slog.String("topic", msg.Topic),
		slog.String("key", msg.Key),
	)

	return nil
}

func (p *localHTTPPublisher) Sink() string {
	return constants.PubSubProviderLocal
}

// Close releases resources (no-op for HTTP client)
func (p *localHTTPPublisher) Close() error {
	return nil
}
