package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/service"
	"storefront/internal/infra/metrics"
	"storefront/internal/infra/pubsub"
	mockUsecase "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestPushHandler(t *testing.T, provider, env string) (*echo.Echo, *mockUsecase.MockIndexerUsecase) {
	cfg := &config.Config{}
	cfg.Env.Env = env
	cfg.PubSub.Provider = provider
	cfg.PubSub.Topics = config.TopicsConfig{ProductUpdated: "product.updated", OrderCreated: "order.created"}

	indexer := mockUsecase.NewMockIndexerUsecase(t)
	h := NewPushHandler(PushHandlerParams{
		Config:    cfg,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		IndexerUC: indexer,
		Metrics:   metrics.New(),
	})

	e := echo.New()
	e.POST("/push", h.HandlePush)

	return e, indexer
}

func pushBody(t *testing.T, msg *service.EventMessage) string {
	t.Helper()

	body, err := json.Marshal(pubsub.NewPushMessage(msg, time.Now()))
	require.NoError(t, err)

	return string(body)
}

func doPush(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	return rec
}

func TestPushHandler_Indexes(t *testing.T) {
	e, indexer := newTestPushHandler(t, constants.PubSubProviderLocal, constants.EnvDevelop)

	indexer.EXPECT().
		HandleMessage(mock.Anything, &usecase.BusMessage{
			Topic:     "product.updated",
			Key:       "p-1",
			Body:      []byte(`{"id":"p-1"}`),
			RequestID: "req-1",
		}).
		Return(usecase.OutcomeIndexed, nil)

	rec := doPush(e, pushBody(t, &service.EventMessage{
		RequestID: "req-1",
		Topic:     "product.updated",
		Key:       "p-1",
		Name:      "ProductUpdated",
		Payload:   []byte(`{"id":"p-1"}`),
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_TopicFromEventName(t *testing.T) {
	e, indexer := newTestPushHandler(t, constants.PubSubProviderLocal, constants.EnvDevelop)

	indexer.EXPECT().
		HandleMessage(mock.Anything, mock.MatchedBy(func(msg *usecase.BusMessage) bool {
			return msg.Topic == "order.created" && msg.RequestID != ""
		})).
		Return(usecase.OutcomeLogged, nil)

	body := `{"message":{"data":"e30=","attributes":{"event":"OrderCreated"},"messageId":"1"},"subscription":"s"}`
	rec := doPush(e, body)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPushHandler_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		outcome usecase.IndexOutcome
		err     error
		status  int
	}{
		{name: "index write failure is redelivered", outcome: usecase.OutcomeFailed, err: errors.New("timeout"), status: http.StatusServiceUnavailable},
		{name: "undecodable payload is acked", outcome: usecase.OutcomeUndecoded, err: errors.New("invalid character"), status: http.StatusOK},
		{name: "stale update is acked", outcome: usecase.OutcomeStale, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, indexer := newTestPushHandler(t, constants.PubSubProviderLocal, constants.EnvDevelop)
			indexer.EXPECT().HandleMessage(mock.Anything, mock.Anything).Return(tt.outcome, tt.err)

			rec := doPush(e, pushBody(t, &service.EventMessage{Topic: "product.updated", Key: "p-1", Payload: []byte(`{}`)}))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestPushHandler_BadEnvelope(t *testing.T) {
	e, _ := newTestPushHandler(t, constants.PubSubProviderLocal, constants.EnvDevelop)

	assert.Equal(t, http.StatusBadRequest, doPush(e, `{"message":`).Code)
	assert.Equal(t, http.StatusBadRequest, doPush(e, `{"message":{"data":"%%%"}}`).Code)
}

func TestPushHandler_GoogleRequiresToken(t *testing.T) {
	e, _ := newTestPushHandler(t, constants.PubSubProviderGoogle, constants.EnvProduction)

	rec := doPush(e, pushBody(t, &service.EventMessage{Topic: "product.updated", Payload: []byte(`{}`)}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/push", strings.NewReader(`{}`))
	req.Header.Set("Authorization", "Basic abc")
	assert.Error(t, verifyPubSubToken(req))
}
