package worker

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/infra/metrics"
	mockUsecase "storefront/internal/mocks/usecase"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	cdkpubsub "gocloud.dev/pubsub"
	"gocloud.dev/pubsub/mempubsub"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.PubSub.Topics = config.TopicsConfig{ProductUpdated: "product.updated", OrderCreated: "order.created"}
	cfg.Indexer.RetryDelay = 10 * time.Millisecond

	return cfg
}

type memBus struct {
	topics map[string]*cdkpubsub.Topic
	opened chan string
}

func newMemBus(t *testing.T, names ...string) *memBus {
	bus := &memBus{topics: map[string]*cdkpubsub.Topic{}, opened: make(chan string, 16)}
	for _, name := range names {
		topic := mempubsub.NewTopic()
		bus.topics[name] = topic
		t.Cleanup(func() { _ = topic.Shutdown(context.Background()) })
	}

	return bus
}

func (b *memBus) open(_ context.Context, name string) (*cdkpubsub.Subscription, error) {
	topic, ok := b.topics[name]
	if !ok {
		return nil, errors.Errorf("unknown topic %s", name)
	}
	sub := mempubsub.NewSubscription(topic, time.Minute)
	b.opened <- name

	return sub, nil
}

func waitOpened(t *testing.T, bus *memBus, n int) {
	t.Helper()

	for range n {
		select {
		case <-bus.opened:
		case <-time.After(2 * time.Second):
			t.Fatal("subscription not opened")
		}
	}
}

func serve(c *consumer) <-chan error {
	errCh := make(chan error, 1)
	go func() { errCh <- c.Serve(context.Background()) }()

	return errCh
}

func TestConsumer_HandlesBothTopics(t *testing.T) {
	cfg := testConfig()
	bus := newMemBus(t, "product.updated", "order.created")
	handled := make(chan *usecase.BusMessage, 2)

	indexer := mockUsecase.NewMockIndexerUsecase(t)
	indexer.EXPECT().
		HandleMessage(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, msg *usecase.BusMessage) (usecase.IndexOutcome, error) {
			handled <- msg
			if msg.Topic == "order.created" {
				return usecase.OutcomeLogged, nil
			}

			return usecase.OutcomeIndexed, nil
		}).
		Times(2)

	m := metrics.New()
	c := newConsumer(cfg, bus.open, indexer, m, discardLogger())
	errCh := serve(c)
	waitOpened(t, bus, 2)

	ctx := context.Background()
	require.NoError(t, bus.topics["product.updated"].Send(ctx, &cdkpubsub.Message{
		Body:     []byte(`{"id":"p-1"}`),
		Metadata: map[string]string{"key": "p-1", "request_id": "req-1"},
	}))
	require.NoError(t, bus.topics["order.created"].Send(ctx, &cdkpubsub.Message{
		Body:     []byte(`{"order_id":"o-1"}`),
		Metadata: map[string]string{"key": "o-1"},
	}))

	got := map[string]*usecase.BusMessage{}
	for range 2 {
		select {
		case msg := <-handled:
			got[msg.Topic] = msg
		case <-time.After(2 * time.Second):
			t.Fatal("message not handled")
		}
	}

	require.NoError(t, c.shutdown(ctx))
	require.NoError(t, <-errCh)

	require.Contains(t, got, "product.updated")
	assert.Equal(t, "p-1", got["product.updated"].Key)
	assert.Equal(t, "req-1", got["product.updated"].RequestID)
	assert.JSONEq(t, `{"id":"p-1"}`, string(got["product.updated"].Body))
	require.Contains(t, got, "order.created")
	assert.Equal(t, "o-1", got["order.created"].Key)

	expected := `
# HELP storefront_messages_consumed_total Bus messages handled by the indexer.
# TYPE storefront_messages_consumed_total counter
storefront_messages_consumed_total{outcome="indexed",topic="product.updated"} 1
storefront_messages_consumed_total{outcome="logged",topic="order.created"} 1
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "storefront_messages_consumed_total"))
}

func TestConsumer_HandlerErrorIsAcked(t *testing.T) {
	cfg := testConfig()
	bus := newMemBus(t, "product.updated", "order.created")
	handled := make(chan struct{}, 1)

	indexer := mockUsecase.NewMockIndexerUsecase(t)
	indexer.EXPECT().
		HandleMessage(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, *usecase.BusMessage) (usecase.IndexOutcome, error) {
			handled <- struct{}{}

			return usecase.OutcomeUndecoded, errors.New("invalid character")
		}).
		Once()

	c := newConsumer(cfg, bus.open, indexer, nil, discardLogger())
	errCh := serve(c)
	waitOpened(t, bus, 2)

	require.NoError(t, bus.topics["product.updated"].Send(context.Background(), &cdkpubsub.Message{Body: []byte(`{`)}))

	select {
	case <-handled:
	case <-time.After(2 * time.Second):
		t.Fatal("message not handled")
	}

	// the session survives the failure
	select {
	case name := <-bus.opened:
		t.Fatalf("unexpected reopen of %s", name)
	case <-time.After(50 * time.Millisecond):
	}

	require.NoError(t, c.shutdown(context.Background()))
	require.NoError(t, <-errCh)
}

func TestConsumer_RetriesAfterOpenFailure(t *testing.T) {
	cfg := testConfig()
	bus := newMemBus(t, "product.updated", "order.created")

	var calls atomic.Int32
	opener := func(ctx context.Context, name string) (*cdkpubsub.Subscription, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("broker not available")
		}

		return bus.open(ctx, name)
	}

	c := newConsumer(cfg, opener, mockUsecase.NewMockIndexerUsecase(t), nil, discardLogger())
	errCh := serve(c)
	waitOpened(t, bus, 2)

	require.NoError(t, c.shutdown(context.Background()))
	require.NoError(t, <-errCh)
	assert.Equal(t, int32(3), calls.Load())
}

func TestConsumer_SessionEndsOnFirstReceiveError(t *testing.T) {
	bus := newMemBus(t, "product.updated", "order.created")

	var mu sync.Mutex
	subs := map[string]*cdkpubsub.Subscription{}
	opener := func(ctx context.Context, name string) (*cdkpubsub.Subscription, error) {
		sub, err := bus.open(ctx, name)
		mu.Lock()
		subs[name] = sub
		mu.Unlock()

		return sub, err
	}

	c := newConsumer(testConfig(), opener, mockUsecase.NewMockIndexerUsecase(t), nil, discardLogger())

	errCh := make(chan error, 1)
	go func() { errCh <- c.session(context.Background()) }()
	waitOpened(t, bus, 2)

	mu.Lock()
	broken := subs["order.created"]
	mu.Unlock()
	require.NoError(t, broken.Shutdown(context.Background()))

	select {
	case err := <-errCh:
		require.Error(t, err)
		assert.Contains(t, err.Error(), "receive order.created")
	case <-time.After(2 * time.Second):
		t.Fatal("session kept running after a receiver failed")
	}
}

func TestConsumer_HeartbeatWithoutBus(t *testing.T) {
	c := newConsumer(testConfig(), nil, mockUsecase.NewMockIndexerUsecase(t), nil, discardLogger())
	errCh := serve(c)

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, c.shutdown(context.Background()))
	require.NoError(t, <-errCh)
}

func TestConsumer_DefaultRetryDelay(t *testing.T) {
	cfg := testConfig()
	cfg.Indexer.RetryDelay = 0

	c := newConsumer(cfg, nil, nil, nil, discardLogger())
	assert.Equal(t, defaultRetryDelay, c.retryDelay)
	assert.Equal(t, []string{"product.updated", "order.created"}, c.topics)
}
