package service

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

// ErrBusUnavailable is returned by a publisher that could not reach the bus at
// all. The emitter then writes the event to the fallback log instead.
var ErrBusUnavailable = errors.New("message bus unavailable")

// EventMessage is a serialized domain event addressed to a topic.
type EventMessage struct {
	RequestID  string            `json:"request_id,omitempty"` // For distributed tracing
	Topic      string            `json:"topic"`
	Key        string            `json:"key"`
	Name       string            `json:"name"`
	Payload    []byte            `json:"payload"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// EventPublisher defines the interface for publishing events to a message bus
type EventPublisher interface {
	// Publish delivers msg once. It does not retry.
	Publish(ctx context.Context, msg *EventMessage) error

	// Close releases any resources held by the publisher
	Close() error
}

// EventEmitter hands domain events to the background publisher.
type EventEmitter interface {
	// Emit queues event and returns immediately. Delivery is at most once:
	// when the queue is full the event is dropped.
	Emit(ctx context.Context, event entity.DomainEvent)
}
