package usecase

import (
	"context"
)

// IndexOutcome labels what happened to a consumed message
type IndexOutcome string

const (
	OutcomeIndexed   IndexOutcome = "indexed"
	OutcomeStale     IndexOutcome = "stale"
	OutcomeSkipped   IndexOutcome = "skipped"
	OutcomeLogged    IndexOutcome = "logged"
	OutcomeUndecoded IndexOutcome = "undecodable"
	OutcomeFailed    IndexOutcome = "failed"
)

// BusMessage is a message received from the event bus
type BusMessage struct {
	Topic     string
	Key       string
	Body      []byte
	RequestID string
}

// IndexerUsecase projects bus events into the search index
type IndexerUsecase interface {
	// HandleMessage processes one message. The returned error is informational:
	// the caller acknowledges the message either way.
	HandleMessage(ctx context.Context, msg *BusMessage) (IndexOutcome, error)
}
