package entity

import (
	"time"
)

// Event names
const (
	EventProductUpdated = "ProductUpdated"
	EventOrderCreated   = "OrderCreated"
)

// DomainEvent is an immutable record of a completed mutation.
type DomainEvent interface {
	// EventName identifies the event type, e.g. "ProductUpdated".
	EventName() string
	// AggregateID is the id of the entity the event is about. It is used as the message key.
	AggregateID() string
}

// ProductUpdated is emitted after a product is created or updated.
// UpdatedAt is epoch milliseconds and doubles as the search index version.
type ProductUpdated struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description *string `json:"description"`
	UpdatedAt   int64   `json:"updated_at"`
}

// NewProductUpdated snapshots p. When p carries no timestamp, now is used.
func NewProductUpdated(p *Product, now time.Time) *ProductUpdated {
	ts := now
	if p.UpdatedAt != nil {
		ts = *p.UpdatedAt
	}

	return &ProductUpdated{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		UpdatedAt:   ts.UnixMilli(),
	}
}

func (e *ProductUpdated) EventName() string   { return EventProductUpdated }
func (e *ProductUpdated) AggregateID() string { return e.ID }

// OrderCreated is emitted after an order is persisted.
type OrderCreated struct {
	EventID     string      `json:"event_id"`
	OccurredAt  string      `json:"occurred_at"`
	OrderID     string      `json:"order_id"`
	CustomerID  string      `json:"customer_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount float64     `json:"total_amount"`
	Currency    string      `json:"currency"`
	Status      string      `json:"status"`
	CreatedAt   string      `json:"created_at"`
}

// NewOrderCreated snapshots o. Timestamps are RFC 3339 in UTC.
func NewOrderCreated(o *Order, now time.Time) *OrderCreated {
	created := now
	if o.CreatedAt != nil {
		created = *o.CreatedAt
	}

	return &OrderCreated{
		EventID:     o.ID,
		OccurredAt:  now.UTC().Format(time.RFC3339Nano),
		OrderID:     o.ID,
		CustomerID:  o.CustomerID,
		Items:       append([]OrderItem(nil), o.Items...),
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
		Status:      o.Status,
		CreatedAt:   created.UTC().Format(time.RFC3339Nano),
	}
}

func (e *OrderCreated) EventName() string   { return EventOrderCreated }
func (e *OrderCreated) AggregateID() string { return e.OrderID }
