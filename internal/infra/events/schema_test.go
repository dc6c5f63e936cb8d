package events

import (
	"math"
	"testing"
	"time"

	"storefront/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type unknownEvent struct{}

func (unknownEvent) EventName() string   { return "Unknown" }
func (unknownEvent) AggregateID() string { return "x" }

func TestSchemaValidator(t *testing.T) {
	v, err := NewSchemaValidator()
	require.NoError(t, err)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	order := &entity.Order{
		ID:          "o-1",
		CustomerID:  "c-1",
		Status:      "CREATED",
		Currency:    "USD",
		TotalAmount: 5,
		Items:       []entity.OrderItem{{ProductID: "p-1", Quantity: 2, UnitPrice: 2.5}},
	}

	tests := []struct {
		name    string
		event   entity.DomainEvent
		wantErr bool
	}{
		{name: "product with description", event: productEvent("p-1")},
		{name: "product without description", event: &entity.ProductUpdated{ID: "p-2", Name: "Pear"}},
		{name: "order", event: entity.NewOrderCreated(order, now)},
		{name: "order without items", event: &entity.OrderCreated{OrderID: "o-2"}},
		{name: "event without schema", event: unknownEvent{}},
		{
			name: "quantity out of range",
			event: &entity.OrderCreated{
				OrderID: "o-3",
				Items:   []entity.OrderItem{{ProductID: "p-1", Quantity: math.MaxInt32 + 1}},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.event)
			if tt.wantErr {
				assert.Error(t, err)

				return
			}
			assert.NoError(t, err)
		})
	}
}
