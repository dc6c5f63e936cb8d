package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for order persistence.
var (
	// ErrOrderNotFound is returned when no order has the requested id.
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order persistence.
type OrderRepository interface {
	// CreateOrder assigns a fresh id and creation time and persists the order with its items.
	CreateOrder(ctx context.Context, order *entity.Order) error

	// FindOrderByID retrieves an order and its items, in insertion order.
	FindOrderByID(ctx context.Context, id string) (*entity.Order, error)
}
