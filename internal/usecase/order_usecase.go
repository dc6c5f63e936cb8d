package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// OrderInput is the payload of an order creation
type OrderInput struct {
	CustomerID string
	Currency   string
	Items      []entity.OrderItem
}

// OrderUsecase defines the order use cases
type OrderUsecase interface {
	// CreateOrder computes the total, stores the order and emits OrderCreated
	CreateOrder(ctx context.Context, input *OrderInput) (*entity.Order, error)

	// GetOrder serves from cache when possible and repopulates it on a miss
	GetOrder(ctx context.Context, id string) (*entity.Order, error)
}
