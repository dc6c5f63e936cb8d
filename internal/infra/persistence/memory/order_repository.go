package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type orderRepository struct {
	store *Store
}

// NewOrderRepository returns an order repository over store.
func NewOrderRepository(store *Store) repository.OrderRepository {
	return &orderRepository{store: store}
}

func (repo *orderRepository) CreateOrder(_ context.Context, order *entity.Order) error {
	s := repo.store
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	order.ID = nextID("o-", s.orders)
	order.CreatedAt = &now
	s.orders[order.ID] = cloneOrder(order)

	return nil
}

func (repo *orderRepository) FindOrderByID(_ context.Context, id string) (*entity.Order, error) {
	s := repo.store

	s.mu.RLock()
	stored, ok := s.orders[id]
	s.mu.RUnlock()

	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	out := cloneOrder(&stored)

	return &out, nil
}

func cloneOrder(o *entity.Order) entity.Order {
	out := *o
	out.CreatedAt = cloneTime(o.CreatedAt)
	out.Items = append([]entity.OrderItem(nil), o.Items...)

	return out
}
