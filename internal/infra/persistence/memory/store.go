// Package memory is the in-process fallback for the relational store. It is
// used when Postgres is not configured or unreachable; data does not survive
// a restart.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

// Store is the shared backing state for every memory repository built from
// it. The mutex keeps the maps consistent; it does not serialize
// read-modify-write sequences of concurrent callers on the same key.
type Store struct {
	mu       sync.RWMutex
	products map[string]entity.Product
	orders   map[string]entity.Order
	now      func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		products: make(map[string]entity.Product),
		orders:   make(map[string]entity.Order),
		now:      time.Now,
	}
}

// nextID returns prefix + (n+1), skipping ids already taken.
func nextID[V any](prefix string, m map[string]V) string {
	n := len(m) + 1
	for {
		id := prefix + strconv.Itoa(n)
		if _, taken := m[id]; !taken {
			return id
		}
		n++
	}
}

type transactionManager struct {
	store *Store
}

// NewTransactionManager runs work directly against the store. There is no
// rollback: the memory repositories never fail half way.
func NewTransactionManager(store *Store) repository.TransactionManager {
	return &transactionManager{store: store}
}

func (tm *transactionManager) Execute(_ context.Context, fn func(repository.RepositoryFactory) error) error {
	return fn(tm)
}

func (tm *transactionManager) NewProductRepository() repository.ProductRepository {
	return NewProductRepository(tm.store)
}

func (tm *transactionManager) NewOrderRepository() repository.OrderRepository {
	return NewOrderRepository(tm.store)
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s

	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t

	return &v
}
