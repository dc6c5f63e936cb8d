// Package persistence selects the backing store for each unit of work.
package persistence

import (
	"context"

	"storefront/config"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/memory"
	"storefront/internal/infra/persistence/postgres"
)

// Readiness reports whether the durable store can take work.
type Readiness interface {
	Ready() bool
}

// Selector is a TransactionManager that uses the durable store while it is
// ready and the in-memory fallback otherwise. The choice is made per call.
type Selector struct {
	store    Readiness
	durable  repository.TransactionManager
	fallback repository.TransactionManager
}

// NewSelector builds a Selector.
func NewSelector(store Readiness, durable, fallback repository.TransactionManager) *Selector {
	return &Selector{
		store:    store,
		durable:  durable,
		fallback: fallback,
	}
}

// Execute runs fn on the selected store.
func (s *Selector) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	if s.store != nil && s.store.Ready() {
		return s.durable.Execute(ctx, fn)
	}

	return s.fallback.Execute(ctx, fn)
}

// Durable reports which store the next call would use.
func (s *Selector) Durable() bool {
	return s.store != nil && s.store.Ready()
}

// NewTransactionManager wires the Postgres gateway and the memory store into
// a Selector. This function will be used as an Fx provider.
func NewTransactionManager(gw *postgres.Gateway, store *memory.Store, cfg *config.Config) repository.TransactionManager {
	return NewSelector(gw, postgres.NewTransactionManager(gw, cfg), memory.NewTransactionManager(store))
}
