package memory

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"
)

type productRepository struct {
	store *Store
}

// NewProductRepository returns a product repository over store.
func NewProductRepository(store *Store) repository.ProductRepository {
	return &productRepository{store: store}
}

func (repo *productRepository) CreateProduct(_ context.Context, product *entity.Product) error {
	s := repo.store
	now := s.now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	product.ID = nextID("p-", s.products)
	product.UpdatedAt = &now
	s.products[product.ID] = cloneProduct(product)

	return nil
}

func (repo *productRepository) FindProductByID(_ context.Context, id string) (*entity.Product, error) {
	s := repo.store

	s.mu.RLock()
	stored, ok := s.products[id]
	s.mu.RUnlock()

	if !ok {
		return nil, repository.ErrProductNotFound
	}
	out := cloneProduct(&stored)

	return &out, nil
}

func (repo *productRepository) UpdateProduct(_ context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	s := repo.store
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}

	stored.Apply(patch, now)
	s.products[id] = cloneProduct(&stored)
	out := cloneProduct(&stored)

	return &out, nil
}

func cloneProduct(p *entity.Product) entity.Product {
	out := *p
	out.Description = cloneString(p.Description)
	out.UpdatedAt = cloneTime(p.UpdatedAt)

	return out
}
