// Package repository defines the interfaces for the persistence layer.
package repository

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

// Domain-specific errors for product persistence.
var (
	// ErrProductNotFound is returned when no product has the requested id.
	ErrProductNotFound = errors.New("product not found")
)

// ProductRepository defines the interface for product persistence.
type ProductRepository interface {
	// CreateProduct assigns a fresh id and timestamp to product and persists it.
	// The product is visible to FindProductByID on the same store once this returns.
	CreateProduct(ctx context.Context, product *entity.Product) error

	// FindProductByID retrieves a product by id.
	FindProductByID(ctx context.Context, id string) (*entity.Product, error)

	// UpdateProduct applies patch to the stored product and refreshes its timestamp.
	UpdateProduct(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error)
}
