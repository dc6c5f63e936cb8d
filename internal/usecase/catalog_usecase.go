package usecase

import (
	"context"

	"storefront/internal/domain/entity"
)

// ProductInput is the payload of a product creation
type ProductInput struct {
	Name        string
	Price       float64
	Description *string
}

// SearchResult is the answer to a product search
type SearchResult struct {
	Query   string           `json:"query"`
	Results []entity.Product `json:"results"`
}

// CatalogUsecase defines the product catalog use cases
type CatalogUsecase interface {
	// CreateProduct stores a new product, caches it and emits ProductUpdated
	CreateProduct(ctx context.Context, input *ProductInput) (*entity.Product, error)

	// GetProduct serves from cache when possible and repopulates it on a miss
	GetProduct(ctx context.Context, id string) (*entity.Product, error)

	// UpdateProduct applies a partial update. The timestamp is always refreshed.
	UpdateProduct(ctx context.Context, id string, patch *entity.ProductPatch) (*entity.Product, error)

	// SearchProducts queries the search index. Any backend fault yields no results.
	SearchProducts(ctx context.Context, query string) (*SearchResult, error)
}
