package service

import (
	"context"

	"storefront/internal/domain/entity"

	"github.com/pkg/errors"
)

var (
	// ErrSearchDisabled is returned by an index that has no backend configured.
	ErrSearchDisabled = errors.New("search backend not configured")

	// ErrStaleDocument is returned by Upsert when the index already holds a newer version.
	ErrStaleDocument = errors.New("search document version is stale")
)

// ProductDocument is the indexed form of a product.
type ProductDocument struct {
	ProductID   string  `json:"product_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	UpdatedAt   int64   `json:"updated_at"` // epoch milliseconds, also the external version
}

// ProductIndex is the full-text search backend for products.
type ProductIndex interface {
	// Search runs a free-text query and returns at most ten products.
	Search(ctx context.Context, query string) ([]entity.Product, error)

	// EnsureIndex creates the index with its mapping when it does not exist yet.
	EnsureIndex(ctx context.Context) error

	// Upsert writes doc unless the index holds a version newer than doc.UpdatedAt.
	Upsert(ctx context.Context, doc *ProductDocument) error

	// Ping reports whether the backend answers.
	Ping(ctx context.Context) bool
}
