package impl

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront/config"
	deliverycontext "storefront/internal/delivery/context"
	"storefront/internal/domain/constants"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/domain/service"
	"storefront/internal/usecase"

	"github.com/pkg/errors"
)

type catalogService struct {
	txManager repository.TransactionManager
	cache     service.Cache
	index     service.ProductIndex
	emitter   service.EventEmitter
	recorder  usecase.FaultRecorder
	ttl       time.Duration
	searchTTL time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewCatalogService creates a new catalog service instance
func NewCatalogService(
	txManager repository.TransactionManager,
	cache service.Cache,
	index service.ProductIndex,
	emitter service.EventEmitter,
	recorder usecase.FaultRecorder,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.CatalogUsecase {
	return &catalogService{
		txManager: txManager,
		cache:     cache,
		index:     index,
		emitter:   emitter,
		recorder:  recorder,
		ttl:       cfg.Cache.TTL,
		searchTTL: cfg.Cache.SearchTTL,
		logger:    logger,
		now:       time.Now,
	}
}

func productKey(id string) string {
	return constants.CacheKeyProduct + id
}

func searchKey(query string) string {
	return constants.CacheKeySearch + query
}

// CreateProduct stores a new product, caches it and emits ProductUpdated
func (s *catalogService) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	product := &entity.Product{
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
	}

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.NewProductRepository().CreateProduct(ctx, product)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.cache.Set(ctx, productKey(product.ID), product.CacheSnapshot(), s.ttl)
	s.emitter.Emit(ctx, entity.NewProductUpdated(product, s.now()))

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).InfoContext(ctx, "Product created",
		slog.String("product_id", product.ID),
	)

	return product, nil
}

// GetProduct serves from cache when possible and repopulates it on a miss
func (s *catalogService) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	var cached entity.Product
	if s.cache.Get(ctx, productKey(id), &cached) {
		return &cached, nil
	}

	var product *entity.Product
	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		var findErr error
		product, findErr = factory.NewProductRepository().FindProductByID(ctx, id)

		return findErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to find product: %w", err)
	}

	s.cache.Set(ctx, productKey(id), product.CacheSnapshot(), s.ttl)

	return product, nil
}

// UpdateProduct applies a partial update. A successful update writes the fresh
// snapshot to the cache; a failed one evicts the key.
func (s *catalogService) UpdateProduct(ctx context.Context, id string, patch *entity.ProductPatch) (*entity.Product, error) {
	if patch == nil {
		patch = &entity.ProductPatch{}
	}

	var product *entity.Product
	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		var updateErr error
		product, updateErr = factory.NewProductRepository().UpdateProduct(ctx, id, *patch)

		return updateErr
	})
	if err != nil {
		s.cache.Delete(ctx, productKey(id))

		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, domainerrors.ErrProductNotFound
		}

		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.cache.Set(ctx, productKey(id), product.CacheSnapshot(), s.ttl)
	s.emitter.Emit(ctx, entity.NewProductUpdated(product, s.now()))

	return product, nil
}

// SearchProducts queries the search index. Results are cached only when the
// backend answered.
func (s *catalogService) SearchProducts(ctx context.Context, query string) (*usecase.SearchResult, error) {
	key := searchKey(query)

	var cached usecase.SearchResult
	if s.cache.Get(ctx, key, &cached) && cached.Results != nil {
		return &cached, nil
	}

	result := &usecase.SearchResult{Query: query, Results: []entity.Product{}}

	products, err := s.index.Search(ctx, query)
	switch {
	case err == nil:
		if products != nil {
			result.Results = products
		}
		s.cache.Set(ctx, key, result, s.searchTTL)
	case errors.Is(err, service.ErrSearchDisabled):
	case absorbFault(ctx, s.logger, s.recorder, err):
	default:
		s.logger.WarnContext(ctx, "Search failed", slog.String("query", query), slog.Any("error", err))
	}

	return result, nil
}
