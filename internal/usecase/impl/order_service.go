package impl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
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

type orderService struct {
	txManager repository.TransactionManager
	cache     service.Cache
	emitter   service.EventEmitter
	ttl       time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewOrderService creates a new order service instance
func NewOrderService(
	txManager repository.TransactionManager,
	cache service.Cache,
	emitter service.EventEmitter,
	cfg *config.Config,
	logger *slog.Logger,
) usecase.OrderUsecase {
	return &orderService{
		txManager: txManager,
		cache:     cache,
		emitter:   emitter,
		ttl:       cfg.Cache.TTL,
		logger:    logger,
		now:       time.Now,
	}
}

func orderKey(id string) string {
	return constants.CacheKeyOrder + id
}

// CreateOrder computes the total once, stores the order and emits OrderCreated
func (s *orderService) CreateOrder(ctx context.Context, input *usecase.OrderInput) (*entity.Order, error) {
	currency := strings.ToUpper(input.Currency)
	if currency == "" {
		currency = constants.DefaultCurrency
	}

	order := &entity.Order{
		CustomerID:  input.CustomerID,
		Status:      constants.OrderStatusCreated,
		Currency:    currency,
		TotalAmount: entity.CalculateTotal(input.Items),
		Items:       append([]entity.OrderItem(nil), input.Items...),
	}

	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		return factory.NewOrderRepository().CreateOrder(ctx, order)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.cache.Set(ctx, orderKey(order.ID), order.CacheSnapshot(), s.ttl)
	s.emitter.Emit(ctx, entity.NewOrderCreated(order, s.now()))

	deliverycontext.GetLoggerOrDefault(ctx, s.logger).InfoContext(ctx, "Order created",
		slog.String("order_id", order.ID),
		slog.Float64("total_amount", order.TotalAmount),
		slog.Int("items", len(order.Items)),
	)

	return order, nil
}

// GetOrder serves from cache when possible and repopulates it on a miss
func (s *orderService) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var cached entity.Order
	if s.cache.Get(ctx, orderKey(id), &cached) {
		return &cached, nil
	}

	var order *entity.Order
	err := s.txManager.Execute(ctx, func(factory repository.RepositoryFactory) error {
		var findErr error
		order, findErr = factory.NewOrderRepository().FindOrderByID(ctx, id)

		return findErr
	})
	if err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			return nil, domainerrors.ErrOrderNotFound
		}

		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	s.cache.Set(ctx, orderKey(id), order.CacheSnapshot(), s.ttl)

	return order, nil
}
