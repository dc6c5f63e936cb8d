package postgres

import (
	"context"
	"time"

	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"
	"storefront/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// orderRepository implements the repository.OrderRepository interface.
type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository is the constructor for orderRepository.
func NewOrderRepository(db *gorm.DB) repository.OrderRepository {
	return &orderRepository{
		db: db,
	}
}

// CreateOrder persists the order together with its items.
func (repo *orderRepository) CreateOrder(ctx context.Context, order *entity.Order) error {
	now := time.Now().UTC()
	order.ID = newID("o-")
	order.CreatedAt = &now

	if err := repo.db.WithContext(ctx).Create(fromOrderDomain(order)).Error; err != nil {
		return translateWriteError(err, "failed to create order")
	}

	return nil
}

// FindOrderByID retrieves an order with its items in insertion order.
func (repo *orderRepository) FindOrderByID(ctx context.Context, id string) (*entity.Order, error) {
	var orderM model.OrderModel

	if err := repo.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("id = ?", id).
		First(&orderM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrOrderNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find order by ID")
	}

	return toOrderDomain(&orderM), nil
}

func fromOrderDomain(o *entity.Order) *model.OrderModel {
	orderM := &model.OrderModel{
		ID:          o.ID,
		CustomerID:  o.CustomerID,
		Status:      o.Status,
		Currency:    o.Currency,
		TotalAmount: decimal.NewFromFloat(o.TotalAmount),
		Items:       make([]model.OrderItemModel, 0, len(o.Items)),
	}
	if o.CreatedAt != nil {
		orderM.CreatedAt = *o.CreatedAt
	}

	for _, item := range o.Items {
		orderM.Items = append(orderM.Items, model.OrderItemModel{
			OrderID:   o.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: decimal.NewFromFloat(item.UnitPrice),
		})
	}

	return orderM
}

func toOrderDomain(m *model.OrderModel) *entity.Order {
	createdAt := m.CreatedAt.UTC()
	total, _ := m.TotalAmount.Float64()

	items := make([]entity.OrderItem, 0, len(m.Items))
	for _, itemM := range m.Items {
		unitPrice, _ := itemM.UnitPrice.Float64()
		items = append(items, entity.OrderItem{
			ProductID: itemM.ProductID,
			Quantity:  itemM.Quantity,
			UnitPrice: unitPrice,
		})
	}

	return &entity.Order{
		ID:          m.ID,
		CustomerID:  m.CustomerID,
		Status:      m.Status,
		Currency:    m.Currency,
		TotalAmount: total,
		CreatedAt:   &createdAt,
		Items:       items,
	}
}
