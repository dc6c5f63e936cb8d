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

// productRepository implements the repository.ProductRepository interface.
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository is the constructor for productRepository.
func NewProductRepository(db *gorm.DB) repository.ProductRepository {
	return &productRepository{
		db: db,
	}
}

// CreateProduct persists a new product.
func (repo *productRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	now := time.Now().UTC()
	product.ID = newID("p-")
	product.UpdatedAt = &now

	if err := repo.db.WithContext(ctx).Create(fromProductDomain(product)).Error; err != nil {
		return translateWriteError(err, "failed to create product")
	}

	return nil
}

// FindProductByID retrieves a product by its id.
func (repo *productRepository) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	var productM model.ProductModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&productM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrProductNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find product by ID")
	}

	return toProductDomain(&productM), nil
}

// UpdateProduct overwrites the fields present in patch and refreshes updated_at.
func (repo *productRepository) UpdateProduct(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	product, err := repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Apply(patch, time.Now())

	if err := repo.db.WithContext(ctx).Save(fromProductDomain(product)).Error; err != nil {
		return nil, translateWriteError(err, "failed to update product")
	}

	return product, nil
}

func fromProductDomain(p *entity.Product) *model.ProductModel {
	productM := &model.ProductModel{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       decimal.NewFromFloat(p.Price),
	}
	if p.UpdatedAt != nil {
		productM.UpdatedAt = *p.UpdatedAt
	}

	return productM
}

func toProductDomain(m *model.ProductModel) *entity.Product {
	updatedAt := m.UpdatedAt.UTC()
	price, _ := m.Price.Float64()

	return &entity.Product{
		ID:          m.ID,
		Name:        m.Name,
		Price:       price,
		Description: m.Description,
		UpdatedAt:   &updatedAt,
	}
}
