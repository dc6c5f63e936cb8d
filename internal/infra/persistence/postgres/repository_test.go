package postgres

import (
	"context"
	"net/http"
	"testing"
	"time"

	"storefront/config"
	"storefront/internal/domain/entity"
	domainerrors "storefront/internal/domain/errors"
	"storefront/internal/domain/repository"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func TestProductRepository_CreateFindUpdate(t *testing.T) {
	gw := newTestGateway(t)
	tm := NewTransactionManager(gw, &config.Config{})
	ctx := context.Background()

	product := &entity.Product{Name: "A", Price: 1.5, Description: strPtr("first")}
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		return f.NewProductRepository().CreateProduct(ctx, product)
	})
	require.NoError(t, err)
	assert.Regexp(t, `^p-[0-9a-f]{8}$`, product.ID)
	require.NotNil(t, product.UpdatedAt)

	var found *entity.Product
	err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		var findErr error
		found, findErr = f.NewProductRepository().FindProductByID(ctx, product.ID)

		return findErr
	})
	require.NoError(t, err)
	assert.Equal(t, "A", found.Name)
	assert.Equal(t, 1.5, found.Price)
	assert.Equal(t, "first", *found.Description)

	time.Sleep(2 * time.Millisecond)

	var updated *entity.Product
	err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		var updateErr error
		updated, updateErr = f.NewProductRepository().UpdateProduct(ctx, product.ID, entity.ProductPatch{
			Name:  strPtr("B"),
			Price: floatPtr(2.5),
		})

		return updateErr
	})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, 2.5, updated.Price)
	assert.Equal(t, "first", *updated.Description)
	assert.True(t, updated.UpdatedAt.After(*product.UpdatedAt))
}

func TestProductRepository_UnknownID(t *testing.T) {
	gw := newTestGateway(t)
	repo := NewProductRepository(gw.DB())
	ctx := context.Background()

	_, err := repo.FindProductByID(ctx, "p-missing")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = repo.UpdateProduct(ctx, "p-missing", entity.ProductPatch{Name: strPtr("x")})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestProductRepository_ConstraintViolationIsStoreFault(t *testing.T) {
	gw := newTestGateway(t)
	ctx := context.Background()
	now := time.Now().UTC()

	first := fromProductDomain(&entity.Product{ID: "p-dup", Name: "A", UpdatedAt: &now})
	require.NoError(t, gw.DB().WithContext(ctx).Create(first).Error)

	second := fromProductDomain(&entity.Product{ID: "p-dup", Name: "B", UpdatedAt: &now})
	err := translateWriteError(gw.DB().WithContext(ctx).Create(second).Error, "failed to create product")

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusInternalServerError, appErr.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
	assert.Equal(t, "failed to create product: unique constraint violation", appErr.Details())
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		details string
	}{
		{name: "unique", err: gorm.ErrDuplicatedKey, details: "write: unique constraint violation"},
		{name: "check", err: gorm.ErrCheckConstraintViolated, details: "write: check constraint violation"},
		{
			name:    "not null",
			err:     errors.New(`ERROR: null value in column "name" violates not-null constraint (SQLSTATE 23502)`),
			details: "write: not null constraint violation",
		},
		{name: "other", err: errors.New("connection reset by peer"), details: "write"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := translateWriteError(tt.err, "write")

			var appErr domainerrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.GreaterOrEqual(t, appErr.HTTPCode(), http.StatusInternalServerError)
			assert.Equal(t, "DATABASE_EXECUTE_FAILED", appErr.ErrorCode())
			assert.Equal(t, tt.details, appErr.Details())
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestOrderRepository_CreateFind(t *testing.T) {
	gw := newTestGateway(t)
	tm := NewTransactionManager(gw, &config.Config{})
	ctx := context.Background()

	items := []entity.OrderItem{
		{ProductID: "p-1", Quantity: 2, UnitPrice: 5.0},
		{ProductID: "p-2", Quantity: 1, UnitPrice: 10.0},
	}
	order := &entity.Order{
		CustomerID:  "c-1",
		Status:      "CREATED",
		Currency:    "USD",
		Items:       items,
		TotalAmount: entity.CalculateTotal(items),
	}

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		return f.NewOrderRepository().CreateOrder(ctx, order)
	})
	require.NoError(t, err)
	assert.Regexp(t, `^o-[0-9a-f]{8}$`, order.ID)

	found, err := NewOrderRepository(gw.DB()).FindOrderByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 20.0, found.TotalAmount)
	assert.Equal(t, items, found.Items)
	assert.Equal(t, "c-1", found.CustomerID)
	require.NotNil(t, found.CreatedAt)
}

func TestOrderRepository_UnknownID(t *testing.T) {
	gw := newTestGateway(t)

	_, err := NewOrderRepository(gw.DB()).FindOrderByID(context.Background(), "o-missing")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	gw := newTestGateway(t)
	tm := NewTransactionManager(gw, &config.Config{})
	ctx := context.Background()
	boom := errors.New("boom")

	product := &entity.Product{Name: "A", Price: 1}
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.NewProductRepository().CreateProduct(ctx, product); err != nil {
			return err
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = NewProductRepository(gw.DB()).FindProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	gw := newTestGateway(t)
	tm := NewTransactionManager(gw, &config.Config{})
	ctx := context.Background()

	product := &entity.Product{Name: "A", Price: 1}
	assert.Panics(t, func() {
		_ = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
			_ = f.NewProductRepository().CreateProduct(ctx, product)
			panic("boom")
		})
	})

	_, err := NewProductRepository(gw.DB()).FindProductByID(ctx, product.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestTransactionManager_NotReady(t *testing.T) {
	tm := NewTransactionManager(&Gateway{cfg: &config.Config{}}, &config.Config{})

	err := tm.Execute(context.Background(), func(repository.RepositoryFactory) error {
		t.Fatal("must not run")

		return nil
	})

	var dbErr *domainerrors.DatabaseExecuteError
	assert.ErrorAs(t, err, &dbErr)
}
