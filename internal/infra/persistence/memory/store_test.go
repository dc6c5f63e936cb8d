package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestProductRepository_SequentialIDs(t *testing.T) {
	store := NewStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		p := &entity.Product{Name: "A", Price: 1}
		require.NoError(t, repo.CreateProduct(ctx, p))
		assert.Equal(t, fmt.Sprintf("p-%d", i), p.ID)
	}
}

func TestProductRepository_SharedAcrossRepositories(t *testing.T) {
	store := NewStore()
	ctx := context.Background()

	p := &entity.Product{Name: "A", Price: 1}
	require.NoError(t, NewProductRepository(store).CreateProduct(ctx, p))

	found, err := NewProductRepository(store).FindProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", found.Name)

	_, err = NewProductRepository(NewStore()).FindProductByID(ctx, p.ID)
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestProductRepository_Update(t *testing.T) {
	store := NewStore()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = fixedClock(created)
	repo := NewProductRepository(store)
	ctx := context.Background()

	p := &entity.Product{Name: "A", Price: 1, Description: strPtr("d")}
	require.NoError(t, repo.CreateProduct(ctx, p))

	later := created.Add(time.Minute)
	store.now = fixedClock(later)

	updated, err := repo.UpdateProduct(ctx, p.ID, entity.ProductPatch{Name: strPtr("B"), Price: floatPtr(2.5)})
	require.NoError(t, err)
	assert.Equal(t, "B", updated.Name)
	assert.Equal(t, 2.5, updated.Price)
	assert.Equal(t, "d", *updated.Description)
	assert.True(t, updated.UpdatedAt.Equal(later))

	found, err := repo.FindProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)
}

func TestProductRepository_EmptyUpdateOnlyTouchesTimestamp(t *testing.T) {
	store := NewStore()
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = fixedClock(created)
	repo := NewProductRepository(store)
	ctx := context.Background()

	p := &entity.Product{Name: "A", Price: 1}
	require.NoError(t, repo.CreateProduct(ctx, p))

	store.now = fixedClock(created.Add(time.Second))
	updated, err := repo.UpdateProduct(ctx, p.ID, entity.ProductPatch{})
	require.NoError(t, err)

	assert.Equal(t, p.Name, updated.Name)
	assert.Equal(t, p.Price, updated.Price)
	assert.Nil(t, updated.Description)
	assert.True(t, updated.UpdatedAt.After(*p.UpdatedAt))
}

func TestProductRepository_UnknownID(t *testing.T) {
	repo := NewProductRepository(NewStore())
	ctx := context.Background()

	_, err := repo.FindProductByID(ctx, "p-404")
	assert.ErrorIs(t, err, repository.ErrProductNotFound)

	_, err = repo.UpdateProduct(ctx, "p-404", entity.ProductPatch{})
	assert.ErrorIs(t, err, repository.ErrProductNotFound)
}

func TestProductRepository_ReturnsCopies(t *testing.T) {
	repo := NewProductRepository(NewStore())
	ctx := context.Background()

	p := &entity.Product{Name: "A", Price: 1, Description: strPtr("d")}
	require.NoError(t, repo.CreateProduct(ctx, p))

	*p.Description = "mutated"
	found, err := repo.FindProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "d", *found.Description)
}

func TestOrderRepository_CreateFind(t *testing.T) {
	store := NewStore()
	repo := NewOrderRepository(store)
	ctx := context.Background()

	items := []entity.OrderItem{
		{ProductID: "p-1", Quantity: 2, UnitPrice: 5.0},
		{ProductID: "p-2", Quantity: 1, UnitPrice: 10.0},
	}
	o := &entity.Order{CustomerID: "c-1", Currency: "USD", Status: "CREATED", Items: items, TotalAmount: entity.CalculateTotal(items)}
	require.NoError(t, repo.CreateOrder(ctx, o))
	assert.Equal(t, "o-1", o.ID)
	require.NotNil(t, o.CreatedAt)

	found, err := repo.FindOrderByID(ctx, "o-1")
	require.NoError(t, err)
	assert.Equal(t, 20.0, found.TotalAmount)
	assert.Len(t, found.Items, 2)

	_, err = repo.FindOrderByID(ctx, "o-2")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestTransactionManager_Factory(t *testing.T) {
	store := NewStore()
	tm := NewTransactionManager(store)
	ctx := context.Background()

	var id string
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		p := &entity.Product{Name: "A"}
		if err := f.NewProductRepository().CreateProduct(ctx, p); err != nil {
			return err
		}
		id = p.ID

		return nil
	})
	require.NoError(t, err)

	_, err = NewProductRepository(store).FindProductByID(ctx, id)
	assert.NoError(t, err)
}

func TestProductRepository_ConcurrentCreatesGetUniqueIDs(t *testing.T) {
	repo := NewProductRepository(NewStore())
	ctx := context.Background()

	const n = 50
	ids := make(chan string, n)

	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := &entity.Product{Name: "A"}
			_ = repo.CreateProduct(ctx, p)
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}

func TestNextIDSkipsTaken(t *testing.T) {
	m := map[string]int{"p-2": 0}
	assert.Equal(t, "p-3", nextID("p-", m))
}
