package mocks

import (
	"context"

	"storefront/internal/domain/entity"

	mock "github.com/stretchr/testify/mock"
)

// MockProductRepository is an autogenerated mock type for the ProductRepository type
type MockProductRepository struct {
	mock.Mock
}

type MockProductRepository_Expecter struct {
	mock *mock.Mock
}

func (_m *MockProductRepository) EXPECT() *MockProductRepository_Expecter {
	return &MockProductRepository_Expecter{mock: &_m.Mock}
}

// CreateProduct provides a mock function with given fields: ctx, product
func (_m *MockProductRepository) CreateProduct(ctx context.Context, product *entity.Product) error {
	ret := _m.Called(ctx, product)

	if len(ret) == 0 {
		panic("no return value specified for CreateProduct")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *entity.Product) error); ok {
		r0 = rf(ctx, product)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockProductRepository_CreateProduct_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CreateProduct'
type MockProductRepository_CreateProduct_Call struct {
	*mock.Call
}

// CreateProduct is a helper method to define mock.On call
//   - ctx context.Context
//   - product *entity.Product
func (_e *MockProductRepository_Expecter) CreateProduct(ctx interface{}, product interface{}) *MockProductRepository_CreateProduct_Call {
	return &MockProductRepository_CreateProduct_Call{Call: _e.mock.On("CreateProduct", ctx, product)}
}

func (_c *MockProductRepository_CreateProduct_Call) Run(run func(ctx context.Context, product *entity.Product)) *MockProductRepository_CreateProduct_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*entity.Product))
	})
	return _c
}

func (_c *MockProductRepository_CreateProduct_Call) Return(_a0 error) *MockProductRepository_CreateProduct_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockProductRepository_CreateProduct_Call) RunAndReturn(run func(context.Context, *entity.Product) error) *MockProductRepository_CreateProduct_Call {
	_c.Call.Return(run)
	return _c
}

// FindProductByID provides a mock function with given fields: ctx, id
func (_m *MockProductRepository) FindProductByID(ctx context.Context, id string) (*entity.Product, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for FindProductByID")
	}

	var r0 *entity.Product
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*entity.Product, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *entity.Product); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Product)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockProductRepository_FindProductByID_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'FindProductByID'
type MockProductRepository_FindProductByID_Call struct {
	*mock.Call
}

// FindProductByID is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MockProductRepository_Expecter) FindProductByID(ctx interface{}, id interface{}) *MockProductRepository_FindProductByID_Call {
	return &MockProductRepository_FindProductByID_Call{Call: _e.mock.On("FindProductByID", ctx, id)}
}

func (_c *MockProductRepository_FindProductByID_Call) Run(run func(ctx context.Context, id string)) *MockProductRepository_FindProductByID_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockProductRepository_FindProductByID_Call) Return(_a0 *entity.Product, _a1 error) *MockProductRepository_FindProductByID_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockProductRepository_FindProductByID_Call) RunAndReturn(run func(context.Context, string) (*entity.Product, error)) *MockProductRepository_FindProductByID_Call {
	_c.Call.Return(run)
	return _c
}

// UpdateProduct provides a mock function with given fields: ctx, id, patch
func (_m *MockProductRepository) UpdateProduct(ctx context.Context, id string, patch entity.ProductPatch) (*entity.Product, error) {
	ret := _m.Called(ctx, id, patch)

	if len(ret) == 0 {
		panic("no return value specified for UpdateProduct")
	}

	var r0 *entity.Product
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, entity.ProductPatch) (*entity.Product, error)); ok {
		return rf(ctx, id, patch)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, entity.ProductPatch) *entity.Product); ok {
		r0 = rf(ctx, id, patch)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Product)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, entity.ProductPatch) error); ok {
		r1 = rf(ctx, id, patch)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockProductRepository_UpdateProduct_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'UpdateProduct'
type MockProductRepository_UpdateProduct_Call struct {
	*mock.Call
}

// UpdateProduct is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
//   - patch entity.ProductPatch
func (_e *MockProductRepository_Expecter) UpdateProduct(ctx interface{}, id interface{}, patch interface{}) *MockProductRepository_UpdateProduct_Call {
	return &MockProductRepository_UpdateProduct_Call{Call: _e.mock.On("UpdateProduct", ctx, id, patch)}
}

func (_c *MockProductRepository_UpdateProduct_Call) Run(run func(ctx context.Context, id string, patch entity.ProductPatch)) *MockProductRepository_UpdateProduct_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(entity.ProductPatch))
	})
	return _c
}

func (_c *MockProductRepository_UpdateProduct_Call) Return(_a0 *entity.Product, _a1 error) *MockProductRepository_UpdateProduct_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockProductRepository_UpdateProduct_Call) RunAndReturn(run func(context.Context, string, entity.ProductPatch) (*entity.Product, error)) *MockProductRepository_UpdateProduct_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockProductRepository creates a new instance of MockProductRepository. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockProductRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductRepository {
	mock := &MockProductRepository{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
