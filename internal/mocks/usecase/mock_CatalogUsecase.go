package mocks

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	mock "github.com/stretchr/testify/mock"
)

// MockCatalogUsecase is an autogenerated mock type for the CatalogUsecase type
type MockCatalogUsecase struct {
	mock.Mock
}

type MockCatalogUsecase_Expecter struct {
	mock *mock.Mock
}

func (_m *MockCatalogUsecase) EXPECT() *MockCatalogUsecase_Expecter {
	return &MockCatalogUsecase_Expecter{mock: &_m.Mock}
}

// CreateProduct provides a mock function with given fields: ctx, input
func (_m *MockCatalogUsecase) CreateProduct(ctx context.Context, input *usecase.ProductInput) (*entity.Product, error) {
	ret := _m.Called(ctx, input)

	if len(ret) == 0 {
		panic("no return value specified for CreateProduct")
	}

	var r0 *entity.Product
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *usecase.ProductInput) (*entity.Product, error)); ok {
		return rf(ctx, input)
	}
	if rf, ok := ret.Get(0).(func(context.Context, *usecase.ProductInput) *entity.Product); ok {
		r0 = rf(ctx, input)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Product)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, *usecase.ProductInput) error); ok {
		r1 = rf(ctx, input)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockCatalogUsecase_CreateProduct_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CreateProduct'
type MockCatalogUsecase_CreateProduct_Call struct {
	*mock.Call
}

// CreateProduct is a helper method to define mock.On call
//   - ctx context.Context
//   - input *usecase.ProductInput
func (_e *MockCatalogUsecase_Expecter) CreateProduct(ctx interface{}, input interface{}) *MockCatalogUsecase_CreateProduct_Call {
	return &MockCatalogUsecase_CreateProduct_Call{Call: _e.mock.On("CreateProduct", ctx, input)}
}

func (_c *MockCatalogUsecase_CreateProduct_Call) Run(run func(ctx context.Context, input *usecase.ProductInput)) *MockCatalogUsecase_CreateProduct_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*usecase.ProductInput))
	})
	return _c
}

func (_c *MockCatalogUsecase_CreateProduct_Call) Return(_a0 *entity.Product, _a1 error) *MockCatalogUsecase_CreateProduct_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockCatalogUsecase_CreateProduct_Call) RunAndReturn(run func(context.Context, *usecase.ProductInput) (*entity.Product, error)) *MockCatalogUsecase_CreateProduct_Call {
	_c.Call.Return(run)
	return _c
}

// GetProduct provides a mock function with given fields: ctx, id
func (_m *MockCatalogUsecase) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetProduct")
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

// MockCatalogUsecase_GetProduct_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetProduct'
type MockCatalogUsecase_GetProduct_Call struct {
	*mock.Call
}

// GetProduct is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MockCatalogUsecase_Expecter) GetProduct(ctx interface{}, id interface{}) *MockCatalogUsecase_GetProduct_Call {
	return &MockCatalogUsecase_GetProduct_Call{Call: _e.mock.On("GetProduct", ctx, id)}
}

func (_c *MockCatalogUsecase_GetProduct_Call) Run(run func(ctx context.Context, id string)) *MockCatalogUsecase_GetProduct_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockCatalogUsecase_GetProduct_Call) Return(_a0 *entity.Product, _a1 error) *MockCatalogUsecase_GetProduct_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockCatalogUsecase_GetProduct_Call) RunAndReturn(run func(context.Context, string) (*entity.Product, error)) *MockCatalogUsecase_GetProduct_Call {
	_c.Call.Return(run)
	return _c
}

// UpdateProduct provides a mock function with given fields: ctx, id, patch
func (_m *MockCatalogUsecase) UpdateProduct(ctx context.Context, id string, patch *entity.ProductPatch) (*entity.Product, error) {
	ret := _m.Called(ctx, id, patch)

	if len(ret) == 0 {
		panic("no return value specified for UpdateProduct")
	}

	var r0 *entity.Product
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, *entity.ProductPatch) (*entity.Product, error)); ok {
		return rf(ctx, id, patch)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, *entity.ProductPatch) *entity.Product); ok {
		r0 = rf(ctx, id, patch)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Product)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, *entity.ProductPatch) error); ok {
		r1 = rf(ctx, id, patch)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockCatalogUsecase_UpdateProduct_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'UpdateProduct'
type MockCatalogUsecase_UpdateProduct_Call struct {
	*mock.Call
}

// UpdateProduct is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
//   - patch *entity.ProductPatch
func (_e *MockCatalogUsecase_Expecter) UpdateProduct(ctx interface{}, id interface{}, patch interface{}) *MockCatalogUsecase_UpdateProduct_Call {
	return &MockCatalogUsecase_UpdateProduct_Call{Call: _e.mock.On("UpdateProduct", ctx, id, patch)}
}

func (_c *MockCatalogUsecase_UpdateProduct_Call) Run(run func(ctx context.Context, id string, patch *entity.ProductPatch)) *MockCatalogUsecase_UpdateProduct_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(*entity.ProductPatch))
	})
	return _c
}

func (_c *MockCatalogUsecase_UpdateProduct_Call) Return(_a0 *entity.Product, _a1 error) *MockCatalogUsecase_UpdateProduct_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockCatalogUsecase_UpdateProduct_Call) RunAndReturn(run func(context.Context, string, *entity.ProductPatch) (*entity.Product, error)) *MockCatalogUsecase_UpdateProduct_Call {
	_c.Call.Return(run)
	return _c
}

// SearchProducts provides a mock function with given fields: ctx, query
func (_m *MockCatalogUsecase) SearchProducts(ctx context.Context, query string) (*usecase.SearchResult, error) {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for SearchProducts")
	}

	var r0 *usecase.SearchResult
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*usecase.SearchResult, error)); ok {
		return rf(ctx, query)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *usecase.SearchResult); ok {
		r0 = rf(ctx, query)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*usecase.SearchResult)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, query)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockCatalogUsecase_SearchProducts_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'SearchProducts'
type MockCatalogUsecase_SearchProducts_Call struct {
	*mock.Call
}

// SearchProducts is a helper method to define mock.On call
//   - ctx context.Context
//   - query string
func (_e *MockCatalogUsecase_Expecter) SearchProducts(ctx interface{}, query interface{}) *MockCatalogUsecase_SearchProducts_Call {
	return &MockCatalogUsecase_SearchProducts_Call{Call: _e.mock.On("SearchProducts", ctx, query)}
}

func (_c *MockCatalogUsecase_SearchProducts_Call) Run(run func(ctx context.Context, query string)) *MockCatalogUsecase_SearchProducts_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockCatalogUsecase_SearchProducts_Call) Return(_a0 *usecase.SearchResult, _a1 error) *MockCatalogUsecase_SearchProducts_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockCatalogUsecase_SearchProducts_Call) RunAndReturn(run func(context.Context, string) (*usecase.SearchResult, error)) *MockCatalogUsecase_SearchProducts_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockCatalogUsecase creates a new instance of MockCatalogUsecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockCatalogUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockCatalogUsecase {
	mock := &MockCatalogUsecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
