package mocks

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/domain/service"

	mock "github.com/stretchr/testify/mock"
)

// MockProductIndex is an autogenerated mock type for the ProductIndex type
type MockProductIndex struct {
	mock.Mock
}

type MockProductIndex_Expecter struct {
	mock *mock.Mock
}

func (_m *MockProductIndex) EXPECT() *MockProductIndex_Expecter {
	return &MockProductIndex_Expecter{mock: &_m.Mock}
}

// Search provides a mock function with given fields: ctx, query
func (_m *MockProductIndex) Search(ctx context.Context, query string) ([]entity.Product, error) {
	ret := _m.Called(ctx, query)

	if len(ret) == 0 {
		panic("no return value specified for Search")
	}

	var r0 []entity.Product
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) ([]entity.Product, error)); ok {
		return rf(ctx, query)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) []entity.Product); ok {
		r0 = rf(ctx, query)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]entity.Product)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, query)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockProductIndex_Search_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Search'
type MockProductIndex_Search_Call struct {
	*mock.Call
}

// Search is a helper method to define mock.On call
//   - ctx context.Context
//   - query string
func (_e *MockProductIndex_Expecter) Search(ctx interface{}, query interface{}) *MockProductIndex_Search_Call {
	return &MockProductIndex_Search_Call{Call: _e.mock.On("Search", ctx, query)}
}

func (_c *MockProductIndex_Search_Call) Run(run func(ctx context.Context, query string)) *MockProductIndex_Search_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockProductIndex_Search_Call) Return(_a0 []entity.Product, _a1 error) *MockProductIndex_Search_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockProductIndex_Search_Call) RunAndReturn(run func(context.Context, string) ([]entity.Product, error)) *MockProductIndex_Search_Call {
	_c.Call.Return(run)
	return _c
}

// EnsureIndex provides a mock function with given fields: ctx
func (_m *MockProductIndex) EnsureIndex(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for EnsureIndex")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context) error); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockProductIndex_EnsureIndex_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'EnsureIndex'
type MockProductIndex_EnsureIndex_Call struct {
	*mock.Call
}

// EnsureIndex is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockProductIndex_Expecter) EnsureIndex(ctx interface{}) *MockProductIndex_EnsureIndex_Call {
	return &MockProductIndex_EnsureIndex_Call{Call: _e.mock.On("EnsureIndex", ctx)}
}

func (_c *MockProductIndex_EnsureIndex_Call) Run(run func(ctx context.Context)) *MockProductIndex_EnsureIndex_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockProductIndex_EnsureIndex_Call) Return(_a0 error) *MockProductIndex_EnsureIndex_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockProductIndex_EnsureIndex_Call) RunAndReturn(run func(context.Context) error) *MockProductIndex_EnsureIndex_Call {
	_c.Call.Return(run)
	return _c
}

// Upsert provides a mock function with given fields: ctx, doc
func (_m *MockProductIndex) Upsert(ctx context.Context, doc *service.ProductDocument) error {
	ret := _m.Called(ctx, doc)

	if len(ret) == 0 {
		panic("no return value specified for Upsert")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, *service.ProductDocument) error); ok {
		r0 = rf(ctx, doc)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockProductIndex_Upsert_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Upsert'
type MockProductIndex_Upsert_Call struct {
	*mock.Call
}

// Upsert is a helper method to define mock.On call
//   - ctx context.Context
//   - doc *service.ProductDocument
func (_e *MockProductIndex_Expecter) Upsert(ctx interface{}, doc interface{}) *MockProductIndex_Upsert_Call {
	return &MockProductIndex_Upsert_Call{Call: _e.mock.On("Upsert", ctx, doc)}
}

func (_c *MockProductIndex_Upsert_Call) Run(run func(ctx context.Context, doc *service.ProductDocument)) *MockProductIndex_Upsert_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*service.ProductDocument))
	})
	return _c
}

func (_c *MockProductIndex_Upsert_Call) Return(_a0 error) *MockProductIndex_Upsert_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockProductIndex_Upsert_Call) RunAndReturn(run func(context.Context, *service.ProductDocument) error) *MockProductIndex_Upsert_Call {
	_c.Call.Return(run)
	return _c
}

// Ping provides a mock function with given fields: ctx
func (_m *MockProductIndex) Ping(ctx context.Context) bool {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Ping")
	}

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context) bool); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// MockProductIndex_Ping_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Ping'
type MockProductIndex_Ping_Call struct {
	*mock.Call
}

// Ping is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockProductIndex_Expecter) Ping(ctx interface{}) *MockProductIndex_Ping_Call {
	return &MockProductIndex_Ping_Call{Call: _e.mock.On("Ping", ctx)}
}

func (_c *MockProductIndex_Ping_Call) Run(run func(ctx context.Context)) *MockProductIndex_Ping_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockProductIndex_Ping_Call) Return(_a0 bool) *MockProductIndex_Ping_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockProductIndex_Ping_Call) RunAndReturn(run func(context.Context) bool) *MockProductIndex_Ping_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockProductIndex creates a new instance of MockProductIndex. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockProductIndex(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProductIndex {
	mock := &MockProductIndex{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
