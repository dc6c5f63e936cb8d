package mocks

import (

	"storefront/internal/domain/repository"

	mock "github.com/stretchr/testify/mock"
)

// MockRepositoryFactory is an autogenerated mock type for the RepositoryFactory type
type MockRepositoryFactory struct {
	mock.Mock
}

type MockRepositoryFactory_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRepositoryFactory) EXPECT() *MockRepositoryFactory_Expecter {
	return &MockRepositoryFactory_Expecter{mock: &_m.Mock}
}

// NewProductRepository provides a mock function with given fields: 
func (_m *MockRepositoryFactory) NewProductRepository() repository.ProductRepository {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for NewProductRepository")
	}

	var r0 repository.ProductRepository
	if rf, ok := ret.Get(0).(func() repository.ProductRepository); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(repository.ProductRepository)
		}
	}

	return r0
}

// MockRepositoryFactory_NewProductRepository_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'NewProductRepository'
type MockRepositoryFactory_NewProductRepository_Call struct {
	*mock.Call
}

// NewProductRepository is a helper method to define mock.On call
func (_e *MockRepositoryFactory_Expecter) NewProductRepository() *MockRepositoryFactory_NewProductRepository_Call {
	return &MockRepositoryFactory_NewProductRepository_Call{Call: _e.mock.On("NewProductRepository")}
}

func (_c *MockRepositoryFactory_NewProductRepository_Call) Run(run func()) *MockRepositoryFactory_NewProductRepository_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockRepositoryFactory_NewProductRepository_Call) Return(_a0 repository.ProductRepository) *MockRepositoryFactory_NewProductRepository_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockRepositoryFactory_NewProductRepository_Call) RunAndReturn(run func() repository.ProductRepository) *MockRepositoryFactory_NewProductRepository_Call {
	_c.Call.Return(run)
	return _c
}

// NewOrderRepository provides a mock function with given fields: 
func (_m *MockRepositoryFactory) NewOrderRepository() repository.OrderRepository {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for NewOrderRepository")
	}

	var r0 repository.OrderRepository
	if rf, ok := ret.Get(0).(func() repository.OrderRepository); ok {
		r0 = rf()
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(repository.OrderRepository)
		}
	}

	return r0
}

// MockRepositoryFactory_NewOrderRepository_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'NewOrderRepository'
type MockRepositoryFactory_NewOrderRepository_Call struct {
	*mock.Call
}

// NewOrderRepository is a helper method to define mock.On call
func (_e *MockRepositoryFactory_Expecter) NewOrderRepository() *MockRepositoryFactory_NewOrderRepository_Call {
	return &MockRepositoryFactory_NewOrderRepository_Call{Call: _e.mock.On("NewOrderRepository")}
}

func (_c *MockRepositoryFactory_NewOrderRepository_Call) Run(run func()) *MockRepositoryFactory_NewOrderRepository_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockRepositoryFactory_NewOrderRepository_Call) Return(_a0 repository.OrderRepository) *MockRepositoryFactory_NewOrderRepository_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockRepositoryFactory_NewOrderRepository_Call) RunAndReturn(run func() repository.OrderRepository) *MockRepositoryFactory_NewOrderRepository_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockRepositoryFactory creates a new instance of MockRepositoryFactory. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockRepositoryFactory(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRepositoryFactory {
	mock := &MockRepositoryFactory{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
