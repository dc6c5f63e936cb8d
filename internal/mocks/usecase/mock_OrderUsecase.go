package mocks

import (
	"context"

	"storefront/internal/domain/entity"
	"storefront/internal/usecase"

	mock "github.com/stretchr/testify/mock"
)

// MockOrderUsecase is an autogenerated mock type for the OrderUsecase type
type MockOrderUsecase struct {
	mock.Mock
}

type MockOrderUsecase_Expecter struct {
	mock *mock.Mock
}

func (_m *MockOrderUsecase) EXPECT() *MockOrderUsecase_Expecter {
	return &MockOrderUsecase_Expecter{mock: &_m.Mock}
}

// CreateOrder provides a mock function with given fields: ctx, input
func (_m *MockOrderUsecase) CreateOrder(ctx context.Context, input *usecase.OrderInput) (*entity.Order, error) {
	ret := _m.Called(ctx, input)

	if len(ret) == 0 {
		panic("no return value specified for CreateOrder")
	}

	var r0 *entity.Order
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *usecase.OrderInput) (*entity.Order, error)); ok {
		return rf(ctx, input)
	}
	if rf, ok := ret.Get(0).(func(context.Context, *usecase.OrderInput) *entity.Order); ok {
		r0 = rf(ctx, input)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Order)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, *usecase.OrderInput) error); ok {
		r1 = rf(ctx, input)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockOrderUsecase_CreateOrder_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'CreateOrder'
type MockOrderUsecase_CreateOrder_Call struct {
	*mock.Call
}

// CreateOrder is a helper method to define mock.On call
//   - ctx context.Context
//   - input *usecase.OrderInput
func (_e *MockOrderUsecase_Expecter) CreateOrder(ctx interface{}, input interface{}) *MockOrderUsecase_CreateOrder_Call {
	return &MockOrderUsecase_CreateOrder_Call{Call: _e.mock.On("CreateOrder", ctx, input)}
}

func (_c *MockOrderUsecase_CreateOrder_Call) Run(run func(ctx context.Context, input *usecase.OrderInput)) *MockOrderUsecase_CreateOrder_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*usecase.OrderInput))
	})
	return _c
}

func (_c *MockOrderUsecase_CreateOrder_Call) Return(_a0 *entity.Order, _a1 error) *MockOrderUsecase_CreateOrder_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockOrderUsecase_CreateOrder_Call) RunAndReturn(run func(context.Context, *usecase.OrderInput) (*entity.Order, error)) *MockOrderUsecase_CreateOrder_Call {
	_c.Call.Return(run)
	return _c
}

// GetOrder provides a mock function with given fields: ctx, id
func (_m *MockOrderUsecase) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for GetOrder")
	}

	var r0 *entity.Order
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*entity.Order, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *entity.Order); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*entity.Order)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockOrderUsecase_GetOrder_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'GetOrder'
type MockOrderUsecase_GetOrder_Call struct {
	*mock.Call
}

// GetOrder is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *MockOrderUsecase_Expecter) GetOrder(ctx interface{}, id interface{}) *MockOrderUsecase_GetOrder_Call {
	return &MockOrderUsecase_GetOrder_Call{Call: _e.mock.On("GetOrder", ctx, id)}
}

func (_c *MockOrderUsecase_GetOrder_Call) Run(run func(ctx context.Context, id string)) *MockOrderUsecase_GetOrder_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockOrderUsecase_GetOrder_Call) Return(_a0 *entity.Order, _a1 error) *MockOrderUsecase_GetOrder_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockOrderUsecase_GetOrder_Call) RunAndReturn(run func(context.Context, string) (*entity.Order, error)) *MockOrderUsecase_GetOrder_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockOrderUsecase creates a new instance of MockOrderUsecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockOrderUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockOrderUsecase {
	mock := &MockOrderUsecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
