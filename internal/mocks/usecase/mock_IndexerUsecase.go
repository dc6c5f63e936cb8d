package mocks

import (
	"context"

	"storefront/internal/usecase"

	mock "github.com/stretchr/testify/mock"
)

// MockIndexerUsecase is an autogenerated mock type for the IndexerUsecase type
type MockIndexerUsecase struct {
	mock.Mock
}

type MockIndexerUsecase_Expecter struct {
	mock *mock.Mock
}

func (_m *MockIndexerUsecase) EXPECT() *MockIndexerUsecase_Expecter {
	return &MockIndexerUsecase_Expecter{mock: &_m.Mock}
}

// HandleMessage provides a mock function with given fields: ctx, msg
func (_m *MockIndexerUsecase) HandleMessage(ctx context.Context, msg *usecase.BusMessage) (usecase.IndexOutcome, error) {
	ret := _m.Called(ctx, msg)

	if len(ret) == 0 {
		panic("no return value specified for HandleMessage")
	}

	var r0 usecase.IndexOutcome
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *usecase.BusMessage) (usecase.IndexOutcome, error)); ok {
		return rf(ctx, msg)
	}
	if rf, ok := ret.Get(0).(func(context.Context, *usecase.BusMessage) usecase.IndexOutcome); ok {
		r0 = rf(ctx, msg)
	} else {
		r0 = ret.Get(0).(usecase.IndexOutcome)
	}

	if rf, ok := ret.Get(1).(func(context.Context, *usecase.BusMessage) error); ok {
		r1 = rf(ctx, msg)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockIndexerUsecase_HandleMessage_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'HandleMessage'
type MockIndexerUsecase_HandleMessage_Call struct {
	*mock.Call
}

// HandleMessage is a helper method to define mock.On call
//   - ctx context.Context
//   - msg *usecase.BusMessage
func (_e *MockIndexerUsecase_Expecter) HandleMessage(ctx interface{}, msg interface{}) *MockIndexerUsecase_HandleMessage_Call {
	return &MockIndexerUsecase_HandleMessage_Call{Call: _e.mock.On("HandleMessage", ctx, msg)}
}

func (_c *MockIndexerUsecase_HandleMessage_Call) Run(run func(ctx context.Context, msg *usecase.BusMessage)) *MockIndexerUsecase_HandleMessage_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*usecase.BusMessage))
	})
	return _c
}

func (_c *MockIndexerUsecase_HandleMessage_Call) Return(_a0 usecase.IndexOutcome, _a1 error) *MockIndexerUsecase_HandleMessage_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockIndexerUsecase_HandleMessage_Call) RunAndReturn(run func(context.Context, *usecase.BusMessage) (usecase.IndexOutcome, error)) *MockIndexerUsecase_HandleMessage_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockIndexerUsecase creates a new instance of MockIndexerUsecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockIndexerUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockIndexerUsecase {
	mock := &MockIndexerUsecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
