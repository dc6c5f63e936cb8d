package mocks

import (
	"context"

	mock "github.com/stretchr/testify/mock"
)

// MockStoreProbe is an autogenerated mock type for the StoreProbe type
type MockStoreProbe struct {
	mock.Mock
}

type MockStoreProbe_Expecter struct {
	mock *mock.Mock
}

func (_m *MockStoreProbe) EXPECT() *MockStoreProbe_Expecter {
	return &MockStoreProbe_Expecter{mock: &_m.Mock}
}

// Configured provides a mock function with given fields: 
func (_m *MockStoreProbe) Configured() bool {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Configured")
	}

	var r0 bool
	if rf, ok := ret.Get(0).(func() bool); ok {
		r0 = rf()
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// MockStoreProbe_Configured_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Configured'
type MockStoreProbe_Configured_Call struct {
	*mock.Call
}

// Configured is a helper method to define mock.On call
func (_e *MockStoreProbe_Expecter) Configured() *MockStoreProbe_Configured_Call {
	return &MockStoreProbe_Configured_Call{Call: _e.mock.On("Configured")}
}

func (_c *MockStoreProbe_Configured_Call) Run(run func()) *MockStoreProbe_Configured_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run()
	})
	return _c
}

func (_c *MockStoreProbe_Configured_Call) Return(_a0 bool) *MockStoreProbe_Configured_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockStoreProbe_Configured_Call) RunAndReturn(run func() bool) *MockStoreProbe_Configured_Call {
	_c.Call.Return(run)
	return _c
}

// Healthcheck provides a mock function with given fields: ctx
func (_m *MockStoreProbe) Healthcheck(ctx context.Context) bool {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Healthcheck")
	}

	var r0 bool
	if rf, ok := ret.Get(0).(func(context.Context) bool); ok {
		r0 = rf(ctx)
	} else {
		r0 = ret.Get(0).(bool)
	}

	return r0
}

// MockStoreProbe_Healthcheck_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Healthcheck'
type MockStoreProbe_Healthcheck_Call struct {
	*mock.Call
}

// Healthcheck is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockStoreProbe_Expecter) Healthcheck(ctx interface{}) *MockStoreProbe_Healthcheck_Call {
	return &MockStoreProbe_Healthcheck_Call{Call: _e.mock.On("Healthcheck", ctx)}
}

func (_c *MockStoreProbe_Healthcheck_Call) Run(run func(ctx context.Context)) *MockStoreProbe_Healthcheck_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockStoreProbe_Healthcheck_Call) Return(_a0 bool) *MockStoreProbe_Healthcheck_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockStoreProbe_Healthcheck_Call) RunAndReturn(run func(context.Context) bool) *MockStoreProbe_Healthcheck_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockStoreProbe creates a new instance of MockStoreProbe. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStoreProbe(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStoreProbe {
	mock := &MockStoreProbe{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
