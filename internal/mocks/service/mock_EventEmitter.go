package mocks

import (
	"context"

	"storefront/internal/domain/entity"

	mock "github.com/stretchr/testify/mock"
)

// MockEventEmitter is an autogenerated mock type for the EventEmitter type
type MockEventEmitter struct {
	mock.Mock
}

type MockEventEmitter_Expecter struct {
	mock *mock.Mock
}

func (_m *MockEventEmitter) EXPECT() *MockEventEmitter_Expecter {
	return &MockEventEmitter_Expecter{mock: &_m.Mock}
}

// Emit provides a mock function with given fields: ctx, event
func (_m *MockEventEmitter) Emit(ctx context.Context, event entity.DomainEvent) {
	_m.Called(ctx, event)
}

// MockEventEmitter_Emit_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Emit'
type MockEventEmitter_Emit_Call struct {
	*mock.Call
}

// Emit is a helper method to define mock.On call
//   - ctx context.Context
//   - event entity.DomainEvent
func (_e *MockEventEmitter_Expecter) Emit(ctx interface{}, event interface{}) *MockEventEmitter_Emit_Call {
	return &MockEventEmitter_Emit_Call{Call: _e.mock.On("Emit", ctx, event)}
}

func (_c *MockEventEmitter_Emit_Call) Run(run func(ctx context.Context, event entity.DomainEvent)) *MockEventEmitter_Emit_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(entity.DomainEvent))
	})
	return _c
}

func (_c *MockEventEmitter_Emit_Call) Return() *MockEventEmitter_Emit_Call {
	_c.Call.Return()
	return _c
}

func (_c *MockEventEmitter_Emit_Call) RunAndReturn(run func(context.Context, entity.DomainEvent)) *MockEventEmitter_Emit_Call {
	_c.Run(run)
	return _c
}

// NewMockEventEmitter creates a new instance of MockEventEmitter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockEventEmitter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockEventEmitter {
	mock := &MockEventEmitter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
