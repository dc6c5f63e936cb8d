package mocks

import (
	"context"

	"storefront/internal/usecase"

	mock "github.com/stretchr/testify/mock"
)

// MockReadinessUsecase is an autogenerated mock type for the ReadinessUsecase type
type MockReadinessUsecase struct {
	mock.Mock
}

type MockReadinessUsecase_Expecter struct {
	mock *mock.Mock
}

func (_m *MockReadinessUsecase) EXPECT() *MockReadinessUsecase_Expecter {
	return &MockReadinessUsecase_Expecter{mock: &_m.Mock}
}

// Check provides a mock function with given fields: ctx
func (_m *MockReadinessUsecase) Check(ctx context.Context) *usecase.ReadinessReport {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Check")
	}

	var r0 *usecase.ReadinessReport
	if rf, ok := ret.Get(0).(func(context.Context) *usecase.ReadinessReport); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*usecase.ReadinessReport)
		}
	}

	return r0
}

// MockReadinessUsecase_Check_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Check'
type MockReadinessUsecase_Check_Call struct {
	*mock.Call
}

// Check is a helper method to define mock.On call
//   - ctx context.Context
func (_e *MockReadinessUsecase_Expecter) Check(ctx interface{}) *MockReadinessUsecase_Check_Call {
	return &MockReadinessUsecase_Check_Call{Call: _e.mock.On("Check", ctx)}
}

func (_c *MockReadinessUsecase_Check_Call) Run(run func(ctx context.Context)) *MockReadinessUsecase_Check_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *MockReadinessUsecase_Check_Call) Return(_a0 *usecase.ReadinessReport) *MockReadinessUsecase_Check_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockReadinessUsecase_Check_Call) RunAndReturn(run func(context.Context) *usecase.ReadinessReport) *MockReadinessUsecase_Check_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockReadinessUsecase creates a new instance of MockReadinessUsecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockReadinessUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockReadinessUsecase {
	mock := &MockReadinessUsecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
