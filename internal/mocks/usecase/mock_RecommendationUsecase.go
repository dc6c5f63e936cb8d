package mocks

import (
	"context"

	"storefront/internal/usecase"

	mock "github.com/stretchr/testify/mock"
)

// MockRecommendationUsecase is an autogenerated mock type for the RecommendationUsecase type
type MockRecommendationUsecase struct {
	mock.Mock
}

type MockRecommendationUsecase_Expecter struct {
	mock *mock.Mock
}

func (_m *MockRecommendationUsecase) EXPECT() *MockRecommendationUsecase_Expecter {
	return &MockRecommendationUsecase_Expecter{mock: &_m.Mock}
}

// Recommend provides a mock function with given fields: ctx, customerID
func (_m *MockRecommendationUsecase) Recommend(ctx context.Context, customerID string) (*usecase.Recommendations, error) {
	ret := _m.Called(ctx, customerID)

	if len(ret) == 0 {
		panic("no return value specified for Recommend")
	}

	var r0 *usecase.Recommendations
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*usecase.Recommendations, error)); ok {
		return rf(ctx, customerID)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *usecase.Recommendations); ok {
		r0 = rf(ctx, customerID)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*usecase.Recommendations)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, customerID)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockRecommendationUsecase_Recommend_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Recommend'
type MockRecommendationUsecase_Recommend_Call struct {
	*mock.Call
}

// Recommend is a helper method to define mock.On call
//   - ctx context.Context
//   - customerID string
func (_e *MockRecommendationUsecase_Expecter) Recommend(ctx interface{}, customerID interface{}) *MockRecommendationUsecase_Recommend_Call {
	return &MockRecommendationUsecase_Recommend_Call{Call: _e.mock.On("Recommend", ctx, customerID)}
}

func (_c *MockRecommendationUsecase_Recommend_Call) Run(run func(ctx context.Context, customerID string)) *MockRecommendationUsecase_Recommend_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *MockRecommendationUsecase_Recommend_Call) Return(_a0 *usecase.Recommendations, _a1 error) *MockRecommendationUsecase_Recommend_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockRecommendationUsecase_Recommend_Call) RunAndReturn(run func(context.Context, string) (*usecase.Recommendations, error)) *MockRecommendationUsecase_Recommend_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockRecommendationUsecase creates a new instance of MockRecommendationUsecase. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockRecommendationUsecase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockRecommendationUsecase {
	mock := &MockRecommendationUsecase{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
