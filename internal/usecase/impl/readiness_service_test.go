package impl

import (
	"context"
	"testing"

	mockService "storefront/internal/mocks/service"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestReadinessService_Check(t *testing.T) {
	tests := []struct {
		name       string
		configured bool
		healthy    bool
		redis      bool
		withIndex  bool
		search     bool
		wantStatus string
		wantChecks map[string]bool
	}{
		{
			name:       "all healthy",
			configured: true, healthy: true, redis: true,
			wantStatus: usecase.StatusOK,
			wantChecks: map[string]bool{"db": true, "redis": true},
		},
		{
			name:       "store down",
			configured: true, healthy: false, redis: true,
			wantStatus: usecase.StatusDegraded,
			wantChecks: map[string]bool{"db": false, "redis": true},
		},
		{
			name:       "store not configured",
			configured: false, redis: false,
			wantStatus: usecase.StatusOK,
			wantChecks: map[string]bool{"db": true, "redis": false},
		},
		{
			name:       "with search",
			configured: true, healthy: true, redis: false, withIndex: true, search: false,
			wantStatus: usecase.StatusOK,
			wantChecks: map[string]bool{"db": true, "redis": false, "search": false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mockService.NewMockStoreProbe(t)
			cache := mockService.NewMockCache(t)

			store.EXPECT().Configured().Return(tt.configured)
			if tt.configured {
				store.EXPECT().Healthcheck(mock.Anything).Return(tt.healthy)
			}
			cache.EXPECT().Probe(mock.Anything).Return(tt.redis)

			svc := NewReadinessService(store, cache, nil)
			if tt.withIndex {
				index := mockService.NewMockProductIndex(t)
				index.EXPECT().Ping(mock.Anything).Return(tt.search)
				svc = NewReadinessService(store, cache, index)
			}

			report := svc.Check(context.Background())
			assert.Equal(t, tt.wantStatus, report.Status)
			assert.Equal(t, tt.wantChecks, report.Checks)
		})
	}
}

func TestRecommendationService_Recommend(t *testing.T) {
	svc := NewRecommendationService()

	got, err := svc.Recommend(context.Background(), "c-1")
	assert.NoError(t, err)
	assert.Equal(t, "c-1", got.CustomerID)
	assert.NotNil(t, got.Recommendations)
	assert.Empty(t, got.Recommendations)
}
