package impl

import (
	"context"
	"sync"

	"storefront/internal/domain/service"
	"storefront/internal/usecase"
)

type readinessService struct {
	store service.StoreProbe
	cache service.Cache
	index service.ProductIndex
}

// NewReadinessService creates the readiness probe. index may be nil for
// services without search.
func NewReadinessService(store service.StoreProbe, cache service.Cache, index service.ProductIndex) usecase.ReadinessUsecase {
	return &readinessService{
		store: store,
		cache: cache,
		index: index,
	}
}

// Check probes every dependency concurrently. An unconfigured store counts as
// healthy since the in-memory store takes its place.
func (s *readinessService) Check(ctx context.Context) *usecase.ReadinessReport {
	var (
		wg                     sync.WaitGroup
		dbOK, redisOK, indexOK bool
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		dbOK = !s.store.Configured() || s.store.Healthcheck(ctx)
	}()
	go func() {
		defer wg.Done()
		redisOK = s.cache.Probe(ctx)
	}()
	if s.index != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			indexOK = s.index.Ping(ctx)
		}()
	}
	wg.Wait()

	checks := map[string]bool{"db": dbOK, "redis": redisOK}
	if s.index != nil {
		checks["search"] = indexOK
	}

	status := usecase.StatusOK
	if !dbOK {
		status = usecase.StatusDegraded
	}

	return &usecase.ReadinessReport{Status: status, Checks: checks}
}
