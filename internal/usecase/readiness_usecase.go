package usecase

import "context"

// Readiness statuses
const (
	StatusOK       = "ok"
	StatusDegraded = "degraded"
)

// ReadinessReport is the body of the readiness endpoint
type ReadinessReport struct {
	Status string          `json:"status"`
	Checks map[string]bool `json:"checks"`
}

// ReadinessUsecase probes the dependencies of a service
type ReadinessUsecase interface {
	// Check reports every dependency. Only the store decides the status;
	// the cache and the search index are optional.
	Check(ctx context.Context) *ReadinessReport
}
