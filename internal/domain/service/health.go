package service

import "context"

// StoreProbe reports on the relational store for readiness checks.
type StoreProbe interface {
	// Configured reports whether a store URL was provided at all.
	Configured() bool
	// Healthcheck runs a trivial query and reports success.
	Healthcheck(ctx context.Context) bool
}
