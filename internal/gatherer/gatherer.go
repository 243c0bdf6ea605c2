// Package gatherer defines the per-source query contract and the generic
// implementation shared by push-only feeds.
package gatherer

import (
	"context"

	"cotizaciones/internal/domain"
)

// Gatherer fetches, normalizes and persists one source's quotes.
type Gatherer interface {
	// Code returns the stable source code.
	Code() string

	// CurrentPlace looks up the registered place. The bool is false when the
	// source has not been registered yet.
	CurrentPlace(ctx context.Context) (*domain.Place, bool, error)

	// EnsureRegistered returns the registered place, creating it and its
	// branches from one fetch when absent.
	EnsureRegistered(ctx context.Context) (*domain.Place, error)

	// DoQuery fetches a fresh snapshot and persists one response per branch,
	// in branch order. Nothing is persisted when an error is returned.
	DoQuery(ctx context.Context) ([]*domain.QueryResponse, error)
}
