package storage

//go:generate mockgen -source=registry.go -destination=mocks/registry_mock.go -package=mocks

import (
	"context"

	"cotizaciones/internal/domain"
)

// PlaceStore provides access to places and their branches.
type PlaceStore interface {
	// FindByCode retrieves a place and its branches (in registration order).
	// Returns ErrNotFound if no place has the code.
	FindByCode(ctx context.Context, code string) (*domain.Place, error)

	// Save upserts the place by code and its branches by remote code, atomically.
	// Existing branches absent from p are kept. Returns the stored place with IDs assigned.
	Save(ctx context.Context, p *domain.Place) (*domain.Place, error)
}

// QueryResponseStore provides access to persisted quote snapshots.
type QueryResponseStore interface {
	// InsertBulk adds multiple responses atomically. Fails entire batch on
	// invalid input or duplicate id.
	InsertBulk(ctx context.Context, responses []*domain.QueryResponse) error

	// GetByBranch retrieves up to limit responses of a branch, newest first.
	GetByBranch(ctx context.Context, branchID int64, limit int) ([]*domain.QueryResponse, error)

	// GetLatestByPlace retrieves the newest response of every branch of a place,
	// ordered by branch id.
	GetLatestByPlace(ctx context.Context, placeID int64) ([]*domain.QueryResponse, error)
}

// ValidatePlace checks the identity invariants of a place before saving.
func ValidatePlace(p *domain.Place) error {
	if p == nil || p.Code == "" {
		return ErrInvalidInput
	}
	seen := make(map[string]struct{}, len(p.Branches))
	for _, b := range p.Branches {
		if b == nil || b.RemoteCode == "" {
			return ErrInvalidInput
		}
		if _, dup := seen[b.RemoteCode]; dup {
			return ErrDuplicateKey
		}
		seen[b.RemoteCode] = struct{}{}
	}
	return nil
}

// ValidateResponses checks a batch of responses before insertion.
func ValidateResponses(responses []*domain.QueryResponse) error {
	seen := make(map[string]struct{}, len(responses))
	for _, r := range responses {
		if r == nil || r.Validate() != nil {
			return ErrInvalidInput
		}
		if _, dup := seen[r.ID.String()]; dup {
			return ErrDuplicateKey
		}
		seen[r.ID.String()] = struct{}{}
	}
	return nil
}
