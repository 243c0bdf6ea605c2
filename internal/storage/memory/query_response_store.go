package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/storage"
)

// QueryResponseStore is an in-memory implementation of storage.QueryResponseStore.
type QueryResponseStore struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]*domain.QueryResponse
	byBranch map[int64][]*domain.QueryResponse // insertion order
}

// NewQueryResponseStore creates a new in-memory query response store.
func NewQueryResponseStore() *QueryResponseStore {
	return &QueryResponseStore{
		byID:     make(map[uuid.UUID]*domain.QueryResponse),
		byBranch: make(map[int64][]*domain.QueryResponse),
	}
}

// InsertBulk adds multiple responses atomically. Fails entire batch on any duplicate.
func (s *QueryResponseStore) InsertBulk(_ context.Context, responses []*domain.QueryResponse) error {
	if len(responses) == 0 {
		return nil
	}
	if err := storage.ValidateResponses(responses); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range responses {
		if _, exists := s.byID[r.ID]; exists {
			return storage.ErrDuplicateKey
		}
	}

	for _, r := range responses {
		c := r.Clone()
		s.byID[c.ID] = c
		s.byBranch[c.BranchID] = append(s.byBranch[c.BranchID], c)
	}
	return nil
}

// GetByBranch retrieves up to limit responses of a branch, newest first.
func (s *QueryResponseStore) GetByBranch(_ context.Context, branchID int64, limit int) ([]*domain.QueryResponse, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	// Insertion order is not date order when queries overlap.
	list := s.byBranch[branchID]
	ordered := make([]*domain.QueryResponse, len(list))
	for i, r := range list {
		ordered[len(list)-1-i] = r
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.After(ordered[j].Date)
	})

	result := make([]*domain.QueryResponse, 0, min(limit, len(ordered)))
	for _, r := range ordered[:min(limit, len(ordered))] {
		result = append(result, r.Clone())
	}
	return result, nil
}

// GetLatestByPlace retrieves the newest response of every branch of a place.
func (s *QueryResponseStore) GetLatestByPlace(_ context.Context, placeID int64) ([]*domain.QueryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.QueryResponse
	for _, list := range s.byBranch {
		var latest *domain.QueryResponse
		for _, r := range list {
			if r.PlaceID != placeID {
				continue
			}
			if latest == nil || !r.Date.Before(latest.Date) {
				latest = r
			}
		}
		if latest != nil {
			result = append(result, latest.Clone())
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].BranchID < result[j].BranchID
	})
	return result, nil
}

// Len returns the number of stored responses.
func (s *QueryResponseStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

var _ storage.QueryResponseStore = (*QueryResponseStore)(nil)
