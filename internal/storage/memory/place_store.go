package memory

import (
	"context"
	"sync"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/storage"
)

// PlaceStore is an in-memory implementation of storage.PlaceStore.
type PlaceStore struct {
	mu           sync.RWMutex
	byCode       map[string]*domain.Place
	nextPlaceID  int64
	nextBranchID int64
}

// NewPlaceStore creates a new in-memory place store.
func NewPlaceStore() *PlaceStore {
	return &PlaceStore{
		byCode: make(map[string]*domain.Place),
	}
}

// FindByCode retrieves a place by code. Returns ErrNotFound if not exists.
func (s *PlaceStore) FindByCode(_ context.Context, code string) (*domain.Place, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.byCode[code]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return p.Clone(), nil
}

// Save upserts the place and its branches.
func (s *PlaceStore) Save(_ context.Context, p *domain.Place) (*domain.Place, error) {
	if err := storage.ValidatePlace(p); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, exists := s.byCode[p.Code]
	if !exists {
		s.nextPlaceID++
		stored = &domain.Place{ID: s.nextPlaceID, Code: p.Code}
	} else {
		stored = stored.Clone()
	}
	stored.Name = p.Name

	incoming := p.Clone()
	for _, b := range incoming.Branches {
		b.PlaceID = stored.ID
		if current := stored.BranchByRemoteCode(b.RemoteCode); current != nil {
			b.ID = current.ID
			*current = *b
			continue
		}
		s.nextBranchID++
		b.ID = s.nextBranchID
		stored.Branches = append(stored.Branches, b)
	}

	s.byCode[p.Code] = stored
	return stored.Clone(), nil
}

// Len returns the number of stored places.
func (s *PlaceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byCode)
}

var _ storage.PlaceStore = (*PlaceStore)(nil)
