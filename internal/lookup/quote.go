// Package lookup resolves point-in-time quotes from a branch's history.
package lookup

import (
	"errors"
	"time"

	"cotizaciones/internal/domain"
)

// Errors returned by lookup functions.
var (
	ErrNoHistory  = errors.New("no quote history available")
	ErrNoCurrency = errors.New("currency not quoted")
)

// Quote is one currency line together with the snapshot it came from.
type Quote struct {
	domain.QueryResponseDetail
	ResponseID string    `json:"response_id"`
	Date       time.Time `json:"date"`
}

// SnapshotAt returns the newest snapshot at or before target.
// history must be ordered newest first, as returned by GetByBranch.
// If every snapshot is after target, the oldest one is returned.
func SnapshotAt(target time.Time, history []*domain.QueryResponse) (*domain.QueryResponse, error) {
	if len(history) == 0 {
		return nil, ErrNoHistory
	}
	for _, r := range history {
		if !r.Date.After(target) {
			return r, nil
		}
	}
	return history[len(history)-1], nil
}

// QuoteAt returns the iso quote of the snapshot selected by SnapshotAt.
// A snapshot without that currency yields ErrNoCurrency; older snapshots
// are not consulted.
func QuoteAt(target time.Time, iso string, history []*domain.QueryResponse) (*Quote, error) {
	snap, err := SnapshotAt(target, history)
	if err != nil {
		return nil, err
	}
	for _, d := range snap.Details {
		if d.ISOCode == iso {
			return &Quote{QueryResponseDetail: d, ResponseID: snap.ID.String(), Date: snap.Date}, nil
		}
	}
	return nil, ErrNoCurrency
}
