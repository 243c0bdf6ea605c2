package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// QueryResponse is one snapshot of a branch's quotes at a point in time.
// Built once per gatherer invocation and never updated.
type QueryResponse struct {
	ID         uuid.UUID             `json:"id"`
	PlaceID    int64                 `json:"place_id"`
	BranchID   int64                 `json:"branch_id"`
	PlaceCode  string                `json:"place_code"`
	BranchCode string                `json:"branch_code"` // remote code of the branch
	Date       time.Time             `json:"date"`
	Details    []QueryResponseDetail `json:"details"`
}

// QueryResponseDetail is one currency line within a QueryResponse.
// Prices are integer minor units as published by the source.
type QueryResponseDetail struct {
	ISOCode       string `json:"iso_code"`
	PurchasePrice int64  `json:"purchase_price"`
	SalePrice     int64  `json:"sale_price"`
}

// ErrInvalidQueryResponse is returned by Validate.
var ErrInvalidQueryResponse = errors.New("invalid query response")

// Validate checks the persistence invariants of a snapshot.
func (q *QueryResponse) Validate() error {
	if q.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidQueryResponse)
	}
	if q.PlaceID == 0 || q.BranchID == 0 {
		return fmt.Errorf("%w: missing place or branch reference", ErrInvalidQueryResponse)
	}
	if q.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidQueryResponse)
	}
	for _, d := range q.Details {
		if !IsKnownCurrency(d.ISOCode) {
			return fmt.Errorf("%w: unknown currency %q", ErrInvalidQueryResponse, d.ISOCode)
		}
		if d.PurchasePrice < 0 || d.SalePrice < 0 {
			return fmt.Errorf("%w: negative price for %s", ErrInvalidQueryResponse, d.ISOCode)
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with q.
func (q *QueryResponse) Clone() *QueryResponse {
	c := *q
	c.Details = append([]QueryResponseDetail(nil), q.Details...)
	return &c
}
