package lookup

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"cotizaciones/internal/domain"
)

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func snap(offset time.Duration, details ...domain.QueryResponseDetail) *domain.QueryResponse {
	return &domain.QueryResponse{ID: uuid.New(), Date: base.Add(offset), Details: details}
}

func usd(buy, sell int64) domain.QueryResponseDetail {
	return domain.QueryResponseDetail{ISOCode: "USD", PurchasePrice: buy, SalePrice: sell}
}

func TestSnapshotAt(t *testing.T) {
	newest := snap(2*time.Hour, usd(7200, 7300))
	middle := snap(time.Hour, usd(7150, 7250))
	oldest := snap(0, usd(7100, 7200))
	history := []*domain.QueryResponse{newest, middle, oldest}

	tests := []struct {
		name   string
		target time.Time
		want   *domain.QueryResponse
	}{
		{"exact match", base.Add(time.Hour), middle},
		{"between snapshots", base.Add(90 * time.Minute), middle},
		{"after newest", base.Add(5 * time.Hour), newest},
		{"before oldest falls back to oldest", base.Add(-time.Hour), oldest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SnapshotAt(tt.target, history)
			if err != nil {
				t.Fatalf("SnapshotAt: %v", err)
			}
			if got != tt.want {
				t.Errorf("got snapshot at %v, want %v", got.Date, tt.want.Date)
			}
		})
	}
}

func TestSnapshotAt_Empty(t *testing.T) {
	if _, err := SnapshotAt(base, nil); !errors.Is(err, ErrNoHistory) {
		t.Errorf("err = %v, want ErrNoHistory", err)
	}
}

func TestQuoteAt(t *testing.T) {
	history := []*domain.QueryResponse{
		snap(time.Hour),
		snap(0, usd(7100, 7250), domain.QueryResponseDetail{ISOCode: "BRL", PurchasePrice: 1400, SalePrice: 1500}),
	}

	q, err := QuoteAt(base.Add(30*time.Minute), "BRL", history)
	if err != nil {
		t.Fatalf("QuoteAt: %v", err)
	}
	if q.SalePrice != 1500 || !q.Date.Equal(base) || q.ResponseID != history[1].ID.String() {
		t.Errorf("unexpected quote %+v", q)
	}

	// The newer snapshot has no details; it does not fall through to older ones.
	if _, err := QuoteAt(base.Add(2*time.Hour), "USD", history); !errors.Is(err, ErrNoCurrency) {
		t.Errorf("err = %v, want ErrNoCurrency", err)
	}
}
