package clickhouse

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/storage"
)

// QueryResponseStore implements storage.QueryResponseStore on the quote_history
// table. Each detail is one row; a snapshot without details is stored as one
// row with an empty iso_code so that it still shows up in reads.
type QueryResponseStore struct {
	conn *Conn
}

// NewQueryResponseStore creates a new QueryResponseStore.
func NewQueryResponseStore(conn *Conn) *QueryResponseStore {
	return &QueryResponseStore{conn: conn}
}

// Compile-time interface check.
var _ storage.QueryResponseStore = (*QueryResponseStore)(nil)

const quoteHistoryColumns = `id, place_id, branch_id, place_code, branch_code, date,
	position, iso_code, purchase_price, sale_price`

// InsertBulk adds multiple responses in one batch. Fails entire batch on
// invalid input or an id that already exists.
func (s *QueryResponseStore) InsertBulk(ctx context.Context, responses []*domain.QueryResponse) error {
	if len(responses) == 0 {
		return nil
	}
	if err := storage.ValidateResponses(responses); err != nil {
		return err
	}

	// MergeTree does not enforce uniqueness.
	ids := make([]uuid.UUID, len(responses))
	for i, r := range responses {
		ids[i] = r.ID
	}
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM quote_history WHERE id IN ?
	`, ids).Scan(&count)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if count > 0 {
		return storage.ErrDuplicateKey
	}

	batch, err := s.conn.PrepareBatch(ctx, `INSERT INTO quote_history (`+quoteHistoryColumns+`)`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, r := range responses {
		details := r.Details
		if len(details) == 0 {
			details = []domain.QueryResponseDetail{{}}
		}
		for i, d := range details {
			err = batch.Append(
				r.ID, r.PlaceID, r.BranchID, r.PlaceCode, r.BranchCode, r.Date,
				uint16(i), d.ISOCode, d.PurchasePrice, d.SalePrice,
			)
			if err != nil {
				return fmt.Errorf("append to batch: %w", err)
			}
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByBranch retrieves up to limit responses of a branch, newest first.
func (s *QueryResponseStore) GetByBranch(ctx context.Context, branchID int64, limit int) ([]*domain.QueryResponse, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	query := `
		SELECT ` + quoteHistoryColumns + `
		FROM quote_history
		WHERE branch_id = ? AND id IN (
			SELECT id FROM quote_history
			WHERE branch_id = ?
			GROUP BY id, date
			ORDER BY date DESC
			LIMIT ?
		)
		ORDER BY date DESC, id ASC, position ASC
	`

	rows, err := s.conn.Query(ctx, query, branchID, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("query by branch: %w", err)
	}
	defer rows.Close()

	return scanQuoteHistory(rows)
}

// GetLatestByPlace retrieves the newest response of every branch of a place,
// ordered by branch id.
func (s *QueryResponseStore) GetLatestByPlace(ctx context.Context, placeID int64) ([]*domain.QueryResponse, error) {
	query := `
		SELECT ` + quoteHistoryColumns + `
		FROM quote_history
		WHERE place_id = ? AND id IN (
			SELECT argMax(id, date) FROM quote_history
			WHERE place_id = ?
			GROUP BY branch_id
		)
		ORDER BY branch_id ASC, position ASC
	`

	rows, err := s.conn.Query(ctx, query, placeID, placeID)
	if err != nil {
		return nil, fmt.Errorf("query latest by place: %w", err)
	}
	defer rows.Close()

	return scanQuoteHistory(rows)
}

// scanQuoteHistory folds detail rows back into responses, keeping row order.
func scanQuoteHistory(rows chRows) ([]*domain.QueryResponse, error) {
	var responses []*domain.QueryResponse
	byID := make(map[uuid.UUID]*domain.QueryResponse)

	for rows.Next() {
		var r domain.QueryResponse
		var d domain.QueryResponseDetail
		var position uint16

		err := rows.Scan(
			&r.ID, &r.PlaceID, &r.BranchID, &r.PlaceCode, &r.BranchCode, &r.Date,
			&position, &d.ISOCode, &d.PurchasePrice, &d.SalePrice,
		)
		if err != nil {
			return nil, fmt.Errorf("scan quote history row: %w", err)
		}

		current, ok := byID[r.ID]
		if !ok {
			current = &r
			byID[r.ID] = current
			responses = append(responses, current)
		}
		if d.ISOCode != "" {
			current.Details = append(current.Details, d)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate quote history rows: %w", err)
	}
	return responses, nil
}
