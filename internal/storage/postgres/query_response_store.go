package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/storage"
)

// QueryResponseStore implements storage.QueryResponseStore using PostgreSQL.
// Details live in query_response_details, ordered by position.
type QueryResponseStore struct {
	pool *Pool
}

// NewQueryResponseStore creates a new QueryResponseStore.
func NewQueryResponseStore(pool *Pool) *QueryResponseStore {
	return &QueryResponseStore{pool: pool}
}

// Compile-time interface check.
var _ storage.QueryResponseStore = (*QueryResponseStore)(nil)

// InsertBulk adds multiple responses in one transaction. Fails entire batch on
// invalid input, unknown place/branch or duplicate id.
func (s *QueryResponseStore) InsertBulk(ctx context.Context, responses []*domain.QueryResponse) error {
	if len(responses) == 0 {
		return nil
	}
	if err := storage.ValidateResponses(responses); err != nil {
		return err
	}

	err := s.pool.withTx(ctx, func(tx pgx.Tx) error {
		for _, r := range responses {
			_, err := tx.Exec(ctx, `
				INSERT INTO query_responses (
					id, place_id, branch_id, place_code, branch_code, date
				) VALUES ($1, $2, $3, $4, $5, $6)
			`, r.ID, r.PlaceID, r.BranchID, r.PlaceCode, r.BranchCode, r.Date)
			if err != nil {
				return err
			}

			for i, d := range r.Details {
				_, err := tx.Exec(ctx, `
					INSERT INTO query_response_details (
						query_response_id, position, iso_code, purchase_price, sale_price
					) VALUES ($1, $2, $3, $4, $5)
				`, r.ID, i, d.ISOCode, d.PurchasePrice, d.SalePrice)
				if err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case isDuplicateKeyError(err):
			return storage.ErrDuplicateKey
		case isForeignKeyError(err):
			return storage.ErrInvalidInput
		}
		return fmt.Errorf("insert query responses: %w", err)
	}
	return nil
}

// GetByBranch retrieves up to limit responses of a branch, newest first.
func (s *QueryResponseStore) GetByBranch(ctx context.Context, branchID int64, limit int) ([]*domain.QueryResponse, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidInput
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, place_id, branch_id, place_code, branch_code, date
		FROM query_responses
		WHERE branch_id = $1
		ORDER BY date DESC, created_at DESC
		LIMIT $2
	`, branchID, limit)
	if err != nil {
		return nil, fmt.Errorf("get query responses by branch: %w", err)
	}
	responses, err := scanQueryResponses(rows)
	if err != nil {
		return nil, err
	}

	if err := s.loadDetails(ctx, responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// GetLatestByPlace retrieves the newest response of every branch of a place,
// ordered by branch id.
func (s *QueryResponseStore) GetLatestByPlace(ctx context.Context, placeID int64) ([]*domain.QueryResponse, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT DISTINCT ON (branch_id)
			id, place_id, branch_id, place_code, branch_code, date
		FROM query_responses
		WHERE place_id = $1
		ORDER BY branch_id ASC, date DESC, created_at DESC
	`, placeID)
	if err != nil {
		return nil, fmt.Errorf("get latest query responses: %w", err)
	}
	responses, err := scanQueryResponses(rows)
	if err != nil {
		return nil, err
	}

	if err := s.loadDetails(ctx, responses); err != nil {
		return nil, err
	}
	return responses, nil
}

// loadDetails fills the details of responses with a single query.
func (s *QueryResponseStore) loadDetails(ctx context.Context, responses []*domain.QueryResponse) error {
	if len(responses) == 0 {
		return nil
	}

	ids := make([]string, len(responses))
	byID := make(map[uuid.UUID]*domain.QueryResponse, len(responses))
	for i, r := range responses {
		ids[i] = r.ID.String()
		byID[r.ID] = r
	}

	rows, err := s.pool.Query(ctx, `
		SELECT query_response_id, iso_code, purchase_price, sale_price
		FROM query_response_details
		WHERE query_response_id = ANY($1::uuid[])
		ORDER BY query_response_id, position ASC
	`, ids)
	if err != nil {
		return fmt.Errorf("get query response details: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var d domain.QueryResponseDetail
		if err := rows.Scan(&id, &d.ISOCode, &d.PurchasePrice, &d.SalePrice); err != nil {
			return fmt.Errorf("scan detail row: %w", err)
		}
		if r, ok := byID[id]; ok {
			r.Details = append(r.Details, d)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate detail rows: %w", err)
	}
	return nil
}

// scanQueryResponses scans and closes rows of query_responses.
func scanQueryResponses(rows pgx.Rows) ([]*domain.QueryResponse, error) {
	defer rows.Close()

	var responses []*domain.QueryResponse
	for rows.Next() {
		var r domain.QueryResponse
		err := rows.Scan(
			&r.ID,
			&r.PlaceID,
			&r.BranchID,
			&r.PlaceCode,
			&r.BranchCode,
			&r.Date,
		)
		if err != nil {
			return nil, fmt.Errorf("scan query response row: %w", err)
		}
		responses = append(responses, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate query response rows: %w", err)
	}
	return responses, nil
}
