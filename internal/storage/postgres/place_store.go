package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"cotizaciones/internal/domain"
	"cotizaciones/internal/storage"
)

// PlaceStore implements storage.PlaceStore using PostgreSQL.
type PlaceStore struct {
	pool *Pool
}

// NewPlaceStore creates a new PlaceStore.
func NewPlaceStore(pool *Pool) *PlaceStore {
	return &PlaceStore{pool: pool}
}

// Compile-time interface check.
var _ storage.PlaceStore = (*PlaceStore)(nil)

// queryer is satisfied by both *Pool and pgx.Tx.
type queryer interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// FindByCode retrieves a place and its branches. Returns ErrNotFound if not exists.
func (s *PlaceStore) FindByCode(ctx context.Context, code string) (*domain.Place, error) {
	return findPlace(ctx, s.pool, code)
}

// Save upserts the place by code and each branch by (place, remote code) in one
// transaction. Branches not present in p are left untouched.
func (s *PlaceStore) Save(ctx context.Context, p *domain.Place) (*domain.Place, error) {
	if err := storage.ValidatePlace(p); err != nil {
		return nil, err
	}

	var saved *domain.Place
	err := s.pool.withTx(ctx, func(tx pgx.Tx) error {
		var placeID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO places (code, name)
			VALUES ($1, $2)
			ON CONFLICT (code) DO UPDATE
				SET name = EXCLUDED.name, updated_at = now()
			RETURNING id
		`, p.Code, p.Name).Scan(&placeID)
		if err != nil {
			return fmt.Errorf("upsert place: %w", err)
		}

		for _, b := range p.Branches {
			_, err := tx.Exec(ctx, `
				INSERT INTO branches (
					place_id, remote_code, name, latitude, longitude,
					phone_number, email, schedule, image
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
				ON CONFLICT (place_id, remote_code) DO UPDATE SET
					name = EXCLUDED.name,
					latitude = EXCLUDED.latitude,
					longitude = EXCLUDED.longitude,
					phone_number = EXCLUDED.phone_number,
					email = EXCLUDED.email,
					schedule = EXCLUDED.schedule,
					image = EXCLUDED.image
			`,
				placeID,
				b.RemoteCode,
				b.Name,
				b.Latitude,
				b.Longitude,
				b.PhoneNumber,
				b.Email,
				b.Schedule,
				b.Image,
			)
			if err != nil {
				return fmt.Errorf("upsert branch %s: %w", b.RemoteCode, err)
			}
		}

		saved, err = findPlace(ctx, tx, p.Code)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

func findPlace(ctx context.Context, q queryer, code string) (*domain.Place, error) {
	var p domain.Place
	err := q.QueryRow(ctx, `
		SELECT id, code, name FROM places WHERE code = $1
	`, code).Scan(&p.ID, &p.Code, &p.Name)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get place by code: %w", err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, place_id, remote_code, name, latitude, longitude,
			phone_number, email, schedule, image
		FROM branches
		WHERE place_id = $1
		ORDER BY id ASC
	`, p.ID)
	if err != nil {
		return nil, fmt.Errorf("get branches: %w", err)
	}
	defer rows.Close()

	branches, err := scanBranches(rows)
	if err != nil {
		return nil, err
	}
	p.Branches = branches
	return &p, nil
}

// scanBranches scans multiple rows into a slice of Branch.
func scanBranches(rows pgx.Rows) ([]*domain.Branch, error) {
	var branches []*domain.Branch

	for rows.Next() {
		var b domain.Branch
		err := rows.Scan(
			&b.ID,
			&b.PlaceID,
			&b.RemoteCode,
			&b.Name,
			&b.Latitude,
			&b.Longitude,
			&b.PhoneNumber,
			&b.Email,
			&b.Schedule,
			&b.Image,
		)
		if err != nil {
			return nil, fmt.Errorf("scan branch row: %w", err)
		}
		branches = append(branches, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate branch rows: %w", err)
	}

	return branches, nil
}
