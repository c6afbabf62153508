package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almori/tripledger/internal/domain"
)

// TripRepository implements usecase.TripRepository.
type TripRepository struct {
	pool *pgxpool.Pool
}

// NewTripRepository creates a new TripRepository.
func NewTripRepository(pool *pgxpool.Pool) *TripRepository {
	return &TripRepository{pool: pool}
}

// GetByID retrieves a trip by ID.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	var (
		trip      domain.Trip
		createdAt pgtype.Timestamptz
	)

	err := r.pool.QueryRow(ctx,
		`SELECT id, title, currency, created_at FROM trips WHERE id = $1`, id,
	).Scan(&trip.ID, &trip.Title, &trip.Currency, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTripNotFound
		}

		return nil, err
	}

	trip.CreatedAt = createdAt.Time

	return &trip, nil
}
