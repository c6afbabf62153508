package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almori/tripledger/internal/domain"
)

// SettlementRepository implements usecase.SettlementRepository.
type SettlementRepository struct {
	pool *pgxpool.Pool
}

// NewSettlementRepository creates a new SettlementRepository.
func NewSettlementRepository(pool *pgxpool.Pool) *SettlementRepository {
	return &SettlementRepository{pool: pool}
}

// Create persists a settlement.
func (r *SettlementRepository) Create(ctx context.Context, settlement *domain.Settlement) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO settlements (id, trip_id, from_user_id, to_user_id, amount, currency, status, notes, created_at, settled_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		settlement.ID,
		settlement.TripID,
		settlement.FromUserID,
		settlement.ToUserID,
		decimalToNumeric(settlement.Amount.Amount),
		settlement.Amount.Currency,
		string(settlement.Status),
		settlement.Notes,
		timeToPgTimestamptz(settlement.CreatedAt),
		nullableTimeToPgTimestamptz(settlement.SettledAt),
	)

	return err
}

const selectSettlementSQL = `
	SELECT id, trip_id, from_user_id, to_user_id, amount, currency, status, notes, created_at, settled_at
	FROM settlements`

// GetByID retrieves a settlement by ID.
func (r *SettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	row := r.pool.QueryRow(ctx, selectSettlementSQL+` WHERE id = $1`, id)

	settlement, err := scanSettlement(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSettlementNotFound
		}

		return nil, err
	}

	return settlement, nil
}

// ListByTrip lists a trip's settlements, newest first.
func (r *SettlementRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Settlement, error) {
	rows, err := r.pool.Query(ctx, selectSettlementSQL+` WHERE trip_id = $1 ORDER BY created_at DESC, id DESC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSettlements(rows)
}

// ListByTripAndStatus lists a trip's settlements filtered by status.
func (r *SettlementRepository) ListByTripAndStatus(ctx context.Context, tripID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	rows, err := r.pool.Query(ctx,
		selectSettlementSQL+` WHERE trip_id = $1 AND status = $2 ORDER BY created_at DESC, id DESC`,
		tripID, string(status),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSettlements(rows)
}

// ListByTripAndUser lists the settlements a user is a party to.
func (r *SettlementRepository) ListByTripAndUser(ctx context.Context, tripID, userID string) ([]*domain.Settlement, error) {
	rows, err := r.pool.Query(ctx,
		selectSettlementSQL+` WHERE trip_id = $1 AND (from_user_id = $2 OR to_user_id = $2) ORDER BY created_at DESC, id DESC`,
		tripID, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSettlements(rows)
}

// UpdateStatus transitions a settlement's status and optionally stamps the
// settlement time.
func (r *SettlementRepository) UpdateStatus(ctx context.Context, id string, status domain.SettlementStatus, settledAt *time.Time) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE settlements SET status = $2, settled_at = $3 WHERE id = $1`,
		id, string(status), nullableTimeToPgTimestamptz(settledAt),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrSettlementNotFound
	}

	return nil
}

// Delete removes a settlement record.
func (r *SettlementRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM settlements WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrSettlementNotFound
	}

	return nil
}

func collectSettlements(rows pgx.Rows) ([]*domain.Settlement, error) {
	var settlements []*domain.Settlement
	for rows.Next() {
		settlement, err := scanSettlement(rows)
		if err != nil {
			return nil, err
		}

		settlements = append(settlements, settlement)
	}

	return settlements, rows.Err()
}

func scanSettlement(row pgx.Row) (*domain.Settlement, error) {
	var (
		settlement domain.Settlement
		amount     pgtype.Numeric
		currency   string
		status     string
		createdAt  pgtype.Timestamptz
		settledAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&settlement.ID,
		&settlement.TripID,
		&settlement.FromUserID,
		&settlement.ToUserID,
		&amount,
		&currency,
		&status,
		&settlement.Notes,
		&createdAt,
		&settledAt,
	)
	if err != nil {
		return nil, err
	}

	settlement.Amount = domain.NewMoney(numericToDecimal(amount), currency)
	settlement.Status = domain.SettlementStatus(status)
	settlement.CreatedAt = createdAt.Time
	settlement.SettledAt = pgTimestamptzToNullableTime(settledAt)

	return &settlement, nil
}
