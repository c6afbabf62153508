package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almori/tripledger/internal/domain"
)

// PersonalExpenseRepository implements usecase.PersonalExpenseRepository.
type PersonalExpenseRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewPersonalExpenseRepository creates a new PersonalExpenseRepository.
func NewPersonalExpenseRepository(pool *pgxpool.Pool) *PersonalExpenseRepository {
	return &PersonalExpenseRepository{pool: pool, retrier: NewRetrier()}
}

// Create persists a personal expense.
func (r *PersonalExpenseRepository) Create(ctx context.Context, expense *domain.PersonalExpense) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO personal_expenses (id, trip_id, payer_id, for_user_id, description, category, notes, amount, currency, paid, date, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		expense.ID,
		expense.TripID,
		expense.PayerID,
		expense.ForUserID,
		expense.Description,
		expense.Category,
		expense.Notes,
		decimalToNumeric(expense.Amount.Amount),
		expense.Amount.Currency,
		expense.Paid,
		timeToPgTimestamptz(expense.Date),
		expense.CreatedBy,
		timeToPgTimestamptz(expense.CreatedAt),
	)

	return err
}

const selectPersonalExpenseSQL = `
	SELECT id, trip_id, payer_id, for_user_id, description, category, notes, amount, currency, paid, date, created_by, created_at
	FROM personal_expenses`

// GetByID retrieves a personal expense by ID.
func (r *PersonalExpenseRepository) GetByID(ctx context.Context, id string) (*domain.PersonalExpense, error) {
	row := r.pool.QueryRow(ctx, selectPersonalExpenseSQL+` WHERE id = $1`, id)

	expense, err := scanPersonalExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	return expense, nil
}

// ListByTrip lists a trip's personal expenses, newest first.
func (r *PersonalExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.PersonalExpense, error) {
	rows, err := r.pool.Query(ctx, selectPersonalExpenseSQL+` WHERE trip_id = $1 ORDER BY date DESC, id DESC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.PersonalExpense
	for rows.Next() {
		expense, err := scanPersonalExpense(rows)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
	}

	return expenses, rows.Err()
}

// UpdatePaid sets a personal expense's paid flag. Retried on transient
// failures since it can race concurrent expense deletion.
func (r *PersonalExpenseRepository) UpdatePaid(ctx context.Context, id string, paid bool) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, `UPDATE personal_expenses SET paid = $2 WHERE id = $1`, id, paid)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrExpenseNotFound
		}

		return nil
	})
}

// Delete removes a personal expense.
func (r *PersonalExpenseRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM personal_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

func scanPersonalExpense(row pgx.Row) (*domain.PersonalExpense, error) {
	var (
		expense   domain.PersonalExpense
		amount    pgtype.Numeric
		currency  string
		date      pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&expense.ID,
		&expense.TripID,
		&expense.PayerID,
		&expense.ForUserID,
		&expense.Description,
		&expense.Category,
		&expense.Notes,
		&amount,
		&currency,
		&expense.Paid,
		&date,
		&expense.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Amount = domain.NewMoney(numericToDecimal(amount), currency)
	expense.Date = date.Time
	expense.CreatedAt = createdAt.Time

	return &expense, nil
}
