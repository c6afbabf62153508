package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
)

// SharedExpenseRepository implements usecase.SharedExpenseRepository.
type SharedExpenseRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewSharedExpenseRepository creates a new SharedExpenseRepository.
func NewSharedExpenseRepository(pool *pgxpool.Pool) *SharedExpenseRepository {
	return &SharedExpenseRepository{pool: pool, retrier: NewRetrier()}
}

const insertSharedExpenseSQL = `
	INSERT INTO shared_expenses (id, trip_id, payer_id, description, category, notes, amount, currency, split_type, date, created_by, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

const insertSplitSQL = `
	INSERT INTO expense_splits (id, expense_id, user_id, amount, percentage, paid, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

// Create persists a shared expense together with its splits.
func (r *SharedExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.SharedExpense) error {
	pgxTx := tx.(*Tx).PgxTx()

	_, err := pgxTx.Exec(ctx, insertSharedExpenseSQL,
		expense.ID,
		expense.TripID,
		expense.PayerID,
		expense.Description,
		expense.Category,
		expense.Notes,
		decimalToNumeric(expense.Amount.Amount),
		expense.Amount.Currency,
		string(expense.SplitType),
		timeToPgTimestamptz(expense.Date),
		expense.CreatedBy,
		timeToPgTimestamptz(expense.CreatedAt),
	)
	if err != nil {
		return err
	}

	for _, split := range expense.Splits {
		_, err := pgxTx.Exec(ctx, insertSplitSQL,
			split.ID,
			split.ExpenseID,
			split.UserID,
			decimalToNumeric(split.Amount.Amount),
			nullableDecimalToNumeric(split.Percentage),
			split.Paid,
			timeToPgTimestamptz(split.CreatedAt),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

const selectSharedExpenseSQL = `
	SELECT id, trip_id, payer_id, description, category, notes, amount, currency, split_type, date, created_by, created_at
	FROM shared_expenses`

// GetByID retrieves a shared expense and its splits.
func (r *SharedExpenseRepository) GetByID(ctx context.Context, id string) (*domain.SharedExpense, error) {
	row := r.pool.QueryRow(ctx, selectSharedExpenseSQL+` WHERE id = $1`, id)

	expense, err := scanSharedExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrExpenseNotFound
		}

		return nil, err
	}

	splits, err := r.loadSplits(ctx, []string{expense.ID})
	if err != nil {
		return nil, err
	}
	expense.Splits = splits[expense.ID]

	return expense, nil
}

// ListByTrip lists a trip's shared expenses with their splits, newest first.
func (r *SharedExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.SharedExpense, error) {
	rows, err := r.pool.Query(ctx, selectSharedExpenseSQL+` WHERE trip_id = $1 ORDER BY date DESC, id DESC`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		expenses []*domain.SharedExpense
		ids      []string
	)
	for rows.Next() {
		expense, err := scanSharedExpense(rows)
		if err != nil {
			return nil, err
		}

		expenses = append(expenses, expense)
		ids = append(ids, expense.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return expenses, nil
	}

	splits, err := r.loadSplits(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, expense := range expenses {
		expense.Splits = splits[expense.ID]
	}

	return expenses, nil
}

// UpdateInfo updates an expense's descriptive fields.
func (r *SharedExpenseRepository) UpdateInfo(ctx context.Context, expense *domain.SharedExpense) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE shared_expenses SET description = $2, category = $3, notes = $4, date = $5 WHERE id = $1`,
		expense.ID,
		expense.Description,
		expense.Category,
		expense.Notes,
		timeToPgTimestamptz(expense.Date),
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

// Delete removes a shared expense. Splits go with it via ON DELETE CASCADE.
func (r *SharedExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	pgxTx := tx.(*Tx).PgxTx()

	tag, err := pgxTx.Exec(ctx, `DELETE FROM shared_expenses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}

	return nil
}

const selectSplitSQL = `
	SELECT s.id, s.expense_id, s.user_id, s.amount, e.currency, s.percentage, s.paid, s.created_at
	FROM expense_splits s
	JOIN shared_expenses e ON e.id = s.expense_id`

// GetSplitByID retrieves a single split.
func (r *SharedExpenseRepository) GetSplitByID(ctx context.Context, splitID string) (*domain.Split, error) {
	row := r.pool.QueryRow(ctx, selectSplitSQL+` WHERE s.id = $1`, splitID)

	split, err := scanSplit(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrSplitNotFound
		}

		return nil, err
	}

	return split, nil
}

// UpdateSplitPaid sets a split's paid flag. Retried on transient failures
// since it can race concurrent expense deletion.
func (r *SharedExpenseRepository) UpdateSplitPaid(ctx context.Context, splitID string, paid bool) error {
	return r.retrier.Retry(ctx, func() error {
		tag, err := r.pool.Exec(ctx, `UPDATE expense_splits SET paid = $2 WHERE id = $1`, splitID, paid)
		if err != nil {
			return err
		}

		if tag.RowsAffected() == 0 {
			return domain.ErrSplitNotFound
		}

		return nil
	})
}

func (r *SharedExpenseRepository) loadSplits(ctx context.Context, expenseIDs []string) (map[string][]domain.Split, error) {
	rows, err := r.pool.Query(ctx, selectSplitSQL+` WHERE s.expense_id = ANY($1) ORDER BY s.created_at, s.id`, expenseIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	splits := make(map[string][]domain.Split)
	for rows.Next() {
		split, err := scanSplit(rows)
		if err != nil {
			return nil, err
		}

		splits[split.ExpenseID] = append(splits[split.ExpenseID], *split)
	}

	return splits, rows.Err()
}

func scanSharedExpense(row pgx.Row) (*domain.SharedExpense, error) {
	var (
		expense   domain.SharedExpense
		amount    pgtype.Numeric
		currency  string
		splitType string
		date      pgtype.Timestamptz
		createdAt pgtype.Timestamptz
	)

	err := row.Scan(
		&expense.ID,
		&expense.TripID,
		&expense.PayerID,
		&expense.Description,
		&expense.Category,
		&expense.Notes,
		&amount,
		&currency,
		&splitType,
		&date,
		&expense.CreatedBy,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	expense.Amount = domain.NewMoney(numericToDecimal(amount), currency)
	expense.SplitType = domain.SplitType(splitType)
	expense.Date = date.Time
	expense.CreatedAt = createdAt.Time

	return &expense, nil
}

func scanSplit(row pgx.Row) (*domain.Split, error) {
	var (
		split      domain.Split
		amount     pgtype.Numeric
		currency   string
		percentage pgtype.Numeric
		createdAt  pgtype.Timestamptz
	)

	err := row.Scan(
		&split.ID,
		&split.ExpenseID,
		&split.UserID,
		&amount,
		&currency,
		&percentage,
		&split.Paid,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	split.Amount = domain.NewMoney(numericToDecimal(amount), currency)
	split.Percentage = numericToNullableDecimal(percentage)
	split.CreatedAt = createdAt.Time

	return &split, nil
}
