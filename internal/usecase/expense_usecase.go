package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/infrastructure/metrics"
)

// ExpenseUseCase handles expense recording and mutation.
type ExpenseUseCase struct {
	txManager    TransactionManager
	tripRepo     TripRepository
	sharedRepo   SharedExpenseRepository
	personalRepo PersonalExpenseRepository
	memberRepo   MembershipRepository
	idGen        IDGenerator
	cache        Cache
	metrics      *metrics.Metrics
}

// NewExpenseUseCase creates a new ExpenseUseCase. cache and metrics may be nil.
func NewExpenseUseCase(
	txManager TransactionManager,
	tripRepo TripRepository,
	sharedRepo SharedExpenseRepository,
	personalRepo PersonalExpenseRepository,
	memberRepo MembershipRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
) *ExpenseUseCase {
	return &ExpenseUseCase{
		txManager:    txManager,
		tripRepo:     tripRepo,
		sharedRepo:   sharedRepo,
		personalRepo: personalRepo,
		memberRepo:   memberRepo,
		idGen:        idGen,
		cache:        cache,
		metrics:      metrics,
	}
}

// RecordSharedExpenseInput represents input for recording a shared expense.
type RecordSharedExpenseInput struct {
	TripID      string
	ActorID     string
	PayerID     string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Category    string
	Notes       string
	Date        time.Time
	Split       domain.SplitMethod
}

// RecordSharedExpense validates the split method, computes the splits and
// persists the expense atomically with them.
func (uc *ExpenseUseCase) RecordSharedExpense(ctx context.Context, input RecordSharedExpenseInput) (*domain.SharedExpense, error) {
	// 1. Validate plain fields before touching storage
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateExpenseAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	// 2. The expense must be denominated in the trip's currency; balances
	// are computed in a single currency per trip
	if err := uc.requireTripCurrency(ctx, input.TripID, input.Currency); err != nil {
		return nil, err
	}

	// 3. The acting user must be a trip member, and so must the payer and
	// every split participant
	if err := uc.requireMember(ctx, input.TripID, input.ActorID); err != nil {
		return nil, err
	}

	if err := uc.requireMembers(ctx, input.TripID, append([]string{input.PayerID}, input.Split.ParticipantIDs()...)); err != nil {
		return nil, err
	}

	// 4. Compute splits; this enforces the split-sum invariant
	now := time.Now().UTC()
	total := domain.NewMoney(input.Amount, input.Currency)

	splits, err := domain.ComputeSplits(input.Split, total, input.PayerID, now)
	if err != nil {
		return nil, err
	}

	expense := &domain.SharedExpense{
		ID:          uc.idGen.Generate(),
		TripID:      input.TripID,
		PayerID:     input.PayerID,
		Description: input.Description,
		Category:    input.Category,
		Notes:       input.Notes,
		Amount:      total,
		SplitType:   input.Split.Type,
		Date:        expenseDate(input.Date, now),
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
	}

	for i := range splits {
		splits[i].ID = uc.idGen.Generate()
		splits[i].ExpenseID = expense.ID
	}
	expense.Splits = splits

	// 5. Persist expense and splits in one transaction
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := uc.sharedRepo.Create(ctx, tx, expense); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, input.TripID)

	if uc.metrics != nil {
		uc.metrics.ExpensesRecorded.WithLabelValues("shared").Inc()
		uc.metrics.ExpenseAmount.Observe(input.Amount.InexactFloat64())
	}

	return expense, nil
}

// RecordPersonalExpenseInput represents input for recording a personal expense.
type RecordPersonalExpenseInput struct {
	TripID      string
	ActorID     string
	PayerID     string
	ForUserID   string
	Amount      decimal.Decimal
	Currency    string
	Description string
	Category    string
	Notes       string
	Date        time.Time
}

// RecordPersonalExpense records a one-to-one reimbursement debt.
func (uc *ExpenseUseCase) RecordPersonalExpense(ctx context.Context, input RecordPersonalExpenseInput) (*domain.PersonalExpense, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateExpenseAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateDescription(input.Description); err != nil {
		return nil, err
	}

	if err := uc.requireTripCurrency(ctx, input.TripID, input.Currency); err != nil {
		return nil, err
	}

	if err := uc.requireMember(ctx, input.TripID, input.ActorID); err != nil {
		return nil, err
	}

	if err := uc.requireMembers(ctx, input.TripID, []string{input.PayerID, input.ForUserID}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	expense := &domain.PersonalExpense{
		ID:          uc.idGen.Generate(),
		TripID:      input.TripID,
		PayerID:     input.PayerID,
		ForUserID:   input.ForUserID,
		Description: input.Description,
		Category:    input.Category,
		Notes:       input.Notes,
		Amount:      domain.NewMoney(input.Amount, input.Currency),
		Paid:        false,
		Date:        expenseDate(input.Date, now),
		CreatedBy:   input.ActorID,
		CreatedAt:   now,
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}

	if err := uc.personalRepo.Create(ctx, expense); err != nil {
		return nil, err
	}

	uc.invalidateBalance(ctx, input.TripID)

	if uc.metrics != nil {
		uc.metrics.ExpensesRecorded.WithLabelValues("personal").Inc()
		uc.metrics.ExpenseAmount.Observe(input.Amount.InexactFloat64())
	}

	return expense, nil
}

// MarkSplitPaid marks one split of a shared expense as settled. Only the
// debtor themselves or a trip organizer may do so. Marking an already-paid
// split is an idempotent no-op.
func (uc *ExpenseUseCase) MarkSplitPaid(ctx context.Context, splitID, actorID string) (*domain.Split, error) {
	split, err := uc.sharedRepo.GetSplitByID(ctx, splitID)
	if err != nil {
		return nil, err
	}

	expense, err := uc.sharedRepo.GetByID(ctx, split.ExpenseID)
	if err != nil {
		return nil, err
	}

	if err := uc.requireDebtorOrOrganizer(ctx, expense.TripID, split.UserID, actorID); err != nil {
		return nil, err
	}

	if split.Paid {
		return split, nil
	}

	if err := uc.sharedRepo.UpdateSplitPaid(ctx, splitID, true); err != nil {
		return nil, err
	}

	split.Paid = true
	uc.invalidateBalance(ctx, expense.TripID)

	if uc.metrics != nil {
		uc.metrics.SplitsMarkedPaid.Inc()
	}

	return split, nil
}

// MarkPersonalExpensePaid marks a personal expense as reimbursed. Only the
// beneficiary or a trip organizer may do so; idempotent like MarkSplitPaid.
func (uc *ExpenseUseCase) MarkPersonalExpensePaid(ctx context.Context, tripID, expenseID, actorID string) (*domain.PersonalExpense, error) {
	expense, err := uc.personalRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if expense.TripID != tripID {
		return nil, domain.ErrExpenseNotFound
	}

	if err := uc.requireDebtorOrOrganizer(ctx, tripID, expense.ForUserID, actorID); err != nil {
		return nil, err
	}

	if expense.Paid {
		return expense, nil
	}

	if err := uc.personalRepo.UpdatePaid(ctx, expenseID, true); err != nil {
		return nil, err
	}

	expense.Paid = true
	uc.invalidateBalance(ctx, tripID)

	return expense, nil
}

// ListTripExpenses returns a page of a trip's expenses, shared and personal
// merged, newest first. Limit and offset are clamped to sane bounds.
func (uc *ExpenseUseCase) ListTripExpenses(ctx context.Context, tripID, actorID string, limit, offset int) ([]domain.Expense, error) {
	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	shared, err := uc.sharedRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	personal, err := uc.personalRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, 0, len(shared)+len(personal))
	for _, e := range shared {
		expenses = append(expenses, domain.Expense{Kind: domain.ExpenseKindShared, Shared: e})
	}
	for _, e := range personal {
		expenses = append(expenses, domain.Expense{Kind: domain.ExpenseKindPersonal, Personal: e})
	}

	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date().After(expenses[j].Date())
	})

	limit, offset = domain.ValidatePagination(limit, offset)
	if offset >= len(expenses) {
		return []domain.Expense{}, nil
	}
	if end := offset + limit; end < len(expenses) {
		return expenses[offset:end], nil
	}

	return expenses[offset:], nil
}

// UpdateSharedExpenseInfoInput carries descriptive-field updates. Amounts and
// splits are not updatable: editing an expense's financials is modeled as
// delete and recreate, so splits never drift from their expense total.
type UpdateSharedExpenseInfoInput struct {
	TripID      string
	ExpenseID   string
	ActorID     string
	Description *string
	Category    *string
	Notes       *string
	Date        *time.Time
}

// UpdateSharedExpenseInfo updates descriptive fields of a shared expense.
// Only the creator or a trip organizer may update.
func (uc *ExpenseUseCase) UpdateSharedExpenseInfo(ctx context.Context, input UpdateSharedExpenseInfoInput) (*domain.SharedExpense, error) {
	expense, err := uc.sharedRepo.GetByID(ctx, input.ExpenseID)
	if err != nil {
		return nil, err
	}

	if expense.TripID != input.TripID {
		return nil, domain.ErrExpenseNotFound
	}

	if err := uc.requireCreatorOrOrganizer(ctx, input.TripID, expense.CreatedBy, input.ActorID); err != nil {
		return nil, err
	}

	if input.Description != nil {
		if err := domain.ValidateDescription(*input.Description); err != nil {
			return nil, err
		}

		expense.Description = *input.Description
	}

	if input.Category != nil {
		expense.Category = *input.Category
	}

	if input.Notes != nil {
		expense.Notes = *input.Notes
	}

	if input.Date != nil {
		expense.Date = *input.Date
	}

	if err := uc.sharedRepo.UpdateInfo(ctx, expense); err != nil {
		return nil, err
	}

	return expense, nil
}

// GetExpense fetches a single expense, shared or personal, by ID. Any trip
// member may read it.
func (uc *ExpenseUseCase) GetExpense(ctx context.Context, tripID, expenseID, actorID string) (*domain.Expense, error) {
	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	if shared, err := uc.sharedRepo.GetByID(ctx, expenseID); err == nil {
		if shared.TripID != tripID {
			return nil, domain.ErrExpenseNotFound
		}

		return &domain.Expense{Kind: domain.ExpenseKindShared, Shared: shared}, nil
	}

	personal, err := uc.personalRepo.GetByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}

	if personal.TripID != tripID {
		return nil, domain.ErrExpenseNotFound
	}

	return &domain.Expense{Kind: domain.ExpenseKindPersonal, Personal: personal}, nil
}

// DeleteExpense removes an expense, shared or personal, from a trip. Shared
// expenses cascade to their splits. Only the creator or a trip organizer may
// delete.
func (uc *ExpenseUseCase) DeleteExpense(ctx context.Context, tripID, expenseID, actorID string) error {
	if shared, err := uc.sharedRepo.GetByID(ctx, expenseID); err == nil {
		if shared.TripID != tripID {
			return domain.ErrExpenseNotFound
		}

		if err := uc.requireCreatorOrOrganizer(ctx, tripID, shared.CreatedBy, actorID); err != nil {
			return err
		}

		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := uc.sharedRepo.Delete(ctx, tx, expenseID); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		uc.invalidateBalance(ctx, tripID)

		if uc.metrics != nil {
			uc.metrics.ExpensesDeleted.Inc()
		}

		return nil
	}

	personal, err := uc.personalRepo.GetByID(ctx, expenseID)
	if err != nil {
		return err
	}

	if personal.TripID != tripID {
		return domain.ErrExpenseNotFound
	}

	if err := uc.requireCreatorOrOrganizer(ctx, tripID, personal.CreatedBy, actorID); err != nil {
		return err
	}

	if err := uc.personalRepo.Delete(ctx, expenseID); err != nil {
		return err
	}

	uc.invalidateBalance(ctx, tripID)

	if uc.metrics != nil {
		uc.metrics.ExpensesDeleted.Inc()
	}

	return nil
}

func expenseDate(date time.Time, fallback time.Time) time.Time {
	if date.IsZero() {
		return fallback
	}

	return date
}

func (uc *ExpenseUseCase) requireTripCurrency(ctx context.Context, tripID, currency string) error {
	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return err
	}

	if trip.Currency != currency {
		return fmt.Errorf("%w: trip is denominated in %s", domain.ErrCurrencyMismatch, trip.Currency)
	}

	return nil
}

func (uc *ExpenseUseCase) requireMember(ctx context.Context, tripID, userID string) error {
	ok, err := uc.memberRepo.IsMember(ctx, tripID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotTripMember, userID)
	}

	return nil
}

func (uc *ExpenseUseCase) requireMembers(ctx context.Context, tripID string, userIDs []string) error {
	seen := make(map[string]bool, len(userIDs))

	for _, userID := range userIDs {
		if seen[userID] {
			continue
		}
		seen[userID] = true

		ok, err := uc.memberRepo.IsMember(ctx, tripID, userID)
		if err != nil {
			return err
		}

		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownParticipant, userID)
		}
	}

	return nil
}

func (uc *ExpenseUseCase) requireDebtorOrOrganizer(ctx context.Context, tripID, debtorID, actorID string) error {
	if actorID == debtorID {
		return nil
	}

	organizer, err := uc.memberRepo.IsOrganizer(ctx, tripID, actorID)
	if err != nil {
		return err
	}

	if !organizer {
		return fmt.Errorf("%w: only the debtor or a trip organizer can mark this as paid", domain.ErrNotAllowed)
	}

	return nil
}

func (uc *ExpenseUseCase) requireCreatorOrOrganizer(ctx context.Context, tripID, creatorID, actorID string) error {
	if actorID == creatorID {
		return nil
	}

	organizer, err := uc.memberRepo.IsOrganizer(ctx, tripID, actorID)
	if err != nil {
		return err
	}

	if !organizer {
		return fmt.Errorf("%w: only the creator or a trip organizer can modify this expense", domain.ErrNotAllowed)
	}

	return nil
}

func (uc *ExpenseUseCase) invalidateBalance(ctx context.Context, tripID string) {
	if uc.cache == nil {
		return
	}

	// Best effort: a stale cache entry expires via TTL anyway.
	_ = uc.cache.Delete(ctx, balanceCacheKey(tripID))
}
