package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseKind tags the two expense variants.
type ExpenseKind string

const (
	ExpenseKindShared   ExpenseKind = "shared"
	ExpenseKindPersonal ExpenseKind = "personal"
)

// SharedExpense is an expense paid by one member and split among several.
// Its splits are produced once at creation time and are immutable afterwards
// except for the per-split paid flag; editing amounts is delete+recreate.
type SharedExpense struct {
	ID          string
	TripID      string
	PayerID     string
	Description string
	Category    string
	Notes       string
	Amount      Money
	SplitType   SplitType
	Splits      []Split
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
}

// Split is one participant's computed share of a shared expense.
type Split struct {
	ID         string
	ExpenseID  string
	UserID     string
	Amount     Money
	Percentage *decimal.Decimal
	Paid       bool
	CreatedAt  time.Time
}

// PersonalExpense is a one-to-one debt: the beneficiary owes the payer the
// full amount until the paid flag is set.
type PersonalExpense struct {
	ID          string
	TripID      string
	PayerID     string
	ForUserID   string
	Description string
	Category    string
	Notes       string
	Amount      Money
	Paid        bool
	Date        time.Time
	CreatedBy   string
	CreatedAt   time.Time
}

// Validate checks structural rules of a personal expense.
func (e *PersonalExpense) Validate() error {
	if e.PayerID == e.ForUserID {
		return fmt.Errorf("%w: payer and beneficiary are the same user", ErrInvalidExpense)
	}

	if !e.Amount.IsPositive() {
		return fmt.Errorf("%w: %s", ErrInvalidExpense, ErrInvalidAmount)
	}

	return nil
}

// Expense is the tagged union over the two expense variants, used where the
// two are listed or totalled together. Exactly one of Shared and Personal is
// non-nil, matching Kind.
type Expense struct {
	Kind     ExpenseKind
	Shared   *SharedExpense
	Personal *PersonalExpense
}

// ID returns the identifier of the underlying expense.
func (e Expense) ID() string {
	switch e.Kind {
	case ExpenseKindShared:
		return e.Shared.ID
	case ExpenseKindPersonal:
		return e.Personal.ID
	}

	return ""
}

// Amount returns the total amount of the underlying expense.
func (e Expense) Amount() Money {
	switch e.Kind {
	case ExpenseKindShared:
		return e.Shared.Amount
	case ExpenseKindPersonal:
		return e.Personal.Amount
	}

	return Money{}
}

// PayerID returns who paid the underlying expense.
func (e Expense) PayerID() string {
	switch e.Kind {
	case ExpenseKindShared:
		return e.Shared.PayerID
	case ExpenseKindPersonal:
		return e.Personal.PayerID
	}

	return ""
}

// Date returns when the underlying expense happened.
func (e Expense) Date() time.Time {
	switch e.Kind {
	case ExpenseKindShared:
		return e.Shared.Date
	case ExpenseKindPersonal:
		return e.Personal.Date
	}

	return time.Time{}
}
