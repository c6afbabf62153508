package domain

import "errors"

var (
	// Money errors
	ErrCurrencyMismatch = errors.New("cannot combine amounts in different currencies")

	// Split errors
	ErrInvalidSplit       = errors.New("invalid split")
	ErrUnknownParticipant = errors.New("participant is not a member of this trip")

	// Expense errors
	ErrInvalidExpense  = errors.New("invalid expense")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrExpenseNotFound = errors.New("expense not found")
	ErrSplitNotFound   = errors.New("expense split not found")

	// Settlement errors
	ErrSelfSettlement      = errors.New("cannot create settlement to yourself")
	ErrSettlementNotFound  = errors.New("settlement not found")
	ErrSettlementFinalized = errors.New("settlement is no longer pending")
	ErrInvalidStatus       = errors.New("invalid settlement status")

	// Trip errors
	ErrTripNotFound  = errors.New("trip not found")
	ErrNotTripMember = errors.New("user is not a member of this trip")
	ErrNotAllowed    = errors.New("user is not allowed to perform this operation")
	ErrUserNotFound  = errors.New("user not found")

	// Auth errors
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
