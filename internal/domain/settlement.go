package domain

import (
	"fmt"
	"time"
)

// SettlementStatus represents the lifecycle state of a settlement.
type SettlementStatus string

const (
	SettlementStatusPending   SettlementStatus = "pending"
	SettlementStatusCompleted SettlementStatus = "completed"
	SettlementStatusCancelled SettlementStatus = "cancelled"
)

// IsValid checks if the status is a known status.
func (s SettlementStatus) IsValid() bool {
	switch s {
	case SettlementStatusPending, SettlementStatusCompleted, SettlementStatusCancelled:
		return true
	}

	return false
}

// Settlement records an out-of-band payment between two trip members. It is
// a bookkeeping record, not a payment-gateway transaction; only completed
// settlements are folded into balance calculations.
type Settlement struct {
	ID         string
	TripID     string
	FromUserID string
	ToUserID   string
	Amount     Money
	Status     SettlementStatus
	Notes      string
	CreatedAt  time.Time
	SettledAt  *time.Time
}

// Validate checks structural rules of a settlement.
func (s *Settlement) Validate() error {
	if s.FromUserID == s.ToUserID {
		return ErrSelfSettlement
	}

	if !s.Amount.IsPositive() {
		return fmt.Errorf("%w: settlement amount %s", ErrInvalidAmount, s.Amount)
	}

	return nil
}

// CanTransition reports whether the settlement can move to the given status.
// Completed and cancelled are terminal.
func (s *Settlement) CanTransition(to SettlementStatus) bool {
	return s.Status == SettlementStatusPending && to != SettlementStatusPending
}
