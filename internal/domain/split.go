package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SplitType tags the supported ways of dividing a shared expense.
type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypePercentage SplitType = "percentage"
	SplitTypeCustom     SplitType = "custom"
)

// IsValid checks if the split type is known.
func (t SplitType) IsValid() bool {
	switch t {
	case SplitTypeEqual, SplitTypePercentage, SplitTypeCustom:
		return true
	}

	return false
}

// Share is one participant's requested share of a split: a percentage for
// percentage splits, an explicit amount for custom splits.
type Share struct {
	UserID     string
	Percentage decimal.Decimal
	Amount     Money
}

// SplitMethod describes how to divide a shared expense among participants.
// Equal splits use Participants; percentage and custom splits use Shares.
// Output splits follow the input ordering, which also decides remainder and
// residual assignment, so the ordering must be treated as significant.
type SplitMethod struct {
	Type         SplitType
	Participants []string
	Shares       []Share
}

// ParticipantIDs returns every user referenced by the method, in input order.
func (m SplitMethod) ParticipantIDs() []string {
	if m.Type == SplitTypeEqual {
		return m.Participants
	}

	ids := make([]string, 0, len(m.Shares))
	for _, s := range m.Shares {
		ids = append(ids, s.UserID)
	}

	return ids
}

var oneHundred = decimal.NewFromInt(100)

// ComputeSplits turns a split method and an expense total into the list of
// per-participant splits. The sum of the produced split amounts equals the
// total exactly, for every method. The payer's own share, when present, is
// marked paid at creation: a debt to oneself is trivially settled.
func ComputeSplits(method SplitMethod, total Money, payerID string, now time.Time) ([]Split, error) {
	switch method.Type {
	case SplitTypeEqual:
		return computeEqualSplits(method.Participants, total, payerID, now)
	case SplitTypePercentage:
		return computePercentageSplits(method.Shares, total, payerID, now)
	case SplitTypeCustom:
		return computeCustomSplits(method.Shares, total, payerID, now)
	default:
		return nil, fmt.Errorf("%w: unknown split type %q", ErrInvalidSplit, method.Type)
	}
}

func computeEqualSplits(participants []string, total Money, payerID string, now time.Time) ([]Split, error) {
	if len(participants) == 0 {
		return nil, fmt.Errorf("%w: participant list cannot be empty for an equal split", ErrInvalidSplit)
	}

	shares, err := total.SplitEven(len(participants))
	if err != nil {
		return nil, err
	}

	splits := make([]Split, len(participants))
	for i, userID := range participants {
		splits[i] = Split{
			UserID:    userID,
			Amount:    shares[i],
			Paid:      userID == payerID,
			CreatedAt: now,
		}
	}

	return splits, nil
}

func computePercentageSplits(shares []Share, total Money, payerID string, now time.Time) ([]Split, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: share list cannot be empty for a percentage split", ErrInvalidSplit)
	}

	sum := decimal.Zero
	for _, s := range shares {
		sum = sum.Add(s.Percentage)
	}

	if !sum.Equal(oneHundred) {
		return nil, fmt.Errorf("%w: percentages must sum to 100.00, got %s", ErrInvalidSplit, sum.StringFixed(2))
	}

	splits := make([]Split, len(shares))
	assigned := ZeroMoney(total.Currency)

	for i, s := range shares {
		amount := total.Percent(s.Percentage)

		pct := s.Percentage
		splits[i] = Split{
			UserID:     s.UserID,
			Amount:     amount,
			Percentage: &pct,
			Paid:       s.UserID == payerID,
			CreatedAt:  now,
		}

		var err error
		assigned, err = assigned.Add(amount)
		if err != nil {
			return nil, err
		}
	}

	// Independent roundings may drift off the total by a few cents. The last
	// share in input order absorbs the signed residual so the sum is exact.
	residual, err := total.Sub(assigned)
	if err != nil {
		return nil, err
	}

	if !residual.IsZero() {
		last := len(splits) - 1

		adjusted, err := splits[last].Amount.Add(residual)
		if err != nil {
			return nil, err
		}

		splits[last].Amount = adjusted
	}

	return splits, nil
}

func computeCustomSplits(shares []Share, total Money, payerID string, now time.Time) ([]Split, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: share list cannot be empty for a custom split", ErrInvalidSplit)
	}

	sum := ZeroMoney(total.Currency)
	for _, s := range shares {
		var err error

		sum, err = sum.Add(s.Amount)
		if err != nil {
			return nil, err
		}
	}

	if !sum.Equal(total) {
		return nil, fmt.Errorf("%w: share amounts must sum to %s, got %s",
			ErrInvalidSplit, total.Amount.StringFixed(2), sum.Amount.StringFixed(2))
	}

	splits := make([]Split, len(shares))
	for i, s := range shares {
		splits[i] = Split{
			UserID:    s.UserID,
			Amount:    s.Amount,
			Paid:      s.UserID == payerID,
			CreatedAt: now,
		}
	}

	return splits, nil
}
