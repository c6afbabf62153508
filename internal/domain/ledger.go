package domain

// MemberBalance is one participant's position within a trip.
//
// TotalPaid is the gross amount the member personally paid across shared and
// personal expenses. TotalOwed is the member's share of consumption: every
// split of theirs on a shared expense (the paid flag tracks per-split
// reimbursement bookkeeping, not consumption) plus personal expenses where
// they are the beneficiary and have not yet paid the payer back.
//
// Net = TotalPaid - TotalOwed. Positive means the group owes this member
// money; negative means this member owes the group.
type MemberBalance struct {
	UserID      string
	DisplayName string
	TotalPaid   Money
	TotalOwed   Money
	Net         Money
}

// BalanceReport is a per-trip snapshot: total money spent, one balance per
// member, and the suggested transfers that would settle all debts. It is
// derived, never persisted, and recomputed on demand.
type BalanceReport struct {
	TripID        string
	TripTitle     string
	Currency      string
	TotalExpenses Money
	Balances      []MemberBalance
	Suggestions   []SuggestedTransfer
}

// AggregateBalances scans a trip's expenses and produces one balance per
// member plus the trip's total spend. Members without any activity get zero
// balances. Users referenced by an expense but absent from memberIDs are
// still included, so a stale membership list cannot silently drop debt.
// The computation is pure: nothing is mutated.
func AggregateBalances(currency string, memberIDs []string, shared []*SharedExpense, personal []*PersonalExpense) (map[string]*MemberBalance, Money, error) {
	balances := make(map[string]*MemberBalance, len(memberIDs))

	ensure := func(userID string) *MemberBalance {
		if b, ok := balances[userID]; ok {
			return b
		}

		b := &MemberBalance{
			UserID:    userID,
			TotalPaid: ZeroMoney(currency),
			TotalOwed: ZeroMoney(currency),
			Net:       ZeroMoney(currency),
		}
		balances[userID] = b

		return b
	}

	for _, id := range memberIDs {
		ensure(id)
	}

	total := ZeroMoney(currency)

	for _, e := range shared {
		payer := ensure(e.PayerID)

		paid, err := payer.TotalPaid.Add(e.Amount)
		if err != nil {
			return nil, Money{}, err
		}
		payer.TotalPaid = paid

		total, err = total.Add(e.Amount)
		if err != nil {
			return nil, Money{}, err
		}

		for _, split := range e.Splits {
			ower := ensure(split.UserID)

			owed, err := ower.TotalOwed.Add(split.Amount)
			if err != nil {
				return nil, Money{}, err
			}
			ower.TotalOwed = owed
		}
	}

	for _, e := range personal {
		payer := ensure(e.PayerID)

		paid, err := payer.TotalPaid.Add(e.Amount)
		if err != nil {
			return nil, Money{}, err
		}
		payer.TotalPaid = paid

		var err2 error
		total, err2 = total.Add(e.Amount)
		if err2 != nil {
			return nil, Money{}, err2
		}

		if !e.Paid {
			beneficiary := ensure(e.ForUserID)

			owed, err := beneficiary.TotalOwed.Add(e.Amount)
			if err != nil {
				return nil, Money{}, err
			}
			beneficiary.TotalOwed = owed
		}
	}

	for _, b := range balances {
		net, err := b.TotalPaid.Sub(b.TotalOwed)
		if err != nil {
			return nil, Money{}, err
		}

		b.Net = net
	}

	return balances, total, nil
}

// ApplyCompletedSettlements folds completed settlements into a balance map:
// a completed payment reduces what the payer owed, so the payer's net moves
// up by the amount and the receiver's net moves down. Settlements in any
// other status are ignored. Settlements referencing users absent from the
// map are skipped rather than invented.
func ApplyCompletedSettlements(balances map[string]*MemberBalance, settlements []*Settlement) error {
	for _, s := range settlements {
		if s.Status != SettlementStatusCompleted {
			continue
		}

		if from, ok := balances[s.FromUserID]; ok {
			net, err := from.Net.Add(s.Amount)
			if err != nil {
				return err
			}

			from.Net = net
		}

		if to, ok := balances[s.ToUserID]; ok {
			net, err := to.Net.Sub(s.Amount)
			if err != nil {
				return err
			}

			to.Net = net
		}
	}

	return nil
}
