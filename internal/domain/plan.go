package domain

import "sort"

// SuggestedTransfer is one proposed payment: the debtor pays the creditor.
type SuggestedTransfer struct {
	FromUserID string
	ToUserID   string
	Amount     Money
}

// PlanSettlements consumes per-member net balances and emits a list of
// transfers that would zero every balance, using a greedy matching of the
// largest debtor against the largest creditor. The result is a heuristic,
// not provably minimal in transaction count, but it is deterministic: both
// sides are ordered by amount descending with ties broken by user ID
// ascending, so identical input always yields identical output.
//
// The sum of the suggested amounts equals the sum of the positive net
// balances whenever the balances themselves sum to zero.
func PlanSettlements(balances map[string]*MemberBalance) []SuggestedTransfer {
	type position struct {
		userID    string
		remaining Money
	}

	var creditors, debtors []position

	for _, b := range balances {
		switch {
		case b.Net.IsPositive():
			creditors = append(creditors, position{userID: b.UserID, remaining: b.Net})
		case b.Net.IsNegative():
			debtors = append(debtors, position{userID: b.UserID, remaining: b.Net.Abs()})
		}
	}

	byAmountDesc := func(ps []position) func(i, j int) bool {
		return func(i, j int) bool {
			c := ps[i].remaining.Amount.Cmp(ps[j].remaining.Amount)
			if c != 0 {
				return c > 0
			}

			return ps[i].userID < ps[j].userID
		}
	}

	sort.Slice(creditors, byAmountDesc(creditors))
	sort.Slice(debtors, byAmountDesc(debtors))

	var suggestions []SuggestedTransfer

	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := debtor.remaining
		if creditor.remaining.Amount.LessThan(amount.Amount) {
			amount = creditor.remaining
		}

		suggestions = append(suggestions, SuggestedTransfer{
			FromUserID: debtor.userID,
			ToUserID:   creditor.userID,
			Amount:     amount,
		})

		// Currencies are uniform within one plan, so these cannot fail.
		debtor.remaining, _ = debtor.remaining.Sub(amount)
		creditor.remaining, _ = creditor.remaining.Sub(amount)

		if debtor.remaining.IsZero() {
			i++
		}

		if creditor.remaining.IsZero() {
			j++
		}
	}

	return suggestions
}
