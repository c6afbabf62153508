package domain_test

import (
	"testing"

	"github.com/almori/tripledger/internal/domain"
)

func balanceMap(t *testing.T, nets map[string]string) map[string]*domain.MemberBalance {
	t.Helper()

	out := make(map[string]*domain.MemberBalance, len(nets))
	for userID, net := range nets {
		out[userID] = &domain.MemberBalance{
			UserID: userID,
			Net:    mustMoney(t, net, "EUR"),
		}
	}

	return out
}

func TestPlanSettlements_DinnerScenario(t *testing.T) {
	balances := balanceMap(t, map[string]string{
		"alice": "80.00",
		"bob":   "-40.00",
		"carol": "-40.00",
	})

	suggestions := domain.PlanSettlements(balances)

	if len(suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(suggestions))
	}

	// Equal debts tie-break by user ID ascending: bob settles before carol.
	if suggestions[0].FromUserID != "bob" || suggestions[0].ToUserID != "alice" {
		t.Errorf("first suggestion = %s -> %s, want bob -> alice", suggestions[0].FromUserID, suggestions[0].ToUserID)
	}

	if suggestions[1].FromUserID != "carol" || suggestions[1].ToUserID != "alice" {
		t.Errorf("second suggestion = %s -> %s, want carol -> alice", suggestions[1].FromUserID, suggestions[1].ToUserID)
	}

	for _, s := range suggestions {
		if s.Amount.Amount.StringFixed(2) != "40.00" {
			t.Errorf("suggestion amount = %s, want 40.00", s.Amount)
		}
	}
}

func TestPlanSettlements_Completeness(t *testing.T) {
	// The transfers must cover the positive side exactly, and applying them
	// must zero every balance.
	cases := []map[string]string{
		{"a": "80.00", "b": "-40.00", "c": "-40.00"},
		{"a": "10.00", "b": "-10.00"},
		{"a": "100.00", "b": "-0.01", "c": "-99.99"},
		{"a": "33.34", "b": "33.33", "c": "-66.67", "d": "0.00"},
		{"a": "-25.50", "b": "75.25", "c": "-49.75"},
	}

	for _, nets := range cases {
		balances := balanceMap(t, nets)
		suggestions := domain.PlanSettlements(balances)

		positive := domain.ZeroMoney("EUR")
		for _, b := range balances {
			if b.Net.IsPositive() {
				positive, _ = positive.Add(b.Net)
			}
		}

		transferred := domain.ZeroMoney("EUR")
		remaining := make(map[string]domain.Money, len(balances))
		for id, b := range balances {
			remaining[id] = b.Net
		}

		for _, s := range suggestions {
			transferred, _ = transferred.Add(s.Amount)

			from, _ := remaining[s.FromUserID].Add(s.Amount)
			remaining[s.FromUserID] = from

			to, _ := remaining[s.ToUserID].Sub(s.Amount)
			remaining[s.ToUserID] = to
		}

		if !transferred.Equal(positive) {
			t.Errorf("nets %v: transferred %s, want %s", nets, transferred, positive)
		}

		for id, m := range remaining {
			if !m.IsZero() {
				t.Errorf("nets %v: %s left with %s after applying suggestions", nets, id, m)
			}
		}
	}
}

func TestPlanSettlements_Deterministic(t *testing.T) {
	nets := map[string]string{
		"dave":  "-30.00",
		"alice": "30.00",
		"bob":   "30.00",
		"carol": "-30.00",
	}

	first := domain.PlanSettlements(balanceMap(t, nets))

	for i := 0; i < 10; i++ {
		again := domain.PlanSettlements(balanceMap(t, nets))

		if len(again) != len(first) {
			t.Fatalf("run %d: %d suggestions, want %d", i, len(again), len(first))
		}

		for j := range first {
			if first[j].FromUserID != again[j].FromUserID ||
				first[j].ToUserID != again[j].ToUserID ||
				!first[j].Amount.Equal(again[j].Amount) {
				t.Fatalf("run %d: suggestion %d differs: %+v vs %+v", i, j, first[j], again[j])
			}
		}
	}

	// With all amounts tied, ordering falls back to user IDs.
	if first[0].FromUserID != "carol" || first[0].ToUserID != "alice" {
		t.Errorf("first suggestion = %s -> %s, want carol -> alice", first[0].FromUserID, first[0].ToUserID)
	}
}

func TestPlanSettlements_Empty(t *testing.T) {
	if got := domain.PlanSettlements(nil); len(got) != 0 {
		t.Errorf("expected no suggestions for empty balances, got %d", len(got))
	}

	settled := balanceMap(t, map[string]string{"alice": "0.00", "bob": "0.00"})
	if got := domain.PlanSettlements(settled); len(got) != 0 {
		t.Errorf("expected no suggestions for settled balances, got %d", len(got))
	}
}

func TestPlanSettlements_LargestFirst(t *testing.T) {
	balances := balanceMap(t, map[string]string{
		"big-creditor":   "70.00",
		"small-creditor": "30.00",
		"big-debtor":     "-60.00",
		"small-debtor":   "-40.00",
	})

	suggestions := domain.PlanSettlements(balances)

	if len(suggestions) != 3 {
		t.Fatalf("expected 3 suggestions, got %d", len(suggestions))
	}

	// Largest debtor pays the largest creditor first.
	want := []domain.SuggestedTransfer{
		{FromUserID: "big-debtor", ToUserID: "big-creditor", Amount: mustMoney(t, "60.00", "EUR")},
		{FromUserID: "small-debtor", ToUserID: "big-creditor", Amount: mustMoney(t, "10.00", "EUR")},
		{FromUserID: "small-debtor", ToUserID: "small-creditor", Amount: mustMoney(t, "30.00", "EUR")},
	}

	for i, w := range want {
		got := suggestions[i]
		if got.FromUserID != w.FromUserID || got.ToUserID != w.ToUserID || !got.Amount.Equal(w.Amount) {
			t.Errorf("suggestion %d = %+v, want %+v", i, got, w)
		}
	}
}
