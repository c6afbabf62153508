package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
	"github.com/almori/tripledger/internal/usecase/mocks"
)

type settlementFixture struct {
	settlementRepo *mocks.MockSettlementRepository
	tripRepo       *mocks.MockTripRepository
	memberRepo     *mocks.MockMembershipRepository
	uc             *usecase.SettlementUseCase
}

func newSettlementFixture(t *testing.T) *settlementFixture {
	t.Helper()

	f := &settlementFixture{
		settlementRepo: mocks.NewMockSettlementRepository(),
		tripRepo:       mocks.NewMockTripRepository(),
		memberRepo:     mocks.NewMockMembershipRepository(),
	}
	seedTestTrip(f.tripRepo, "USD")
	f.memberRepo.AddMember(testTripID, "alice", domain.MemberRoleOrganizer)
	f.memberRepo.AddMember(testTripID, "bob", domain.MemberRoleMember)
	f.memberRepo.AddMember(testTripID, "carol", domain.MemberRoleMember)

	f.uc = usecase.NewSettlementUseCase(f.settlementRepo, f.tripRepo, f.memberRepo, mocks.NewMockIDGenerator(), mocks.NewMockCache(), nil)
	return f
}

func (f *settlementFixture) create(t *testing.T, from, to, actor string) *domain.Settlement {
	t.Helper()
	s, err := f.uc.CreateSettlement(context.Background(), usecase.CreateSettlementInput{
		TripID:     testTripID,
		FromUserID: from,
		ToUserID:   to,
		Amount:     decimal.NewFromInt(40),
		Currency:   "USD",
		ActorID:    actor,
	})
	if err != nil {
		t.Fatalf("create settlement: %v", err)
	}
	return s
}

func TestSettlementUseCase_CreateSettlement(t *testing.T) {
	tests := []struct {
		name        string
		from, to    string
		actor       string
		amount      decimal.Decimal
		expectError bool
		errorType   error
	}{
		{name: "payer creates own settlement", from: "bob", to: "alice", actor: "bob", amount: decimal.NewFromInt(40)},
		{name: "organizer creates for others", from: "bob", to: "carol", actor: "alice", amount: decimal.NewFromInt(40)},
		{name: "reject uninvolved member", from: "bob", to: "alice", actor: "carol", amount: decimal.NewFromInt(40), expectError: true, errorType: domain.ErrNotAllowed},
		{name: "reject self settlement", from: "bob", to: "bob", actor: "bob", amount: decimal.NewFromInt(40), expectError: true, errorType: domain.ErrSelfSettlement},
		{name: "reject non-member party", from: "bob", to: "mallory", actor: "bob", amount: decimal.NewFromInt(40), expectError: true, errorType: domain.ErrUnknownParticipant},
		{name: "reject non-positive amount", from: "bob", to: "alice", actor: "bob", amount: decimal.Zero, expectError: true, errorType: domain.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newSettlementFixture(t)

			s, err := f.uc.CreateSettlement(context.Background(), usecase.CreateSettlementInput{
				TripID:     testTripID,
				FromUserID: tt.from,
				ToUserID:   tt.to,
				Amount:     tt.amount,
				Currency:   "USD",
				ActorID:    tt.actor,
			})

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Status != domain.SettlementStatusPending {
				t.Errorf("expected pending status, got %s", s.Status)
			}
			if s.SettledAt != nil {
				t.Error("settledAt must be empty at creation")
			}
		})
	}
}

func TestSettlementUseCase_CreateSettlement_CurrencyMismatch(t *testing.T) {
	f := newSettlementFixture(t)

	_, err := f.uc.CreateSettlement(context.Background(), usecase.CreateSettlementInput{
		TripID:     testTripID,
		FromUserID: "bob",
		ToUserID:   "alice",
		Amount:     decimal.NewFromInt(40),
		Currency:   "EUR",
		ActorID:    "bob",
	})
	if !errors.Is(err, domain.ErrCurrencyMismatch) {
		t.Errorf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestSettlementUseCase_MarkCompleted(t *testing.T) {
	t.Run("receiver completes", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		updated, err := f.uc.MarkCompleted(context.Background(), testTripID, s.ID, "carol")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.SettlementStatusCompleted {
			t.Errorf("expected completed, got %s", updated.Status)
		}
		if updated.SettledAt == nil {
			t.Error("settledAt must be stamped")
		}
	})

	t.Run("sender cannot complete", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		_, err := f.uc.MarkCompleted(context.Background(), testTripID, s.ID, "bob")
		if !errors.Is(err, domain.ErrNotAllowed) {
			t.Errorf("expected ErrNotAllowed, got %v", err)
		}
	})

	t.Run("organizer completes", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		if _, err := f.uc.MarkCompleted(context.Background(), testTripID, s.ID, "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("completing twice is rejected", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		if _, err := f.uc.MarkCompleted(context.Background(), testTripID, s.ID, "carol"); err != nil {
			t.Fatalf("first completion: %v", err)
		}
		_, err := f.uc.MarkCompleted(context.Background(), testTripID, s.ID, "carol")
		if !errors.Is(err, domain.ErrSettlementFinalized) {
			t.Errorf("expected ErrSettlementFinalized, got %v", err)
		}
	})

	t.Run("wrong trip", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		_, err := f.uc.MarkCompleted(context.Background(), "trip-other", s.ID, "carol")
		if !errors.Is(err, domain.ErrSettlementNotFound) {
			t.Errorf("expected ErrSettlementNotFound, got %v", err)
		}
	})
}

func TestSettlementUseCase_Cancel(t *testing.T) {
	t.Run("either party cancels pending", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		updated, err := f.uc.Cancel(context.Background(), testTripID, s.ID, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if updated.Status != domain.SettlementStatusCancelled {
			t.Errorf("expected cancelled, got %s", updated.Status)
		}
	})

	t.Run("completed cannot be cancelled", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		if _, err := f.uc.MarkCompleted(context.Background(), testTripID, s.ID, "carol"); err != nil {
			t.Fatalf("complete: %v", err)
		}
		_, err := f.uc.Cancel(context.Background(), testTripID, s.ID, "bob")
		if !errors.Is(err, domain.ErrSettlementFinalized) {
			t.Errorf("expected ErrSettlementFinalized, got %v", err)
		}
	})
}

func TestSettlementUseCase_Delete(t *testing.T) {
	t.Run("party deletes", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "carol", "bob")

		if err := f.uc.Delete(context.Background(), testTripID, s.ID, "carol"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.settlementRepo.GetByID(context.Background(), s.ID); !errors.Is(err, domain.ErrSettlementNotFound) {
			t.Error("settlement should be gone")
		}
	})

	t.Run("uninvolved member cannot delete", func(t *testing.T) {
		f := newSettlementFixture(t)
		s := f.create(t, "bob", "alice", "bob")

		err := f.uc.Delete(context.Background(), testTripID, s.ID, "carol")
		if !errors.Is(err, domain.ErrNotAllowed) {
			t.Errorf("expected ErrNotAllowed, got %v", err)
		}
	})
}

func TestSettlementUseCase_Listing(t *testing.T) {
	f := newSettlementFixture(t)
	s1 := f.create(t, "bob", "alice", "bob")
	f.create(t, "carol", "alice", "carol")

	if _, err := f.uc.MarkCompleted(context.Background(), testTripID, s1.ID, "alice"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	all, err := f.uc.ListByTrip(context.Background(), testTripID, "alice")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 settlements, got %d", len(all))
	}

	completed, err := f.uc.ListByStatus(context.Background(), testTripID, "alice", domain.SettlementStatusCompleted)
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != s1.ID {
		t.Errorf("expected only the completed settlement, got %d", len(completed))
	}

	mine, err := f.uc.ListMine(context.Background(), testTripID, "bob")
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 1 || mine[0].ID != s1.ID {
		t.Errorf("expected bob's settlement only, got %d", len(mine))
	}

	if _, err := f.uc.ListByTrip(context.Background(), testTripID, "mallory"); !errors.Is(err, domain.ErrNotTripMember) {
		t.Errorf("expected ErrNotTripMember, got %v", err)
	}

	if _, err := f.uc.ListByStatus(context.Background(), testTripID, "alice", "bogus"); !errors.Is(err, domain.ErrInvalidStatus) {
		t.Errorf("expected ErrInvalidStatus, got %v", err)
	}
}
