package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
	"github.com/almori/tripledger/internal/usecase/mocks"
)

const testTripID = "trip-1"

func seedTripMembers(memberRepo *mocks.MockMembershipRepository, organizer string, members ...string) {
	memberRepo.AddMember(testTripID, organizer, domain.MemberRoleOrganizer)
	for _, m := range members {
		memberRepo.AddMember(testTripID, m, domain.MemberRoleMember)
	}
}

func seedTestTrip(tripRepo *mocks.MockTripRepository, currency string) {
	tripRepo.AddTrip(&domain.Trip{ID: testTripID, Title: "Lisbon", Currency: currency, CreatedAt: time.Now().UTC()})
}

func newExpenseUseCase(sharedRepo *mocks.MockSharedExpenseRepository, personalRepo *mocks.MockPersonalExpenseRepository, memberRepo *mocks.MockMembershipRepository) *usecase.ExpenseUseCase {
	tripRepo := mocks.NewMockTripRepository()
	seedTestTrip(tripRepo, "USD")

	return usecase.NewExpenseUseCase(
		mocks.NewMockTransactionManager(),
		tripRepo,
		sharedRepo,
		personalRepo,
		memberRepo,
		mocks.NewMockIDGenerator(),
		mocks.NewMockCache(),
		nil,
	)
}

func TestExpenseUseCase_RecordSharedExpense(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.RecordSharedExpenseInput
		expectError bool
		errorType   error
	}{
		{
			name: "equal split among three members",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "alice",
				Amount:      decimal.NewFromInt(120),
				Currency:    "USD",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "bob", "carol"},
				},
			},
		},
		{
			name: "reject unknown participant",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "alice",
				Amount:      decimal.NewFromInt(120),
				Currency:    "USD",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "mallory"},
				},
			},
			expectError: true,
			errorType:   domain.ErrUnknownParticipant,
		},
		{
			name: "reject non-member payer",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "mallory",
				Amount:      decimal.NewFromInt(120),
				Currency:    "USD",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "bob"},
				},
			},
			expectError: true,
			errorType:   domain.ErrUnknownParticipant,
		},
		{
			name: "reject non-member actor",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "mallory",
				PayerID:     "alice",
				Amount:      decimal.NewFromInt(120),
				Currency:    "USD",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "bob"},
				},
			},
			expectError: true,
			errorType:   domain.ErrNotTripMember,
		},
		{
			name: "reject currency different from the trip's",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "alice",
				Amount:      decimal.NewFromInt(120),
				Currency:    "EUR",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "bob"},
				},
			},
			expectError: true,
			errorType:   domain.ErrCurrencyMismatch,
		},
		{
			name: "reject zero amount",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "alice",
				Amount:      decimal.Zero,
				Currency:    "USD",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "bob"},
				},
			},
			expectError: true,
			errorType:   domain.ErrInvalidAmount,
		},
		{
			name: "reject unsupported currency",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "alice",
				Amount:      decimal.NewFromInt(120),
				Currency:    "XYZ",
				Description: "dinner",
				Split: domain.SplitMethod{
					Type:         domain.SplitTypeEqual,
					Participants: []string{"alice", "bob"},
				},
			},
			expectError: true,
			errorType:   domain.ErrInvalidCurrency,
		},
		{
			name: "reject percentages that do not sum to 100",
			input: usecase.RecordSharedExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     "alice",
				Amount:      decimal.NewFromInt(100),
				Currency:    "USD",
				Description: "hotel",
				Split: domain.SplitMethod{
					Type: domain.SplitTypePercentage,
					Shares: []domain.Share{
						{UserID: "alice", Percentage: decimal.NewFromInt(60)},
						{UserID: "bob", Percentage: decimal.NewFromInt(30)},
					},
				},
			},
			expectError: true,
			errorType:   domain.ErrInvalidSplit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sharedRepo := mocks.NewMockSharedExpenseRepository()
			personalRepo := mocks.NewMockPersonalExpenseRepository()
			memberRepo := mocks.NewMockMembershipRepository()
			seedTripMembers(memberRepo, "alice", "bob", "carol")

			uc := newExpenseUseCase(sharedRepo, personalRepo, memberRepo)
			expense, err := uc.RecordSharedExpense(context.Background(), tt.input)

			if tt.expectError {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error %v, got %v", tt.errorType, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if expense.ID == "" {
				t.Error("expected generated expense ID")
			}
			if expense.CreatedBy != tt.input.ActorID {
				t.Errorf("created_by = %s, want the acting user %s", expense.CreatedBy, tt.input.ActorID)
			}
			if len(expense.Splits) != len(tt.input.Split.Participants) {
				t.Errorf("expected %d splits, got %d", len(tt.input.Split.Participants), len(expense.Splits))
			}
			for _, split := range expense.Splits {
				if split.ExpenseID != expense.ID {
					t.Errorf("split %s not linked to expense", split.ID)
				}
				if split.UserID == tt.input.PayerID && !split.Paid {
					t.Error("payer's own split should start paid")
				}
			}

			stored, err := sharedRepo.GetByID(context.Background(), expense.ID)
			if err != nil {
				t.Fatalf("expense not persisted: %v", err)
			}
			if !stored.Amount.Equal(domain.NewMoney(tt.input.Amount, tt.input.Currency)) {
				t.Errorf("stored amount %s does not match input", stored.Amount)
			}
		})
	}
}

func TestExpenseUseCase_RecordPersonalExpense(t *testing.T) {
	tests := []struct {
		name        string
		payerID     string
		forUserID   string
		currency    string
		expectError bool
		errorType   error
	}{
		{name: "valid personal expense", payerID: "alice", forUserID: "bob", currency: "USD"},
		{name: "reject payer equals beneficiary", payerID: "alice", forUserID: "alice", currency: "USD", expectError: true, errorType: domain.ErrInvalidExpense},
		{name: "reject non-member beneficiary", payerID: "alice", forUserID: "mallory", currency: "USD", expectError: true, errorType: domain.ErrUnknownParticipant},
		{name: "reject currency different from the trip's", payerID: "alice", forUserID: "bob", currency: "EUR", expectError: true, errorType: domain.ErrCurrencyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sharedRepo := mocks.NewMockSharedExpenseRepository()
			personalRepo := mocks.NewMockPersonalExpenseRepository()
			memberRepo := mocks.NewMockMembershipRepository()
			seedTripMembers(memberRepo, "alice", "bob")

			uc := newExpenseUseCase(sharedRepo, personalRepo, memberRepo)
			expense, err := uc.RecordPersonalExpense(context.Background(), usecase.RecordPersonalExpenseInput{
				TripID:      testTripID,
				ActorID:     "alice",
				PayerID:     tt.payerID,
				ForUserID:   tt.forUserID,
				Amount:      decimal.NewFromInt(30),
				Currency:    tt.currency,
				Description: "taxi from airport",
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
			if expense.Paid {
				t.Error("personal expense should start unpaid")
			}
		})
	}
}

func TestExpenseUseCase_MarkSplitPaid(t *testing.T) {
	record := func(t *testing.T, uc *usecase.ExpenseUseCase) *domain.SharedExpense {
		t.Helper()
		expense, err := uc.RecordSharedExpense(context.Background(), usecase.RecordSharedExpenseInput{
			TripID:      testTripID,
			ActorID:     "alice",
			PayerID:     "alice",
			Amount:      decimal.NewFromInt(90),
			Currency:    "USD",
			Description: "groceries",
			Split: domain.SplitMethod{
				Type:         domain.SplitTypeEqual,
				Participants: []string{"alice", "bob", "carol"},
			},
		})
		if err != nil {
			t.Fatalf("record expense: %v", err)
		}
		return expense
	}

	findSplit := func(t *testing.T, expense *domain.SharedExpense, userID string) domain.Split {
		t.Helper()
		for _, s := range expense.Splits {
			if s.UserID == userID {
				return s
			}
		}
		t.Fatalf("no split for %s", userID)
		return domain.Split{}
	}

	t.Run("debtor marks own split", func(t *testing.T) {
		sharedRepo := mocks.NewMockSharedExpenseRepository()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob", "carol")
		uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

		expense := record(t, uc)
		split := findSplit(t, expense, "bob")

		updated, err := uc.MarkSplitPaid(context.Background(), split.ID, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.Paid {
			t.Error("split should be paid")
		}
	})

	t.Run("organizer marks another member's split", func(t *testing.T) {
		sharedRepo := mocks.NewMockSharedExpenseRepository()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob", "carol")
		uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

		expense := record(t, uc)
		split := findSplit(t, expense, "carol")

		if _, err := uc.MarkSplitPaid(context.Background(), split.ID, "alice"); err != nil {
			t.Fatalf("organizer should be allowed: %v", err)
		}
	})

	t.Run("unrelated member is rejected", func(t *testing.T) {
		sharedRepo := mocks.NewMockSharedExpenseRepository()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob", "carol")
		uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

		expense := record(t, uc)
		split := findSplit(t, expense, "bob")

		_, err := uc.MarkSplitPaid(context.Background(), split.ID, "carol")
		if !errors.Is(err, domain.ErrNotAllowed) {
			t.Errorf("expected ErrNotAllowed, got %v", err)
		}
	})

	t.Run("marking twice is a no-op", func(t *testing.T) {
		sharedRepo := mocks.NewMockSharedExpenseRepository()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob", "carol")
		uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

		expense := record(t, uc)
		split := findSplit(t, expense, "bob")

		if _, err := uc.MarkSplitPaid(context.Background(), split.ID, "bob"); err != nil {
			t.Fatalf("first mark: %v", err)
		}
		updated, err := uc.MarkSplitPaid(context.Background(), split.ID, "bob")
		if err != nil {
			t.Fatalf("second mark should succeed: %v", err)
		}
		if !updated.Paid {
			t.Error("split should stay paid")
		}
	})

	t.Run("unknown split", func(t *testing.T) {
		sharedRepo := mocks.NewMockSharedExpenseRepository()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob")
		uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

		_, err := uc.MarkSplitPaid(context.Background(), "no-such-split", "bob")
		if !errors.Is(err, domain.ErrSplitNotFound) {
			t.Errorf("expected ErrSplitNotFound, got %v", err)
		}
	})
}

func TestExpenseUseCase_MarkPersonalExpensePaid(t *testing.T) {
	setup := func(t *testing.T) (*usecase.ExpenseUseCase, *domain.PersonalExpense) {
		t.Helper()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob")
		uc := newExpenseUseCase(mocks.NewMockSharedExpenseRepository(), mocks.NewMockPersonalExpenseRepository(), memberRepo)

		expense, err := uc.RecordPersonalExpense(context.Background(), usecase.RecordPersonalExpenseInput{
			TripID:      testTripID,
			ActorID:     "alice",
			PayerID:     "alice",
			ForUserID:   "bob",
			Amount:      decimal.NewFromInt(25),
			Currency:    "USD",
			Description: "museum ticket",
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		return uc, expense
	}

	t.Run("beneficiary marks paid", func(t *testing.T) {
		uc, expense := setup(t)
		updated, err := uc.MarkPersonalExpensePaid(context.Background(), testTripID, expense.ID, "bob")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !updated.Paid {
			t.Error("expense should be paid")
		}
	})

	t.Run("organizer payer marks on beneficiary's behalf", func(t *testing.T) {
		uc, expense := setup(t)
		_, err := uc.MarkPersonalExpensePaid(context.Background(), testTripID, expense.ID, "alice")
		if err != nil {
			t.Fatalf("organizer payer should be allowed: %v", err)
		}
	})

	t.Run("wrong trip id", func(t *testing.T) {
		uc, expense := setup(t)
		_, err := uc.MarkPersonalExpensePaid(context.Background(), "trip-other", expense.ID, "bob")
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound, got %v", err)
		}
	})
}

func TestExpenseUseCase_ListTripExpenses(t *testing.T) {
	memberRepo := mocks.NewMockMembershipRepository()
	seedTripMembers(memberRepo, "alice", "bob")
	sharedRepo := mocks.NewMockSharedExpenseRepository()
	personalRepo := mocks.NewMockPersonalExpenseRepository()
	uc := newExpenseUseCase(sharedRepo, personalRepo, memberRepo)

	base := time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)

	if _, err := uc.RecordSharedExpense(context.Background(), usecase.RecordSharedExpenseInput{
		TripID:      testTripID,
		ActorID:     "alice",
		PayerID:     "alice",
		Amount:      decimal.NewFromInt(50),
		Currency:    "USD",
		Description: "lunch",
		Date:        base,
		Split: domain.SplitMethod{
			Type:         domain.SplitTypeEqual,
			Participants: []string{"alice", "bob"},
		},
	}); err != nil {
		t.Fatalf("record shared: %v", err)
	}

	if _, err := uc.RecordPersonalExpense(context.Background(), usecase.RecordPersonalExpenseInput{
		TripID:      testTripID,
		ActorID:     "alice",
		PayerID:     "alice",
		ForUserID:   "bob",
		Amount:      decimal.NewFromInt(10),
		Currency:    "USD",
		Description: "bus fare",
		Date:        base.Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("record personal: %v", err)
	}

	expenses, err := uc.ListTripExpenses(context.Background(), testTripID, "bob", 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(expenses) != 2 {
		t.Fatalf("expected 2 expenses, got %d", len(expenses))
	}
	if expenses[0].Kind != domain.ExpenseKindPersonal {
		t.Errorf("expected newest (personal) expense first, got %s", expenses[0].Kind)
	}
	if expenses[0].Date().Before(expenses[1].Date()) {
		t.Error("expenses not sorted newest first")
	}

	page, err := uc.ListTripExpenses(context.Background(), testTripID, "bob", 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page) != 1 || page[0].Kind != domain.ExpenseKindShared {
		t.Errorf("expected second page to hold the shared expense, got %d entries", len(page))
	}

	empty, err := uc.ListTripExpenses(context.Background(), testTripID, "bob", 10, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("expected empty page past the end, got %d entries", len(empty))
	}

	if _, err := uc.ListTripExpenses(context.Background(), testTripID, "mallory", 0, 0); !errors.Is(err, domain.ErrNotTripMember) {
		t.Errorf("expected ErrNotTripMember for outsider, got %v", err)
	}
}

func TestExpenseUseCase_GetExpense(t *testing.T) {
	memberRepo := mocks.NewMockMembershipRepository()
	seedTripMembers(memberRepo, "alice", "bob")
	sharedRepo := mocks.NewMockSharedExpenseRepository()
	personalRepo := mocks.NewMockPersonalExpenseRepository()
	uc := newExpenseUseCase(sharedRepo, personalRepo, memberRepo)

	shared, err := uc.RecordSharedExpense(context.Background(), usecase.RecordSharedExpenseInput{
		TripID:      testTripID,
		ActorID:     "alice",
		PayerID:     "alice",
		Amount:      decimal.NewFromInt(50),
		Currency:    "USD",
		Description: "lunch",
		Split: domain.SplitMethod{
			Type:         domain.SplitTypeEqual,
			Participants: []string{"alice", "bob"},
		},
	})
	if err != nil {
		t.Fatalf("record shared: %v", err)
	}

	personal, err := uc.RecordPersonalExpense(context.Background(), usecase.RecordPersonalExpenseInput{
		TripID:      testTripID,
		ActorID:     "alice",
		PayerID:     "alice",
		ForUserID:   "bob",
		Amount:      decimal.NewFromInt(10),
		Currency:    "USD",
		Description: "bus fare",
	})
	if err != nil {
		t.Fatalf("record personal: %v", err)
	}

	got, err := uc.GetExpense(context.Background(), testTripID, shared.ID, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != domain.ExpenseKindShared || got.Shared.ID != shared.ID {
		t.Errorf("expected the shared expense, got %+v", got)
	}

	got, err = uc.GetExpense(context.Background(), testTripID, personal.ID, "bob")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != domain.ExpenseKindPersonal || got.Personal.ID != personal.ID {
		t.Errorf("expected the personal expense, got %+v", got)
	}

	if _, err := uc.GetExpense(context.Background(), "trip-other", shared.ID, "bob"); err == nil {
		t.Error("expected an error when the expense belongs to another trip")
	}

	if _, err := uc.GetExpense(context.Background(), testTripID, "missing", "bob"); !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("expected ErrExpenseNotFound, got %v", err)
	}

	if _, err := uc.GetExpense(context.Background(), testTripID, shared.ID, "mallory"); !errors.Is(err, domain.ErrNotTripMember) {
		t.Errorf("expected ErrNotTripMember for outsider, got %v", err)
	}
}

func TestExpenseUseCase_DeleteExpense(t *testing.T) {
	setup := func(t *testing.T) (*usecase.ExpenseUseCase, *mocks.MockSharedExpenseRepository, *domain.SharedExpense) {
		t.Helper()
		memberRepo := mocks.NewMockMembershipRepository()
		seedTripMembers(memberRepo, "alice", "bob", "carol")
		sharedRepo := mocks.NewMockSharedExpenseRepository()
		uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

		expense, err := uc.RecordSharedExpense(context.Background(), usecase.RecordSharedExpenseInput{
			TripID:      testTripID,
			ActorID:     "bob",
			PayerID:     "bob",
			Amount:      decimal.NewFromInt(60),
			Currency:    "USD",
			Description: "fuel",
			Split: domain.SplitMethod{
				Type:         domain.SplitTypeEqual,
				Participants: []string{"alice", "bob", "carol"},
			},
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
		return uc, sharedRepo, expense
	}

	t.Run("creator deletes", func(t *testing.T) {
		uc, sharedRepo, expense := setup(t)
		if err := uc.DeleteExpense(context.Background(), testTripID, expense.ID, "bob"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := sharedRepo.GetByID(context.Background(), expense.ID); !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Error("expense should be gone")
		}
	})

	t.Run("organizer deletes", func(t *testing.T) {
		uc, _, expense := setup(t)
		if err := uc.DeleteExpense(context.Background(), testTripID, expense.ID, "alice"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("plain member cannot delete", func(t *testing.T) {
		uc, _, expense := setup(t)
		err := uc.DeleteExpense(context.Background(), testTripID, expense.ID, "carol")
		if !errors.Is(err, domain.ErrNotAllowed) {
			t.Errorf("expected ErrNotAllowed, got %v", err)
		}
	})

	t.Run("unknown expense", func(t *testing.T) {
		uc, _, _ := setup(t)
		err := uc.DeleteExpense(context.Background(), testTripID, "no-such-expense", "alice")
		if !errors.Is(err, domain.ErrExpenseNotFound) {
			t.Errorf("expected ErrExpenseNotFound, got %v", err)
		}
	})
}

func TestExpenseUseCase_UpdateSharedExpenseInfo(t *testing.T) {
	memberRepo := mocks.NewMockMembershipRepository()
	seedTripMembers(memberRepo, "alice", "bob")
	sharedRepo := mocks.NewMockSharedExpenseRepository()
	uc := newExpenseUseCase(sharedRepo, mocks.NewMockPersonalExpenseRepository(), memberRepo)

	expense, err := uc.RecordSharedExpense(context.Background(), usecase.RecordSharedExpenseInput{
		TripID:      testTripID,
		ActorID:     "bob",
		PayerID:     "bob",
		Amount:      decimal.NewFromInt(40),
		Currency:    "USD",
		Description: "snacks",
		Split: domain.SplitMethod{
			Type:         domain.SplitTypeEqual,
			Participants: []string{"alice", "bob"},
		},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	newDesc := "road trip snacks"
	newCategory := "food"
	updated, err := uc.UpdateSharedExpenseInfo(context.Background(), usecase.UpdateSharedExpenseInfoInput{
		TripID:      testTripID,
		ExpenseID:   expense.ID,
		ActorID:     "bob",
		Description: &newDesc,
		Category:    &newCategory,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Description != newDesc || updated.Category != newCategory {
		t.Errorf("fields not updated: %q %q", updated.Description, updated.Category)
	}
	if !updated.Amount.Equal(expense.Amount) {
		t.Error("amount must not change through info update")
	}

	tooLong := make([]byte, 300)
	for i := range tooLong {
		tooLong[i] = 'x'
	}
	bad := string(tooLong)
	if _, err := uc.UpdateSharedExpenseInfo(context.Background(), usecase.UpdateSharedExpenseInfoInput{
		TripID:      testTripID,
		ExpenseID:   expense.ID,
		ActorID:     "bob",
		Description: &bad,
	}); !errors.Is(err, domain.ErrInvalidDescription) {
		t.Errorf("expected ErrInvalidDescription, got %v", err)
	}
}
