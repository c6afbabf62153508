package usecase

import (
	"context"
	"time"

	"github.com/almori/tripledger/internal/domain"
)

// TripRepository defines data access for trips.
type TripRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Trip, error)
}

// MembershipRepository defines data access for trip memberships.
type MembershipRepository interface {
	IsMember(ctx context.Context, tripID, userID string) (bool, error)
	IsOrganizer(ctx context.Context, tripID, userID string) (bool, error)
	ListMembers(ctx context.Context, tripID string) ([]*domain.TripMember, error)
}

// UserRepository defines the user lookup used for report formatting.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error)
}

// SharedExpenseRepository defines data access for shared expenses and their
// splits. A shared expense owns its splits: Create persists both, Delete
// cascades.
type SharedExpenseRepository interface {
	Create(ctx context.Context, tx Transaction, expense *domain.SharedExpense) error
	GetByID(ctx context.Context, id string) (*domain.SharedExpense, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.SharedExpense, error)
	UpdateInfo(ctx context.Context, expense *domain.SharedExpense) error
	Delete(ctx context.Context, tx Transaction, id string) error
	GetSplitByID(ctx context.Context, splitID string) (*domain.Split, error)
	UpdateSplitPaid(ctx context.Context, splitID string, paid bool) error
}

// PersonalExpenseRepository defines data access for personal expenses.
type PersonalExpenseRepository interface {
	Create(ctx context.Context, expense *domain.PersonalExpense) error
	GetByID(ctx context.Context, id string) (*domain.PersonalExpense, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.PersonalExpense, error)
	UpdatePaid(ctx context.Context, id string, paid bool) error
	Delete(ctx context.Context, id string) error
}

// SettlementRepository defines data access for settlements.
type SettlementRepository interface {
	Create(ctx context.Context, settlement *domain.Settlement) error
	GetByID(ctx context.Context, id string) (*domain.Settlement, error)
	ListByTrip(ctx context.Context, tripID string) ([]*domain.Settlement, error)
	ListByTripAndStatus(ctx context.Context, tripID string, status domain.SettlementStatus) ([]*domain.Settlement, error)
	ListByTripAndUser(ctx context.Context, tripID, userID string) ([]*domain.Settlement, error)
	UpdateStatus(ctx context.Context, id string, status domain.SettlementStatus, settledAt *time.Time) error
	Delete(ctx context.Context, id string) error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for derived data such as balance reports.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
