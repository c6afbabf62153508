package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
)

// MockTripRepository is a mock implementation of TripRepository.
type MockTripRepository struct {
	mu    sync.RWMutex
	trips map[string]*domain.Trip

	GetByIDFunc func(ctx context.Context, id string) (*domain.Trip, error)
}

func NewMockTripRepository() *MockTripRepository {
	return &MockTripRepository{
		trips: make(map[string]*domain.Trip),
	}
}

// AddTrip seeds the in-memory store.
func (m *MockTripRepository) AddTrip(trip *domain.Trip) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trips[trip.ID] = trip
}

func (m *MockTripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if trip, ok := m.trips[id]; ok {
		return trip, nil
	}
	return nil, domain.ErrTripNotFound
}

// MockMembershipRepository is a mock implementation of MembershipRepository.
type MockMembershipRepository struct {
	mu      sync.RWMutex
	members map[string][]*domain.TripMember

	IsMemberFunc    func(ctx context.Context, tripID, userID string) (bool, error)
	IsOrganizerFunc func(ctx context.Context, tripID, userID string) (bool, error)
	ListMembersFunc func(ctx context.Context, tripID string) ([]*domain.TripMember, error)
}

func NewMockMembershipRepository() *MockMembershipRepository {
	return &MockMembershipRepository{
		members: make(map[string][]*domain.TripMember),
	}
}

// AddMember seeds the in-memory store.
func (m *MockMembershipRepository) AddMember(tripID, userID string, role domain.MemberRole) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[tripID] = append(m.members[tripID], &domain.TripMember{
		TripID:   tripID,
		UserID:   userID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	})
}

func (m *MockMembershipRepository) IsMember(ctx context.Context, tripID, userID string) (bool, error) {
	if m.IsMemberFunc != nil {
		return m.IsMemberFunc(ctx, tripID, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members[tripID] {
		if member.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockMembershipRepository) IsOrganizer(ctx context.Context, tripID, userID string) (bool, error) {
	if m.IsOrganizerFunc != nil {
		return m.IsOrganizerFunc(ctx, tripID, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, member := range m.members[tripID] {
		if member.UserID == userID && member.Role == domain.MemberRoleOrganizer {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockMembershipRepository) ListMembers(ctx context.Context, tripID string) ([]*domain.TripMember, error) {
	if m.ListMembersFunc != nil {
		return m.ListMembersFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.TripMember(nil), m.members[tripID]...), nil
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mu    sync.RWMutex
	users map[string]*domain.User

	GetByIDFunc  func(ctx context.Context, id string) (*domain.User, error)
	GetByIDsFunc func(ctx context.Context, ids []string) (map[string]*domain.User, error)
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users: make(map[string]*domain.User),
	}
}

// AddUser seeds the in-memory store.
func (m *MockUserRepository) AddUser(user *domain.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = user
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) (map[string]*domain.User, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			out[id] = user
		}
	}
	return out, nil
}

// MockSharedExpenseRepository is a mock implementation of
// SharedExpenseRepository.
type MockSharedExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.SharedExpense

	CreateFunc          func(ctx context.Context, tx usecase.Transaction, expense *domain.SharedExpense) error
	GetByIDFunc         func(ctx context.Context, id string) (*domain.SharedExpense, error)
	ListByTripFunc      func(ctx context.Context, tripID string) ([]*domain.SharedExpense, error)
	UpdateInfoFunc      func(ctx context.Context, expense *domain.SharedExpense) error
	DeleteFunc          func(ctx context.Context, tx usecase.Transaction, id string) error
	GetSplitByIDFunc    func(ctx context.Context, splitID string) (*domain.Split, error)
	UpdateSplitPaidFunc func(ctx context.Context, splitID string, paid bool) error
}

func NewMockSharedExpenseRepository() *MockSharedExpenseRepository {
	return &MockSharedExpenseRepository{
		expenses: make(map[string]*domain.SharedExpense),
	}
}

func (m *MockSharedExpenseRepository) Create(ctx context.Context, tx usecase.Transaction, expense *domain.SharedExpense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockSharedExpenseRepository) GetByID(ctx context.Context, id string) (*domain.SharedExpense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockSharedExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.SharedExpense, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.SharedExpense
	for _, e := range m.expenses {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockSharedExpenseRepository) UpdateInfo(ctx context.Context, expense *domain.SharedExpense) error {
	if m.UpdateInfoFunc != nil {
		return m.UpdateInfoFunc(ctx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[expense.ID]; !ok {
		return domain.ErrExpenseNotFound
	}
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockSharedExpenseRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

func (m *MockSharedExpenseRepository) GetSplitByID(ctx context.Context, splitID string) (*domain.Split, error) {
	if m.GetSplitByIDFunc != nil {
		return m.GetSplitByIDFunc(ctx, splitID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.expenses {
		for i := range e.Splits {
			if e.Splits[i].ID == splitID {
				return &e.Splits[i], nil
			}
		}
	}
	return nil, domain.ErrSplitNotFound
}

func (m *MockSharedExpenseRepository) UpdateSplitPaid(ctx context.Context, splitID string, paid bool) error {
	if m.UpdateSplitPaidFunc != nil {
		return m.UpdateSplitPaidFunc(ctx, splitID, paid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.expenses {
		for i := range e.Splits {
			if e.Splits[i].ID == splitID {
				e.Splits[i].Paid = paid
				return nil
			}
		}
	}
	return domain.ErrSplitNotFound
}

// MockPersonalExpenseRepository is a mock implementation of
// PersonalExpenseRepository.
type MockPersonalExpenseRepository struct {
	mu       sync.RWMutex
	expenses map[string]*domain.PersonalExpense

	CreateFunc     func(ctx context.Context, expense *domain.PersonalExpense) error
	GetByIDFunc    func(ctx context.Context, id string) (*domain.PersonalExpense, error)
	ListByTripFunc func(ctx context.Context, tripID string) ([]*domain.PersonalExpense, error)
	UpdatePaidFunc func(ctx context.Context, id string, paid bool) error
	DeleteFunc     func(ctx context.Context, id string) error
}

func NewMockPersonalExpenseRepository() *MockPersonalExpenseRepository {
	return &MockPersonalExpenseRepository{
		expenses: make(map[string]*domain.PersonalExpense),
	}
}

func (m *MockPersonalExpenseRepository) Create(ctx context.Context, expense *domain.PersonalExpense) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, expense)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expenses[expense.ID] = expense
	return nil
}

func (m *MockPersonalExpenseRepository) GetByID(ctx context.Context, id string) (*domain.PersonalExpense, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.expenses[id]; ok {
		return e, nil
	}
	return nil, domain.ErrExpenseNotFound
}

func (m *MockPersonalExpenseRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.PersonalExpense, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.PersonalExpense
	for _, e := range m.expenses {
		if e.TripID == tripID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockPersonalExpenseRepository) UpdatePaid(ctx context.Context, id string, paid bool) error {
	if m.UpdatePaidFunc != nil {
		return m.UpdatePaidFunc(ctx, id, paid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.expenses[id]; ok {
		e.Paid = paid
		return nil
	}
	return domain.ErrExpenseNotFound
}

func (m *MockPersonalExpenseRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(m.expenses, id)
	return nil
}

// MockSettlementRepository is a mock implementation of SettlementRepository.
type MockSettlementRepository struct {
	mu          sync.RWMutex
	settlements map[string]*domain.Settlement

	CreateFunc              func(ctx context.Context, settlement *domain.Settlement) error
	GetByIDFunc             func(ctx context.Context, id string) (*domain.Settlement, error)
	ListByTripFunc          func(ctx context.Context, tripID string) ([]*domain.Settlement, error)
	ListByTripAndStatusFunc func(ctx context.Context, tripID string, status domain.SettlementStatus) ([]*domain.Settlement, error)
	ListByTripAndUserFunc   func(ctx context.Context, tripID, userID string) ([]*domain.Settlement, error)
	UpdateStatusFunc        func(ctx context.Context, id string, status domain.SettlementStatus, settledAt *time.Time) error
	DeleteFunc              func(ctx context.Context, id string) error
}

func NewMockSettlementRepository() *MockSettlementRepository {
	return &MockSettlementRepository{
		settlements: make(map[string]*domain.Settlement),
	}
}

func (m *MockSettlementRepository) Create(ctx context.Context, settlement *domain.Settlement) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, settlement)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settlements[settlement.ID] = settlement
	return nil
}

func (m *MockSettlementRepository) GetByID(ctx context.Context, id string) (*domain.Settlement, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.settlements[id]; ok {
		return s, nil
	}
	return nil, domain.ErrSettlementNotFound
}

func (m *MockSettlementRepository) ListByTrip(ctx context.Context, tripID string) ([]*domain.Settlement, error) {
	if m.ListByTripFunc != nil {
		return m.ListByTripFunc(ctx, tripID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Settlement
	for _, s := range m.settlements {
		if s.TripID == tripID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSettlementRepository) ListByTripAndStatus(ctx context.Context, tripID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	if m.ListByTripAndStatusFunc != nil {
		return m.ListByTripAndStatusFunc(ctx, tripID, status)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Settlement
	for _, s := range m.settlements {
		if s.TripID == tripID && s.Status == status {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSettlementRepository) ListByTripAndUser(ctx context.Context, tripID, userID string) ([]*domain.Settlement, error) {
	if m.ListByTripAndUserFunc != nil {
		return m.ListByTripAndUserFunc(ctx, tripID, userID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.Settlement
	for _, s := range m.settlements {
		if s.TripID == tripID && (s.FromUserID == userID || s.ToUserID == userID) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSettlementRepository) UpdateStatus(ctx context.Context, id string, status domain.SettlementStatus, settledAt *time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, id, status, settledAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.settlements[id]; ok {
		s.Status = status
		s.SettledAt = settledAt
		return nil
	}
	return domain.ErrSettlementNotFound
}

func (m *MockSettlementRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.settlements[id]; !ok {
		return domain.ErrSettlementNotFound
	}
	delete(m.settlements, id)
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
type MockTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &MockTransaction{}, nil
}

// MockTransaction is a mock implementation of Transaction.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockCache is a mock implementation of Cache.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc    func(ctx context.Context, key string) ([]byte, error)
	SetFunc    func(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeleteFunc func(ctx context.Context, key string) error
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}
