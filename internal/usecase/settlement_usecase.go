package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/infrastructure/metrics"
)

// SettlementUseCase manages the settlement lifecycle: pending transfers
// between members and their completion or cancellation.
type SettlementUseCase struct {
	settlementRepo SettlementRepository
	tripRepo       TripRepository
	memberRepo     MembershipRepository
	idGen          IDGenerator
	cache          Cache
	metrics        *metrics.Metrics
}

// NewSettlementUseCase creates a new SettlementUseCase. cache and metrics
// may be nil.
func NewSettlementUseCase(
	settlementRepo SettlementRepository,
	tripRepo TripRepository,
	memberRepo MembershipRepository,
	idGen IDGenerator,
	cache Cache,
	metrics *metrics.Metrics,
) *SettlementUseCase {
	return &SettlementUseCase{
		settlementRepo: settlementRepo,
		tripRepo:       tripRepo,
		memberRepo:     memberRepo,
		idGen:          idGen,
		cache:          cache,
		metrics:        metrics,
	}
}

// CreateSettlementInput represents input for recording a pending settlement.
type CreateSettlementInput struct {
	TripID     string
	FromUserID string
	ToUserID   string
	Amount     decimal.Decimal
	Currency   string
	Notes      string
	ActorID    string
}

// CreateSettlement records a pending transfer from one member to another.
// The actor must be a party to the transfer or a trip organizer.
func (uc *SettlementUseCase) CreateSettlement(ctx context.Context, input CreateSettlementInput) (*domain.Settlement, error) {
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	if err := domain.ValidateExpenseAmount(input.Amount); err != nil {
		return nil, err
	}

	// Settlements repay debts computed in the trip's currency, so they must
	// be denominated in it too.
	trip, err := uc.tripRepo.GetByID(ctx, input.TripID)
	if err != nil {
		return nil, err
	}

	if trip.Currency != input.Currency {
		return nil, fmt.Errorf("%w: trip is denominated in %s", domain.ErrCurrencyMismatch, trip.Currency)
	}

	for _, userID := range []string{input.FromUserID, input.ToUserID} {
		ok, err := uc.memberRepo.IsMember(ctx, input.TripID, userID)
		if err != nil {
			return nil, err
		}

		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownParticipant, userID)
		}
	}

	if err := uc.requirePartyOrOrganizer(ctx, input.TripID, input.ActorID, input.FromUserID, input.ToUserID); err != nil {
		return nil, err
	}

	settlement := &domain.Settlement{
		ID:         uc.idGen.Generate(),
		TripID:     input.TripID,
		FromUserID: input.FromUserID,
		ToUserID:   input.ToUserID,
		Amount:     domain.NewMoney(input.Amount, input.Currency),
		Status:     domain.SettlementStatusPending,
		Notes:      input.Notes,
		CreatedAt:  time.Now().UTC(),
	}

	if err := settlement.Validate(); err != nil {
		return nil, err
	}

	if err := uc.settlementRepo.Create(ctx, settlement); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.SettlementsCreated.Inc()
		uc.metrics.SettlementAmount.Observe(input.Amount.InexactFloat64())
	}

	return settlement, nil
}

// MarkCompleted marks a pending settlement as completed and stamps the
// settlement time. Only the receiving member or a trip organizer can confirm
// that the money actually arrived.
func (uc *SettlementUseCase) MarkCompleted(ctx context.Context, tripID, settlementID, actorID string) (*domain.Settlement, error) {
	settlement, err := uc.loadTripSettlement(ctx, tripID, settlementID)
	if err != nil {
		return nil, err
	}

	if err := uc.requirePartyOrOrganizer(ctx, tripID, actorID, settlement.ToUserID); err != nil {
		return nil, err
	}

	if !settlement.CanTransition(domain.SettlementStatusCompleted) {
		return nil, domain.ErrSettlementFinalized
	}

	now := time.Now().UTC()
	if err := uc.settlementRepo.UpdateStatus(ctx, settlementID, domain.SettlementStatusCompleted, &now); err != nil {
		return nil, err
	}

	settlement.Status = domain.SettlementStatusCompleted
	settlement.SettledAt = &now

	uc.invalidateBalance(ctx, tripID)

	if uc.metrics != nil {
		uc.metrics.SettlementsCompleted.Inc()
	}

	return settlement, nil
}

// Cancel voids a pending settlement. Either party or a trip organizer may
// cancel; completed settlements cannot be cancelled.
func (uc *SettlementUseCase) Cancel(ctx context.Context, tripID, settlementID, actorID string) (*domain.Settlement, error) {
	settlement, err := uc.loadTripSettlement(ctx, tripID, settlementID)
	if err != nil {
		return nil, err
	}

	if err := uc.requirePartyOrOrganizer(ctx, tripID, actorID, settlement.FromUserID, settlement.ToUserID); err != nil {
		return nil, err
	}

	if !settlement.CanTransition(domain.SettlementStatusCancelled) {
		return nil, domain.ErrSettlementFinalized
	}

	if err := uc.settlementRepo.UpdateStatus(ctx, settlementID, domain.SettlementStatusCancelled, nil); err != nil {
		return nil, err
	}

	settlement.Status = domain.SettlementStatusCancelled

	if uc.metrics != nil {
		uc.metrics.SettlementsCancelled.Inc()
	}

	return settlement, nil
}

// Delete removes a settlement record entirely. Either party or a trip
// organizer may delete; deleting a completed settlement also removes its
// effect on the optimized balance, so the caller must mean it.
func (uc *SettlementUseCase) Delete(ctx context.Context, tripID, settlementID, actorID string) error {
	settlement, err := uc.loadTripSettlement(ctx, tripID, settlementID)
	if err != nil {
		return err
	}

	if err := uc.requirePartyOrOrganizer(ctx, tripID, actorID, settlement.FromUserID, settlement.ToUserID); err != nil {
		return err
	}

	if err := uc.settlementRepo.Delete(ctx, settlementID); err != nil {
		return err
	}

	if settlement.Status == domain.SettlementStatusCompleted {
		uc.invalidateBalance(ctx, tripID)
	}

	return nil
}

// ListByTrip returns all of a trip's settlements.
func (uc *SettlementUseCase) ListByTrip(ctx context.Context, tripID, actorID string) ([]*domain.Settlement, error) {
	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return uc.settlementRepo.ListByTrip(ctx, tripID)
}

// ListByStatus returns a trip's settlements filtered by status.
func (uc *SettlementUseCase) ListByStatus(ctx context.Context, tripID, actorID string, status domain.SettlementStatus) ([]*domain.Settlement, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return uc.settlementRepo.ListByTripAndStatus(ctx, tripID, status)
}

// ListMine returns the settlements the actor is a party to, on either side.
func (uc *SettlementUseCase) ListMine(ctx context.Context, tripID, actorID string) ([]*domain.Settlement, error) {
	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	return uc.settlementRepo.ListByTripAndUser(ctx, tripID, actorID)
}

func (uc *SettlementUseCase) loadTripSettlement(ctx context.Context, tripID, settlementID string) (*domain.Settlement, error) {
	settlement, err := uc.settlementRepo.GetByID(ctx, settlementID)
	if err != nil {
		return nil, err
	}

	if settlement.TripID != tripID {
		return nil, domain.ErrSettlementNotFound
	}

	return settlement, nil
}

func (uc *SettlementUseCase) requireMember(ctx context.Context, tripID, userID string) error {
	ok, err := uc.memberRepo.IsMember(ctx, tripID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return domain.ErrNotTripMember
	}

	return nil
}

func (uc *SettlementUseCase) requirePartyOrOrganizer(ctx context.Context, tripID, actorID string, parties ...string) error {
	for _, p := range parties {
		if actorID == p {
			return nil
		}
	}

	organizer, err := uc.memberRepo.IsOrganizer(ctx, tripID, actorID)
	if err != nil {
		return err
	}

	if !organizer {
		return fmt.Errorf("%w: only an involved member or a trip organizer can do this", domain.ErrNotAllowed)
	}

	return nil
}

func (uc *SettlementUseCase) invalidateBalance(ctx context.Context, tripID string) {
	if uc.cache == nil {
		return
	}

	_ = uc.cache.Delete(ctx, balanceCacheKey(tripID))
}
