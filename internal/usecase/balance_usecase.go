package usecase

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/infrastructure/metrics"
)

// BalanceUseCase computes per-member balance reports and settlement
// suggestions for a trip.
type BalanceUseCase struct {
	tripRepo       TripRepository
	memberRepo     MembershipRepository
	userRepo       UserRepository
	sharedRepo     SharedExpenseRepository
	personalRepo   PersonalExpenseRepository
	settlementRepo SettlementRepository
	cache          Cache
	cacheTTL       time.Duration
	metrics        *metrics.Metrics
}

// NewBalanceUseCase creates a new BalanceUseCase. cache may be nil to
// disable report caching; metrics may be nil.
func NewBalanceUseCase(
	tripRepo TripRepository,
	memberRepo MembershipRepository,
	userRepo UserRepository,
	sharedRepo SharedExpenseRepository,
	personalRepo PersonalExpenseRepository,
	settlementRepo SettlementRepository,
	cache Cache,
	cacheTTL time.Duration,
	metrics *metrics.Metrics,
) *BalanceUseCase {
	if cacheTTL <= 0 {
		cacheTTL = DefaultBalanceCacheTTL
	}

	return &BalanceUseCase{
		tripRepo:       tripRepo,
		memberRepo:     memberRepo,
		userRepo:       userRepo,
		sharedRepo:     sharedRepo,
		personalRepo:   personalRepo,
		settlementRepo: settlementRepo,
		cache:          cache,
		cacheTTL:       cacheTTL,
		metrics:        metrics,
	}
}

// ComputeBalance returns the trip's balance report: per-member paid/owed/net
// totals plus a minimal set of suggested transfers that settles every debt.
// Reports are cached per trip and invalidated on every expense or settlement
// mutation.
func (uc *BalanceUseCase) ComputeBalance(ctx context.Context, tripID, actorID string) (*domain.BalanceReport, error) {
	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	if cached := uc.cachedReport(ctx, tripID); cached != nil {
		if uc.metrics != nil {
			uc.metrics.BalanceCacheHits.Inc()
		}

		return cached, nil
	}

	start := time.Now()

	report, _, err := uc.buildReport(ctx, tripID)
	if err != nil {
		return nil, err
	}

	uc.storeReport(ctx, tripID, report)

	if uc.metrics != nil {
		uc.metrics.BalanceReports.Inc()
		uc.metrics.BalanceCacheMiss.Inc()
		uc.metrics.BalanceDuration.Observe(time.Since(start).Seconds())
		uc.metrics.TripOutstanding.WithLabelValues(tripID, report.Currency).Set(report.TotalExpenses.Amount.InexactFloat64())
	}

	return report, nil
}

// ComputeOptimizedBalance is ComputeBalance with completed settlements folded
// into the nets before planning, so already-settled debts do not show up as
// suggestions again.
func (uc *BalanceUseCase) ComputeOptimizedBalance(ctx context.Context, tripID, actorID string) (*domain.BalanceReport, error) {
	if err := uc.requireMember(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	report, balances, err := uc.buildReport(ctx, tripID)
	if err != nil {
		return nil, err
	}

	settlements, err := uc.settlementRepo.ListByTripAndStatus(ctx, tripID, domain.SettlementStatusCompleted)
	if err != nil {
		return nil, err
	}

	if err := domain.ApplyCompletedSettlements(balances, settlements); err != nil {
		return nil, err
	}

	report.Balances = sortedBalances(balances)
	report.Suggestions = domain.PlanSettlements(balances)

	return report, nil
}

// buildReport aggregates all trip expenses into a report. It also returns the
// raw balance map so callers can keep adjusting it.
func (uc *BalanceUseCase) buildReport(ctx context.Context, tripID string) (*domain.BalanceReport, map[string]*domain.MemberBalance, error) {
	// 1. Load the trip for its currency and title
	trip, err := uc.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	members, err := uc.memberRepo.ListMembers(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	memberIDs := make([]string, 0, len(members))
	for _, m := range members {
		memberIDs = append(memberIDs, m.UserID)
	}

	// 2. Load every expense on the trip
	shared, err := uc.sharedRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	personal, err := uc.personalRepo.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	// 3. Aggregate and plan
	balances, total, err := domain.AggregateBalances(trip.Currency, memberIDs, shared, personal)
	if err != nil {
		return nil, nil, err
	}

	// 4. Resolve display names for the report
	users, err := uc.userRepo.GetByIDs(ctx, balanceUserIDs(balances))
	if err != nil {
		return nil, nil, err
	}

	for id, balance := range balances {
		if user, ok := users[id]; ok {
			balance.DisplayName = user.DisplayName
		}
	}

	report := &domain.BalanceReport{
		TripID:        tripID,
		TripTitle:     trip.Title,
		Currency:      trip.Currency,
		TotalExpenses: total,
		Balances:      sortedBalances(balances),
		Suggestions:   domain.PlanSettlements(balances),
	}

	return report, balances, nil
}

func (uc *BalanceUseCase) cachedReport(ctx context.Context, tripID string) *domain.BalanceReport {
	if uc.cache == nil {
		return nil
	}

	data, err := uc.cache.Get(ctx, balanceCacheKey(tripID))
	if err != nil || data == nil {
		return nil
	}

	var report domain.BalanceReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil
	}

	return &report
}

func (uc *BalanceUseCase) storeReport(ctx context.Context, tripID string, report *domain.BalanceReport) {
	if uc.cache == nil {
		return
	}

	data, err := json.Marshal(report)
	if err != nil {
		return
	}

	// Best effort: cache failures must not fail the read path.
	_ = uc.cache.Set(ctx, balanceCacheKey(tripID), data, uc.cacheTTL)
}

func (uc *BalanceUseCase) requireMember(ctx context.Context, tripID, userID string) error {
	ok, err := uc.memberRepo.IsMember(ctx, tripID, userID)
	if err != nil {
		return err
	}

	if !ok {
		return domain.ErrNotTripMember
	}

	return nil
}

func balanceUserIDs(balances map[string]*domain.MemberBalance) []string {
	ids := make([]string, 0, len(balances))
	for id := range balances {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func sortedBalances(balances map[string]*domain.MemberBalance) []domain.MemberBalance {
	out := make([]domain.MemberBalance, 0, len(balances))
	for _, b := range balances {
		out = append(out, *b)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UserID < out[j].UserID
	})

	return out
}
