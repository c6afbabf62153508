package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/almori/tripledger/internal/domain"
)

// SplitResponse represents one split of a shared expense.
type SplitResponse struct {
	ID         string           `json:"id"`
	UserID     string           `json:"user_id"`
	Amount     decimal.Decimal  `json:"amount"`
	Percentage *decimal.Decimal `json:"percentage,omitempty"`
	Paid       bool             `json:"paid"`
	CreatedAt  time.Time        `json:"created_at"`
}

// SharedExpenseResponse represents a shared expense in API responses.
type SharedExpenseResponse struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	Kind        string          `json:"kind"`
	PayerID     string          `json:"payer_id"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	SplitType   string          `json:"split_type"`
	Splits      []SplitResponse `json:"splits"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// SharedExpenseFromDomain converts a domain shared expense to a response.
func SharedExpenseFromDomain(e *domain.SharedExpense) *SharedExpenseResponse {
	splits := make([]SplitResponse, len(e.Splits))
	for i, s := range e.Splits {
		splits[i] = SplitResponse{
			ID:         s.ID,
			UserID:     s.UserID,
			Amount:     s.Amount.Amount,
			Percentage: s.Percentage,
			Paid:       s.Paid,
			CreatedAt:  s.CreatedAt,
		}
	}
	return &SharedExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Kind:        string(domain.ExpenseKindShared),
		PayerID:     e.PayerID,
		Description: e.Description,
		Category:    e.Category,
		Notes:       e.Notes,
		Amount:      e.Amount.Amount,
		Currency:    e.Amount.Currency,
		SplitType:   string(e.SplitType),
		Splits:      splits,
		Date:        e.Date,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// PersonalExpenseResponse represents a personal expense in API responses.
type PersonalExpenseResponse struct {
	ID          string          `json:"id"`
	TripID      string          `json:"trip_id"`
	Kind        string          `json:"kind"`
	PayerID     string          `json:"payer_id"`
	ForUserID   string          `json:"for_user_id"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Paid        bool            `json:"paid"`
	Date        time.Time       `json:"date"`
	CreatedBy   string          `json:"created_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// PersonalExpenseFromDomain converts a domain personal expense to a response.
func PersonalExpenseFromDomain(e *domain.PersonalExpense) *PersonalExpenseResponse {
	return &PersonalExpenseResponse{
		ID:          e.ID,
		TripID:      e.TripID,
		Kind:        string(domain.ExpenseKindPersonal),
		PayerID:     e.PayerID,
		ForUserID:   e.ForUserID,
		Description: e.Description,
		Category:    e.Category,
		Notes:       e.Notes,
		Amount:      e.Amount.Amount,
		Currency:    e.Amount.Currency,
		Paid:        e.Paid,
		Date:        e.Date,
		CreatedBy:   e.CreatedBy,
		CreatedAt:   e.CreatedAt,
	}
}

// ExpensesFromDomain converts a mixed expense list to responses. Each element
// is either a SharedExpenseResponse or a PersonalExpenseResponse, tagged by
// its kind field.
func ExpensesFromDomain(expenses []domain.Expense) []any {
	result := make([]any, len(expenses))
	for i, e := range expenses {
		switch e.Kind {
		case domain.ExpenseKindShared:
			result[i] = SharedExpenseFromDomain(e.Shared)
		case domain.ExpenseKindPersonal:
			result[i] = PersonalExpenseFromDomain(e.Personal)
		}
	}
	return result
}

// SettlementResponse represents a settlement in API responses.
type SettlementResponse struct {
	ID         string          `json:"id"`
	TripID     string          `json:"trip_id"`
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Status     string          `json:"status"`
	Notes      string          `json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	SettledAt  *time.Time      `json:"settled_at,omitempty"`
}

// SettlementFromDomain converts a domain settlement to a response.
func SettlementFromDomain(s *domain.Settlement) *SettlementResponse {
	return &SettlementResponse{
		ID:         s.ID,
		TripID:     s.TripID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     s.Amount.Amount,
		Currency:   s.Amount.Currency,
		Status:     string(s.Status),
		Notes:      s.Notes,
		CreatedAt:  s.CreatedAt,
		SettledAt:  s.SettledAt,
	}
}

// SettlementsFromDomain converts domain settlements to responses.
func SettlementsFromDomain(settlements []*domain.Settlement) []*SettlementResponse {
	result := make([]*SettlementResponse, len(settlements))
	for i, s := range settlements {
		result[i] = SettlementFromDomain(s)
	}
	return result
}

// MemberBalanceResponse represents one member's position in a report.
type MemberBalanceResponse struct {
	UserID      string          `json:"user_id"`
	DisplayName string          `json:"display_name,omitempty"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	TotalOwed   decimal.Decimal `json:"total_owed"`
	Net         decimal.Decimal `json:"net"`
}

// SuggestedTransferResponse represents one suggested settlement transfer.
type SuggestedTransferResponse struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
}

// BalanceReportResponse represents a trip's balance report.
type BalanceReportResponse struct {
	TripID        string                      `json:"trip_id"`
	TripTitle     string                      `json:"trip_title"`
	Currency      string                      `json:"currency"`
	TotalExpenses decimal.Decimal             `json:"total_expenses"`
	Balances      []MemberBalanceResponse     `json:"balances"`
	Suggestions   []SuggestedTransferResponse `json:"suggestions"`
}

// BalanceReportFromDomain converts a domain balance report to a response.
func BalanceReportFromDomain(r *domain.BalanceReport) *BalanceReportResponse {
	balances := make([]MemberBalanceResponse, len(r.Balances))
	for i, b := range r.Balances {
		balances[i] = MemberBalanceResponse{
			UserID:      b.UserID,
			DisplayName: b.DisplayName,
			TotalPaid:   b.TotalPaid.Amount,
			TotalOwed:   b.TotalOwed.Amount,
			Net:         b.Net.Amount,
		}
	}

	suggestions := make([]SuggestedTransferResponse, len(r.Suggestions))
	for i, s := range r.Suggestions {
		suggestions[i] = SuggestedTransferResponse{
			FromUserID: s.FromUserID,
			ToUserID:   s.ToUserID,
			Amount:     s.Amount.Amount,
		}
	}

	return &BalanceReportResponse{
		TripID:        r.TripID,
		TripTitle:     r.TripTitle,
		Currency:      r.Currency,
		TotalExpenses: r.TotalExpenses.Amount,
		Balances:      balances,
		Suggestions:   suggestions,
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
