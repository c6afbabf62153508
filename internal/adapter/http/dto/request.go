package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
)

// ShareItem is one participant's requested share in a split request.
type ShareItem struct {
	UserID     string          `json:"user_id"`
	Percentage decimal.Decimal `json:"percentage,omitempty"`
	Amount     decimal.Decimal `json:"amount,omitempty"`
}

// SplitRequest describes how to divide a shared expense.
type SplitRequest struct {
	Type         string      `json:"type"`
	Participants []string    `json:"participants,omitempty"`
	Shares       []ShareItem `json:"shares,omitempty"`
}

func (r SplitRequest) toDomain(currency string) domain.SplitMethod {
	method := domain.SplitMethod{
		Type:         domain.SplitType(r.Type),
		Participants: r.Participants,
	}
	for _, s := range r.Shares {
		method.Shares = append(method.Shares, domain.Share{
			UserID:     s.UserID,
			Percentage: s.Percentage,
			Amount:     domain.NewMoney(s.Amount, currency),
		})
	}
	return method
}

// RecordSharedExpenseRequest represents a request to record a shared expense.
type RecordSharedExpenseRequest struct {
	PayerID     string          `json:"payer_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
	Split       SplitRequest    `json:"split"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordSharedExpenseRequest) ToUseCaseInput(tripID, actorID string) usecase.RecordSharedExpenseInput {
	input := usecase.RecordSharedExpenseInput{
		TripID:      tripID,
		ActorID:     actorID,
		PayerID:     r.PayerID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
		Category:    r.Category,
		Notes:       r.Notes,
		Split:       r.Split.toDomain(r.Currency),
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

// RecordPersonalExpenseRequest represents a request to record a personal
// expense paid on another member's behalf.
type RecordPersonalExpenseRequest struct {
	PayerID     string          `json:"payer_id"`
	ForUserID   string          `json:"for_user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description"`
	Category    string          `json:"category,omitempty"`
	Notes       string          `json:"notes,omitempty"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordPersonalExpenseRequest) ToUseCaseInput(tripID, actorID string) usecase.RecordPersonalExpenseInput {
	input := usecase.RecordPersonalExpenseInput{
		TripID:      tripID,
		ActorID:     actorID,
		PayerID:     r.PayerID,
		ForUserID:   r.ForUserID,
		Amount:      r.Amount,
		Currency:    r.Currency,
		Description: r.Description,
		Category:    r.Category,
		Notes:       r.Notes,
	}
	if r.Date != nil {
		input.Date = *r.Date
	}
	return input
}

// UpdateExpenseRequest represents an update of an expense's descriptive
// fields. Absent fields are left unchanged.
type UpdateExpenseRequest struct {
	Description *string    `json:"description,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Date        *time.Time `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateExpenseRequest) ToUseCaseInput(tripID, expenseID, actorID string) usecase.UpdateSharedExpenseInfoInput {
	return usecase.UpdateSharedExpenseInfoInput{
		TripID:      tripID,
		ExpenseID:   expenseID,
		ActorID:     actorID,
		Description: r.Description,
		Category:    r.Category,
		Notes:       r.Notes,
		Date:        r.Date,
	}
}

// CreateSettlementRequest represents a request to record a pending
// settlement between two members.
type CreateSettlementRequest struct {
	FromUserID string          `json:"from_user_id"`
	ToUserID   string          `json:"to_user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Notes      string          `json:"notes,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateSettlementRequest) ToUseCaseInput(tripID, actorID string) usecase.CreateSettlementInput {
	return usecase.CreateSettlementInput{
		TripID:     tripID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Amount:     r.Amount,
		Currency:   r.Currency,
		Notes:      r.Notes,
		ActorID:    actorID,
	}
}
