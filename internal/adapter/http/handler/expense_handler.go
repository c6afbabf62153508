package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/almori/tripledger/internal/adapter/http/dto"
	"github.com/almori/tripledger/internal/adapter/http/middleware"
	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
)

// ExpenseHandler handles expense-related HTTP requests.
type ExpenseHandler struct {
	expenseUC *usecase.ExpenseUseCase
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(expenseUC *usecase.ExpenseUseCase) *ExpenseHandler {
	return &ExpenseHandler{expenseUC: expenseUC}
}

// CreateShared records a new shared expense on a trip.
func (h *ExpenseHandler) CreateShared(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var req dto.RecordSharedExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.RecordSharedExpense(r.Context(), req.ToUseCaseInput(tripID, actorID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SharedExpenseFromDomain(expense))
}

// CreatePersonal records a new personal expense on a trip.
func (h *ExpenseHandler) CreatePersonal(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var req dto.RecordPersonalExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.RecordPersonalExpense(r.Context(), req.ToUseCaseInput(tripID, actorID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to record expense", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.PersonalExpenseFromDomain(expense))
}

// List lists all expenses on a trip, newest first.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	expenses, err := h.expenseUC.ListTripExpenses(r.Context(), tripID, actorID, limit, offset)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list expenses", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ExpensesFromDomain(expenses))
}

// Get fetches a single expense, shared or personal.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	expense, err := h.expenseUC.GetExpense(r.Context(), tripID, expenseID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to fetch expense", err.Error())
		return
	}

	switch expense.Kind {
	case domain.ExpenseKindPersonal:
		writeJSON(w, http.StatusOK, dto.PersonalExpenseFromDomain(expense.Personal))
	default:
		writeJSON(w, http.StatusOK, dto.SharedExpenseFromDomain(expense.Shared))
	}
}

// Update updates an expense's descriptive fields.
func (h *ExpenseHandler) Update(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var req dto.UpdateExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	expense, err := h.expenseUC.UpdateSharedExpenseInfo(r.Context(), req.ToUseCaseInput(tripID, expenseID, actorID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to update expense", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SharedExpenseFromDomain(expense))
}

// Delete removes an expense from a trip.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	if err := h.expenseUC.DeleteExpense(r.Context(), tripID, expenseID, actorID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete expense", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkSplitPaid marks one split of a shared expense as paid.
func (h *ExpenseHandler) MarkSplitPaid(w http.ResponseWriter, r *http.Request) {
	splitID := chi.URLParam(r, "splitID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	split, err := h.expenseUC.MarkSplitPaid(r.Context(), splitID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mark split paid", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SplitResponse{
		ID:        split.ID,
		UserID:    split.UserID,
		Amount:    split.Amount.Amount,
		Paid:      split.Paid,
		CreatedAt: split.CreatedAt,
	})
}

// MarkPersonalPaid marks a personal expense as reimbursed.
func (h *ExpenseHandler) MarkPersonalPaid(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	expenseID := chi.URLParam(r, "expenseID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	expense, err := h.expenseUC.MarkPersonalExpensePaid(r.Context(), tripID, expenseID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to mark expense paid", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.PersonalExpenseFromDomain(expense))
}
