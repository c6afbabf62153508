package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almori/tripledger/internal/adapter/http/dto"
	"github.com/almori/tripledger/internal/adapter/http/middleware"
	"github.com/almori/tripledger/internal/usecase"
)

// BalanceHandler handles balance report HTTP requests.
type BalanceHandler struct {
	balanceUC *usecase.BalanceUseCase
}

// NewBalanceHandler creates a new BalanceHandler.
func NewBalanceHandler(balanceUC *usecase.BalanceUseCase) *BalanceHandler {
	return &BalanceHandler{balanceUC: balanceUC}
}

// Get returns the trip's balance report.
func (h *BalanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	report, err := h.balanceUC.ComputeBalance(r.Context(), tripID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceReportFromDomain(report))
}

// GetOptimized returns the balance report with completed settlements folded
// into the nets.
func (h *BalanceHandler) GetOptimized(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	report, err := h.balanceUC.ComputeOptimizedBalance(r.Context(), tripID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute balance", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceReportFromDomain(report))
}
