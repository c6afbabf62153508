package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/almori/tripledger/internal/adapter/http/dto"
	"github.com/almori/tripledger/internal/adapter/http/middleware"
	"github.com/almori/tripledger/internal/domain"
	"github.com/almori/tripledger/internal/usecase"
)

// SettlementHandler handles settlement-related HTTP requests.
type SettlementHandler struct {
	settlementUC *usecase.SettlementUseCase
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(settlementUC *usecase.SettlementUseCase) *SettlementHandler {
	return &SettlementHandler{settlementUC: settlementUC}
}

// Create records a new pending settlement.
func (h *SettlementHandler) Create(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var req dto.CreateSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	settlement, err := h.settlementUC.CreateSettlement(r.Context(), req.ToUseCaseInput(tripID, actorID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.SettlementFromDomain(settlement))
}

// List lists a trip's settlements, optionally filtered by status or scoped
// to the caller via the mine flag.
func (h *SettlementHandler) List(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	var (
		settlements []*domain.Settlement
		err         error
	)

	switch {
	case r.URL.Query().Get("mine") == "true":
		settlements, err = h.settlementUC.ListMine(r.Context(), tripID, actorID)
	case r.URL.Query().Get("status") != "":
		status := domain.SettlementStatus(r.URL.Query().Get("status"))
		settlements, err = h.settlementUC.ListByStatus(r.Context(), tripID, actorID, status)
	default:
		settlements, err = h.settlementUC.ListByTrip(r.Context(), tripID, actorID)
	}

	if err != nil {
		writeError(w, mapDomainError(err), "failed to list settlements", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementsFromDomain(settlements))
}

// Complete marks a pending settlement as completed.
func (h *SettlementHandler) Complete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	settlementID := chi.URLParam(r, "settlementID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	settlement, err := h.settlementUC.MarkCompleted(r.Context(), tripID, settlementID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to complete settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}

// Cancel voids a pending settlement.
func (h *SettlementHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	settlementID := chi.URLParam(r, "settlementID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	settlement, err := h.settlementUC.Cancel(r.Context(), tripID, settlementID, actorID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to cancel settlement", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SettlementFromDomain(settlement))
}

// Delete removes a settlement record.
func (h *SettlementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	tripID := chi.URLParam(r, "tripID")
	settlementID := chi.URLParam(r, "settlementID")

	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity", "")
		return
	}

	if err := h.settlementUC.Delete(r.Context(), tripID, settlementID, actorID); err != nil {
		writeError(w, mapDomainError(err), "failed to delete settlement", err.Error())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
