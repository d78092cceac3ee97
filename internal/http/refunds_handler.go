package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/go-chi/chi/v5"
)

type RefundsAPI interface {
	CreateRefundReturn(ctx context.Context, req domain.RefundReturnRequest) (*domain.RefundReturn, error)
	TransitionRefundReturn(ctx context.Context, id, action string) error
}

type RefundsHandler struct {
	api     RefundsAPI
	timeout time.Duration
}

func NewRefundsHandler(api RefundsAPI, timeout time.Duration) *RefundsHandler {
	return &RefundsHandler{
		api:     api,
		timeout: timeout,
	}
}

func (h *RefundsHandler) CreateRefundReturn(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req domain.RefundReturnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.SaleID == "" {
		respondError(w, http.StatusBadRequest, "invalid_sale_id", "sale_id is required")
		return
	}
	if len(req.Items) == 0 {
		respondError(w, http.StatusBadRequest, "invalid_items", "at least one item is required")
		return
	}
	if req.RestockingFee < 0 {
		respondError(w, http.StatusBadRequest, "invalid_restocking_fee", "restocking_fee must not be negative")
		return
	}

	created, err := h.api.CreateRefundReturn(ctx, req)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, created)
}

func (h *RefundsHandler) Transition(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id := chi.URLParam(r, "refund_id")
	action := chi.URLParam(r, "action")

	if err := h.api.TransitionRefundReturn(ctx, id, action); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": action})
}
