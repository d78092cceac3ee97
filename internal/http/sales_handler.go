package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/fjod/pos_terminal/internal/throttle"
	"github.com/go-chi/chi/v5"
)

// SalesThrottle fronts the sales list; every fetch goes through the draft
// throttle so auto-confirmation state stays consistent with what the caller
// sees.
type SalesThrottle interface {
	Refresh(ctx context.Context) ([]domain.Sale, error)
	ConfirmManual(ctx context.Context, saleID string) error
	State() throttle.State
	DraftCount() int
	Warning() (string, bool)
}

type SalesHandler struct {
	throttle SalesThrottle
	timeout  time.Duration
}

func NewSalesHandler(t SalesThrottle, timeout time.Duration) *SalesHandler {
	return &SalesHandler{
		throttle: t,
		timeout:  timeout,
	}
}

type SalesListResponse struct {
	Sales         []domain.Sale  `json:"sales"`
	ThrottleState throttle.State `json:"throttle_state"`
	DraftCount    int            `json:"draft_count"`
	Warning       string         `json:"warning,omitempty"`
}

func (h *SalesHandler) ListSales(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	sales, err := h.throttle.Refresh(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	resp := SalesListResponse{
		Sales:         sales,
		ThrottleState: h.throttle.State(),
		DraftCount:    h.throttle.DraftCount(),
	}
	if warning, ok := h.throttle.Warning(); ok {
		resp.Warning = warning
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *SalesHandler) ConfirmSale(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	saleID := chi.URLParam(r, "sale_id")
	if saleID == "" {
		respondError(w, http.StatusBadRequest, "invalid_sale_id", "sale_id is required")
		return
	}

	if err := h.throttle.ConfirmManual(ctx, saleID); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "confirmed"})
}
