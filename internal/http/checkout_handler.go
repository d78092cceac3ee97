package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/fjod/pos_terminal/internal/checkout"
	"github.com/go-chi/chi/v5"
)

type CheckoutService interface {
	Checkout(ctx context.Context, registerID string, req checkout.Request) (*checkout.Receipt, error)
}

type CheckoutHandler struct {
	checkout CheckoutService
	timeout  time.Duration
}

func NewCheckoutHandler(checkout CheckoutService, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		checkout: checkout,
		timeout:  timeout,
	}
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")

	var req checkout.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	receipt, err := h.checkout.Checkout(ctx, registerID, req)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, receipt)
}
