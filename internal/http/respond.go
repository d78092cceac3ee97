package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/fjod/pos_terminal/internal/analytics"
	"github.com/fjod/pos_terminal/internal/backend"
	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/fjod/pos_terminal/internal/repository"
	"github.com/sony/gobreaker/v2"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps service-layer errors to HTTP statuses. Upstream API
// errors keep their original status; an open circuit breaker reads as the
// backend being unavailable.
func handleDomainError(w http.ResponseWriter, err error) {
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		respondError(w, apiErr.StatusCode, "upstream_error", apiErr.Message)
		return
	}

	var httpStatus int
	var code string
	switch {
	case errors.Is(err, domain.ErrStockExceeded):
		httpStatus = http.StatusConflict
		code = "stock_exceeded"
	case errors.Is(err, domain.ErrLineNotFound):
		httpStatus = http.StatusNotFound
		code = "line_not_found"
	case errors.Is(err, repository.ErrCartNotFound):
		httpStatus = http.StatusNotFound
		code = "cart_not_found"
	case errors.Is(err, domain.ErrEmptyCart):
		httpStatus = http.StatusBadRequest
		code = "empty_cart"
	case errors.Is(err, domain.ErrCustomerRequired):
		httpStatus = http.StatusBadRequest
		code = "customer_required"
	case errors.Is(err, domain.ErrInvalidPartialAmount):
		httpStatus = http.StatusBadRequest
		code = "invalid_partial_amount"
	case errors.Is(err, domain.ErrPartialExceedsTotal):
		httpStatus = http.StatusBadRequest
		code = "partial_must_be_less_than_total"
	case errors.Is(err, domain.ErrInvalidPaymentTerm):
		httpStatus = http.StatusBadRequest
		code = "invalid_payment_term"
	case errors.Is(err, domain.ErrInvalidSaleType):
		httpStatus = http.StatusBadRequest
		code = "invalid_sale_type"
	case errors.Is(err, analytics.ErrInvalidGranularity):
		httpStatus = http.StatusBadRequest
		code = "invalid_granularity"
	case errors.Is(err, backend.ErrUnknownTransition):
		httpStatus = http.StatusBadRequest
		code = "unknown_transition"
	case errors.Is(err, backend.ErrMissingToken):
		httpStatus = http.StatusUnauthorized
		code = "unauthenticated"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		httpStatus = http.StatusServiceUnavailable
		code = "backend_unavailable"
	default:
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	respondError(w, httpStatus, code, err.Error())
}
