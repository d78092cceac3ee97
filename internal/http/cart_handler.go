package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/go-chi/chi/v5"
)

// CartService is the slice of the cart service the HTTP layer needs.
type CartService interface {
	GetCart(ctx context.Context, registerID string) (*domain.Cart, error)
	AddItem(ctx context.Context, registerID string, p domain.Product) (*domain.Cart, error)
	UpdateQuantity(ctx context.Context, registerID string, productID int64, delta int) (*domain.Cart, error)
	UpdateDiscount(ctx context.Context, registerID string, productID int64, pct float64) (*domain.Cart, error)
	RemoveItem(ctx context.Context, registerID string, productID int64) (*domain.Cart, error)
	ClearCart(ctx context.Context, registerID string) error
}

type CartHandler struct {
	carts   CartService
	timeout time.Duration
}

func NewCartHandler(carts CartService, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:   carts,
		timeout: timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	SKU            string  `json:"sku"`
	UnitPrice      float64 `json:"unit_price"`
	AvailableStock int     `json:"available_stock"`
}

type UpdateQuantityRequestDTO struct {
	Delta int `json:"delta"`
}

type UpdateDiscountRequestDTO struct {
	Percent float64 `json:"discount_percentage"`
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")
	cart, err := h.carts.GetCart(ctx, registerID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.UnitPrice < 0 {
		respondError(w, http.StatusBadRequest, "invalid_unit_price", "unit_price must not be negative")
		return
	}

	cart, err := h.carts.AddItem(ctx, registerID, domain.Product{
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		SKU:            req.SKU,
		UnitPrice:      req.UnitPrice,
		AvailableStock: req.AvailableStock,
	})
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, cart)
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Delta == 0 {
		respondError(w, http.StatusBadRequest, "invalid_delta", "delta must not be zero")
		return
	}

	cart, err := h.carts.UpdateQuantity(ctx, registerID, productID, req.Delta)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req UpdateDiscountRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	// the cart itself drops out-of-range discounts silently; the API caller
	// gets told
	if req.Percent < 0 || req.Percent > 100 {
		respondError(w, http.StatusBadRequest, "invalid_discount", "discount_percentage must be between 0 and 100")
		return
	}

	cart, err := h.carts.UpdateDiscount(ctx, registerID, productID, req.Percent)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.RemoveItem(ctx, registerID, productID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cart)
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	registerID := chi.URLParam(r, "register_id")
	if err := h.carts.ClearCart(ctx, registerID); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "product_id"), 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return 0, false
	}
	return productID, true
}
