package domain

import "errors"

var (
	ErrStockExceeded        = errors.New("requested quantity exceeds available stock")
	ErrLineNotFound         = errors.New("line not found in cart")
	ErrEmptyCart            = errors.New("cart is empty, nothing to checkout")
	ErrCustomerRequired     = errors.New("customer is required for deferred and partial sales")
	ErrInvalidPartialAmount = errors.New("partial amount must be greater than zero")
	ErrPartialExceedsTotal  = errors.New("partial amount must be less than the grand total")
	ErrInvalidPaymentTerm   = errors.New("payment term must be between 1 and 365 days")
	ErrInvalidSaleType      = errors.New("unknown sale type")
)
