package domain

import (
	"strconv"
	"time"
)

type SaleType string

const (
	SaleTypeFull     SaleType = "full"
	SaleTypeDeferred SaleType = "deferred"
	SaleTypePartial  SaleType = "partial"
)

func ParseSaleType(s string) (SaleType, error) {
	switch SaleType(s) {
	case SaleTypeFull, SaleTypeDeferred, SaleTypePartial:
		return SaleType(s), nil
	default:
		return "", ErrInvalidSaleType
	}
}

// RequiresClient reports whether the sale type leaves an outstanding debt
// that must be tracked against a customer.
func (t SaleType) RequiresClient() bool {
	return t == SaleTypeDeferred || t == SaleTypePartial
}

func (t SaleType) RequiresPaymentTerm() bool {
	return t == SaleTypeDeferred || t == SaleTypePartial
}

type PaymentPlan struct {
	AmountPaid float64    `json:"amount_paid"`
	BalanceDue float64    `json:"balance_due"`
	DueDate    *time.Time `json:"due_date,omitempty"`
}

// ParseAmount parses free-text amount input as a non-negative number.
// Unparseable or negative input counts as zero.
func ParseAmount(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// ResolvePayment derives amount paid, balance due and the display-only due
// date for a sale type. The due date uses local calendar days.
func ResolvePayment(t SaleType, grandTotal float64, enteredAmount string, termDays int, now time.Time) PaymentPlan {
	switch t {
	case SaleTypeDeferred:
		due := now.AddDate(0, 0, termDays)
		return PaymentPlan{AmountPaid: 0, BalanceDue: grandTotal, DueDate: &due}
	case SaleTypePartial:
		paid := ParseAmount(enteredAmount)
		due := now.AddDate(0, 0, termDays)
		return PaymentPlan{AmountPaid: paid, BalanceDue: grandTotal - paid, DueDate: &due}
	default:
		return PaymentPlan{AmountPaid: grandTotal, BalanceDue: 0}
	}
}
