package checkout

import (
	"strconv"

	"github.com/fjod/pos_terminal/internal/domain"
)

const (
	minPaymentTermDays = 1
	maxPaymentTermDays = 365
)

// validate runs the ordered precondition checks. The first failing check
// aborts with its sentinel error; nothing is aggregated.
func validate(cart *domain.Cart, saleType domain.SaleType, clientID, enteredAmount, paymentTerm string) (termDays int, err error) {
	if cart.IsEmpty() {
		return 0, domain.ErrEmptyCart
	}

	if saleType.RequiresClient() && clientID == "" {
		return 0, domain.ErrCustomerRequired
	}

	if saleType == domain.SaleTypePartial {
		amount := domain.ParseAmount(enteredAmount)
		if amount <= 0 {
			return 0, domain.ErrInvalidPartialAmount
		}
		// equal-or-greater amounts must use a full sale instead
		if amount >= cart.Totals().GrandTotal {
			return 0, domain.ErrPartialExceedsTotal
		}
	}

	if saleType.RequiresPaymentTerm() {
		days, errParse := strconv.Atoi(paymentTerm)
		if errParse != nil || days < minPaymentTermDays || days > maxPaymentTermDays {
			return 0, domain.ErrInvalidPaymentTerm
		}
		termDays = days
	}

	return termDays, nil
}
