package checkout

import (
	"context"
	"log"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/fjod/pos_terminal/internal/journal"
	"github.com/fjod/pos_terminal/internal/publisher"
	"github.com/google/uuid"
)

// Carts is the slice of the cart service checkout needs.
type Carts interface {
	GetCart(ctx context.Context, registerID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, registerID string) error
}

// SalesAPI submits the assembled draft to the backend.
type SalesAPI interface {
	SubmitSale(ctx context.Context, draft domain.SaleDraft) (string, error)
}

// Recorder appends recorded sales to the local journal.
type Recorder interface {
	Record(ctx context.Context, entry *journal.Entry) error
}

// Events publishes sale-recorded events.
type Events interface {
	SaleRecorded(ctx context.Context, event publisher.SaleRecordedEvent) error
}

// Request carries the raw checkout form. The partial amount and payment term
// arrive as entered text; parsing and bounds checks happen here, not in the
// UI layer.
type Request struct {
	SaleType      string `json:"sale_type"`
	PaymentMethod string `json:"payment_method"`
	ClientID      string `json:"client_id"`
	EnteredAmount string `json:"entered_amount"`
	PaymentTerm   string `json:"payment_term_days"`
}

type Receipt struct {
	InvoiceNumber string             `json:"invoice_number"`
	SaleType      domain.SaleType    `json:"sale_type"`
	Totals        domain.Totals      `json:"totals"`
	Payment       domain.PaymentPlan `json:"payment"`
}

type Service struct {
	carts   Carts
	api     SalesAPI
	journal Recorder // optional
	events  Events   // optional
}

func NewService(carts Carts, api SalesAPI, journal Recorder, events Events) *Service {
	return &Service{
		carts:   carts,
		api:     api,
		journal: journal,
		events:  events,
	}
}

// Checkout validates the cart against the request, submits the sale draft
// once, and clears the register's cart on success. Validation failures leave
// cart and payment state untouched and never reach the network.
func (s *Service) Checkout(ctx context.Context, registerID string, req Request) (*Receipt, error) {
	saleType, err := domain.ParseSaleType(req.SaleType)
	if err != nil {
		return nil, err
	}

	cart, err := s.carts.GetCart(ctx, registerID)
	if err != nil {
		return nil, err
	}

	termDays, err := validate(cart, saleType, req.ClientID, req.EnteredAmount, req.PaymentTerm)
	if err != nil {
		return nil, err
	}

	totals := cart.Totals()
	plan := domain.ResolvePayment(saleType, totals.GrandTotal, req.EnteredAmount, termDays, time.Now())

	draft := domain.SaleDraft{
		SaleType:      saleType,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    plan.AmountPaid,
		TotalAmount:   totals.GrandTotal,
		DueDate:       plan.DueDate,
		Items:         append([]domain.CartLine(nil), cart.Lines...),
	}
	if req.ClientID != "" {
		clientID := req.ClientID
		draft.ClientID = &clientID
	}
	if saleType.RequiresPaymentTerm() {
		days := termDays
		draft.PaymentTermDays = &days
	}

	invoice, err := s.api.SubmitSale(ctx, draft)
	if err != nil {
		return nil, err
	}

	s.recordSale(ctx, registerID, invoice, draft, plan)

	if errClear := s.carts.ClearCart(ctx, registerID); errClear != nil {
		log.Printf("failed to clear cart for register %v after checkout: %v", registerID, errClear)
	}

	return &Receipt{
		InvoiceNumber: invoice,
		SaleType:      saleType,
		Totals:        totals,
		Payment:       plan,
	}, nil
}

// recordSale writes the journal entry and event for a recorded sale. Both
// are best effort: the backend has already accepted the sale.
func (s *Service) recordSale(ctx context.Context, registerID, invoice string, draft domain.SaleDraft, plan domain.PaymentPlan) {
	if s.journal != nil {
		entry := &journal.Entry{
			ID:            uuid.New().String(),
			InvoiceNumber: invoice,
			RegisterID:    registerID,
			SaleType:      draft.SaleType,
			PaymentMethod: draft.PaymentMethod,
			ClientID:      draft.ClientID,
			TotalAmount:   draft.TotalAmount,
			AmountPaid:    plan.AmountPaid,
			BalanceDue:    plan.BalanceDue,
			Items:         draft.Items,
		}
		if err := s.journal.Record(ctx, entry); err != nil {
			log.Printf("failed to journal sale %v: %v", invoice, err)
		}
	}

	if s.events != nil {
		event := publisher.SaleRecordedEvent{
			InvoiceNumber: invoice,
			RegisterID:    registerID,
			SaleType:      draft.SaleType,
			PaymentMethod: draft.PaymentMethod,
			TotalAmount:   draft.TotalAmount,
			AmountPaid:    plan.AmountPaid,
			BalanceDue:    plan.BalanceDue,
			Items:         draft.Items,
			RecordedAt:    time.Now(),
		}
		if err := s.events.SaleRecorded(ctx, event); err != nil {
			log.Printf("failed to publish sale event %v: %v", invoice, err)
		}
	}
}
