package domain

import "time"

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusConfirmed InvoiceStatus = "confirmed"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Sale as returned by the backend sales API. Drafts are transient: they are
// confirmed either by explicit user action or by the draft throttle.
type Sale struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	InvoiceStatus InvoiceStatus `json:"invoice_status"`
	SaleType      SaleType      `json:"sale_type"`
	PaymentMethod string        `json:"payment_method"`
	ClientID      *string       `json:"client_id,omitempty"`
	TotalAmount   float64       `json:"total_amount"`
	AmountPaid    float64       `json:"amount_paid"`
	BalanceDue    float64       `json:"balance_due"`
	CreatedAt     time.Time     `json:"created_at"`
}

func (s Sale) IsDraft() bool {
	return s.InvoiceStatus == InvoiceStatusDraft
}

// SaleDraft is the checkout payload sent to the backend. Built once from the
// cart snapshot and the resolved payment plan, never mutated afterwards.
type SaleDraft struct {
	SaleType        SaleType   `json:"sale_type"`
	PaymentMethod   string     `json:"payment_method"`
	ClientID        *string    `json:"client_id,omitempty"`
	AmountPaid      float64    `json:"amount_paid"`
	TotalAmount     float64    `json:"total_amount"`
	PaymentTermDays *int       `json:"payment_term_days,omitempty"`
	DueDate         *time.Time `json:"due_date,omitempty"`
	Items           []CartLine `json:"items"`
}

type Client struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Debt is one outstanding-balance record for a client, as served by the
// backend debt ledger.
type Debt struct {
	ClientName  string    `json:"client_name"`
	TotalAmount float64   `json:"total_amount"`
	AmountPaid  float64   `json:"amount_paid"`
	BalanceDue  float64   `json:"balance_due"`
	DaysOverdue int       `json:"days_overdue"`
	CreatedAt   time.Time `json:"created_at"`
}

type RefundTransactionType string

const (
	TransactionRefund RefundTransactionType = "refund"
	TransactionReturn RefundTransactionType = "return"
)

type RefundReturnItem struct {
	SaleItemID       string `json:"sale_item_id"`
	QuantityReturned int    `json:"quantity_returned"`
	ItemCondition    string `json:"item_condition"`
}

// RefundReturnRequest opens a refund/return case. The pending → approved →
// processing → completed state machine is owned by the backend; this service
// only issues transition requests and renders the current state.
type RefundReturnRequest struct {
	SaleID          string                `json:"sale_id"`
	TransactionType RefundTransactionType `json:"transaction_type"`
	ReasonCategory  string                `json:"reason_category"`
	Items           []RefundReturnItem    `json:"items"`
	RestockingFee   float64               `json:"restocking_fee"`
}

type RefundReturn struct {
	ID              string                `json:"id"`
	SaleID          string                `json:"sale_id"`
	TransactionType RefundTransactionType `json:"transaction_type"`
	Status          string                `json:"status"`
	RestockingFee   float64               `json:"restocking_fee"`
	CreatedAt       time.Time             `json:"created_at"`
}
