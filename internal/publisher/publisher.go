package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/segmentio/kafka-go"
)

// SaleRecordedEvent is published once per successful checkout, keyed by
// invoice number so replays for the same sale land on one partition.
type SaleRecordedEvent struct {
	InvoiceNumber string            `json:"invoice_number"`
	RegisterID    string            `json:"register_id"`
	SaleType      domain.SaleType   `json:"sale_type"`
	PaymentMethod string            `json:"payment_method"`
	TotalAmount   float64           `json:"total_amount"`
	AmountPaid    float64           `json:"amount_paid"`
	BalanceDue    float64           `json:"balance_due"`
	Items         []domain.CartLine `json:"items"`
	RecordedAt    time.Time         `json:"recorded_at"`
}

type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers ...string) *Publisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "pos-sales",
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &Publisher{writer: w}
}

func (p *Publisher) SaleRecorded(ctx context.Context, event SaleRecordedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal sale event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(event.InvoiceNumber),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("sale.recorded")},
		},
	}

	return p.writer.WriteMessages(ctx, msg)
}

func (p *Publisher) Close() {
	err := p.writer.Close()
	if err != nil {
		fmt.Printf("error closing kafka writer: %v\n", err)
	}
}
