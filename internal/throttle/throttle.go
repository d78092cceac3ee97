package throttle

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fjod/pos_terminal/internal/domain"
)

// DefaultThreshold is the largest draft backlog that still gets
// auto-confirmed. Above it the throttle suspends itself so a burst of drafts
// does not turn into a burst of confirmation calls against the backend's
// rate limiter.
const DefaultThreshold = 2

type State string

const (
	StateIdle           State = "idle"
	StateAutoConfirming State = "auto_confirming"
	StateSuspended      State = "suspended"
)

type SalesAPI interface {
	ListSales(ctx context.Context, storeID string) ([]domain.Sale, error)
	ConfirmSale(ctx context.Context, saleID string) error
}

// ConfirmResult is the outcome of one confirmation attempt inside a batch.
// Failures are collected, never short-circuited.
type ConfirmResult struct {
	SaleID string
	Err    error
}

type Throttle struct {
	api       SalesAPI
	storeID   string
	threshold int

	mu          sync.Mutex
	state       State
	draftCount  int
	lastResults []ConfirmResult
}

func New(api SalesAPI, storeID string, threshold int) *Throttle {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Throttle{
		api:       api,
		storeID:   storeID,
		threshold: threshold,
		state:     StateIdle,
	}
}

// Refresh fetches the sales list and runs one throttle pass. Holding the
// lock across the pass serializes confirmation batches; the sequential loop
// is deliberate rate-limit avoidance, not a data-consistency requirement.
func (t *Throttle) Refresh(ctx context.Context) ([]domain.Sale, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sales, err := t.api.ListSales(ctx, t.storeID)
	if err != nil {
		return nil, err
	}

	var drafts []domain.Sale
	for _, sale := range sales {
		if sale.IsDraft() {
			drafts = append(drafts, sale)
		}
	}
	t.draftCount = len(drafts)

	if len(drafts) == 0 {
		t.state = StateIdle
		return sales, nil
	}

	if len(drafts) > t.threshold {
		t.state = StateSuspended
		log.Printf("draft throttle suspended: %d drafts exceed threshold %d", len(drafts), t.threshold)
		return sales, nil
	}

	t.state = StateAutoConfirming
	results := make([]ConfirmResult, 0, len(drafts))
	for _, draft := range drafts {
		// one at a time, in list order; a failed confirmation must not
		// abort the rest of the batch
		errConfirm := t.api.ConfirmSale(ctx, draft.ID)
		if errConfirm != nil {
			log.Printf("failed to auto-confirm sale %v: %v", draft.ID, errConfirm)
		}
		results = append(results, ConfirmResult{SaleID: draft.ID, Err: errConfirm})
	}
	t.lastResults = results

	refreshed, errList := t.api.ListSales(ctx, t.storeID)
	t.state = StateIdle
	t.draftCount = 0
	if errList != nil {
		log.Printf("failed to refresh sales after auto-confirm: %v", errList)
		return sales, nil
	}
	return refreshed, nil
}

// ConfirmManual confirms one sale on explicit user action. Always permitted,
// whatever state the throttle is in.
func (t *Throttle) ConfirmManual(ctx context.Context, saleID string) error {
	return t.api.ConfirmSale(ctx, saleID)
}

func (t *Throttle) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Throttle) DraftCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.draftCount
}

// Warning returns the user-facing suspension notice, naming the draft count.
func (t *Throttle) Warning() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != StateSuspended {
		return "", false
	}
	return fmt.Sprintf("%d draft sales pending; auto-confirmation suspended, confirm them manually", t.draftCount), true
}

func (t *Throttle) LastResults() []ConfirmResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]ConfirmResult(nil), t.lastResults...)
}

// Run polls the sales list on a fixed tick until the context is cancelled.
func (t *Throttle) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if _, err := t.Refresh(ctx); err != nil {
				log.Printf("draft throttle refresh failed: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}
