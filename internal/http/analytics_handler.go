package http

import (
	"context"
	"net/http"
	"time"

	"github.com/fjod/pos_terminal/internal/analytics"
	"github.com/fjod/pos_terminal/internal/domain"
	"github.com/fjod/pos_terminal/internal/journal"
)

const periodListLimit = 1000

type DebtsAPI interface {
	ListDebts(ctx context.Context) ([]domain.Debt, error)
}

// SalesJournal feeds the period charts from locally recorded sales instead of
// a backend round trip.
type SalesJournal interface {
	ListRecent(ctx context.Context, limit int) ([]*journal.Entry, error)
}

type AnalyticsHandler struct {
	debts   DebtsAPI
	journal SalesJournal
	timeout time.Duration
}

func NewAnalyticsHandler(debts DebtsAPI, journal SalesJournal, timeout time.Duration) *AnalyticsHandler {
	return &AnalyticsHandler{
		debts:   debts,
		journal: journal,
		timeout: timeout,
	}
}

func (h *AnalyticsHandler) DebtsByClient(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	debts, err := h.debts.ListDebts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analytics.DebtsByClient(debts))
}

func (h *AnalyticsHandler) DebtAging(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	debts, err := h.debts.ListDebts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analytics.AgingBuckets(debts))
}

func (h *AnalyticsHandler) DebtCollection(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	debts, err := h.debts.ListDebts(ctx)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, analytics.Collection(debts))
}

func (h *AnalyticsHandler) SalesByPeriod(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	granularity, err := analytics.ParseGranularity(r.URL.Query().Get("granularity"))
	if err != nil {
		handleDomainError(w, err)
		return
	}

	entries, err := h.journal.ListRecent(ctx, periodListLimit)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	records := make([]analytics.DatedAmount, 0, len(entries))
	for _, e := range entries {
		records = append(records, analytics.DatedAmount{
			Date:   e.RecordedAt,
			Amount: e.TotalAmount,
		})
	}

	respondJSON(w, http.StatusOK, analytics.ByPeriod(records, granularity))
}
