package analytics

import (
	"sort"

	"github.com/fjod/pos_terminal/internal/domain"
)

// Aggregators in this package are pure reducers over already-fetched lists.
// They are deterministic for a given input and safe to re-run on every
// request; nothing here talks to the backend.

type ClientDebtSummary struct {
	ClientName     string  `json:"client_name"`
	TotalAmount    float64 `json:"total_amount"`
	AmountPaid     float64 `json:"amount_paid"`
	BalanceDue     float64 `json:"balance_due"`
	DebtCount      int     `json:"debt_count"`
	OverdueCount   int     `json:"overdue_count"`
	AvgDaysOverdue float64 `json:"avg_days_overdue"`
	PaymentRate    float64 `json:"payment_rate"`
}

// DebtsByClient groups debt records per client, sorted by outstanding
// balance descending so the worst debtors chart first.
func DebtsByClient(debts []domain.Debt) []ClientDebtSummary {
	byName := make(map[string]*ClientDebtSummary)
	var order []string
	daysTotal := make(map[string]int)

	for _, d := range debts {
		summary, ok := byName[d.ClientName]
		if !ok {
			summary = &ClientDebtSummary{ClientName: d.ClientName}
			byName[d.ClientName] = summary
			order = append(order, d.ClientName)
		}
		summary.TotalAmount += d.TotalAmount
		summary.AmountPaid += d.AmountPaid
		summary.BalanceDue += d.BalanceDue
		summary.DebtCount++
		if d.DaysOverdue > 0 {
			summary.OverdueCount++
		}
		daysTotal[d.ClientName] += d.DaysOverdue
	}

	result := make([]ClientDebtSummary, 0, len(order))
	for _, name := range order {
		s := byName[name]
		s.AvgDaysOverdue = float64(daysTotal[name]) / float64(s.DebtCount)
		if s.TotalAmount > 0 {
			s.PaymentRate = s.AmountPaid / s.TotalAmount * 100
		}
		result = append(result, *s)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].BalanceDue > result[j].BalanceDue
	})
	return result
}

type AgingBucket struct {
	Label      string  `json:"label"`
	Amount     float64 `json:"amount"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

var agingLabels = []string{"Current", "31-60", "61-90", "Over 90"}

func agingIndex(daysOverdue int) int {
	switch {
	case daysOverdue <= 30:
		return 0
	case daysOverdue <= 60:
		return 1
	case daysOverdue <= 90:
		return 2
	default:
		return 3
	}
}

// AgingBuckets classifies outstanding balances by how overdue they are.
// All four buckets are always present so charts keep a stable axis.
func AgingBuckets(debts []domain.Debt) []AgingBucket {
	buckets := make([]AgingBucket, len(agingLabels))
	for i, label := range agingLabels {
		buckets[i].Label = label
	}

	var grandTotal float64
	for _, d := range debts {
		i := agingIndex(d.DaysOverdue)
		buckets[i].Amount += d.BalanceDue
		buckets[i].Count++
		grandTotal += d.BalanceDue
	}

	if grandTotal > 0 {
		for i := range buckets {
			buckets[i].Percentage = buckets[i].Amount / grandTotal * 100
		}
	}
	return buckets
}

type CollectionSummary struct {
	CollectionRate float64 `json:"collection_rate"`
	FullyPaid      int     `json:"fully_paid"`
	PartiallyPaid  int     `json:"partially_paid"`
	Unpaid         int     `json:"unpaid"`
}

// Collection summarizes how much of the tracked debt has been recovered.
func Collection(debts []domain.Debt) CollectionSummary {
	var summary CollectionSummary
	var totalPaid, totalDebt float64

	for _, d := range debts {
		totalPaid += d.AmountPaid
		totalDebt += d.TotalAmount

		switch {
		case d.BalanceDue == 0:
			summary.FullyPaid++
		case d.AmountPaid > 0:
			summary.PartiallyPaid++
		default:
			summary.Unpaid++
		}
	}

	if totalDebt > 0 {
		summary.CollectionRate = totalPaid / totalDebt * 100
	}
	return summary
}
