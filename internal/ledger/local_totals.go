package ledger

import (
	"time"

	"github.com/vendorhub/vendorhub/internal/shared"
)

// LocalTotals computes an approximate aggregate over the in-memory mirror
// for the period window ending at ref (zero ref means now). It exists for
// offline and instant-feedback use; the authoritative figures come from
// Totals. Soft-deleted records are excluded.
func (s *Store) LocalTotals(period shared.Period, ref time.Time) Totals {
	if ref.IsZero() {
		ref = time.Now()
	}
	start := period.WindowStart(ref)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var totals Totals
	for _, tx := range s.transactions {
		if tx.Deleted {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(ref) {
			continue
		}
		switch tx.Type {
		case TypeSale:
			totals.Sales += tx.Amount
		case TypeExpense:
			totals.Expenses += tx.Amount
		}
	}
	totals.Profit = totals.Sales - totals.Expenses
	return totals
}
