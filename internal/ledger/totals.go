package ledger

import "liquiledger/internal/core"

// Totals aggregates all entries in the ledger, not just those of visible
// buckets.
type Totals struct {
	IncomeCents  int64
	ExpenseCents int64
	BalanceCents int64
}

// ComputeTotals sums each entry's amount into the income or expense side
// by kind. An entry with an unknown kind is a logic error and is reported,
// never silently dropped.
func ComputeTotals(entries []core.Entry) (Totals, error) {
	var t Totals
	for _, e := range entries {
		switch e.Kind {
		case core.Income:
			t.IncomeCents += e.AmountCents
		case core.Expense:
			t.ExpenseCents += e.AmountCents
		default:
			return Totals{}, core.UnknownKindError{Kind: e.Kind}
		}
	}
	t.BalanceCents = t.IncomeCents - t.ExpenseCents
	return t, nil
}
