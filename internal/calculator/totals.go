package calculator

import "github.com/shopspring/decimal"

// SharedExpense carries the minimal information the totals aggregation
// needs for one settled expense: who paid, how much, and the resolved
// responsible sets.
type SharedExpense struct {
	Amount  int64 // smallest currency unit
	PayerID int64
	Sets    Sets
}

// Totals aggregates settled expenses into per-member actual and
// expected contributions, both keyed by the currently active members.
//
// For each expense with historical roster size h and current roster
// size k:
//   - the payer's actual contribution grows by amount × k / h, scaling
//     the payment down to the share the remaining members still cover
//   - each current responsible member's expected contribution grows by
//     amount / h, their original share of the cost
//
// Expenses whose historical roster is empty, or whose payer has since
// left the household, contribute nothing.
func Totals(active map[int64]struct{}, expenses []SharedExpense) (actual, expected map[int64]decimal.Decimal) {
	actual = make(map[int64]decimal.Decimal, len(active))
	expected = make(map[int64]decimal.Decimal, len(active))
	for id := range active {
		actual[id] = decimal.Zero
		expected[id] = decimal.Zero
	}

	for _, e := range expenses {
		h := int64(len(e.Sets.Historical))
		k := int64(len(e.Sets.Current))
		if h == 0 || k == 0 {
			continue
		}
		amount := decimal.NewFromInt(e.Amount)
		share := amount.Div(decimal.NewFromInt(h))

		if _, ok := actual[e.PayerID]; ok {
			paid := amount.Mul(decimal.NewFromInt(k)).Div(decimal.NewFromInt(h))
			actual[e.PayerID] = actual[e.PayerID].Add(paid)
		}
		for id := range e.Sets.Current {
			expected[id] = expected[id].Add(share)
		}
	}
	return actual, expected
}

// Net computes each member's net position: positive means the household
// owes them, negative means they owe the household.
func Net(actual, expected map[int64]decimal.Decimal) map[int64]decimal.Decimal {
	net := make(map[int64]decimal.Decimal, len(actual))
	for id, paid := range actual {
		net[id] = paid.Sub(expected[id])
	}
	return net
}
