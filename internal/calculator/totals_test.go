package calculator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func fullSets(ids ...int64) Sets {
	s := Sets{
		Current:    make(map[int64]struct{}, len(ids)),
		Historical: make(map[int64]struct{}, len(ids)),
	}
	for _, id := range ids {
		s.Current[id] = struct{}{}
		s.Historical[id] = struct{}{}
	}
	return s
}

func TestTotalsThreeMembers(t *testing.T) {
	active := map[int64]struct{}{1: {}, 2: {}, 3: {}}
	expenses := []SharedExpense{
		{Amount: 1200, PayerID: 1, Sets: fullSets(1, 2, 3)},
		{Amount: 3000, PayerID: 2, Sets: fullSets(1, 2, 3)},
	}

	actual, expected := Totals(active, expenses)

	wantActual := map[int64]int64{1: 1200, 2: 3000, 3: 0}
	for id, want := range wantActual {
		if !actual[id].Equal(decimal.NewFromInt(want)) {
			t.Errorf("actual[%d] = %s, want %d", id, actual[id], want)
		}
	}
	want := decimal.NewFromInt(1400)
	for id := range active {
		if !expected[id].Equal(want) {
			t.Errorf("expected[%d] = %s, want 1400", id, expected[id])
		}
	}
}

func TestTotalsDepartedMemberRescalesPayment(t *testing.T) {
	// Three members shared the cost when it was paid, one has since
	// left. The payment counts at 2/3 of its amount and the remaining
	// two each expect a third.
	active := map[int64]struct{}{1: {}, 3: {}}
	sets := Sets{
		Current:    map[int64]struct{}{1: {}, 3: {}},
		Historical: map[int64]struct{}{1: {}, 2: {}, 3: {}},
	}
	expenses := []SharedExpense{{Amount: 1500, PayerID: 1, Sets: sets}}

	actual, expected := Totals(active, expenses)

	if !actual[1].Equal(decimal.NewFromInt(1000)) {
		t.Errorf("actual[1] = %s, want 1000", actual[1])
	}
	share := decimal.NewFromInt(500)
	if !expected[1].Equal(share) || !expected[3].Equal(share) {
		t.Errorf("expected = {1: %s, 3: %s}, want 500 each", expected[1], expected[3])
	}
}

func TestTotalsDepartedPayerContributesNothing(t *testing.T) {
	active := map[int64]struct{}{1: {}, 3: {}}
	sets := Sets{
		Current:    map[int64]struct{}{1: {}, 3: {}},
		Historical: map[int64]struct{}{1: {}, 2: {}, 3: {}},
	}
	expenses := []SharedExpense{{Amount: 900, PayerID: 2, Sets: sets}}

	actual, expected := Totals(active, expenses)

	for id := range active {
		if !actual[id].Equal(decimal.Zero) {
			t.Errorf("actual[%d] = %s, want 0", id, actual[id])
		}
	}
	share := decimal.NewFromInt(300)
	for id := range active {
		if !expected[id].Equal(share) {
			t.Errorf("expected[%d] = %s, want 300", id, expected[id])
		}
	}
}

func TestTotalsSumsReconcile(t *testing.T) {
	// With payers still active, total actual equals total expected, so
	// settlement instructions always balance out.
	active := map[int64]struct{}{1: {}, 2: {}, 3: {}, 4: {}}
	expenses := []SharedExpense{
		{Amount: 1200, PayerID: 1, Sets: fullSets(1, 2, 3, 4)},
		{Amount: 777, PayerID: 2, Sets: fullSets(1, 2)},
		{Amount: 901, PayerID: 3, Sets: fullSets(2, 3, 4)},
	}

	actual, expected := Totals(active, expenses)

	sumActual, sumExpected := decimal.Zero, decimal.Zero
	for id := range active {
		sumActual = sumActual.Add(actual[id])
		sumExpected = sumExpected.Add(expected[id])
	}
	if !sumActual.Equal(sumExpected) {
		t.Errorf("sum(actual) = %s, sum(expected) = %s", sumActual, sumExpected)
	}
}

func TestNet(t *testing.T) {
	actual := map[int64]decimal.Decimal{
		1: decimal.NewFromInt(1200),
		2: decimal.NewFromInt(3000),
		3: decimal.Zero,
	}
	expected := map[int64]decimal.Decimal{
		1: decimal.NewFromInt(1400),
		2: decimal.NewFromInt(1400),
		3: decimal.NewFromInt(1400),
	}

	net := Net(actual, expected)

	want := map[int64]int64{1: -200, 2: 1600, 3: -1400}
	for id, w := range want {
		if !net[id].Equal(decimal.NewFromInt(w)) {
			t.Errorf("net[%d] = %s, want %d", id, net[id], w)
		}
	}
}
