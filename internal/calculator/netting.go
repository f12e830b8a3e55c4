package calculator

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Instruction is a single settlement payment: the member it is keyed
// under pays Amount to the member To.
type Instruction struct {
	To     int64
	Amount decimal.Decimal
}

// Settle reduces net positions to a minimal set of payment
// instructions using greedy matching: walk debtors and creditors in
// ascending member ID and pair the current debtor with the current
// creditor for the smaller of the two outstanding amounts. The ID
// ordering makes the output deterministic for a given input.
//
// Instructions smaller than one currency unit are dropped as division
// residue.
func Settle(net map[int64]decimal.Decimal) map[int64][]Instruction {
	var debtors, creditors []int64
	owed := make(map[int64]decimal.Decimal)
	for id, balance := range net {
		switch {
		case balance.IsNegative():
			debtors = append(debtors, id)
			owed[id] = balance.Neg()
		case balance.IsPositive():
			creditors = append(creditors, id)
			owed[id] = balance
		}
	}
	sort.Slice(debtors, func(i, j int) bool { return debtors[i] < debtors[j] })
	sort.Slice(creditors, func(i, j int) bool { return creditors[i] < creditors[j] })

	one := decimal.NewFromInt(1)
	instructions := make(map[int64][]Instruction)
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := debtors[i], creditors[j]

		amount := owed[debtor]
		if owed[creditor].LessThan(amount) {
			amount = owed[creditor]
		}
		if amount.GreaterThanOrEqual(one) {
			instructions[debtor] = append(instructions[debtor], Instruction{
				To:     creditor,
				Amount: amount,
			})
		}

		owed[debtor] = owed[debtor].Sub(amount)
		owed[creditor] = owed[creditor].Sub(amount)
		if owed[debtor].LessThan(one) {
			i++
		}
		if owed[creditor].LessThan(one) {
			j++
		}
	}
	return instructions
}
