package models

import "time"

// ExpenseState is the lifecycle state of an expense.
type ExpenseState string

const (
	// ExpensePending is an expense that has been recorded but not yet
	// paid. It carries no payment date and no confirmation rows.
	ExpensePending ExpenseState = "pending"
	// ExpenseAwaitingConfirmation is a paid expense whose responsible
	// members have not all acknowledged it yet.
	ExpenseAwaitingConfirmation ExpenseState = "awaiting_confirmation"
	// ExpenseSettled is a paid expense every responsible member has
	// confirmed. Settled expenses feed the balance computation.
	ExpenseSettled ExpenseState = "settled"
)

// Expense is a cost recorded against a household. Amount is in the
// smallest currency unit and may be negative only on the receiving leg
// of a transfer pair.
type Expense struct {
	ID          int64        `json:"id"`
	HouseholdID int64        `json:"household_id"`
	CategoryID  int64        `json:"category_id"`
	Description string       `json:"description,omitempty"`
	Amount      int64        `json:"amount"`
	State       ExpenseState `json:"state"`
	// PayerID is the member who paid. Nil while the expense is pending.
	PayerID *int64 `json:"payer_id,omitempty"`
	// PaidAt is the payment date. Nil while the expense is pending. The
	// responsibility computation resolves member and vacation windows
	// against this date.
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Paid reports whether the expense has a payment on record.
func (e *Expense) Paid() bool {
	return e.State != ExpensePending
}
