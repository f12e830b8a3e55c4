package models

// Confirmation is one responsible member's acknowledgement row for a
// paid expense. Rows are created when the payment is recorded: the
// payer's row starts confirmed, everyone else's starts unconfirmed.
type Confirmation struct {
	ID        int64 `json:"id"`
	ExpenseID int64 `json:"expense_id"`
	MemberID  int64 `json:"member_id"`
	Confirmed bool  `json:"confirmed"`
}
