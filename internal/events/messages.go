package events

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExpenseSettledMessage announces that every responsible member has
// confirmed an expense. Consumers fetch the full expense themselves.
type ExpenseSettledMessage struct {
	MessageID   string    `json:"message_id"`
	ExpenseID   int64     `json:"expense_id"`
	HouseholdID int64     `json:"household_id"`
	Amount      int64     `json:"amount"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseSettledMessage creates a settle announcement with a fresh
// message ID.
func NewExpenseSettledMessage(expenseID, householdID, amount int64) *ExpenseSettledMessage {
	return &ExpenseSettledMessage{
		MessageID:   uuid.New().String(),
		ExpenseID:   expenseID,
		HouseholdID: householdID,
		Amount:      amount,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExpenseSettledMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SuggestedPayment is one netting instruction inside a settlement
// suggestion. Amount is in the smallest currency unit.
type SuggestedPayment struct {
	FromMemberID int64 `json:"from_member_id"`
	ToMemberID   int64 `json:"to_member_id"`
	Amount       int64 `json:"amount"`
}

// SettlementSuggestedMessage carries the netting instructions for one
// household so external notifiers can nag the debtors.
type SettlementSuggestedMessage struct {
	MessageID   string             `json:"message_id"`
	HouseholdID int64              `json:"household_id"`
	Payments    []SuggestedPayment `json:"payments"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NewSettlementSuggestedMessage creates a suggestion message with a
// fresh message ID.
func NewSettlementSuggestedMessage(householdID int64, payments []SuggestedPayment) *SettlementSuggestedMessage {
	return &SettlementSuggestedMessage{
		MessageID:   uuid.New().String(),
		HouseholdID: householdID,
		Payments:    payments,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *SettlementSuggestedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// SettlementSuggestedMessageFromJSON creates a message from JSON bytes
func SettlementSuggestedMessageFromJSON(data []byte) (*SettlementSuggestedMessage, error) {
	var msg SettlementSuggestedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
