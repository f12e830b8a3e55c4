package service

import (
	"context"
	"fmt"
	"log/slog"

	"paguen/internal/metrics"
	"paguen/internal/models"
	"paguen/internal/storage"
)

// TransferService materializes direct member-to-member payments as a
// pair of ledger entries: a positive expense paid by the sender and a
// negative one paid by the receiver. Both run through the normal
// payment path, so the pair cancels out in everyone else's share and
// shifts exactly the transferred amount between the two parties.
type TransferService struct {
	store    storage.Store
	expenses *ExpenseService
}

// NewTransferService creates a TransferService. The ExpenseService is
// reused so transfer legs enter the same confirmation discipline as
// ordinary expenses.
func NewTransferService(store storage.Store, expenses *ExpenseService) *TransferService {
	return &TransferService{store: store, expenses: expenses}
}

// Transfer moves amount from one active member to another in the same
// household, dated today. It returns the two materialized legs, the
// positive one paid by the sender and the negative one paid by the
// receiver, so callers can track their confirmation.
func (t *TransferService) Transfer(ctx context.Context, householdID, fromID, toID, amount int64) (*models.Expense, *models.Expense, error) {
	if amount <= 0 {
		return nil, nil, fmt.Errorf("%w: transfer amount must be positive", models.ErrValidation)
	}
	if fromID == toID {
		return nil, nil, fmt.Errorf("%w: cannot transfer to yourself", models.ErrPermission)
	}

	from, err := t.expenses.activeMember(ctx, householdID, fromID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.TransferService.Transfer: %w", err)
	}
	to, err := t.expenses.activeMember(ctx, householdID, toID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.TransferService.Transfer: %w", err)
	}

	category, err := t.store.TransferCategory(ctx, householdID)
	if err != nil {
		return nil, nil, fmt.Errorf("service.TransferService.Transfer: %w", err)
	}

	today := t.expenses.today()
	legs := []*models.Expense{
		{
			HouseholdID: householdID,
			CategoryID:  category.ID,
			Description: fmt.Sprintf("Transferencia a %s", to.Name),
			Amount:      amount,
		},
		{
			HouseholdID: householdID,
			CategoryID:  category.ID,
			Description: fmt.Sprintf("Transferencia de %s", from.Name),
			Amount:      -amount,
		},
	}
	payers := []int64{fromID, toID}

	for i, leg := range legs {
		if err := t.store.CreateExpense(ctx, leg); err != nil {
			return nil, nil, fmt.Errorf("service.TransferService.Transfer: %w", err)
		}
		if err := t.expenses.RecordPayment(ctx, leg.ID, payers[i], today); err != nil {
			return nil, nil, fmt.Errorf("service.TransferService.Transfer: %w", err)
		}
	}

	metrics.Transfers.Inc()
	slog.Info("Transfer materialized",
		"household_id", householdID,
		"from_member_id", fromID,
		"to_member_id", toID,
		"amount", amount)
	return legs[0], legs[1], nil
}
