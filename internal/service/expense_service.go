// Package service implements the operations of the expense engine on
// top of the storage layer: payment recording, the confirmation state
// machine, balances, and direct transfers.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"paguen/internal/calculator"
	"paguen/internal/events"
	"paguen/internal/metrics"
	"paguen/internal/models"
	"paguen/internal/storage"
)

// lockStripes is the size of the per-expense mutex pool. Confirm and
// edit operations on the same expense serialize on the same stripe.
const lockStripes = 64

// ExpenseService drives the expense lifecycle: create, record payment,
// confirm, edit, delete.
type ExpenseService struct {
	store  storage.Store
	events events.Publisher
	now    func() time.Time
	locks  [lockStripes]sync.Mutex
}

// NewExpenseService creates an ExpenseService. The publisher may be
// nil, which disables events.
func NewExpenseService(store storage.Store, publisher events.Publisher) *ExpenseService {
	return &ExpenseService{
		store:  store,
		events: publisher,
		now:    time.Now,
	}
}

func (s *ExpenseService) lock(expenseID int64) *sync.Mutex {
	return &s.locks[expenseID%lockStripes]
}

// today returns the current date at UTC midnight.
func (s *ExpenseService) today() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Create validates and persists a new pending expense.
func (s *ExpenseService) Create(ctx context.Context, e *models.Expense) error {
	if e.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	category, err := s.store.GetCategory(ctx, e.CategoryID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	if category.HouseholdID != e.HouseholdID {
		return fmt.Errorf("%w: category %d belongs to another household", models.ErrValidation, e.CategoryID)
	}
	if category.Transfer {
		return fmt.Errorf("%w: the transfer category is reserved", models.ErrValidation)
	}

	if err := s.store.CreateExpense(ctx, e); err != nil {
		return fmt.Errorf("service.ExpenseService.Create: %w", err)
	}
	slog.Info("Expense created", "expense_id", e.ID, "household_id", e.HouseholdID, "amount", e.Amount)
	return nil
}

// RecordPayment transitions a pending expense to awaiting confirmation
// (or directly to settled when the payer turns out to be the only
// responsible member). The responsible set is resolved over the
// currently active roster at the payment date.
func (s *ExpenseService) RecordPayment(ctx context.Context, expenseID, payerID int64, paidAt time.Time) error {
	mu := s.lock(expenseID)
	mu.Lock()
	defer mu.Unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.RecordPayment: %w", err)
	}
	if expense.State != models.ExpensePending {
		return fmt.Errorf("%w: expense %d is not pending", models.ErrState, expenseID)
	}

	paidAt = normalizeDate(paidAt)
	if paidAt.After(s.today()) {
		return fmt.Errorf("%w: payment date %s is in the future", models.ErrValidation, paidAt.Format("2006-01-02"))
	}

	payer, err := s.activeMember(ctx, expense.HouseholdID, payerID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.RecordPayment: %w", err)
	}

	responsible, err := s.responsibleAt(ctx, expense, payer.ID, paidAt)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.RecordPayment: %w", err)
	}

	if err := s.store.ApplyPayment(ctx, expenseID, payerID, paidAt, responsible); err != nil {
		return fmt.Errorf("service.ExpenseService.RecordPayment: %w", err)
	}

	metrics.PaymentsRecorded.Inc()
	slog.Info("Payment recorded",
		"expense_id", expenseID,
		"payer_id", payerID,
		"paid_at", paidAt.Format("2006-01-02"),
		"responsible", len(responsible))

	if len(responsible) == 1 {
		s.settled(ctx, expense)
	}
	return nil
}

// Confirm records one member's acknowledgement and settles the expense
// once everyone has confirmed.
func (s *ExpenseService) Confirm(ctx context.Context, expenseID, memberID int64) error {
	mu := s.lock(expenseID)
	mu.Lock()
	defer mu.Unlock()

	settled, err := s.store.ApplyConfirmation(ctx, expenseID, memberID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Confirm: %w", err)
	}

	metrics.Confirmations.Inc()
	slog.Info("Expense confirmed", "expense_id", expenseID, "member_id", memberID, "settled", settled)

	if settled {
		expense, err := s.store.GetExpense(ctx, expenseID)
		if err != nil {
			return fmt.Errorf("service.ExpenseService.Confirm: %w", err)
		}
		s.settled(ctx, expense)
	}
	return nil
}

// Edit changes an expense. While pending only the amount is editable.
// Once paid, editing is restricted to the payer and resets every other
// member's confirmation: the responsible set is recomputed at the
// (possibly new) payment date and the expense returns to awaiting
// confirmation, keeping the payer's own row confirmed.
func (s *ExpenseService) Edit(ctx context.Context, expenseID, editorID, newAmount int64, newPaidAt *time.Time) error {
	mu := s.lock(expenseID)
	mu.Lock()
	defer mu.Unlock()

	if newAmount <= 0 {
		return fmt.Errorf("%w: amount must be positive", models.ErrValidation)
	}

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Edit: %w", err)
	}

	if expense.State == models.ExpensePending {
		if newPaidAt != nil {
			return fmt.Errorf("%w: a pending expense has no payment date", models.ErrValidation)
		}
		if _, err := s.activeMember(ctx, expense.HouseholdID, editorID); err != nil {
			return fmt.Errorf("service.ExpenseService.Edit: %w", err)
		}
		if err := s.store.UpdateExpenseAmount(ctx, expenseID, newAmount); err != nil {
			return fmt.Errorf("service.ExpenseService.Edit: %w", err)
		}
		slog.Info("Expense amount updated", "expense_id", expenseID, "amount", newAmount)
		return nil
	}

	if expense.PayerID == nil || *expense.PayerID != editorID {
		return fmt.Errorf("%w: only the payer may edit a paid expense", models.ErrPermission)
	}

	paidAt := *expense.PaidAt
	if newPaidAt != nil {
		paidAt = normalizeDate(*newPaidAt)
		if paidAt.After(s.today()) {
			return fmt.Errorf("%w: payment date %s is in the future", models.ErrValidation, paidAt.Format("2006-01-02"))
		}
	}

	responsible, err := s.responsibleAt(ctx, expense, editorID, paidAt)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Edit: %w", err)
	}

	if err := s.store.ApplyRepayment(ctx, expenseID, editorID, newAmount, paidAt, responsible); err != nil {
		return fmt.Errorf("service.ExpenseService.Edit: %w", err)
	}
	slog.Info("Paid expense edited",
		"expense_id", expenseID,
		"amount", newAmount,
		"paid_at", paidAt.Format("2006-01-02"),
		"responsible", len(responsible))

	if len(responsible) == 1 {
		expense.Amount = newAmount
		s.settled(ctx, expense)
	}
	return nil
}

// Delete removes an expense. Pending expenses can be deleted by any
// active member of the household; paid expenses only by their payer.
func (s *ExpenseService) Delete(ctx context.Context, expenseID, requesterID int64) error {
	mu := s.lock(expenseID)
	mu.Lock()
	defer mu.Unlock()

	expense, err := s.store.GetExpense(ctx, expenseID)
	if err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}

	if expense.State == models.ExpensePending {
		if _, err := s.activeMember(ctx, expense.HouseholdID, requesterID); err != nil {
			return fmt.Errorf("service.ExpenseService.Delete: %w", err)
		}
	} else if expense.PayerID == nil || *expense.PayerID != requesterID {
		return fmt.Errorf("%w: only the payer may delete a paid expense", models.ErrPermission)
	}

	if err := s.store.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("service.ExpenseService.Delete: %w", err)
	}
	slog.Info("Expense deleted", "expense_id", expenseID, "requester_id", requesterID)
	return nil
}

// responsibleAt resolves the responsible member IDs for an expense
// paid on the given date, over the currently active roster. Non-shared
// categories keep the whole cost on the payer.
func (s *ExpenseService) responsibleAt(ctx context.Context, expense *models.Expense, payerID int64, paidAt time.Time) ([]int64, error) {
	category, err := s.store.GetCategory(ctx, expense.CategoryID)
	if err != nil {
		return nil, err
	}
	if !category.Shared {
		return []int64{payerID}, nil
	}

	members, err := s.store.ListMembers(ctx, expense.HouseholdID)
	if err != nil {
		return nil, err
	}
	vacations, err := s.store.ListHouseholdVacations(ctx, expense.HouseholdID)
	if err != nil {
		return nil, err
	}

	windows := make([]calculator.MemberWindow, 0, len(members))
	for _, m := range members {
		if !m.Active() {
			continue
		}
		windows = append(windows, calculator.MemberWindow{MemberID: m.ID, Joined: m.Joined})
	}
	intervals := make([]calculator.Interval, 0, len(vacations))
	for _, v := range vacations {
		intervals = append(intervals, calculator.Interval{MemberID: v.MemberID, Start: v.Start, End: v.End})
	}

	set := calculator.Responsible(windows, intervals, paidAt, payerID, category.SharedOnLeave)
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids, nil
}

// activeMember loads a member and checks they currently belong to the
// given household.
func (s *ExpenseService) activeMember(ctx context.Context, householdID, memberID int64) (*models.Member, error) {
	member, err := s.store.GetMember(ctx, memberID)
	if err != nil {
		return nil, err
	}
	if member.HouseholdID != householdID {
		return nil, fmt.Errorf("%w: member %d is not in household %d", models.ErrPermission, memberID, householdID)
	}
	if !member.Active() {
		return nil, fmt.Errorf("%w: member %d has left the household", models.ErrPermission, memberID)
	}
	return member, nil
}

// settled records the metrics and event for an expense that just
// reached the settled state. Publishing is best effort; the state
// transition has already committed.
func (s *ExpenseService) settled(ctx context.Context, expense *models.Expense) {
	metrics.ExpensesSettled.Inc()
	if s.events == nil {
		return
	}
	msg := events.NewExpenseSettledMessage(expense.ID, expense.HouseholdID, expense.Amount)
	if err := s.events.PublishExpenseSettled(ctx, msg); err != nil {
		slog.Error("Failed to publish expense settled event", "expense_id", expense.ID, "error", err)
	}
}

func normalizeDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
