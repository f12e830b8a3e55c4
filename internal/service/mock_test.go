package service

import (
	"context"
	"time"

	"paguen/internal/events"
	"paguen/internal/models"
	"paguen/internal/storage"
)

// mockStore is a hand-written test double for storage.Store. Unset
// funcs return zero values so each test only wires what it exercises.
type mockStore struct {
	createHousehold        func(ctx context.Context, h *models.Household) error
	getHousehold           func(ctx context.Context, id int64) (*models.Household, error)
	listHouseholds         func(ctx context.Context) ([]models.Household, error)
	addMember              func(ctx context.Context, m *models.Member) error
	getMember              func(ctx context.Context, id int64) (*models.Member, error)
	listMembers            func(ctx context.Context, householdID int64) ([]models.Member, error)
	closeMembership        func(ctx context.Context, memberID int64, left time.Time) error
	createVacation         func(ctx context.Context, v *models.VacationWindow) error
	listVacations          func(ctx context.Context, memberID int64) ([]models.VacationWindow, error)
	listHouseholdVacations func(ctx context.Context, householdID int64) ([]models.VacationWindow, error)
	endVacation            func(ctx context.Context, vacationID int64, end time.Time) error
	createCategory         func(ctx context.Context, c *models.Category) error
	getCategory            func(ctx context.Context, id int64) (*models.Category, error)
	listCategories         func(ctx context.Context, householdID int64, includeHidden bool) ([]models.Category, error)
	hideCategory           func(ctx context.Context, id int64) error
	transferCategory       func(ctx context.Context, householdID int64) (*models.Category, error)
	createExpense          func(ctx context.Context, e *models.Expense) error
	getExpense             func(ctx context.Context, id int64) (*models.Expense, error)
	listExpenses           func(ctx context.Context, householdID int64) ([]models.Expense, error)
	deleteExpense          func(ctx context.Context, id int64) error
	updateExpenseAmount    func(ctx context.Context, id int64, amount int64) error
	applyPayment           func(ctx context.Context, expenseID, payerID int64, paidAt time.Time, responsible []int64) error
	applyConfirmation      func(ctx context.Context, expenseID, memberID int64) (bool, error)
	applyRepayment         func(ctx context.Context, expenseID, payerID, amount int64, paidAt time.Time, responsible []int64) error
	listConfirmations      func(ctx context.Context, expenseID int64) ([]models.Confirmation, error)
	eligibleExpenses       func(ctx context.Context, householdID int64) ([]storage.EligibleExpense, error)
	periodTotals           func(ctx context.Context, householdID int64, year int, month time.Month) ([]storage.PeriodTotal, error)
}

var _ storage.Store = (*mockStore)(nil)

func (m *mockStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	if m.createHousehold != nil {
		return m.createHousehold(ctx, h)
	}
	return nil
}

func (m *mockStore) GetHousehold(ctx context.Context, id int64) (*models.Household, error) {
	if m.getHousehold != nil {
		return m.getHousehold(ctx, id)
	}
	return &models.Household{ID: id}, nil
}

func (m *mockStore) ListHouseholds(ctx context.Context) ([]models.Household, error) {
	if m.listHouseholds != nil {
		return m.listHouseholds(ctx)
	}
	return nil, nil
}

func (m *mockStore) AddMember(ctx context.Context, mem *models.Member) error {
	if m.addMember != nil {
		return m.addMember(ctx, mem)
	}
	return nil
}

func (m *mockStore) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	if m.getMember != nil {
		return m.getMember(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) ListMembers(ctx context.Context, householdID int64) ([]models.Member, error) {
	if m.listMembers != nil {
		return m.listMembers(ctx, householdID)
	}
	return nil, nil
}

func (m *mockStore) CloseMembership(ctx context.Context, memberID int64, left time.Time) error {
	if m.closeMembership != nil {
		return m.closeMembership(ctx, memberID, left)
	}
	return nil
}

func (m *mockStore) CreateVacation(ctx context.Context, v *models.VacationWindow) error {
	if m.createVacation != nil {
		return m.createVacation(ctx, v)
	}
	return nil
}

func (m *mockStore) ListVacations(ctx context.Context, memberID int64) ([]models.VacationWindow, error) {
	if m.listVacations != nil {
		return m.listVacations(ctx, memberID)
	}
	return nil, nil
}

func (m *mockStore) ListHouseholdVacations(ctx context.Context, householdID int64) ([]models.VacationWindow, error) {
	if m.listHouseholdVacations != nil {
		return m.listHouseholdVacations(ctx, householdID)
	}
	return nil, nil
}

func (m *mockStore) EndVacation(ctx context.Context, vacationID int64, end time.Time) error {
	if m.endVacation != nil {
		return m.endVacation(ctx, vacationID, end)
	}
	return nil
}

func (m *mockStore) CreateCategory(ctx context.Context, c *models.Category) error {
	if m.createCategory != nil {
		return m.createCategory(ctx, c)
	}
	return nil
}

func (m *mockStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	if m.getCategory != nil {
		return m.getCategory(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) ListCategories(ctx context.Context, householdID int64, includeHidden bool) ([]models.Category, error) {
	if m.listCategories != nil {
		return m.listCategories(ctx, householdID, includeHidden)
	}
	return nil, nil
}

func (m *mockStore) HideCategory(ctx context.Context, id int64) error {
	if m.hideCategory != nil {
		return m.hideCategory(ctx, id)
	}
	return nil
}

func (m *mockStore) TransferCategory(ctx context.Context, householdID int64) (*models.Category, error) {
	if m.transferCategory != nil {
		return m.transferCategory(ctx, householdID)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if m.createExpense != nil {
		return m.createExpense(ctx, e)
	}
	return nil
}

func (m *mockStore) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	if m.getExpense != nil {
		return m.getExpense(ctx, id)
	}
	return nil, models.ErrNotFound
}

func (m *mockStore) ListExpenses(ctx context.Context, householdID int64) ([]models.Expense, error) {
	if m.listExpenses != nil {
		return m.listExpenses(ctx, householdID)
	}
	return nil, nil
}

func (m *mockStore) DeleteExpense(ctx context.Context, id int64) error {
	if m.deleteExpense != nil {
		return m.deleteExpense(ctx, id)
	}
	return nil
}

func (m *mockStore) UpdateExpenseAmount(ctx context.Context, id int64, amount int64) error {
	if m.updateExpenseAmount != nil {
		return m.updateExpenseAmount(ctx, id, amount)
	}
	return nil
}

func (m *mockStore) ApplyPayment(ctx context.Context, expenseID, payerID int64, paidAt time.Time, responsible []int64) error {
	if m.applyPayment != nil {
		return m.applyPayment(ctx, expenseID, payerID, paidAt, responsible)
	}
	return nil
}

func (m *mockStore) ApplyConfirmation(ctx context.Context, expenseID, memberID int64) (bool, error) {
	if m.applyConfirmation != nil {
		return m.applyConfirmation(ctx, expenseID, memberID)
	}
	return false, nil
}

func (m *mockStore) ApplyRepayment(ctx context.Context, expenseID, payerID, amount int64, paidAt time.Time, responsible []int64) error {
	if m.applyRepayment != nil {
		return m.applyRepayment(ctx, expenseID, payerID, amount, paidAt, responsible)
	}
	return nil
}

func (m *mockStore) ListConfirmations(ctx context.Context, expenseID int64) ([]models.Confirmation, error) {
	if m.listConfirmations != nil {
		return m.listConfirmations(ctx, expenseID)
	}
	return nil, nil
}

func (m *mockStore) EligibleExpenses(ctx context.Context, householdID int64) ([]storage.EligibleExpense, error) {
	if m.eligibleExpenses != nil {
		return m.eligibleExpenses(ctx, householdID)
	}
	return nil, nil
}

func (m *mockStore) PeriodTotals(ctx context.Context, householdID int64, year int, month time.Month) ([]storage.PeriodTotal, error) {
	if m.periodTotals != nil {
		return m.periodTotals(ctx, householdID, year, month)
	}
	return nil, nil
}

func (m *mockStore) Close() error { return nil }

// fakePublisher records published events for assertions.
type fakePublisher struct {
	settled   []*events.ExpenseSettledMessage
	suggested []*events.SettlementSuggestedMessage
}

var _ events.Publisher = (*fakePublisher)(nil)

func (f *fakePublisher) PublishExpenseSettled(_ context.Context, msg *events.ExpenseSettledMessage) error {
	f.settled = append(f.settled, msg)
	return nil
}

func (f *fakePublisher) PublishSettlementSuggested(_ context.Context, msg *events.SettlementSuggestedMessage) error {
	f.suggested = append(f.suggested, msg)
	return nil
}

func (f *fakePublisher) Close() error { return nil }
