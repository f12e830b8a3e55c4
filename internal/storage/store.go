// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"paguen/internal/models"
)

// PeriodTotal is one member's spending within a month, aggregated over
// paid expenses and excluding transfers.
type PeriodTotal struct {
	MemberID int64
	Total    int64
}

// EligibleExpense is the storage projection of a balance-eligible
// expense joined with the category flags the balance computation needs.
type EligibleExpense struct {
	ID            int64
	Amount        int64
	PayerID       int64
	PaidAt        time.Time
	SharedOnLeave bool
}

// Store defines the interface for household expense storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateHousehold persists a new household and populates its ID.
	CreateHousehold(ctx context.Context, h *models.Household) error

	// GetHousehold retrieves a household by ID.
	// Returns models.ErrNotFound if it does not exist.
	GetHousehold(ctx context.Context, id int64) (*models.Household, error)

	// ListHouseholds returns all households, ordered by ID.
	ListHouseholds(ctx context.Context) ([]models.Household, error)

	// AddMember persists a new membership row and populates its ID.
	AddMember(ctx context.Context, m *models.Member) error

	// GetMember retrieves a membership row by ID.
	// Returns models.ErrNotFound if it does not exist.
	GetMember(ctx context.Context, id int64) (*models.Member, error)

	// ListMembers returns every membership row of a household, current
	// and historical, ordered by ID.
	ListMembers(ctx context.Context, householdID int64) ([]models.Member, error)

	// CloseMembership sets the leave date on an open membership.
	// Returns models.ErrState if the membership is already closed.
	CloseMembership(ctx context.Context, memberID int64, left time.Time) error

	// CreateVacation persists a vacation window and populates its ID.
	CreateVacation(ctx context.Context, v *models.VacationWindow) error

	// ListVacations returns the vacation windows of a member, ordered
	// by start date.
	ListVacations(ctx context.Context, memberID int64) ([]models.VacationWindow, error)

	// ListHouseholdVacations returns every vacation window declared by
	// members of a household.
	ListHouseholdVacations(ctx context.Context, householdID int64) ([]models.VacationWindow, error)

	// EndVacation sets the end date on an open vacation window.
	// Returns models.ErrState if the window already has an end date.
	EndVacation(ctx context.Context, vacationID int64, end time.Time) error

	// CreateCategory persists a category and populates its ID.
	CreateCategory(ctx context.Context, c *models.Category) error

	// GetCategory retrieves a category by ID.
	// Returns models.ErrNotFound if it does not exist.
	GetCategory(ctx context.Context, id int64) (*models.Category, error)

	// ListCategories returns a household's categories ordered by name.
	// Hidden categories are included only when includeHidden is set.
	ListCategories(ctx context.Context, householdID int64, includeHidden bool) ([]models.Category, error)

	// HideCategory marks a category hidden so listings omit it.
	// Existing expenses keep referencing it.
	HideCategory(ctx context.Context, id int64) error

	// TransferCategory returns the household's reserved transfer
	// category, creating it on first use.
	TransferCategory(ctx context.Context, householdID int64) (*models.Category, error)

	// CreateExpense persists a pending expense and populates its ID.
	CreateExpense(ctx context.Context, e *models.Expense) error

	// GetExpense retrieves an expense by ID.
	// Returns models.ErrNotFound if it does not exist.
	GetExpense(ctx context.Context, id int64) (*models.Expense, error)

	// ListExpenses returns a household's expenses, newest first.
	ListExpenses(ctx context.Context, householdID int64) ([]models.Expense, error)

	// DeleteExpense removes an expense and its confirmation rows.
	// Who may delete is the service layer's call.
	DeleteExpense(ctx context.Context, id int64) error

	// UpdateExpenseAmount changes the amount of a pending expense.
	// Returns models.ErrState if the expense has been paid.
	UpdateExpenseAmount(ctx context.Context, id int64, amount int64) error

	// ApplyPayment transitions a pending expense to awaiting
	// confirmation (or straight to settled when the payer is the only
	// responsible member), recording the payer, the payment date, and
	// one confirmation row per responsible member. The payer's row is
	// created confirmed. The transition is atomic; a concurrent payment
	// loses with models.ErrState.
	ApplyPayment(ctx context.Context, expenseID, payerID int64, paidAt time.Time, responsible []int64) error

	// ApplyConfirmation marks a member's confirmation row and settles
	// the expense once every row is confirmed. Returns the settled
	// state, models.ErrPermission if the member has no row, or
	// models.ErrState if the row was already confirmed.
	ApplyConfirmation(ctx context.Context, expenseID, memberID int64) (settled bool, err error)

	// ApplyRepayment rewrites the payment on a paid expense: new
	// amount, payment date, and fresh confirmation rows for the given
	// responsible members with the payer's row confirmed. The previous
	// rows are discarded and the expense returns to awaiting
	// confirmation (or settles when the payer is alone).
	ApplyRepayment(ctx context.Context, expenseID, payerID, amount int64, paidAt time.Time, responsible []int64) error

	// ListConfirmations returns the confirmation rows of an expense,
	// ordered by member ID.
	ListConfirmations(ctx context.Context, expenseID int64) ([]models.Confirmation, error)

	// EligibleExpenses returns the household's balance-eligible
	// expenses: shared category, payer still active, payment recorded
	// (settled or awaiting confirmation).
	EligibleExpenses(ctx context.Context, householdID int64) ([]EligibleExpense, error)

	// PeriodTotals sums paid expenses per member for one calendar
	// month, excluding transfers.
	PeriodTotals(ctx context.Context, householdID int64, year int, month time.Month) ([]PeriodTotal, error)

	// Close releases any resources held by the store.
	Close() error
}
