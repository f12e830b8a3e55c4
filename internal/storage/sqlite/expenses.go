package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"paguen/internal/models"
	"paguen/internal/storage"
)

// CreateExpense inserts a pending expense and populates its ID.
func (s *SQLiteStore) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	if e.State == "" {
		e.State = models.ExpensePending
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO expenses (household_id, category_id, description, amount, state, payer_id, paid_at, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		e.HouseholdID, e.CategoryID, e.Description, e.Amount, e.State, e.PayerID, fmtDatePtr(e.PaidAt), e.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create expense: %w", err)
	}

	e.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get expense ID: %w", err)
	}
	return nil
}

// GetExpense retrieves an expense by ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	e := &models.Expense{}
	var paidAt sql.NullString
	var payerID sql.NullInt64
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, household_id, category_id, description, amount, state, payer_id, paid_at, created_at FROM expenses WHERE id = ?",
		id,
	).Scan(&e.ID, &e.HouseholdID, &e.CategoryID, &e.Description, &e.Amount, &e.State, &payerID, &paidAt, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("expense %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	if payerID.Valid {
		e.PayerID = &payerID.Int64
	}
	if e.PaidAt, err = parseDatePtr(paidAt); err != nil {
		return nil, err
	}
	e.CreatedAt = time.Unix(createdAt, 0)
	return e, nil
}

// ListExpenses returns a household's expenses, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, householdID int64) ([]models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, household_id, category_id, description, amount, state, payer_id, paid_at, created_at FROM expenses WHERE household_id = ? ORDER BY id DESC",
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var paidAt sql.NullString
		var payerID sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&e.ID, &e.HouseholdID, &e.CategoryID, &e.Description, &e.Amount, &e.State, &payerID, &paidAt, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if payerID.Valid {
			e.PayerID = &payerID.Int64
		}
		if e.PaidAt, err = parseDatePtr(paidAt); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

// DeleteExpense removes an expense; its confirmation rows cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check expense delete: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// UpdateExpenseAmount changes the amount of a pending expense.
func (s *SQLiteStore) UpdateExpenseAmount(ctx context.Context, id int64, amount int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE expenses SET amount = ? WHERE id = ? AND state = ?",
		amount, id, models.ExpensePending,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense amount: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check expense update: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetExpense(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("expense %d is not pending: %w", id, models.ErrState)
	}
	return nil
}

// ApplyPayment transitions a pending expense to awaiting confirmation
// and records one confirmation row per responsible member. The state
// check and the update happen in one statement, so only one of two
// concurrent payments can win.
func (s *SQLiteStore) ApplyPayment(ctx context.Context, expenseID, payerID int64, paidAt time.Time, responsible []int64) error {
	state := models.ExpenseAwaitingConfirmation
	if len(responsible) == 1 {
		// The payer confirming their own row would settle immediately,
		// so skip the round trip.
		state = models.ExpenseSettled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET state = ?, payer_id = ?, paid_at = ? WHERE id = ? AND state = ?",
		state, payerID, fmtDate(paidAt), expenseID, models.ExpensePending,
	)
	if err != nil {
		return fmt.Errorf("failed to record payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check payment update: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetExpense(ctx, expenseID); err != nil {
			return err
		}
		return fmt.Errorf("expense %d is not pending: %w", expenseID, models.ErrState)
	}

	if err := insertConfirmations(ctx, tx, expenseID, payerID, responsible); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ApplyConfirmation marks a member's confirmation row and settles the
// expense once every row is confirmed. Concurrent confirmations are
// safe: each flips its own row, and the settle update is a no-op for
// all but the last one.
func (s *SQLiteStore) ApplyConfirmation(ctx context.Context, expenseID, memberID int64) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE confirmations SET confirmed = 1 WHERE expense_id = ? AND member_id = ? AND confirmed = 0",
		expenseID, memberID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to confirm expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to check confirmation update: %w", err)
	}
	if affected == 0 {
		var confirmed bool
		err := tx.QueryRowContext(ctx,
			"SELECT confirmed FROM confirmations WHERE expense_id = ? AND member_id = ?",
			expenseID, memberID,
		).Scan(&confirmed)
		if errors.Is(err, sql.ErrNoRows) {
			// No row can mean a stranger confirming an awaiting
			// expense, or an expense that is not awaiting at all.
			var state models.ExpenseState
			err := tx.QueryRowContext(ctx,
				"SELECT state FROM expenses WHERE id = ?", expenseID,
			).Scan(&state)
			if errors.Is(err, sql.ErrNoRows) {
				return false, fmt.Errorf("expense %d: %w", expenseID, models.ErrNotFound)
			}
			if err != nil {
				return false, fmt.Errorf("failed to check expense state: %w", err)
			}
			if state != models.ExpenseAwaitingConfirmation {
				return false, fmt.Errorf("expense %d is not awaiting confirmation: %w", expenseID, models.ErrState)
			}
			return false, fmt.Errorf("member %d is not responsible for expense %d: %w", memberID, expenseID, models.ErrPermission)
		}
		if err != nil {
			return false, fmt.Errorf("failed to check confirmation: %w", err)
		}
		return false, fmt.Errorf("expense %d already confirmed by member %d: %w", expenseID, memberID, models.ErrState)
	}

	var remaining int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM confirmations WHERE expense_id = ? AND confirmed = 0",
		expenseID,
	).Scan(&remaining)
	if err != nil {
		return false, fmt.Errorf("failed to count confirmations: %w", err)
	}

	settled := remaining == 0
	if settled {
		_, err = tx.ExecContext(ctx,
			"UPDATE expenses SET state = ? WHERE id = ? AND state = ?",
			models.ExpenseSettled, expenseID, models.ExpenseAwaitingConfirmation,
		)
		if err != nil {
			return false, fmt.Errorf("failed to settle expense: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return settled, nil
}

// ApplyRepayment rewrites the payment on a paid expense: new amount,
// payer, payment date, and fresh confirmation rows. The previous rows
// are discarded and everyone except the payer has to acknowledge again.
func (s *SQLiteStore) ApplyRepayment(ctx context.Context, expenseID, payerID, amount int64, paidAt time.Time, responsible []int64) error {
	state := models.ExpenseAwaitingConfirmation
	if len(responsible) == 1 {
		state = models.ExpenseSettled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE expenses SET state = ?, payer_id = ?, amount = ?, paid_at = ? WHERE id = ? AND state != ?",
		state, payerID, amount, fmtDate(paidAt), expenseID, models.ExpensePending,
	)
	if err != nil {
		return fmt.Errorf("failed to rewrite payment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check payment update: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetExpense(ctx, expenseID); err != nil {
			return err
		}
		return fmt.Errorf("expense %d has no payment to rewrite: %w", expenseID, models.ErrState)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM confirmations WHERE expense_id = ?", expenseID); err != nil {
		return fmt.Errorf("failed to reset confirmations: %w", err)
	}
	if err := insertConfirmations(ctx, tx, expenseID, payerID, responsible); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListConfirmations returns the confirmation rows of an expense,
// ordered by member ID.
func (s *SQLiteStore) ListConfirmations(ctx context.Context, expenseID int64) ([]models.Confirmation, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, expense_id, member_id, confirmed FROM confirmations WHERE expense_id = ? ORDER BY member_id",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}
	defer rows.Close()

	var confirmations []models.Confirmation
	for rows.Next() {
		var c models.Confirmation
		if err := rows.Scan(&c.ID, &c.ExpenseID, &c.MemberID, &c.Confirmed); err != nil {
			return nil, fmt.Errorf("failed to scan confirmation: %w", err)
		}
		confirmations = append(confirmations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate confirmations: %w", err)
	}
	return confirmations, nil
}

// EligibleExpenses returns the expenses that feed the balance
// computation: shared category, payment recorded, payer still in the
// household. Non-shared categories stay on the payer and never enter
// the balance.
func (s *SQLiteStore) EligibleExpenses(ctx context.Context, householdID int64) ([]storage.EligibleExpense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.amount, e.payer_id, e.paid_at, c.shared_on_leave
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		JOIN members p ON p.id = e.payer_id
		WHERE e.household_id = ?
		  AND e.state != ?
		  AND c.shared = 1
		  AND p.left_on IS NULL
		ORDER BY e.id`,
		householdID, models.ExpensePending,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list eligible expenses: %w", err)
	}
	defer rows.Close()

	var expenses []storage.EligibleExpense
	for rows.Next() {
		var e storage.EligibleExpense
		var paidAt string
		if err := rows.Scan(&e.ID, &e.Amount, &e.PayerID, &paidAt, &e.SharedOnLeave); err != nil {
			return nil, fmt.Errorf("failed to scan eligible expense: %w", err)
		}
		if e.PaidAt, err = parseDate(paidAt); err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate eligible expenses: %w", err)
	}
	return expenses, nil
}

func insertConfirmations(ctx context.Context, tx *sql.Tx, expenseID, payerID int64, responsible []int64) error {
	for _, memberID := range responsible {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO confirmations (expense_id, member_id, confirmed) VALUES (?, ?, ?)",
			expenseID, memberID, memberID == payerID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert confirmation: %w", err)
		}
	}
	return nil
}
