package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"paguen/internal/models"
)

// CreateVacation inserts a vacation window and populates its ID.
func (s *SQLiteStore) CreateVacation(ctx context.Context, v *models.VacationWindow) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO vacations (member_id, start_on, end_on) VALUES (?, ?, ?)",
		v.MemberID, fmtDate(v.Start), fmtDatePtr(v.End),
	)
	if err != nil {
		return fmt.Errorf("failed to create vacation: %w", err)
	}

	v.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get vacation ID: %w", err)
	}
	return nil
}

// ListVacations returns the vacation windows of a member, ordered by start date.
func (s *SQLiteStore) ListVacations(ctx context.Context, memberID int64) ([]models.VacationWindow, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, member_id, start_on, end_on FROM vacations WHERE member_id = ? ORDER BY start_on",
		memberID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list vacations: %w", err)
	}
	defer rows.Close()
	return scanVacations(rows)
}

// ListHouseholdVacations returns every vacation window declared by
// members of a household.
func (s *SQLiteStore) ListHouseholdVacations(ctx context.Context, householdID int64) ([]models.VacationWindow, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT v.id, v.member_id, v.start_on, v.end_on
		FROM vacations v
		JOIN members m ON m.id = v.member_id
		WHERE m.household_id = ?
		ORDER BY v.start_on`,
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list household vacations: %w", err)
	}
	defer rows.Close()
	return scanVacations(rows)
}

// EndVacation sets the end date on an open vacation window.
func (s *SQLiteStore) EndVacation(ctx context.Context, vacationID int64, end time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE vacations SET end_on = ? WHERE id = ? AND end_on IS NULL",
		fmtDate(end), vacationID,
	)
	if err != nil {
		return fmt.Errorf("failed to end vacation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check vacation update: %w", err)
	}
	if affected == 0 {
		var exists int
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM vacations WHERE id = ?", vacationID).Scan(&exists)
		if err != nil {
			return fmt.Errorf("vacation %d: %w", vacationID, models.ErrNotFound)
		}
		return fmt.Errorf("vacation %d already ended: %w", vacationID, models.ErrState)
	}
	return nil
}

func scanVacations(rows *sql.Rows) ([]models.VacationWindow, error) {
	var vacations []models.VacationWindow
	for rows.Next() {
		var v models.VacationWindow
		var start string
		var end sql.NullString
		if err := rows.Scan(&v.ID, &v.MemberID, &start, &end); err != nil {
			return nil, fmt.Errorf("failed to scan vacation: %w", err)
		}
		var err error
		if v.Start, err = parseDate(start); err != nil {
			return nil, err
		}
		if v.End, err = parseDatePtr(end); err != nil {
			return nil, err
		}
		vacations = append(vacations, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate vacations: %w", err)
	}
	return vacations, nil
}
