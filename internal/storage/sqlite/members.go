package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"paguen/internal/models"
)

// AddMember inserts a new membership row and populates its ID.
func (s *SQLiteStore) AddMember(ctx context.Context, m *models.Member) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO members (household_id, user_id, name, joined, left_on) VALUES (?, ?, ?, ?, ?)",
		m.HouseholdID, m.UserID, m.Name, fmtDate(m.Joined), fmtDatePtr(m.Left),
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	m.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get member ID: %w", err)
	}
	return nil
}

// GetMember retrieves a membership row by ID.
func (s *SQLiteStore) GetMember(ctx context.Context, id int64) (*models.Member, error) {
	m := &models.Member{}
	var joined string
	var left sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT id, household_id, user_id, name, joined, left_on FROM members WHERE id = ?",
		id,
	).Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.Name, &joined, &left)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}

	if m.Joined, err = parseDate(joined); err != nil {
		return nil, err
	}
	if m.Left, err = parseDatePtr(left); err != nil {
		return nil, err
	}
	return m, nil
}

// ListMembers returns every membership row of a household, ordered by ID.
func (s *SQLiteStore) ListMembers(ctx context.Context, householdID int64) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, household_id, user_id, name, joined, left_on FROM members WHERE household_id = ? ORDER BY id",
		householdID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		var joined string
		var left sql.NullString
		if err := rows.Scan(&m.ID, &m.HouseholdID, &m.UserID, &m.Name, &joined, &left); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		if m.Joined, err = parseDate(joined); err != nil {
			return nil, err
		}
		if m.Left, err = parseDatePtr(left); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}

// CloseMembership sets the leave date on an open membership.
func (s *SQLiteStore) CloseMembership(ctx context.Context, memberID int64, left time.Time) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE members SET left_on = ? WHERE id = ? AND left_on IS NULL",
		fmtDate(left), memberID,
	)
	if err != nil {
		return fmt.Errorf("failed to close membership: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check membership update: %w", err)
	}
	if affected == 0 {
		if _, err := s.GetMember(ctx, memberID); err != nil {
			return err
		}
		return fmt.Errorf("member %d already left: %w", memberID, models.ErrState)
	}
	return nil
}
