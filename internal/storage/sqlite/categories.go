package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"paguen/internal/models"
)

// CreateCategory inserts a category and populates its ID.
func (s *SQLiteStore) CreateCategory(ctx context.Context, c *models.Category) error {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO categories (household_id, name, shared, shared_on_leave, is_transfer, hidden) VALUES (?, ?, ?, ?, ?, ?)",
		c.HouseholdID, c.Name, c.Shared, c.SharedOnLeave, c.Transfer, c.Hidden,
	)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}

	c.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get category ID: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, household_id, name, shared, shared_on_leave, is_transfer, hidden FROM categories WHERE id = ?",
		id,
	).Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Shared, &c.SharedOnLeave, &c.Transfer, &c.Hidden)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListCategories returns a household's categories ordered by name.
func (s *SQLiteStore) ListCategories(ctx context.Context, householdID int64, includeHidden bool) ([]models.Category, error) {
	query := "SELECT id, household_id, name, shared, shared_on_leave, is_transfer, hidden FROM categories WHERE household_id = ?"
	if !includeHidden {
		query += " AND hidden = 0"
	}
	query += " ORDER BY name"

	rows, err := s.db.QueryContext(ctx, query, householdID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Shared, &c.SharedOnLeave, &c.Transfer, &c.Hidden); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// HideCategory marks a category hidden so listings omit it.
func (s *SQLiteStore) HideCategory(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "UPDATE categories SET hidden = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to hide category: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check category update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	return nil
}

// TransferCategory returns the household's reserved transfer category,
// creating it on first use. The category stays shared so transfer
// expenses flow through the balance computation, and hidden so it does
// not show up when recording ordinary expenses.
func (s *SQLiteStore) TransferCategory(ctx context.Context, householdID int64) (*models.Category, error) {
	c := &models.Category{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, household_id, name, shared, shared_on_leave, is_transfer, hidden FROM categories WHERE household_id = ? AND is_transfer = 1",
		householdID,
	).Scan(&c.ID, &c.HouseholdID, &c.Name, &c.Shared, &c.SharedOnLeave, &c.Transfer, &c.Hidden)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to get transfer category: %w", err)
	}

	c = &models.Category{
		HouseholdID:   householdID,
		Name:          models.TransferCategoryName,
		Shared:        true,
		SharedOnLeave: true,
		Transfer:      true,
		Hidden:        true,
	}
	if err := s.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
