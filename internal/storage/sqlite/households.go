package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"paguen/internal/models"
)

// CreateHousehold inserts a new household and populates its ID.
func (s *SQLiteStore) CreateHousehold(ctx context.Context, h *models.Household) error {
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO households (name, address, created_at) VALUES (?, ?, ?)",
		h.Name, h.Address, h.CreatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to create household: %w", err)
	}

	h.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get household ID: %w", err)
	}
	return nil
}

// GetHousehold retrieves a household by ID.
func (s *SQLiteStore) GetHousehold(ctx context.Context, id int64) (*models.Household, error) {
	h := &models.Household{}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, address, created_at FROM households WHERE id = ?",
		id,
	).Scan(&h.ID, &h.Name, &h.Address, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("household %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get household: %w", err)
	}
	h.CreatedAt = time.Unix(createdAt, 0)
	return h, nil
}

// ListHouseholds returns all households, ordered by ID.
func (s *SQLiteStore) ListHouseholds(ctx context.Context) ([]models.Household, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, address, created_at FROM households ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list households: %w", err)
	}
	defer rows.Close()

	var households []models.Household
	for rows.Next() {
		var h models.Household
		var createdAt int64
		if err := rows.Scan(&h.ID, &h.Name, &h.Address, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan household: %w", err)
		}
		h.CreatedAt = time.Unix(createdAt, 0)
		households = append(households, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate households: %w", err)
	}
	return households, nil
}
