package sqlite

import (
	"context"
	"fmt"
	"time"

	"paguen/internal/models"
	"paguen/internal/storage"
)

// PeriodTotals sums paid expenses per member for one calendar month.
// Transfers move money between members without being spending, so the
// transfer category is excluded.
func (s *SQLiteStore) PeriodTotals(ctx context.Context, householdID int64, year int, month time.Month) ([]storage.PeriodTotal, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.payer_id, SUM(e.amount)
		FROM expenses e
		JOIN categories c ON c.id = e.category_id
		WHERE e.household_id = ?
		  AND e.state != ?
		  AND c.is_transfer = 0
		  AND e.paid_at >= ? AND e.paid_at < ?
		GROUP BY e.payer_id
		ORDER BY e.payer_id`,
		householdID, models.ExpensePending, fmtDate(start), fmtDate(end),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to compute period totals: %w", err)
	}
	defer rows.Close()

	var totals []storage.PeriodTotal
	for rows.Next() {
		var t storage.PeriodTotal
		if err := rows.Scan(&t.MemberID, &t.Total); err != nil {
			return nil, fmt.Errorf("failed to scan period total: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate period totals: %w", err)
	}
	return totals, nil
}
